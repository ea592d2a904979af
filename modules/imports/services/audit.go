package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/pkg/composables"
	"github.com/ventia/salesadmin/pkg/eventbus"
)

// AuditEntry records one import lifecycle action for traceability.
type AuditEntry struct {
	SessionID uuid.UUID
	ActorID   uuid.UUID
	Action    string
	Details   map[string]any
	At        time.Time
}

// AuditRecorder persists audit entries. Recording failures are logged and
// swallowed by the service: auditing must never fail the operation it
// describes.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// LogAuditRecorder writes audit entries as structured log lines.
type LogAuditRecorder struct{}

func NewLogAuditRecorder() *LogAuditRecorder { return &LogAuditRecorder{} }

// SubscribeAudit mirrors session lifecycle events into the audit trail, so
// any publisher of these events leaves the same record as the service's own
// call path.
func SubscribeAudit(bus eventbus.EventBus, rec AuditRecorder) {
	bus.Subscribe(func(ev session.CompletedEvent) {
		_ = rec.Record(context.Background(), AuditEntry{
			SessionID: ev.UploadID,
			ActorID:   ev.ActorID,
			Action:    "import_completed",
			Details:   map[string]any{"processed": ev.ProcessedRows, "failed": ev.FailedRows},
			At:        time.Now().UTC(),
		})
	})
	bus.Subscribe(func(ev session.FailedEvent) {
		_ = rec.Record(context.Background(), AuditEntry{
			SessionID: ev.UploadID,
			ActorID:   ev.ActorID,
			Action:    "import_failed",
			Details:   map[string]any{"reason": ev.Reason},
			At:        time.Now().UTC(),
		})
	})
	bus.Subscribe(func(ev session.RevertedEvent) {
		_ = rec.Record(context.Background(), AuditEntry{
			SessionID: ev.UploadID,
			ActorID:   ev.ActorID,
			Action:    "import_reverted",
			At:        time.Now().UTC(),
		})
	})
}

func (r *LogAuditRecorder) Record(ctx context.Context, entry AuditEntry) error {
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"audit":      true,
		"session_id": entry.SessionID,
		"actor_id":   entry.ActorID,
		"action":     entry.Action,
		"details":    entry.Details,
		"at":         entry.At.Format(time.RFC3339),
	}).Info("import audit")
	return nil
}
