package session

import (
	"time"

	"github.com/google/uuid"
)

// Status is the wizard lifecycle of one import attempt. It only ever moves
// forward: preview -> mapping -> completed | failed. A completed session may
// additionally be marked reversed by undo; nothing moves a session backward.
type Status string

const (
	StatusPreview   Status = "preview"
	StatusMapping   Status = "mapping"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReversed  Status = "reversed"
)

// FileKind distinguishes the two ingestion branches of the file reader.
type FileKind string

const (
	FileDelimited   FileKind = "delimited"
	FileSpreadsheet FileKind = "spreadsheet"
)

// Row is one parsed source row: column name to raw cell value, every column
// of the header present even when the cell was empty.
type Row = map[string]string

// RowError is a row-level validation or persistence failure. Row numbers are
// 1-based over data rows (the header is row 0).
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Session is the stateful record of one import attempt: the unit of
// idempotency and of undo. Raw rows stay attached for as long as the session
// exists so confirm can be replayed after a mapping edit without re-upload.
type Session struct {
	id          uuid.UUID
	fileName    string
	fileKind    FileKind
	actorID     uuid.UUID
	templateID  string
	status      Status
	header      []string
	rows        []Row
	mapping     map[string]string
	resolutions map[string]Resolution

	totalRows     int
	processedRows int
	failedRows    int
	rowErrors     []RowError

	createdAt   time.Time
	completedAt *time.Time
}

func New(fileName string, kind FileKind, actorID uuid.UUID, templateID string, header []string, rows []Row) *Session {
	return &Session{
		id:          uuid.New(),
		fileName:    fileName,
		fileKind:    kind,
		actorID:     actorID,
		templateID:  templateID,
		status:      StatusPreview,
		header:      header,
		rows:        rows,
		resolutions: map[string]Resolution{},
		totalRows:   len(rows),
		createdAt:   time.Now().UTC(),
	}
}

func Hydrate(
	id uuid.UUID,
	fileName string,
	kind FileKind,
	actorID uuid.UUID,
	templateID string,
	status Status,
	header []string,
	rows []Row,
	mapping map[string]string,
	resolutions map[string]Resolution,
	totalRows, processedRows, failedRows int,
	rowErrors []RowError,
	createdAt time.Time,
	completedAt *time.Time,
) *Session {
	if resolutions == nil {
		resolutions = map[string]Resolution{}
	}
	return &Session{
		id:            id,
		fileName:      fileName,
		fileKind:      kind,
		actorID:       actorID,
		templateID:    templateID,
		status:        status,
		header:        header,
		rows:          rows,
		mapping:       mapping,
		resolutions:   resolutions,
		totalRows:     totalRows,
		processedRows: processedRows,
		failedRows:    failedRows,
		rowErrors:     rowErrors,
		createdAt:     createdAt,
		completedAt:   completedAt,
	}
}

func (s *Session) ID() uuid.UUID                       { return s.id }
func (s *Session) FileName() string                    { return s.fileName }
func (s *Session) FileKind() FileKind                  { return s.fileKind }
func (s *Session) ActorID() uuid.UUID                  { return s.actorID }
func (s *Session) TemplateID() string                  { return s.templateID }
func (s *Session) Status() Status                      { return s.status }
func (s *Session) Header() []string                    { return s.header }
func (s *Session) Rows() []Row                         { return s.rows }
func (s *Session) Mapping() map[string]string          { return s.mapping }
func (s *Session) Resolutions() map[string]Resolution  { return s.resolutions }
func (s *Session) TotalRows() int                      { return s.totalRows }
func (s *Session) ProcessedRows() int                  { return s.processedRows }
func (s *Session) FailedRows() int                     { return s.failedRows }
func (s *Session) RowErrors() []RowError               { return s.rowErrors }
func (s *Session) CreatedAt() time.Time                { return s.createdAt }
func (s *Session) CompletedAt() *time.Time             { return s.completedAt }

// Configure records the caller-approved mapping and moves the session to
// mapping. Re-configuring while still in mapping is allowed (the wizard may
// go over the mapping screen twice); terminal sessions reject it.
func (s *Session) Configure(mapping map[string]string) error {
	switch s.status {
	case StatusPreview, StatusMapping:
	default:
		return ErrInvalidState
	}
	s.mapping = mapping
	s.status = StatusMapping
	return nil
}

// SetResolutions replaces the person-resolution set; legal only while the
// mapping is being worked on.
func (s *Session) SetResolutions(resolutions map[string]Resolution) error {
	if s.status != StatusMapping {
		return ErrInvalidState
	}
	if resolutions == nil {
		resolutions = map[string]Resolution{}
	}
	s.resolutions = resolutions
	return nil
}

// Resolve applies a human decision to one pending resolution.
func (s *Session) Resolve(key string, decision Resolution) error {
	if s.status != StatusMapping {
		return ErrInvalidState
	}
	existing, ok := s.resolutions[key]
	if !ok {
		return ErrResolutionNotFound
	}
	switch decision.Action {
	case ActionMapExisting:
		if decision.AccountID == uuid.Nil {
			return ErrResolutionNeedsAccount
		}
	case ActionCreateNew:
	default:
		return ErrResolutionInvalidAction
	}
	existing.Action = decision.Action
	existing.AccountID = decision.AccountID
	s.resolutions[key] = existing
	return nil
}

// PendingResolutions lists the keys still awaiting a human decision.
func (s *Session) PendingResolutions() []string {
	var out []string
	for key, r := range s.resolutions {
		if r.Action == ActionPending {
			out = append(out, key)
		}
	}
	return out
}

// EnsureConfirmable gates confirm: a session that never left preview has no
// mapping, terminal sessions must not be re-committed.
func (s *Session) EnsureConfirmable() error {
	switch s.status {
	case StatusPreview:
		return ErrMappingNotConfigured
	case StatusMapping:
		return nil
	default:
		return ErrInvalidState
	}
}

// Complete moves a mapping session to completed with its final counters.
func (s *Session) Complete(processed, failed int, errs []RowError) error {
	if s.status != StatusMapping {
		return ErrInvalidState
	}
	if processed+failed > s.totalRows {
		return ErrCountsExceedTotal
	}
	s.status = StatusCompleted
	s.processedRows = processed
	s.failedRows = failed
	s.rowErrors = errs
	now := time.Now().UTC()
	s.completedAt = &now
	return nil
}

// Fail terminates the session after a systemic commit failure. Row errors
// collected before the failure are kept for inspection; one row may carry
// several of them, so failed rows are counted distinct.
func (s *Session) Fail(errs []RowError) error {
	if s.status != StatusMapping {
		return ErrInvalidState
	}
	failed := distinctRows(errs)
	if failed > s.totalRows {
		return ErrCountsExceedTotal
	}
	s.status = StatusFailed
	s.processedRows = 0
	s.failedRows = failed
	s.rowErrors = errs
	now := time.Now().UTC()
	s.completedAt = &now
	return nil
}

func distinctRows(errs []RowError) int {
	seen := make(map[int]struct{}, len(errs))
	for _, e := range errs {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}

// MarkReversed records a successful undo. Calling it again is a no-op so
// undo stays idempotent; any other starting state is an error the caller
// surfaces to the user.
func (s *Session) MarkReversed() error {
	switch s.status {
	case StatusCompleted:
		s.status = StatusReversed
		return nil
	case StatusReversed:
		return nil
	default:
		return ErrInvalidState
	}
}
