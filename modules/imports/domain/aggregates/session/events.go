package session

import "github.com/google/uuid"

// CompletedEvent fires after a confirm pass commits, partial failures
// included.
type CompletedEvent struct {
	UploadID      uuid.UUID
	ActorID       uuid.UUID
	ProcessedRows int
	FailedRows    int
}

// FailedEvent fires when a confirm pass ends the session in failed.
type FailedEvent struct {
	UploadID uuid.UUID
	ActorID  uuid.UUID
	Reason   string
}

// RevertedEvent fires after undo removed everything the session created.
type RevertedEvent struct {
	UploadID uuid.UUID
	ActorID  uuid.UUID
}
