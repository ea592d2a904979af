package session

import "github.com/google/uuid"

// ResolutionAction is the state of one ambiguous-person decision.
type ResolutionAction string

const (
	ActionPending     ResolutionAction = "pending"
	ActionMapExisting ResolutionAction = "map_existing"
	ActionCreateNew   ResolutionAction = "create_new"
)

// Candidate is one existing account a source name could refer to, shown to
// the human making the call.
type Candidate struct {
	AccountID uuid.UUID `json:"account_id"`
	FullName  string    `json:"full_name"`
}

// Resolution tracks how one distinct source name maps onto accounts. Keyed
// by the folded name, so every row mentioning the same person shares one
// decision.
type Resolution struct {
	SourceName string           `json:"source_name"`
	Action     ResolutionAction `json:"action"`
	AccountID  uuid.UUID        `json:"account_id,omitempty"`
	Candidates []Candidate      `json:"candidates,omitempty"`
}
