package session

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestSession() *Session {
	rows := []Row{
		{"number": "C-1", "amount": "100"},
		{"number": "C-2", "amount": "200"},
		{"number": "C-3", "amount": "x"},
	}
	return New("contracts.csv", FileDelimited, uuid.New(), "contracts", []string{"number", "amount"}, rows)
}

func TestSession_HappyPath(t *testing.T) {
	s := newTestSession()
	if s.Status() != StatusPreview {
		t.Fatalf("status = %s, want preview", s.Status())
	}
	if s.TotalRows() != 3 {
		t.Fatalf("total = %d, want 3", s.TotalRows())
	}

	if err := s.EnsureConfirmable(); !errors.Is(err, ErrMappingNotConfigured) {
		t.Fatalf("confirm before mapping: err = %v, want ErrMappingNotConfigured", err)
	}

	if err := s.Configure(map[string]string{"number": "number", "amount": "amount"}); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusMapping {
		t.Fatalf("status = %s, want mapping", s.Status())
	}
	if err := s.EnsureConfirmable(); err != nil {
		t.Fatal(err)
	}

	errs := []RowError{{Row: 3, Field: "amount", Code: "bad_decimal", Reason: "x"}}
	if err := s.Complete(2, 1, errs); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusCompleted || s.ProcessedRows() != 2 || s.FailedRows() != 1 {
		t.Fatalf("completed state wrong: %s %d/%d", s.Status(), s.ProcessedRows(), s.FailedRows())
	}
	if s.CompletedAt() == nil {
		t.Fatal("completedAt not set")
	}
}

func TestSession_ReconfigureWhileMapping(t *testing.T) {
	s := newTestSession()
	if err := s.Configure(map[string]string{"number": "number"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Configure(map[string]string{"number": "number", "amount": "amount"}); err != nil {
		t.Fatalf("re-configure in mapping: %v", err)
	}
}

func TestSession_TerminalStatesRejectTransitions(t *testing.T) {
	s := newTestSession()
	_ = s.Configure(map[string]string{"number": "number"})
	_ = s.Complete(3, 0, nil)

	if err := s.Configure(map[string]string{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("configure after complete: %v", err)
	}
	if err := s.EnsureConfirmable(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("confirm after complete: %v", err)
	}
	if err := s.Complete(1, 0, nil); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double complete: %v", err)
	}
}

func TestSession_CountsInvariant(t *testing.T) {
	s := newTestSession()
	_ = s.Configure(map[string]string{"number": "number"})
	if err := s.Complete(3, 1, nil); !errors.Is(err, ErrCountsExceedTotal) {
		t.Fatalf("err = %v, want ErrCountsExceedTotal", err)
	}
}

func TestSession_FailCountsDistinctRows(t *testing.T) {
	s := newTestSession()
	_ = s.Configure(map[string]string{"number": "number"})
	errs := []RowError{
		{Row: 1, Field: "number", Code: "missing_required"},
		{Row: 1, Field: "amount", Code: "missing_required"},
		{Row: 2, Field: "amount", Code: "bad_decimal"},
	}
	if err := s.Fail(errs); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusFailed || s.FailedRows() != 2 || s.ProcessedRows() != 0 {
		t.Fatalf("failed state wrong: %s %d/%d", s.Status(), s.ProcessedRows(), s.FailedRows())
	}
}

func TestSession_MarkReversed(t *testing.T) {
	s := newTestSession()

	if err := s.MarkReversed(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reverse from preview: %v", err)
	}

	_ = s.Configure(map[string]string{"number": "number"})
	_ = s.Complete(3, 0, nil)

	if err := s.MarkReversed(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusReversed {
		t.Fatalf("status = %s, want reversed", s.Status())
	}
	// second undo is a no-op
	if err := s.MarkReversed(); err != nil {
		t.Fatal(err)
	}
}

func TestSession_Resolve(t *testing.T) {
	s := newTestSession()
	_ = s.Configure(map[string]string{"number": "number"})

	accountID := uuid.New()
	if err := s.SetResolutions(map[string]Resolution{
		"jose perez": {SourceName: "José Pérez", Action: ActionPending, Candidates: []Candidate{
			{AccountID: accountID, FullName: "Jose Perez"},
		}},
	}); err != nil {
		t.Fatal(err)
	}
	if got := s.PendingResolutions(); len(got) != 1 {
		t.Fatalf("pending = %v, want one", got)
	}

	if err := s.Resolve("nobody", Resolution{Action: ActionCreateNew}); !errors.Is(err, ErrResolutionNotFound) {
		t.Fatalf("unknown key: %v", err)
	}
	if err := s.Resolve("jose perez", Resolution{Action: ActionMapExisting}); !errors.Is(err, ErrResolutionNeedsAccount) {
		t.Fatalf("map_existing without account: %v", err)
	}
	if err := s.Resolve("jose perez", Resolution{Action: "invent"}); !errors.Is(err, ErrResolutionInvalidAction) {
		t.Fatalf("invalid action: %v", err)
	}

	if err := s.Resolve("jose perez", Resolution{Action: ActionMapExisting, AccountID: accountID}); err != nil {
		t.Fatal(err)
	}
	if got := s.PendingResolutions(); len(got) != 0 {
		t.Fatalf("pending = %v, want none", got)
	}
	if got := s.Resolutions()["jose perez"]; got.AccountID != accountID {
		t.Fatalf("resolution account = %s, want %s", got.AccountID, accountID)
	}
}
