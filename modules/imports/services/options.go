package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
)

// DateFormat is the caller-declared layout for date cells. It is never
// auto-detected: guessing between day-first and month-first silently swaps
// days and months for the first twelve days of every month.
type DateFormat string

const (
	DateMonthFirst DateFormat = "MM/DD/YYYY"
	DateDayFirst   DateFormat = "DD/MM/YYYY"
)

func (f DateFormat) layout() (string, bool) {
	switch f {
	case DateMonthFirst:
		return "01/02/2006", true
	case DateDayFirst:
		return "02/01/2006", true
	default:
		return "", false
	}
}

func (f DateFormat) Parse(v string) (time.Time, error) {
	layout, ok := f.layout()
	if !ok {
		return time.Time{}, ErrInvalidDateFormat
	}
	return time.ParseInLocation(layout, v, time.UTC)
}

// ConfirmOptions are the knobs of one confirm pass.
type ConfirmOptions struct {
	DateFormat DateFormat
	// Strict demands all-or-nothing: any row failure rolls back the whole
	// batch and the session ends failed.
	Strict bool
	// AutoCreateGroups and AutoCreateSalesPoints allow the validator to
	// create placeholder referenced entities instead of failing the row.
	AutoCreateGroups      bool
	AutoCreateSalesPoints bool
}

// UploadDTO is the first wizard step's input.
type UploadDTO struct {
	FileName   string
	Data       []byte
	TemplateID string
}

// Preview is what the wizard shows after upload: enough to pick or fix the
// column mapping.
type Preview struct {
	UploadID         uuid.UUID           `json:"upload_id"`
	Columns          []string            `json:"columns"`
	SampleRows       []session.Row       `json:"sample_rows"`
	TotalRows        int                 `json:"total_rows"`
	SuggestedMapping map[string]string   `json:"suggested_mapping"`
	UnmappedRequired []string            `json:"unmapped_required,omitempty"`
	Pending          []PendingResolution `json:"pending,omitempty"`
}

// PendingResolution surfaces an ambiguous person reference to the wizard.
type PendingResolution struct {
	Key        string              `json:"key"`
	SourceName string              `json:"source_name"`
	Candidates []session.Candidate `json:"candidates"`
}

// Summary reports the outcome of a confirm pass.
type Summary struct {
	UploadID          uuid.UUID          `json:"upload_id"`
	Status            session.Status     `json:"status"`
	TotalRows         int                `json:"total_rows"`
	ProcessedRows     int                `json:"processed_rows"`
	FailedRows        int                `json:"failed_rows"`
	Errors            []session.RowError `json:"errors,omitempty"`
	CreatedContracts  []uuid.UUID        `json:"created_contracts,omitempty"`
	CreatedAccounts   []uuid.UUID        `json:"created_accounts,omitempty"`
	CreatedMatriculas []uuid.UUID        `json:"created_matriculas,omitempty"`
	// CreatedGroups and CreatedPVs name entities auto-created as side
	// effects, for caller visibility.
	CreatedGroups []string `json:"created_groups,omitempty"`
	CreatedPVs    []string `json:"created_pvs,omitempty"`
}
