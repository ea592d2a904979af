package session

import (
	gerrors "github.com/go-faster/errors"

	"github.com/ventia/salesadmin/pkg/serrors"
)

var (
	ErrNotFound = gerrors.New("import session not found")

	// ErrMappingNotConfigured: confirm was attempted on a session that never
	// left preview.
	ErrMappingNotConfigured = serrors.NewError(
		"MAPPING_NOT_CONFIGURED",
		"column mapping has not been configured for this session",
		"Imports.Errors.MappingNotConfigured",
	)
	// ErrInvalidState covers every other out-of-order transition, including
	// confirm on a terminal session and undo on anything but completed.
	ErrInvalidState = serrors.NewError(
		"INVALID_SESSION_STATE",
		"operation is not allowed in the session's current state",
		"Imports.Errors.InvalidSessionState",
	)
	ErrPendingResolutions = serrors.NewError(
		"PENDING_RESOLUTIONS",
		"ambiguous person references are still awaiting a decision",
		"Imports.Errors.PendingResolutions",
	)
	ErrCountsExceedTotal = serrors.NewError(
		"COUNTS_EXCEED_TOTAL",
		"processed and failed row counts exceed the session's total",
		"Imports.Errors.CountsExceedTotal",
	)

	ErrResolutionNotFound      = gerrors.New("no resolution recorded for that name")
	ErrResolutionNeedsAccount  = gerrors.New("map-to-existing requires an account id")
	ErrResolutionInvalidAction = gerrors.New("resolution action must be map_existing or create_new")
)
