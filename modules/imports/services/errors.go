package services

import (
	"fmt"
	"strings"

	"github.com/ventia/salesadmin/pkg/serrors"
)

var ErrInvalidDateFormat = serrors.NewError(
	"INVALID_DATE_FORMAT",
	"date format must be MM/DD/YYYY or DD/MM/YYYY",
	"Imports.Errors.InvalidDateFormat",
)

const CodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"

// NewMissingRequiredFieldsError rejects a mapping that leaves required
// template fields without a source column.
func NewMissingRequiredFieldsError(fields []string) *serrors.BaseError {
	return serrors.NewError(
		CodeMissingRequiredFields,
		fmt.Sprintf("required fields have no mapped column: %s", strings.Join(fields, ", ")),
		"Imports.Errors.MissingRequiredFields",
	)
}

// Row-level error codes accumulated during validation and commit.
const (
	rowCodeMissingRequired = "missing_required"
	rowCodeBadDecimal      = "bad_decimal"
	rowCodeNonPositive     = "non_positive_amount"
	rowCodeBadDate         = "bad_date"
	rowCodeBadInteger      = "bad_integer"
	rowCodeBadFlag         = "bad_flag"
	rowCodeRefNotFound     = "ref_not_found"
	rowCodeDuplicate       = "duplicate_contract"
	rowCodePersistFailed   = "persist_failed"
)
