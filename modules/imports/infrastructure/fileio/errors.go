package fileio

import "github.com/ventia/salesadmin/pkg/serrors"

var (
	// ErrUnsupportedFileType: the upload's extension matches neither the
	// delimited-text nor the spreadsheet branch.
	ErrUnsupportedFileType = serrors.NewError(
		"UNSUPPORTED_FILE_TYPE",
		"file type is not supported for import",
		"Imports.Errors.UnsupportedFileType",
	)
	// ErrNoWorksheets: the workbook contains zero sheets.
	ErrNoWorksheets = serrors.NewError(
		"NO_WORKSHEETS",
		"workbook contains no worksheets",
		"Imports.Errors.NoWorksheets",
	)
	// ErrUndeterminedDelimiter: neither comma nor semicolon splits the
	// sampled lines consistently. The wizard step aborts rather than guess.
	ErrUndeterminedDelimiter = serrors.NewError(
		"UNDETERMINED_DELIMITER",
		"could not determine the field delimiter",
		"Imports.Errors.UndeterminedDelimiter",
	)
	ErrMissingHeader = serrors.NewError(
		"MISSING_HEADER",
		"file has no header line",
		"Imports.Errors.MissingHeader",
	)
)
