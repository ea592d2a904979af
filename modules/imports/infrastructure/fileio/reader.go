// Package fileio turns uploaded import files into uniform row maps. Both
// branches guarantee the same shape: an ordered header plus one map per data
// row in which every header column is present, missing cells as "".
package fileio

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
)

// Table is the snapshot of a parsed file. The source sequence is single-pass
// by nature; the pipeline re-reads rows across wizard steps, so it is
// materialized here once.
type Table struct {
	Header []string
	Rows   []session.Row
}

// DetectKind maps the upload's file extension onto an ingestion branch.
func DetectKind(fileName string) (session.FileKind, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return session.FileDelimited, nil
	case ".xlsx", ".xlsm":
		return session.FileSpreadsheet, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// ReadFile parses an upload by name. templateCols feeds the delimiter
// detector's tie-break and is ignored for spreadsheets.
func ReadFile(fileName string, data []byte, templateCols int) (*Table, session.FileKind, error) {
	kind, err := DetectKind(fileName)
	if err != nil {
		return nil, "", err
	}
	var table *Table
	switch kind {
	case session.FileDelimited:
		table, err = ReadDelimited(data, templateCols)
	case session.FileSpreadsheet:
		table, err = ReadSpreadsheet(data)
	}
	if err != nil {
		return nil, "", err
	}
	return table, kind, nil
}

// ReadDelimited parses comma- or semicolon-separated text. Delimiter
// detection is a hard gate: an undetermined delimiter aborts before any row
// reaches validation.
func ReadDelimited(data []byte, templateCols int) (*Table, error) {
	delim, err := DetectDelimiter(data, templateCols)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(stripBOM(data)))
	r.Comma = delim
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingHeader
		}
		return nil, gerrors.Wrap(err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []session.Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, gerrors.Wrap(err, "read row")
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, recordToRow(header, rec))
	}

	return &Table{Header: header, Rows: rows}, nil
}

// ReadSpreadsheet parses the first worksheet of an xlsx workbook.
func ReadSpreadsheet(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, gerrors.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheets
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, gerrors.Wrap(err, "read worksheet")
	}
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(cell)
	}

	var rows []session.Row
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, recordToRow(header, rec))
	}

	return &Table{Header: header, Rows: rows}, nil
}

// recordToRow keys the record by header name. Short records pad with "" so
// every row exposes the full key set; cells past the header are dropped.
func recordToRow(header []string, rec []string) session.Row {
	row := make(session.Row, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(rec) {
			row[col] = rec[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
