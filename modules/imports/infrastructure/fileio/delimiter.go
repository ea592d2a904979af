package fileio

import (
	"encoding/csv"
	"io"
	"strings"
)

// sampleLineCount is how much of the file the detector looks at: the header
// plus a few data lines is enough evidence, and keeps detection O(1) in the
// file size.
const sampleLineCount = 5

// DetectDelimiter decides between comma and semicolon for a delimited file.
// templateCols is the column count implied by a known template (0 when no
// template is known) and only participates as a tie-breaker.
//
// Policy: exactly one plausible candidate wins; with two plausible
// candidates the one matching templateCols wins, else comma; with none the
// detector refuses with ErrUndeterminedDelimiter instead of guessing.
func DetectDelimiter(data []byte, templateCols int) (rune, error) {
	sample := sampleLines(data, sampleLineCount)
	if sample == "" {
		return 0, ErrUndeterminedDelimiter
	}

	commaCols, commaOK := plausibleColumns(sample, ',')
	semiCols, semiOK := plausibleColumns(sample, ';')

	switch {
	case commaOK && !semiOK:
		return ',', nil
	case semiOK && !commaOK:
		return ';', nil
	case commaOK && semiOK:
		if commaCols != semiCols && templateCols > 0 {
			if semiCols == templateCols {
				return ';', nil
			}
			if commaCols == templateCols {
				return ',', nil
			}
		}
		// regression default
		return ',', nil
	default:
		return 0, ErrUndeterminedDelimiter
	}
}

// plausibleColumns reports whether delim splits every sampled line into the
// same column count > 1. Parsing goes through encoding/csv so quoted fields
// containing the other delimiter do not skew the count.
func plausibleColumns(sample string, delim rune) (int, bool) {
	r := csv.NewReader(strings.NewReader(sample))
	r.Comma = delim
	// 0 makes the reader lock onto the first record's width and error on any
	// line that disagrees, which is exactly the consistency test.
	r.FieldsPerRecord = 0

	cols := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false
		}
		cols = len(rec)
	}
	return cols, cols > 1
}

func sampleLines(data []byte, n int) string {
	text := string(stripBOM(data))
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, "\n")
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
