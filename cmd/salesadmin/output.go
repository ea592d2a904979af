package main

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeJSONLine emits one machine-readable line per pipeline step, so the
// output stays greppable and pipeable whatever mix of previews and summaries
// a run produces.
func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(exitDB, fmt.Errorf("json encode: %w", err))
	}
	return nil
}
