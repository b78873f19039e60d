package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// EncodeJSON writes the indented report to w.
func EncodeJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteJSON saves the report at path, replacing an existing file. A failed
// request is written too, with its error and no backend entries.
func WriteJSON(r *Report, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", cerr)
		}
	}()
	return EncodeJSON(r, f)
}
