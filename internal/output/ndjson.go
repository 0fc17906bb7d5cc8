package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/ppcheck/internal/engine"
	"github.com/phyten/ppcheck/internal/model"
)

// WriteNDJSON streams diagnostics as newline-delimited JSON objects.
func WriteNDJSON(w io.Writer, diags []model.Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, d := range diags {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the whole result as one indented document.
func WriteJSON(w io.Writer, res *engine.Result) error {
	if res == nil {
		res = &engine.Result{}
	}
	if res.Diagnostics == nil {
		copied := *res
		copied.Diagnostics = []model.Diagnostic{}
		res = &copied
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
