package output

import (
	"encoding/csv"
	"io"

	"github.com/phyten/ppcheck/internal/model"
)

// WriteCSV renders diagnostics as RFC 4180 compliant CSV (including CRLF endings).
func WriteCSV(w io.Writer, diags []model.Diagnostic, sel FieldSelection) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write(Headers(sel.Fields)); err != nil {
		return err
	}
	for _, d := range diags {
		if err := writer.Write(RowValues(d, sel.Fields)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
