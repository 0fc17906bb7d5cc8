// Package output renders scan results in the formats accepted by --output.
package output

import (
	"fmt"
	"io"

	"github.com/phyten/ppcheck/internal/engine"
	"github.com/phyten/ppcheck/internal/termcolor"
)

type Options struct {
	Format  string
	Fields  FieldSelection
	Sort    SortSpec
	Painter termcolor.Painter
}

// Write sorts res.Diagnostics in place and renders them. format must already be normalised.
func Write(w io.Writer, res *engine.Result, o Options) error {
	if res == nil {
		res = &engine.Result{}
	}
	if len(o.Sort.Keys) > 0 {
		ApplySort(res.Diagnostics, o.Sort)
	}
	switch o.Format {
	case "json":
		return WriteJSON(w, res)
	case "ndjson":
		return WriteNDJSON(w, res.Diagnostics)
	case "csv":
		return WriteCSV(w, res.Diagnostics, o.Fields)
	case "md":
		return WriteMarkdownTable(w, res.Diagnostics, o.Fields)
	case "tsv":
		return WriteTSV(w, res.Diagnostics, o.Fields)
	case "pretty":
		return WritePretty(w, res.Diagnostics, o.Painter)
	case "table", "":
		return WriteTable(w, res.Diagnostics, o.Fields, o.Painter)
	default:
		return fmt.Errorf("unsupported output format: %s", o.Format)
	}
}
