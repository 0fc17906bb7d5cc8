package output

import (
	"io"
	"strings"

	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/termcolor"
	"github.com/phyten/ppcheck/internal/textutil"
)

const columnGap = "  "

// WriteTable は表示幅で揃えた表を書き出します。色付けは幅の計算に影響しません。
func WriteTable(w io.Writer, diags []model.Diagnostic, sel FieldSelection, p termcolor.Painter) error {
	headers := Headers(sel.Fields)
	rows := make([][]string, len(diags))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = textutil.VisibleWidth(h)
	}
	for r, d := range diags {
		row := RowValues(d, sel.Fields)
		for i := range row {
			row[i] = textutil.ExpandTabs(flattenCell(row[i]))
			widths[i] = max(widths[i], textutil.VisibleWidth(row[i]))
		}
		rows[r] = row
	}

	var b strings.Builder
	for i, h := range headers {
		writeCell(&b, p.Header(h), widths[i], i == len(headers)-1)
	}
	b.WriteByte('\n')
	for r, row := range rows {
		d := diags[r]
		for i, cell := range row {
			key := sel.Fields[i].Key
			styled := cell
			switch {
			case key == "location":
				styled = p.Location(cell)
			case isStyled(key):
				styled = p.Span(d.Category, d.Token, cell)
			}
			writeCell(&b, styled, widths[i], i == len(row)-1)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTSV writes tab separated values; tabs and newlines inside cells become spaces.
func WriteTSV(w io.Writer, diags []model.Diagnostic, sel FieldSelection) error {
	var b strings.Builder
	b.WriteString(strings.Join(Headers(sel.Fields), "\t"))
	b.WriteByte('\n')
	for _, d := range diags {
		row := RowValues(d, sel.Fields)
		for i := range row {
			row[i] = strings.ReplaceAll(flattenCell(row[i]), "\t", " ")
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCell(b *strings.Builder, cell string, width int, last bool) {
	if last {
		b.WriteString(strings.TrimRight(cell, " "))
		return
	}
	b.WriteString(textutil.PadRight(cell, width))
	b.WriteString(columnGap)
}

func flattenCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
