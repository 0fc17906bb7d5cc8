package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phyten/ppcheck/internal/model"
)

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields  []Field
	ShowURL bool
}

type fieldMeta struct {
	header string
	styled bool
	isURL  bool
}

var fieldRegistry = map[string]fieldMeta{
	"file":        {header: "FILE"},
	"line":        {header: "LINE"},
	"col":         {header: "COL"},
	"display_col": {header: "DCOL"},
	"end_line":    {header: "END_LINE"},
	"end_col":     {header: "END_COL"},
	"location":    {header: "LOCATION"},
	"lang":        {header: "LANG"},
	"category":    {header: "CATEGORY", styled: true},
	"kind":        {header: "KIND", styled: true},
	"token":       {header: "TOKEN"},
	"text":        {header: "TEXT", styled: true},
	"message":     {header: "MESSAGE"},
	"url":         {header: "URL", isURL: true},
}

var fieldAliases = map[string]string{
	"column": "col",
	"dcol":   "display_col",
	"loc":    "location",
	"msg":    "message",
	"type":   "category",
}

// ResolveFields は --fields の値を解釈します。空なら表示モードに応じた既定の列を返します。
func ResolveFields(raw string, allSpans, withURL bool) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		keys := []string{"location", "kind", "message"}
		if allSpans {
			keys = []string{"location", "category", "text", "message"}
		}
		if withURL {
			keys = append(keys, "url")
		}
		return selectionFor(keys), nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		if alias, ok := fieldAliases[name]; ok {
			name = alias
		}
		if _, ok := fieldRegistry[name]; !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", strings.TrimSpace(part))
		}
		keys = append(keys, name)
	}
	return selectionFor(keys), nil
}

func selectionFor(keys []string) FieldSelection {
	sel := FieldSelection{Fields: make([]Field, 0, len(keys))}
	for _, key := range keys {
		meta := fieldRegistry[key]
		sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		sel.ShowURL = sel.ShowURL || meta.isURL
	}
	return sel
}

// Headers returns the column titles in selection order.
func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

// RowValues renders one plain (uncolored) row.
func RowValues(d model.Diagnostic, fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = FieldValue(d, f.Key)
	}
	return out
}

func FieldValue(d model.Diagnostic, key string) string {
	switch key {
	case "file":
		return d.File
	case "line":
		return strconv.Itoa(d.Span.StartLine)
	case "col":
		return strconv.Itoa(d.Span.StartCol)
	case "display_col":
		return strconv.Itoa(d.Span.DisplayCol)
	case "end_line":
		return strconv.Itoa(d.Span.EndLine)
	case "end_col":
		return strconv.Itoa(d.Span.EndCol)
	case "location":
		return fmt.Sprintf("%s:%d:%d", d.File, d.Span.StartLine, d.Span.StartCol)
	case "lang":
		return d.Lang
	case "category":
		return d.Category
	case "kind":
		return d.Kind
	case "token":
		return d.Token
	case "text":
		return d.Text
	case "message":
		return d.Message
	case "url":
		return d.URL
	default:
		return ""
	}
}

func isStyled(key string) bool { return fieldRegistry[key].styled }
