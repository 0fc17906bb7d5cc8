package output

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/phyten/ppcheck/internal/model"
)

type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

// ParseSortSpec parses "+key,-key" lists. location expands to file,line,col.
func ParseSortSpec(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortSpec{}, nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: empty segment")
		}
		desc := false
		switch token[0] {
		case '+':
			token = token[1:]
		case '-':
			desc = true
			token = token[1:]
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: sign without name")
		}
		name := strings.ToLower(token)
		switch name {
		case "location":
			keys = append(keys, SortKey{"file", desc}, SortKey{"line", desc}, SortKey{"col", desc})
			continue
		case "column":
			name = "col"
		case "file", "line", "col", "lang", "category", "kind", "text":
		default:
			return SortSpec{}, fmt.Errorf("invalid sort key: %s", token)
		}
		keys = append(keys, SortKey{Name: name, Desc: desc})
	}
	return SortSpec{Keys: keys}, nil
}

// ApplySort は spec の順に並べ替え、最後はファイルとバイト位置で安定させます。
func ApplySort(diags []model.Diagnostic, spec SortSpec) {
	keys := append(slices.Clone(spec.Keys), SortKey{Name: "file"}, SortKey{Name: "offset"})
	slices.SortStableFunc(diags, func(a, b model.Diagnostic) int {
		for _, key := range keys {
			c := compareKey(a, b, key.Name)
			if c == 0 {
				continue
			}
			if key.Desc {
				return -c
			}
			return c
		}
		return 0
	})
}

func compareKey(a, b model.Diagnostic, name string) int {
	switch name {
	case "file":
		return cmp.Compare(a.File, b.File)
	case "line":
		return cmp.Compare(a.Span.StartLine, b.Span.StartLine)
	case "col":
		return cmp.Compare(a.Span.StartCol, b.Span.StartCol)
	case "lang":
		return cmp.Compare(a.Lang, b.Lang)
	case "category":
		return cmp.Compare(a.Category, b.Category)
	case "kind":
		return cmp.Compare(a.Kind, b.Kind)
	case "text":
		return cmp.Compare(a.Text, b.Text)
	case "offset":
		if c := cmp.Compare(a.Span.ByteStart, b.Span.ByteStart); c != 0 {
			return c
		}
		return cmp.Compare(a.Span.ByteEnd, b.Span.ByteEnd)
	default:
		return 0
	}
}
