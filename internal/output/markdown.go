package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/phyten/ppcheck/internal/model"
)

// WriteMarkdownTable renders diagnostics as a GitHub Flavored Markdown table.
// Source text columns are wrapped in code spans.
func WriteMarkdownTable(w io.Writer, diags []model.Diagnostic, sel FieldSelection) error {
	headers := Headers(sel.Fields)
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | ")); err != nil {
		return err
	}
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, d := range diags {
		row := RowValues(d, sel.Fields)
		for i, f := range sel.Fields {
			switch {
			case f.Key == "url" && row[i] != "":
				row[i] = fmt.Sprintf("[link](%s)", row[i])
			case f.Key == "text" || f.Key == "location":
				row[i] = codeSpan(row[i])
			default:
				row[i] = escapeMarkdownCell(row[i])
			}
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | ")); err != nil {
			return err
		}
	}
	return nil
}

func escapeMarkdownCell(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "<br>")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}

// codeSpan picks a backtick fence longer than any run inside s.
func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	body := strings.ReplaceAll(escapeMarkdownCell(s), "<br>", " ")
	if strings.HasPrefix(body, "`") || strings.HasSuffix(body, "`") {
		body = " " + body + " "
	}
	return fence + body + fence
}
