package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/termcolor"
	"github.com/phyten/ppcheck/internal/textutil"
)

// WritePretty はコンパイラ風に位置・メッセージ・該当行・キャレットを出力します。
//
//	src/A.java:6:1: error[unmatched_endif]: Preprocessor directive "endif" must have an opening if.
//	   6 | //#endif
//	     | ^^^^^^^^
func WritePretty(w io.Writer, diags []model.Diagnostic, p termcolor.Painter) error {
	gutter := 1
	for _, d := range diags {
		gutter = max(gutter, len(strconv.Itoa(d.Span.StartLine)))
	}
	var b strings.Builder
	for _, d := range diags {
		loc := fmt.Sprintf("%s:%d:%d", d.File, d.Span.StartLine, d.Span.StartCol)
		b.WriteString(p.Location(loc))
		b.WriteString(": ")
		b.WriteString(p.Span(d.Category, "", headline(d)))
		if msg := summary(d); msg != "" {
			b.WriteString(": ")
			b.WriteString(msg)
		}
		b.WriteByte('\n')
		if d.Line == "" && d.Text == "" {
			continue
		}
		line := d.Line
		start := d.Span.StartCol - 1
		end := start + (d.Span.ByteEnd - d.Span.ByteStart)
		if d.Span.EndLine > d.Span.StartLine || end > len(line) {
			end = len(line)
		}
		num := strconv.Itoa(d.Span.StartLine)
		fmt.Fprintf(&b, "%s%s | %s\n", strings.Repeat(" ", gutter+2-len(num)), num, textutil.ExpandTabs(line))
		caret := textutil.CaretLine(line, start, end)
		fmt.Fprintf(&b, "%s | %s\n", strings.Repeat(" ", gutter+2), p.Span(d.Category, "", caret))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func headline(d model.Diagnostic) string {
	if d.Kind != "" {
		return d.Category + "[" + d.Kind + "]"
	}
	if d.Token != "" {
		return d.Category + "(" + d.Token + ")"
	}
	return d.Category
}

func summary(d model.Diagnostic) string {
	if d.Message != "" {
		return d.Message
	}
	if d.Text != "" {
		return strconv.Quote(d.Text)
	}
	return ""
}
