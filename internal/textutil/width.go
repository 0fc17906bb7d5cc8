package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TabWidth is the tab stop used for display columns and caret lines.
const TabWidth = 4

// ANSI escape sequences (covers common CSI and OSC forms).
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

func StripANSI(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

// VisibleWidth returns terminal display width (wcwidth-based).
func VisibleWidth(s string) int {
	width := 0
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// TruncateByWidth truncates s to fit width w without breaking graphemes.
// When truncation happens the ellipsis is appended if it fits.
func TruncateByWidth(s string, w int, ellipsis string) string {
	if s == "" || w <= 0 {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	limit := w - runewidth.StringWidth(ellipsis)
	if limit < 0 {
		limit = w
		ellipsis = ""
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		segW := runewidth.StringWidth(g.Str())
		if used+segW > limit {
			break
		}
		b.WriteString(g.Str())
		used += segW
	}
	return b.String() + ellipsis
}

// PadRight pads s on the right with spaces so that the visible width equals w.
func PadRight(s string, w int) string {
	if pad := w - VisibleWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// PadLeft pads s on the left with spaces so that the visible width equals w.
func PadLeft(s string, w int) string {
	if pad := w - VisibleWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// DisplayColumn は行頭から byteOff バイト目までの表示幅に 1 を足した桁を返します。タブは TabWidth 刻みで展開します。
func DisplayColumn(line string, byteOff int) int {
	if byteOff > len(line) {
		byteOff = len(line)
	}
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		from, _ := g.Positions()
		if from >= byteOff {
			break
		}
		col = advance(col, g.Str())
	}
	return col + 1
}

// ExpandTabs replaces tabs with spaces up to the next tab stop.
func ExpandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		seg := g.Str()
		next := advance(col, seg)
		if seg == "\t" {
			b.WriteString(strings.Repeat(" ", next-col))
		} else {
			b.WriteString(seg)
		}
		col = next
	}
	return b.String()
}

// CaretLine underlines the byte range [start, end) of line. The result lines
// up with ExpandTabs(line) in a terminal.
func CaretLine(line string, start, end int) string {
	from := DisplayColumn(line, start) - 1
	to := DisplayColumn(line, end) - 1
	if end > len(line) {
		to = VisibleWidth(ExpandTabs(line)) + (end - len(line))
	}
	n := to - from
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", from) + strings.Repeat("^", n)
}

func advance(col int, seg string) int {
	if seg == "\t" {
		return (col/TabWidth + 1) * TabWidth
	}
	return col + runewidth.StringWidth(seg)
}
