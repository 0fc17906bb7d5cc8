// Package completion offers directive keywords at a cursor position.
package completion

import (
	"strings"
	"unicode"

	"github.com/phyten/ppcheck/internal/comments"
	"github.com/phyten/ppcheck/internal/detect"
	"github.com/phyten/ppcheck/internal/directive"
)

// Result は補完候補と、確定時に置き換えるバイト範囲 [Start, End) です。
type Result struct {
	Items []string `json:"items"`
	Start int      `json:"start"`
	End   int      `json:"end"`
}

// At returns keyword suggestions when offset lies inside a line comment of
// src. Outside comments, or for languages without line comments, it reports
// false.
func At(src []byte, offset int, lang string) (Result, bool) {
	if offset < 0 || offset > len(src) {
		return Result{}, false
	}
	style, ok := comments.ForLanguage(detect.NormalizeLangName(lang))
	if !ok {
		return Result{}, false
	}
	for tok := range comments.All(src, style) {
		bodyStart := tok.Offset + tok.PrefixLen
		if offset < bodyStart || offset > tok.End() {
			if tok.Offset > offset {
				break
			}
			continue
		}
		start := wordStart(src, bodyStart, offset)
		word := string(src[start:offset])
		return Result{Items: directive.KeywordsWithPrefix(word), Start: start, End: offset}, true
	}
	return Result{}, false
}

// wordStart walks back from offset to the first byte after a blank, staying
// inside the comment body.
func wordStart(src []byte, floor, offset int) int {
	i := offset
	for i > floor && !unicode.IsSpace(rune(src[i-1])) {
		i--
	}
	return i
}

// Insert applies the chosen item to src.
func Insert(src []byte, r Result, item string) []byte {
	var b strings.Builder
	b.Grow(len(src) + len(item))
	b.Write(src[:r.Start])
	b.WriteString(item)
	b.Write(src[r.End:])
	return []byte(b.String())
}
