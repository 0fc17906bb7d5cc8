// Package comments enumerates the line comments of a source buffer in
// document order.
package comments

import (
	"bytes"
	"iter"
	"strings"

	"github.com/phyten/ppcheck/internal/directive"
)

// Enumerate returns every line comment in src as a CommentToken. Comment
// markers inside string literals and block comments do not start a comment.
func Enumerate(src []byte, style Style) []directive.CommentToken {
	var out []directive.CommentToken
	for tok := range All(src, style) {
		out = append(out, tok)
	}
	return out
}

// All is the sequence form of Enumerate. Each call restarts from the top of src.
func All(src []byte, style Style) iter.Seq[directive.CommentToken] {
	return func(yield func(directive.CommentToken) bool) {
		w := walker{src: src, style: style}
		for {
			tok, ok := w.next()
			if !ok {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}

type walker struct {
	src   []byte
	style Style
	pos   int
}

func (w *walker) next() (directive.CommentToken, bool) {
	for w.pos < len(w.src) {
		i := w.pos
		if blk, ok := w.blockAt(i); ok {
			w.pos = w.skipBlock(i, blk)
			continue
		}
		if prefix := w.linePrefixAt(i); prefix != "" {
			end := lineEnd(w.src, i)
			text := strings.TrimSuffix(string(w.src[i:end]), "\r")
			w.pos = end
			return directive.CommentToken{Text: text, Offset: i, PrefixLen: len(prefix)}, true
		}
		if delim := w.stringAt(i); delim != "" {
			w.pos = w.skipString(i, delim)
			continue
		}
		w.pos++
	}
	return directive.CommentToken{}, false
}

func (w *walker) blockAt(i int) (Block, bool) {
	for _, blk := range w.style.Blocks {
		if !bytes.HasPrefix(w.src[i:], []byte(blk.Start)) {
			continue
		}
		if blk.IndentedStart && !onlyBlanksBefore(w.src, i) {
			continue
		}
		return blk, true
	}
	return Block{}, false
}

func (w *walker) skipBlock(i int, blk Block) int {
	from := i + len(blk.Start)
	idx := bytes.Index(w.src[from:], []byte(blk.End))
	if idx < 0 {
		// unterminated: the rest of the buffer belongs to the block
		return len(w.src)
	}
	return from + idx + len(blk.End)
}

func (w *walker) linePrefixAt(i int) string {
	best := ""
	for _, p := range w.style.LinePrefixes {
		if len(p) > len(best) && bytes.HasPrefix(w.src[i:], []byte(p)) {
			best = p
		}
	}
	return best
}

func (w *walker) stringAt(i int) string {
	for _, d := range w.style.StringDelims {
		if bytes.HasPrefix(w.src[i:], []byte(d)) {
			return d
		}
	}
	return ""
}

// skipString は文字列リテラルの終端の直後を返します。閉じられない文字列は行末で終わります。
func (w *walker) skipString(i int, delim string) int {
	end := lineEnd(w.src, i)
	for j := i + len(delim); j < end; j++ {
		if !bytes.HasPrefix(w.src[j:], []byte(delim)) {
			continue
		}
		if isEscaped(w.src, j) {
			continue
		}
		return j + len(delim)
	}
	return end
}

func isEscaped(src []byte, pos int) bool {
	count := 0
	for i := pos - 1; i >= 0 && src[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

func lineEnd(src []byte, from int) int {
	if idx := bytes.IndexByte(src[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return len(src)
}

func onlyBlanksBefore(src []byte, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch src[j] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}
