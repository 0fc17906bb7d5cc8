package hostlex

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phyten/ppcheck/internal/directive"
)

// CLexer はブレース系言語 (Java, Kotlin, C, C++, C#, JavaScript など) の簡易レキサです。
// キーワード表だけが言語ごとに異なります。
type CLexer struct {
	keywords map[string]struct{}
}

func NewCLexer(keywords []string) CLexer {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	return CLexer{keywords: set}
}

// longest first so that ">>>=" wins over ">>="
var cOperators = []string{
	">>>=", "<<=", ">>=", ">>>", "...", "->*", "<=>", "===", "!==", "?.", "??", "::",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "=>",
}

const cPunct = "+-*/%=<>!&|^~?:;,.()[]{}@#"

func (lx CLexer) Tokens(fragment string) iter.Seq[directive.LexToken] {
	return func(yield func(directive.LexToken) bool) {
		for i := 0; i < len(fragment); {
			typ, n := lx.next(fragment[i:])
			if n <= 0 {
				n = 1
			}
			if !yield(directive.LexToken{Type: typ, Start: i, End: i + n}) {
				return
			}
			i += n
		}
	}
}

func (lx CLexer) next(s string) (string, int) {
	r, size := utf8.DecodeRuneInString(s)
	switch {
	case unicode.IsSpace(r):
		return TypeWhitespace, len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	case strings.HasPrefix(s, "//"):
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			return TypeComment, i
		}
		return TypeComment, len(s)
	case strings.HasPrefix(s, "/*"):
		if i := strings.Index(s[2:], "*/"); i >= 0 {
			return TypeComment, i + 4
		}
		return TypeComment, len(s)
	case r == '"' || r == '`':
		return TypeString, quoted(s, byte(r))
	case r == '\'':
		return TypeChar, quoted(s, '\'')
	case isDigit(r) || (r == '.' && len(s) > 1 && isDigit(rune(s[1]))):
		return TypeNumber, number(s)
	case isIdentStart(r):
		n := identifier(s)
		if _, ok := lx.keywords[s[:n]]; ok {
			return TypeKeyword, n
		}
		return TypeIdentifier, n
	}
	for _, op := range cOperators {
		if strings.HasPrefix(s, op) {
			return TypeOperator, len(op)
		}
	}
	if strings.ContainsRune(cPunct, r) {
		return TypeOperator, 1
	}
	return TypeInvalid, size
}

// quoted returns the length of a literal opened by q, backslash-escape aware.
// Unterminated literals run to end of line.
func quoted(s string, q byte) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i + 1
		case '\n':
			if q != '`' {
				return i
			}
		}
	}
	return len(s)
}

func number(s string) int {
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isDigit(rune(c)) || c == '.' || c == '_' || isLetter(c):
			i++
			if (c == 'e' || c == 'E' || c == 'p' || c == 'P') && i < len(s) && (s[i] == '+' || s[i] == '-') && !isHexPrefix(s) {
				i++
			}
		default:
			return i
		}
	}
	return i
}

func isHexPrefix(s string) bool {
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && !strings.ContainsAny(s, "pP")
}

func identifier(s string) int {
	for i, r := range s {
		if i == 0 {
			continue
		}
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			return i
		}
	}
	return len(s)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
