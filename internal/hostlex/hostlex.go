// Package hostlex provides host-language lexers for embedded "$$" code
// fragments. Every lexer covers its fragment without gaps.
package hostlex

import (
	"strings"

	"github.com/phyten/ppcheck/internal/directive"
)

// Token types reported in directive.LexToken.Type.
const (
	TypeKeyword    = "keyword"
	TypeIdentifier = "identifier"
	TypeNumber     = "number"
	TypeString     = "string"
	TypeChar       = "char"
	TypeComment    = "comment"
	TypeOperator   = "operator"
	TypeWhitespace = "whitespace"
	TypeInvalid    = "invalid"
)

// ForLanguage returns the lexer for a normalised language name.
func ForLanguage(lang string) (directive.HostLexer, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "go" {
		return GoLexer{}, true
	}
	if kw, ok := cKeywords[lang]; ok {
		return NewCLexer(kw), true
	}
	return nil, false
}

// Languages lists the names ForLanguage accepts.
func Languages() []string {
	out := []string{"go"}
	for name := range cKeywords {
		out = append(out, name)
	}
	return out
}

// Collect drains a lexer into a slice.
func Collect(lx directive.HostLexer, fragment string) []directive.LexToken {
	var out []directive.LexToken
	for tok := range lx.Tokens(fragment) {
		out = append(out, tok)
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
