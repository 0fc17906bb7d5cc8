package hostlex

import (
	"go/scanner"
	"go/token"
	"iter"

	"github.com/phyten/ppcheck/internal/directive"
)

// GoLexer tokenizes Go fragments with go/scanner.
type GoLexer struct{}

func (GoLexer) Tokens(fragment string) iter.Seq[directive.LexToken] {
	return func(yield func(directive.LexToken) bool) {
		src := []byte(fragment)
		fset := token.NewFileSet()
		file := fset.AddFile("", fset.Base(), len(src))
		var s scanner.Scanner
		// scan errors surface as ILLEGAL tokens or gaps; nothing to report here
		s.Init(file, src, func(token.Position, string) {}, scanner.ScanComments)

		cursor := 0
		emitGap := func(to int) bool {
			if to <= cursor {
				return true
			}
			typ := TypeWhitespace
			if !isBlank(fragment[cursor:to]) {
				typ = TypeInvalid
			}
			ok := yield(directive.LexToken{Type: typ, Start: cursor, End: to})
			cursor = to
			return ok
		}

		for {
			pos, tok, lit := s.Scan()
			if tok == token.EOF {
				break
			}
			// automatically inserted semicolons have no source text
			if tok == token.SEMICOLON && lit != ";" {
				continue
			}
			start := file.Offset(pos)
			if start < cursor {
				continue
			}
			end := start + goTokenLen(tok, lit)
			if end > len(src) {
				end = len(src)
			}
			if !emitGap(start) {
				return
			}
			if end <= start {
				continue
			}
			if !yield(directive.LexToken{Type: goTokenType(tok), Start: start, End: end}) {
				return
			}
			cursor = end
		}
		emitGap(len(src))
	}
}

func goTokenLen(tok token.Token, lit string) int {
	if lit != "" {
		return len(lit)
	}
	return len(tok.String())
}

func goTokenType(tok token.Token) string {
	switch {
	case tok.IsKeyword():
		return TypeKeyword
	case tok == token.IDENT:
		return TypeIdentifier
	case tok == token.INT, tok == token.FLOAT, tok == token.IMAG:
		return TypeNumber
	case tok == token.STRING:
		return TypeString
	case tok == token.CHAR:
		return TypeChar
	case tok == token.COMMENT:
		return TypeComment
	case tok.IsOperator():
		return TypeOperator
	default:
		return TypeInvalid
	}
}
