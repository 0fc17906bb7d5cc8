package directive

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"unicode"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithLexer installs the host lexer used for "$$" code fragments.
func WithLexer(lx HostLexer) Option {
	return func(s *Scanner) { s.lexer = lx }
}

// WithOperators makes the scanner emit operator spans for relational
// operators and logical connectives.
func WithOperators(on bool) Option {
	return func(s *Scanner) { s.operators = on }
}

// Scanner はコメントトークンを文書順に受け取り、ネストスタックを維持しながら分類済みスパンを生成します。
//
// 1 回のパスごとに NewScanner で作り直してください。Scanner は並行利用を想定していません。
type Scanner struct {
	lexer     HostLexer
	operators bool
	stack     Stack
	spans     []Span
}

// Result は 1 パス分の出力です。Depth はパス終了時に閉じられていないブロック数です。
type Result struct {
	Spans []Span `json:"spans"`
	Depth int    `json:"depth"`
}

// Errors returns the error spans in emission order.
func (r Result) Errors() []Span {
	var out []Span
	for _, sp := range r.Spans {
		if sp.IsError() {
			out = append(out, sp)
		}
	}
	return out
}

func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Scan runs one complete pass over tokens with a fresh scanner.
func Scan(tokens []CommentToken, opts ...Option) Result {
	s := NewScanner(opts...)
	for _, tok := range tokens {
		s.Visit(tok)
	}
	return s.Result()
}

// ScanSeq runs one pass over seq. When ctx is cancelled before the pass
// completes nothing of the pass is returned.
func ScanSeq(ctx context.Context, seq iter.Seq[CommentToken], opts ...Option) (Result, error) {
	s := NewScanner(opts...)
	for tok := range seq {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		s.Visit(tok)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return s.Result(), nil
}

// Result returns a snapshot of the spans produced so far.
func (s *Scanner) Result() Result {
	spans := make([]Span, len(s.spans))
	copy(spans, s.spans)
	return Result{Spans: spans, Depth: s.stack.Len()}
}

// Frames exposes the current nesting stack, outermost first.
func (s *Scanner) Frames() []Frame { return s.stack.Frames() }

// Visit handles one comment token. Malformed directives become error spans;
// Visit never aborts the pass.
func (s *Scanner) Visit(tok CommentToken) {
	if tok.PrefixLen < 0 || tok.PrefixLen > len(tok.Text) {
		return
	}
	body := tok.Text[tok.PrefixLen:]
	switch {
	case body == "":
		return
	case strings.HasPrefix(body, DirectiveSigil):
		s.visitDirective(tok, body[len(DirectiveSigil):])
	case strings.HasPrefix(body, CodeSigil):
		s.visitCode(tok, body[len(CodeSigil):])
	}
}

func (s *Scanner) visitDirective(tok CommentToken, rest string) {
	keyword, args, argsAt := splitKeyword(rest)
	// argsAt is relative to rest; make it relative to tok.Text
	argsAt += tok.PrefixLen + len(DirectiveSigil)

	kind, ok := LookupKind(keyword)
	if !ok {
		s.fail(tok, UnknownDirective, fmt.Sprintf("Unknown preprocessor directive \"%s\"", keyword))
		return
	}
	base := tok.Offset + tok.PrefixLen
	s.emit(Span{Start: base, End: base + len(DirectiveSigil) + len(keyword), Category: CategoryDirective})

	hasArgs := strings.TrimSpace(args) != ""
	switch kind {
	case KindIf:
		s.stack.Push(FrameIf)
		if !hasArgs {
			s.fail(tok, MissingCondition, "Preprocessor directive \"if\" is missing a condition.")
			return
		}
		s.visitConditions(tok, args, argsAt)
	case KindIfDef:
		s.stack.Push(FrameIf)
		if !hasArgs {
			s.fail(tok, MissingIdentifier, "Preprocessor directive \"ifdef\" is missing an identifier.")
			return
		}
		s.visitIdentifier(tok, args, argsAt)
	case KindElse:
		if top, ok := s.stack.Top(); !ok || top != FrameIf {
			s.fail(tok, UnmatchedElse, "Preprocessor directive \"else\" must have an opening if.")
			return
		}
		s.stack.Pop()
		s.stack.Push(FrameElse)
		if hasArgs {
			s.fail(tok, UnexpectedArguments, "Preprocessor directive \"else\" does not require any arguments.")
		}
	case KindEndIf:
		if _, ok := s.stack.Pop(); !ok {
			s.fail(tok, UnmatchedEndif, "Preprocessor directive \"endif\" must have an opening if.")
			return
		}
		if hasArgs {
			s.fail(tok, UnexpectedArguments, "Preprocessor directive \"endif\" does not require any arguments.")
		}
	}
}

// splitKeyword splits at the first whitespace run, like a regex split on \s+
// limited to two parts. at is the offset of args inside rest.
func splitKeyword(rest string) (keyword, args string, at int) {
	i := strings.IndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		return rest, "", len(rest)
	}
	tail := strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	at = len(rest) - len(tail)
	return rest[:i], tail, at
}

func (s *Scanner) visitConditions(tok CommentToken, args string, argsAt int) {
	terms := SplitConditions(args)
	// searching starts right after the keyword, never before the previous term's end
	next := tok.PrefixLen + len(DirectiveSigil) + len(KindIf.String())
	for idx, term := range terms {
		pos := strings.Index(tok.Text[next:], term)
		if pos < 0 {
			pos = 0
		}
		prevEnd := next
		at := next + pos
		next = at + len(term)

		cond, ok := ParseCondition(term)
		if !ok {
			// a blank term is anchored to its dangling connective: the one
			// before it, or the one after it when it leads the expression
			conn := prevEnd
			if idx == 0 {
				conn = argsAt + len(term)
			}
			s.invalidCondition(tok, term, at, conn)
		} else {
			base := tok.Offset + at
			s.emit(Span{Start: base + cond.LHS.Start, End: base + cond.LHS.End, Category: cond.LHS.Category})
			if s.operators {
				s.emit(Span{Start: base + cond.OpStart, End: base + cond.OpStart + len(cond.Op), Category: CategoryOperator})
			}
			s.emit(Span{Start: base + cond.RHS.Start, End: base + cond.RHS.End, Category: cond.RHS.Category})
		}

		if s.operators && idx < len(terms)-1 && next+2 <= len(tok.Text) && isConnective(tok.Text[next:next+2]) {
			s.emit(Span{Start: tok.Offset + next, End: tok.Offset + next + 2, Category: CategoryOperator})
		}
	}
}

func (s *Scanner) invalidCondition(tok CommentToken, term string, at, conn int) {
	trimmed := strings.TrimSpace(term)
	msg := fmt.Sprintf("Invalid condition \"%s\"", trimmed)
	start, end := conn, min(conn+2, len(tok.Text))
	if trimmed != "" {
		start = at + len(term) - len(strings.TrimLeftFunc(term, unicode.IsSpace))
		end = start + len(trimmed)
	}
	s.emit(Span{Start: tok.Offset + start, End: tok.Offset + end, Category: CategoryError, Error: InvalidCondition, Message: msg})
}

// visitIdentifier classifies the first word after ifdef. Further words are
// left unclassified and are not an error.
func (s *Scanner) visitIdentifier(tok CommentToken, args string, argsAt int) {
	end := strings.IndexFunc(args, unicode.IsSpace)
	if end < 0 {
		end = len(args)
	}
	start := tok.Offset + argsAt
	s.emit(Span{Start: start, End: start + end, Category: CategoryIdentifier})
}

func (s *Scanner) visitCode(tok CommentToken, fragment string) {
	base := tok.Offset + tok.PrefixLen
	s.emit(Span{Start: base, End: base + len(CodeSigil), Category: CategoryDirective})
	if s.lexer == nil {
		return
	}
	start := base + len(CodeSigil)
	for lt := range s.lexer.Tokens(fragment) {
		from, to := clamp(lt.Start, 0, len(fragment)), clamp(lt.End, 0, len(fragment))
		if to <= from {
			continue
		}
		s.emit(Span{Start: start + from, End: start + to, Category: CategoryCode, Token: lt.Type})
	}
}

func (s *Scanner) fail(tok CommentToken, kind ErrorKind, msg string) {
	s.emit(Span{Start: tok.Offset, End: tok.End(), Category: CategoryError, Error: kind, Message: msg})
}

func (s *Scanner) emit(sp Span) {
	s.spans = append(s.spans, sp)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
