package directive

import "iter"

const (
	// DirectiveSigil はコメント接頭辞の直後に置かれるディレクティブの目印です。
	DirectiveSigil = "#"
	// CodeSigil は埋め込みコード断片の目印です。
	CodeSigil = "$$"
)

// Category は分類済みスパンの種別を表します。
type Category string

const (
	CategoryDirective  Category = "directive"
	CategoryIdentifier Category = "identifier"
	CategoryNumber     Category = "number"
	CategoryOperator   Category = "operator"
	CategoryCode       Category = "code"
	CategoryError      Category = "error"
)

// ErrorKind はエラースパンの分類です。
type ErrorKind string

const (
	MissingCondition    ErrorKind = "missing_condition"
	MissingIdentifier   ErrorKind = "missing_identifier"
	UnmatchedElse       ErrorKind = "unmatched_else"
	UnmatchedEndif      ErrorKind = "unmatched_endif"
	UnexpectedArguments ErrorKind = "unexpected_arguments"
	UnknownDirective    ErrorKind = "unknown_directive"
	InvalidCondition    ErrorKind = "invalid_condition"
)

// Span は文書上の絶対オフセット [Start, End) と分類の組です。
type Span struct {
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Category Category  `json:"category"`
	Token    string    `json:"token,omitempty"`
	Error    ErrorKind `json:"error,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// IsError reports whether the span is a diagnostic.
func (s Span) IsError() bool { return s.Category == CategoryError }

// CommentToken は 1 行コメントをコメント接頭辞込みで表します。
type CommentToken struct {
	Text      string
	Offset    int
	PrefixLen int
}

// End returns the absolute offset just past the comment text.
func (t CommentToken) End() int { return t.Offset + len(t.Text) }

// DirectiveKind はシジルの直後の単語で決まるディレクティブ種別です。
type DirectiveKind int

const (
	KindIf DirectiveKind = iota + 1
	KindIfDef
	KindElse
	KindEndIf
)

var directiveNames = map[string]DirectiveKind{
	"if":    KindIf,
	"ifdef": KindIfDef,
	"else":  KindElse,
	"endif": KindEndIf,
}

// LookupKind matches word case-sensitively against the known directive keywords.
func LookupKind(word string) (DirectiveKind, bool) {
	k, ok := directiveNames[word]
	return k, ok
}

func (k DirectiveKind) String() string {
	switch k {
	case KindIf:
		return "if"
	case KindIfDef:
		return "ifdef"
	case KindElse:
		return "else"
	case KindEndIf:
		return "endif"
	default:
		return "unknown"
	}
}

// Frame はネストスタックに積まれる未閉鎖ブロックの状態です。
type Frame int

const (
	FrameIf Frame = iota + 1
	FrameElse
)

func (f Frame) String() string {
	switch f {
	case FrameIf:
		return "IF"
	case FrameElse:
		return "ELSE"
	default:
		return "NONE"
	}
}

// Stack is the nesting stack of one scan pass. The zero value is empty.
type Stack struct {
	frames []Frame
}

func (s *Stack) Push(f Frame) { s.frames = append(s.frames, f) }

// Top returns the innermost frame without removing it.
func (s *Stack) Top() (Frame, bool) {
	if len(s.frames) == 0 {
		return 0, false
	}
	return s.frames[len(s.frames)-1], true
}

// Pop never underflows: on an empty stack it reports false and leaves it empty.
func (s *Stack) Pop() (Frame, bool) {
	f, ok := s.Top()
	if ok {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return f, ok
}

func (s *Stack) Len() int { return len(s.frames) }

// Frames returns a copy ordered from outermost to innermost.
func (s *Stack) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// LexToken はホスト言語レキサが返す断片内オフセット付きトークンです。
type LexToken struct {
	Type  string
	Start int
	End   int
}

// HostLexer tokenizes an embedded code fragment. The returned sequence must be
// finite, restartable and cover the fragment without gaps.
type HostLexer interface {
	Tokens(fragment string) iter.Seq[LexToken]
}

// LexerFunc adapts a function to HostLexer.
type LexerFunc func(fragment string) iter.Seq[LexToken]

func (f LexerFunc) Tokens(fragment string) iter.Seq[LexToken] { return f(fragment) }
