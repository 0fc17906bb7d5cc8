package directive

import (
	"strconv"
	"strings"
	"unicode"
)

var connectives = []string{"&&", "||"}

// Operand は関係式の左辺または右辺です。Start/End は条件項内のオフセットで、前後の空白を含みません。
type Operand struct {
	Text     string
	Start    int
	End      int
	Category Category
}

// Condition は `<lhs> <relop> <rhs>` 形式の 1 項です。
type Condition struct {
	LHS     Operand
	Op      string
	OpStart int
	RHS     Operand
}

// SplitConditions cuts a condition expression at every "&&" and "||",
// left to right, without precedence or grouping. Terms keep their whitespace.
func SplitConditions(expr string) []string {
	var terms []string
	last := 0
	for i := 0; i+1 < len(expr); {
		if isConnective(expr[i : i+2]) {
			terms = append(terms, expr[last:i])
			i += 2
			last = i
			continue
		}
		i++
	}
	return append(terms, expr[last:])
}

func isConnective(s string) bool {
	for _, c := range connectives {
		if s == c {
			return true
		}
	}
	return false
}

// ParseCondition matches term against `<lhs><relop><rhs>`. The leftmost
// relational operator wins and a two-character operator is preferred over its
// one-character prefix at the same position. A chained comparison keeps the
// rest of the term as its right operand: "a < b < c" is a < "b < c".
func ParseCondition(term string) (Condition, bool) {
	i := strings.IndexAny(term, "<>")
	if i < 0 {
		return Condition{}, false
	}
	op := term[i : i+1]
	if i+1 < len(term) && term[i+1] == '=' {
		op = term[i : i+2]
	}
	lhs, ok := newOperand(term, 0, i)
	if !ok {
		return Condition{}, false
	}
	rhs, ok := newOperand(term, i+len(op), len(term))
	if !ok {
		return Condition{}, false
	}
	return Condition{LHS: lhs, Op: op, OpStart: i, RHS: rhs}, true
}

func newOperand(term string, from, to int) (Operand, bool) {
	raw := term[from:to]
	lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	text := strings.TrimSpace(raw)
	if text == "" {
		return Operand{}, false
	}
	start := from + lead
	return Operand{Text: text, Start: start, End: start + len(text), Category: Classify(text)}, true
}

// Classify returns CategoryNumber when the trimmed text is a base-10 integer
// literal (optionally signed, 32-bit range) and CategoryIdentifier otherwise.
func Classify(text string) Category {
	if _, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32); err == nil {
		return CategoryNumber
	}
	return CategoryIdentifier
}
