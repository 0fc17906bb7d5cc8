package directive

import "strings"

var keywords = []string{"#if", "#else", "#endif", "#ifdef"}

// Keywords returns the completion suggestions offered inside comments.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}

// KeywordsWithPrefix filters Keywords by a partially typed word. The sigil
// may be omitted from prefix.
func KeywordsWithPrefix(prefix string) []string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Keywords()
	}
	if !strings.HasPrefix(prefix, DirectiveSigil) {
		prefix = DirectiveSigil + prefix
	}
	var out []string
	for _, kw := range keywords {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, kw)
		}
	}
	return out
}
