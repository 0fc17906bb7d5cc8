package comments

import "sort"

// Style はある言語のコメント・文字列の書式です。
type Style struct {
	// LinePrefixes are the line comment markers. When several match at the same
	// position the longest wins.
	LinePrefixes []string
	// Blocks are regions skipped entirely: block comments and multi-line or raw
	// string literals.
	Blocks []Block
	// StringDelims open single-line, backslash-escaped string literals.
	StringDelims []string
}

// Block is a delimited region. IndentedStart restricts Start to the beginning
// of a line, optionally after blanks.
type Block struct {
	Start         string
	End           string
	IndentedStart bool
}

var (
	styleC = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{{Start: "/*", End: "*/"}},
		StringDelims: []string{"\"", "'"},
	}
	styleJava = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{{Start: "/*", End: "*/"}, {Start: "\"\"\"", End: "\"\"\""}},
		StringDelims: []string{"\"", "'"},
	}
	styleRust = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{{Start: "/*", End: "*/"}},
		StringDelims: []string{"\""},
	}
	styleGo = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{{Start: "/*", End: "*/"}, {Start: "`", End: "`"}},
		StringDelims: []string{"\"", "'"},
	}
	styleJS = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{{Start: "/*", End: "*/"}, {Start: "`", End: "`"}},
		StringDelims: []string{"\"", "'"},
	}
	styleHash = Style{
		LinePrefixes: []string{"#"},
		StringDelims: []string{"\"", "'"},
	}
	styleRuby = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Start: "=begin", End: "=end", IndentedStart: true}},
		StringDelims: []string{"\"", "'"},
	}
	stylePython = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Start: "\"\"\"", End: "\"\"\""}, {Start: "'''", End: "'''"}},
		StringDelims: []string{"\"", "'"},
	}
	styleSQL = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{{Start: "/*", End: "*/"}},
		StringDelims: []string{"'"},
	}
	styleHCL = Style{
		LinePrefixes: []string{"//", "#"},
		Blocks:       []Block{{Start: "/*", End: "*/"}},
		StringDelims: []string{"\""},
	}
	styleHaskell = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{{Start: "{-", End: "-}"}},
		StringDelims: []string{"\""},
	}
	styleBash = Style{
		LinePrefixes: []string{"#"},
		StringDelims: []string{"\"", "'", "`"},
	}
	styleLisp = Style{
		LinePrefixes: []string{";"},
		StringDelims: []string{"\""},
	}
	styleIni = Style{
		LinePrefixes: []string{";", "#"},
	}
)

var languageStyles = map[string]Style{
	"c":             styleC,
	"cpp":           styleC,
	"objective-c":   styleC,
	"objective-cpp": styleC,
	"csharp":        styleC,
	"java":          styleJava,
	"kotlin":        styleJava,
	"scala":         styleJava,
	"groovy":        styleJava,
	"gradle":        styleJava,
	"swift":         styleJava,
	"dart":          styleC,
	"apex":          styleC,
	"proto":         styleC,
	"thrift":        styleC,
	"verilog":       styleC,
	"zig":           styleRust,
	"rust":          styleRust,
	"go":            styleGo,
	"javascript":    styleJS,
	"typescript":    styleJS,
	"php":           styleJS,
	"hcl":           styleHCL,
	"terraform":     styleHCL,
	"python":        stylePython,
	"starlark":      stylePython,
	"ruby":          styleRuby,
	"perl":          styleHash,
	"shell":         styleBash,
	"yaml":          styleHash,
	"toml":          styleHash,
	"make":          styleHash,
	"dockerfile":    styleHash,
	"cmake":         styleHash,
	"ini":           styleIni,
	"properties":    styleIni,
	"sql":           styleSQL,
	"haskell":       styleHaskell,
	"elm":           styleHaskell,
	"common-lisp":   styleLisp,
	"scheme":        styleLisp,
}

// Languages lists the languages with a known comment style, sorted.
func Languages() []string {
	out := make([]string, 0, len(languageStyles))
	for name := range languageStyles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ForLanguage returns the style for a normalised language name.
func ForLanguage(lang string) (Style, bool) {
	st, ok := languageStyles[lang]
	return st, ok
}

// CanonicalPrefix is the first line prefix of the style, or "" when the
// language has no line comments.
func (s Style) CanonicalPrefix() string {
	if len(s.LinePrefixes) == 0 {
		return ""
	}
	return s.LinePrefixes[0]
}
