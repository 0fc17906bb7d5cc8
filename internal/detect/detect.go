package detect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/phyten/ppcheck/internal/comments"
)

// DefaultAllow is the allow-list used when configuration names no language.
var DefaultAllow = []string{"java"}

type Info struct {
	Name string
}

func FromPathAndContent(p string, data []byte) Info {
	if name := detectByPath(p); name != "" {
		return Info{Name: name}
	}
	if shebang := detectByShebang(data); shebang != "" {
		return Info{Name: shebang}
	}
	return Info{Name: ""}
}

func detectByPath(p string) string {
	lowerBase := strings.ToLower(filepath.Base(p))
	if lang, ok := basenameLanguages[lowerBase]; ok {
		return lang
	}
	ext := filepath.Ext(lowerBase)
	if ext == "" {
		return ""
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	// "Foo.java.tmpl" のような二重拡張子
	stem := strings.TrimSuffix(lowerBase, ext)
	if lang, ok := extensionLanguages[filepath.Ext(stem)]; ok {
		return lang
	}
	return ""
}

func detectByShebang(data []byte) string {
	if !bytes.HasPrefix(data, []byte("#!")) {
		return ""
	}
	end := bytes.IndexByte(data, '\n')
	if end == -1 {
		end = len(data)
	}
	fields := strings.Fields(strings.ToLower(string(data[2:end])))
	for _, f := range fields {
		if lang, ok := shebangLanguages[filepath.Base(f)]; ok {
			return lang
		}
	}
	return ""
}

func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if canon, ok := langAliases[n]; ok {
		return canon
	}
	return n
}

// MatchesLang はファイルの言語が許可リストに含まれるかを返します。空の許可リストは全言語を許可します。
func MatchesLang(info Info, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	detected := NormalizeLangName(info.Name)
	if detected == "" {
		return false
	}
	for _, raw := range allow {
		if NormalizeLangName(raw) == detected {
			return true
		}
	}
	return false
}

// KnownLanguage reports whether directives can be located in name's sources.
func KnownLanguage(name string) bool {
	if name == "" {
		return false
	}
	_, ok := comments.ForLanguage(NormalizeLangName(name))
	return ok
}

func CanonicalDetectLangs(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		norm := NormalizeLangName(raw)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

var basenameLanguages = map[string]string{
	"makefile":       "make",
	"gnumakefile":    "make",
	"cmakelists.txt": "cmake",
	"dockerfile":     "dockerfile",
	"jenkinsfile":    "groovy",
	"build.gradle":   "gradle",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"pom.xml":        "xml",
}

var extensionLanguages = map[string]string{
	".java":       "java",
	".jav":        "java",
	".kt":         "kotlin",
	".kts":        "kotlin",
	".scala":      "scala",
	".sc":         "scala",
	".groovy":     "groovy",
	".gradle":     "gradle",
	".c":          "c",
	".h":          "c",
	".cc":         "cpp",
	".cpp":        "cpp",
	".cxx":        "cpp",
	".hh":         "cpp",
	".hpp":        "cpp",
	".m":          "objective-c",
	".mm":         "objective-cpp",
	".cs":         "csharp",
	".go":         "go",
	".js":         "javascript",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".jsx":        "javascript",
	".ts":         "typescript",
	".tsx":        "typescript",
	".swift":      "swift",
	".rs":         "rust",
	".dart":       "dart",
	".zig":        "zig",
	".proto":      "proto",
	".thrift":     "thrift",
	".php":        "php",
	".py":         "python",
	".rb":         "ruby",
	".pl":         "perl",
	".sh":         "shell",
	".bash":       "shell",
	".zsh":        "shell",
	".yaml":       "yaml",
	".yml":        "yaml",
	".toml":       "toml",
	".ini":        "ini",
	".properties": "properties",
	".sql":        "sql",
	".hs":         "haskell",
	".elm":        "elm",
	".tf":         "terraform",
	".hcl":        "hcl",
	".bzl":        "starlark",
	".mk":         "make",
	".cmake":      "cmake",
	".lisp":       "common-lisp",
	".scm":        "scheme",
	".apex":       "apex",
	".cls":        "apex",
	".v":          "verilog",
	".xml":        "xml",
	".md":         "markdown",
}

var langAliases = map[string]string{
	"c#":     "csharp",
	"cs":     "csharp",
	"c++":    "cpp",
	"cc":     "cpp",
	"hpp":    "cpp",
	"js":     "javascript",
	"jsx":    "javascript",
	"ts":     "typescript",
	"tsx":    "typescript",
	"kt":     "kotlin",
	"kts":    "kotlin",
	"jav":    "java",
	"rb":     "ruby",
	"py":     "python",
	"rs":     "rust",
	"bash":   "shell",
	"sh":     "shell",
	"zsh":    "shell",
	"mk":     "make",
	"tf":     "terraform",
	"yml":    "yaml",
	"objc":   "objective-c",
	"golang": "go",
}

var shebangLanguages = map[string]string{
	"python":  "python",
	"python3": "python",
	"node":    "javascript",
	"deno":    "javascript",
	"perl":    "perl",
	"ruby":    "ruby",
	"php":     "php",
	"bash":    "shell",
	"sh":      "shell",
	"zsh":     "shell",
	"groovy":  "groovy",
	"kotlin":  "kotlin",
	"kscript": "kotlin",
	"swift":   "swift",
}
