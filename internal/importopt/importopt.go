// Package importopt cleans up Java import lists that contain directive
// comments. Lists without directives are left to the standard tooling.
package importopt

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/phyten/ppcheck/internal/directive"
	"github.com/phyten/ppcheck/internal/hostlex"
)

// Import は単一行の import 文です。Start/End は改行を含む行全体のバイト範囲です。
type Import struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Static bool   `json:"static,omitempty"`
	Line   int    `json:"line"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Wildcard reports whether the import ends in ".*".
func (im Import) Wildcard() bool { return im.Name == "*" }

// Analysis describes the import block of one file.
type Analysis struct {
	Found         bool     `json:"found"`
	Start         int      `json:"start"`
	End           int      `json:"end"`
	Imports       []Import `json:"imports"`
	HasDirectives bool     `json:"has_directives"`
}

// Range is a byte range [Start, End) removed by Apply.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Plan is the set of edits for one file. Defer means the list has no
// directive comments and should be handled by the generic optimiser.
type Plan struct {
	Defer  bool     `json:"defer"`
	Remove []Import `json:"remove,omitempty"`
	Cuts   []Range  `json:"cuts,omitempty"`
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool { return p.Defer || len(p.Cuts) == 0 }

var (
	reImport  = regexp.MustCompile(`^\s*import\s+(static\s+)?([\p{L}_$][\p{L}\p{N}_$]*(?:\s*\.\s*[\p{L}_$][\p{L}\p{N}_$]*)*(?:\s*\.\s*\*)?)\s*;\s*(?://.*|/\*.*\*/\s*)?$`)
	rePackage = regexp.MustCompile(`^\s*package\s+[\p{L}\p{N}_$.\s]+;`)
)

type line struct {
	text       string
	start, end int // end includes the newline
	no         int
}

func splitLines(src []byte) []line {
	var out []line
	pos := 0
	for no := 1; pos < len(src); no++ {
		end := len(src)
		if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
			end = pos + i + 1
		}
		text := strings.TrimRight(string(src[pos:end]), "\r\n")
		out = append(out, line{text: text, start: pos, end: end, no: no})
		pos = end
	}
	return out
}

// Analyze locates the import block: import statements together with the
// comments and blank lines between them, ending before the first type
// declaration.
func Analyze(src []byte) Analysis {
	lines := splitLines(src)
	var an Analysis
	inBlock := false
	inComment := false
	lastImportEnd := -1
	var pendingDirective bool
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln.text)
		if inComment {
			if strings.Contains(trimmed, "*/") {
				inComment = false
			}
			continue
		}
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "//"):
			if strings.HasPrefix(trimmed, "//"+directive.DirectiveSigil) {
				pendingDirective = true
			}
			continue
		case strings.HasPrefix(trimmed, "/*"):
			if !strings.Contains(trimmed[2:], "*/") {
				inComment = true
			}
			continue
		case !inBlock && rePackage.MatchString(ln.text):
			// directives before the package clause are not part of the list
			pendingDirective = false
			continue
		}
		m := reImport.FindStringSubmatch(ln.text)
		if m == nil {
			break
		}
		if !inBlock {
			inBlock = true
			an.Found = true
			an.Start = ln.start
		}
		if pendingDirective {
			an.HasDirectives = true
		}
		path := stripSpaces(m[2])
		name := path[strings.LastIndexByte(path, '.')+1:]
		an.Imports = append(an.Imports, Import{
			Path:   path,
			Name:   name,
			Static: m[1] != "",
			Line:   ln.no,
			Start:  ln.start,
			End:    ln.end,
		})
		lastImportEnd = ln.end
	}
	if !an.Found {
		return Analysis{}
	}
	an.End = lastImportEnd
	// a directive that closes the list (a trailing //#endif) still belongs to it
	if !an.HasDirectives {
		an.HasDirectives = blockHasDirective(lines, an.Start, an.End) || trailingDirective(lines, an.End)
	}
	an.End = extendOverTrailingDirectives(lines, an.End)
	return an
}

func blockHasDirective(lines []line, start, end int) bool {
	for _, ln := range lines {
		if ln.start < start || ln.end > end {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(ln.text), "//"+directive.DirectiveSigil) {
			return true
		}
	}
	return false
}

func trailingDirective(lines []line, end int) bool {
	return extendOverTrailingDirectives(lines, end) != end
}

// extendOverTrailingDirectives grows end over directive comment lines that
// directly follow the last import, blank lines allowed in between.
func extendOverTrailingDirectives(lines []line, end int) int {
	out := end
	for _, ln := range lines {
		if ln.start < end {
			continue
		}
		trimmed := strings.TrimSpace(ln.text)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "//"+directive.DirectiveSigil) {
			break
		}
		out = ln.end
	}
	return out
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// PlanFor computes the rewrite for src. Without directive comments it defers.
// Otherwise every single-type import whose simple name is not referenced
// outside the import block is removed; directive comments are kept.
func PlanFor(src []byte) Plan {
	an := Analyze(src)
	if !an.Found || !an.HasDirectives {
		return Plan{Defer: true}
	}
	used := referencedNames(src, an)
	var p Plan
	for _, im := range an.Imports {
		if im.Wildcard() {
			continue
		}
		if _, ok := used[im.Name]; ok {
			continue
		}
		p.Remove = append(p.Remove, im)
		p.Cuts = append(p.Cuts, Range{Start: im.Start, End: im.End})
	}
	if len(p.Cuts) == 0 {
		return p
	}
	if r, ok := leadingBlank(src, an, p.Cuts); ok {
		p.Cuts = append(p.Cuts, r)
	}
	sort.Slice(p.Cuts, func(i, j int) bool { return p.Cuts[i].Start < p.Cuts[j].Start })
	return p
}

// leadingBlank finds the blank lines that would open the import block once
// the cuts are applied.
func leadingBlank(src []byte, an Analysis, cuts []Range) (Range, bool) {
	cut := func(off int) bool {
		for _, c := range cuts {
			if off >= c.Start && off < c.End {
				return true
			}
		}
		return false
	}
	var r Range
	found := false
	for _, ln := range splitLines(src) {
		if ln.start < an.Start || ln.start >= an.End {
			continue
		}
		if cut(ln.start) {
			continue
		}
		if strings.TrimSpace(ln.text) != "" {
			break
		}
		if !found {
			r.Start = ln.start
			found = true
		}
		r.End = ln.end
	}
	return r, found
}

// referencedNames collects identifiers used after the import block,
// including those in "$$" code fragments.
func referencedNames(src []byte, an Analysis) map[string]struct{} {
	lx, _ := hostlex.ForLanguage("java")
	body := string(src[an.End:])
	used := make(map[string]struct{})
	add := func(fragment string) {
		for tok := range lx.Tokens(fragment) {
			switch tok.Type {
			case hostlex.TypeIdentifier:
				used[fragment[tok.Start:tok.End]] = struct{}{}
			case hostlex.TypeComment:
				text := fragment[tok.Start:tok.End]
				if rest, ok := strings.CutPrefix(text, "//"+directive.CodeSigil); ok {
					for inner := range lx.Tokens(rest) {
						if inner.Type == hostlex.TypeIdentifier {
							used[rest[inner.Start:inner.End]] = struct{}{}
						}
					}
				} else {
					for _, word := range docReferences(text) {
						used[word] = struct{}{}
					}
				}
			}
		}
	}
	add(body)
	return used
}

var reDocRef = regexp.MustCompile(`\{@(?:link|linkplain|see|value)\s+([\p{L}_$][\p{L}\p{N}_$]*)|@(?:see|throws|exception)\s+([\p{L}_$][\p{L}\p{N}_$]*)`)

// docReferences returns type names referenced from Javadoc tags.
func docReferences(comment string) []string {
	var out []string
	for _, m := range reDocRef.FindAllStringSubmatch(comment, -1) {
		for _, g := range m[1:] {
			if g != "" {
				out = append(out, g)
			}
		}
	}
	return out
}

// Apply returns src with the plan's cuts removed.
func Apply(src []byte, p Plan) []byte {
	if p.Empty() {
		return append([]byte(nil), src...)
	}
	var buf bytes.Buffer
	buf.Grow(len(src))
	pos := 0
	for _, c := range p.Cuts {
		if c.Start < pos {
			c.Start = pos
		}
		if c.End <= c.Start {
			continue
		}
		buf.Write(src[pos:c.Start])
		pos = c.End
	}
	buf.Write(src[pos:])
	return buf.Bytes()
}
