package engine

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/phyten/ppcheck/internal/execx"
)

var typicalExcludeDirs = []string{"vendor", "node_modules", "dist", "build", "target"}

var typicalExcludePatterns = []string{
	":(glob,exclude)vendor/**",
	":(glob,exclude)node_modules/**",
	":(glob,exclude)dist/**",
	":(glob,exclude)build/**",
	":(glob,exclude)target/**",
	":(glob,exclude)*.min.*",
}

// buildPathspecs builds the list to append after "--" for `git ls-files`.
func buildPathspecs(includes, excludes []string, typical bool) []string {
	out := make([]string, 0, len(includes)+len(excludes)+len(typicalExcludePatterns)+1)
	for _, raw := range includes {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			out = append(out, filepath.ToSlash(trimmed))
		}
	}
	if len(out) == 0 {
		out = append(out, ".")
	}
	if typical {
		out = append(out, typicalExcludePatterns...)
	}
	for _, raw := range excludes {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		trimmed = filepath.ToSlash(trimmed)
		if strings.HasPrefix(trimmed, ":!") || strings.HasPrefix(trimmed, ":(exclude)") || strings.HasPrefix(trimmed, ":(glob,exclude)") {
			out = append(out, trimmed)
			continue
		}
		out = append(out, ":(glob,exclude)"+trimmed)
	}
	return out
}

// CompilePathRegex compiles the non-blank patterns in order.
func CompilePathRegex(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		rx, err := regexp.Compile(trimmed)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rx)
	}
	return compiled, nil
}

func filterByPathRegex(files []string, rx []*regexp.Regexp) []string {
	if len(rx) == 0 {
		return files
	}
	out := files[:0]
	for _, f := range files {
		for _, r := range rx {
			if r.MatchString(f) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// listFiles returns repo-relative, slash-separated paths sorted by name.
func listFiles(ctx context.Context, opts Options) ([]string, error) {
	var (
		files []string
		err   error
	)
	if !opts.NoGit && isWorkTree(ctx, opts.Runner, opts.RepoDir) {
		files, err = gitListFiles(ctx, opts.Runner, opts.RepoDir, buildPathspecs(opts.Paths, opts.Excludes, opts.ExcludeTypical))
	} else {
		files, err = walkFiles(ctx, opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
	}
	if err != nil {
		return nil, err
	}
	files = filterByPathRegex(files, opts.PathRegexCompiled)
	sort.Strings(files)
	return files, nil
}

func isWorkTree(ctx context.Context, runner execx.Runner, repo string) bool {
	out, err := execx.Output(ctx, runner, repo, "git", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func gitListFiles(ctx context.Context, runner execx.Runner, repo string, pathspecs []string) ([]string, error) {
	args := append([]string{"-c", "core.quotePath=false", "ls-files", "-z", "--cached", "--others", "--exclude-standard", "--"}, pathspecs...)
	out, err := execx.Output(ctx, runner, repo, "git", args...)
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	seen := make(map[string]struct{})
	var files []string
	for _, raw := range bytes.Split(out, []byte{0}) {
		name := filepath.ToSlash(string(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		files = append(files, name)
	}
	return files, nil
}

func walkFiles(ctx context.Context, repo string, includes, excludes []string, typical bool) ([]string, error) {
	root := repo
	if root == "" {
		root = "."
	}
	excl := walkExcludes(excludes)
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if name == ".git" || (typical && isTypicalDir(name)) || matchesAny(excl, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if typical && strings.Contains(path.Base(rel), ".min.") {
			return nil
		}
		if matchesAny(excl, rel) || !included(includes, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func isTypicalDir(name string) bool {
	for _, d := range typicalExcludeDirs {
		if name == d {
			return true
		}
	}
	return false
}

// walkExcludes strips git pathspec magic so the same --exclude values work
// without git.
func walkExcludes(excludes []string) []string {
	out := make([]string, 0, len(excludes))
	for _, raw := range excludes {
		p := filepath.ToSlash(strings.TrimSpace(raw))
		for _, magic := range []string{":(glob,exclude)", ":(exclude)", ":!"} {
			p = strings.TrimPrefix(p, magic)
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matchGlob(p, rel) {
			return true
		}
	}
	return false
}

// matchGlob は "dir/**" を前方一致として、それ以外を path.Match としてパス全体と基底名に照合します。
func matchGlob(pattern, rel string) bool {
	if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
		return rel == dir || strings.HasPrefix(rel, dir+"/")
	}
	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	}
	return false
}

func included(includes []string, rel string) bool {
	restricted := false
	for _, raw := range includes {
		inc := strings.Trim(filepath.ToSlash(strings.TrimSpace(raw)), "/")
		if inc == "" {
			continue
		}
		restricted = true
		if inc == "." || rel == inc || strings.HasPrefix(rel, inc+"/") || matchGlob(inc, rel) {
			return true
		}
	}
	return !restricted
}
