package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phyten/ppcheck/internal/directive"
	"github.com/phyten/ppcheck/internal/engine"
	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
	"github.com/phyten/ppcheck/internal/importopt"
	"github.com/phyten/ppcheck/internal/output"
)

// highlightCmd prints every classified span of one file, or of stdin when the name is "-".
func (c *cli) highlightCmd(ctx context.Context, args []string) int {
	fs := newFlagSet("highlight")
	lang := fs.String("lang", "", "")
	operators := fs.Bool("operators", false, "")
	out := fs.String("output", "table", "")
	fields := fs.String("fields", "", "")
	color := fs.String("color", "auto", "")
	name := fs.String("name", "", "")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return c.usageError("highlight", err)
	}
	if len(positional) != 1 {
		return c.usageError("highlight", errors.New("exactly one FILE (or - for stdin) is required"))
	}
	format, err := engineopts.NormalizeOutput(*out)
	if err != nil {
		return c.usageError("highlight", err)
	}
	sel, err := output.ResolveFields(*fields, true, false)
	if err != nil {
		return c.usageError("highlight", err)
	}

	file := positional[0]
	var src []byte
	if file == "-" {
		src, err = io.ReadAll(c.stdin)
		file = "stdin"
		if *name != "" {
			file = *name
		}
	} else {
		src, err = os.ReadFile(file)
	}
	if err != nil {
		return c.fail("highlight", err)
	}

	rep, err := engine.ScanSource(ctx, file, *lang, src, engine.Options{AllSpans: true, Operators: *operators})
	if err != nil {
		return c.fail("highlight", err)
	}
	res := &engine.Result{Diagnostics: rep.Diagnostics, Files: 1, Total: len(rep.Diagnostics)}
	for _, d := range rep.Diagnostics {
		if d.IsError() {
			res.ErrorSpans++
		}
	}
	if rep.Depth > 0 {
		res.Unclosed = []engine.Unclosed{{File: rep.File, Depth: rep.Depth}}
	}
	if err := output.Write(c.stdout, res, output.Options{Format: format, Fields: sel, Painter: c.painter(*color)}); err != nil {
		return c.fail("highlight", err)
	}
	reportErrors(c.stderr, res)
	if res.HasErrors() {
		return exitFound
	}
	return exitOK
}

// importsCmd reports, or with --write applies, the unused-import cleanup of each Java file.
func (c *cli) importsCmd(args []string) int {
	fs := newFlagSet("imports")
	write := fs.Bool("write", false, "")
	fs.BoolVar(write, "w", false, "")
	files, err := parseInterleaved(fs, args)
	if err != nil {
		return c.usageError("imports", err)
	}
	if len(files) == 0 {
		return c.usageError("imports", errors.New("at least one FILE is required"))
	}

	code := exitOK
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			c.logger.Printf("ppcheck imports: %v", err)
			code = exitUsage
			continue
		}
		plan := importopt.PlanFor(src)
		switch {
		case plan.Defer:
			fmt.Fprintf(c.stdout, "%s: no directives in the import list; left to the IDE\n", file)
			continue
		case plan.Empty():
			fmt.Fprintf(c.stdout, "%s: nothing to remove\n", file)
			continue
		}
		names := make([]string, 0, len(plan.Remove))
		for _, im := range plan.Remove {
			names = append(names, im.Path)
		}
		if !*write {
			fmt.Fprintf(c.stdout, "%s: would remove %s\n", file, strings.Join(names, ", "))
			continue
		}
		if err := writeFileKeepMode(file, importopt.Apply(src, plan)); err != nil {
			c.logger.Printf("ppcheck imports: %v", err)
			code = exitUsage
			continue
		}
		fmt.Fprintf(c.stdout, "%s: removed %s\n", file, strings.Join(names, ", "))
	}
	return code
}

func writeFileKeepMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}

func (c *cli) keywordsCmd(args []string) int {
	fs := newFlagSet("keywords")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return c.usageError("keywords", err)
	}
	if len(positional) > 1 {
		return c.usageError("keywords", errors.New("at most one PREFIX is accepted"))
	}
	items := directive.Keywords()
	if len(positional) == 1 {
		items = directive.KeywordsWithPrefix(positional[0])
	}
	for _, k := range items {
		fmt.Fprintln(c.stdout, k)
	}
	if len(items) == 0 {
		return exitFound
	}
	return exitOK
}
