package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/phyten/ppcheck/internal/config"
	"github.com/phyten/ppcheck/internal/engine"
	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
	"github.com/phyten/ppcheck/internal/output"
	"github.com/phyten/ppcheck/internal/progress"
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

type checkArgs struct {
	configPath string
	engine     config.EngineConfig
	ui         config.UIConfig
	progress   bool
	noProgress bool
	copy       bool
}

// parseCheckArgs turns flags into a config layer; only flags present on the command line are set.
func parseCheckArgs(args []string) (checkArgs, error) {
	var a checkArgs
	fs := newFlagSet("check")

	var (
		langs, paths, excludes, regexes listFlag

		repo         = fs.String("repo", ".", "")
		excludeTyp   = fs.Bool("exclude-typical", false, "")
		noGit        = fs.Bool("no-git", false, "")
		jobs         = fs.Int("jobs", 0, "")
		maxFileBytes = fs.Int("max-file-bytes", 0, "")
		out          = fs.String("output", "table", "")
		fields       = fs.String("fields", "", "")
		sortKeys     = fs.String("sort", "", "")
		allSpans     = fs.Bool("all-spans", false, "")
		operators    = fs.Bool("operators", false, "")
		withLink     = fs.Bool("with-link", false, "")
		color        = fs.String("color", "auto", "")
	)
	fs.Var(&langs, "lang", "")
	fs.Var(&paths, "path", "")
	fs.Var(&excludes, "exclude", "")
	fs.Var(&regexes, "path-regex", "")
	fs.StringVar(&a.configPath, "config", "", "")
	fs.BoolVar(&a.progress, "progress", false, "")
	fs.BoolVar(&a.noProgress, "no-progress", false, "")
	fs.BoolVar(&a.copy, "copy", false, "")
	fs.StringVar(out, "o", "table", "")

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return a, err
	}

	e := &a.engine
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang":
			e.Langs = &langs.values
		case "path":
			e.Paths = &paths.values
		case "exclude":
			e.Excludes = &excludes.values
		case "path-regex":
			e.PathRegex = &regexes.values
		case "repo":
			e.Repo = repo
		case "exclude-typical":
			e.ExcludeTypical = excludeTyp
		case "no-git":
			e.NoGit = noGit
		case "jobs":
			e.Jobs = jobs
		case "max-file-bytes":
			e.MaxFileBytes = maxFileBytes
		case "output", "o":
			e.Output = out
		case "all-spans":
			e.AllSpans = allSpans
		case "operators":
			e.Operators = operators
		case "with-link":
			e.WithLink = withLink
		case "color":
			e.Color = color
		case "fields":
			a.ui.Fields = fields
		case "sort":
			a.ui.Sort = sortKeys
		}
	})
	if len(positional) > 0 {
		merged := append(append([]string(nil), paths.values...), positional...)
		e.Paths = &merged
	}
	if a.progress && a.noProgress {
		return a, fmt.Errorf("--progress and --no-progress are mutually exclusive")
	}
	return a, nil
}

type resolved struct {
	opts     engine.Options
	settings config.EngineSettings
	ui       config.UISettings
	source   config.Source
	path     string
}

// resolveSettings layers defaults, the config file, PPCHECK_* variables and flags in that order.
func resolveSettings(getenv func(string) string, configPath string, engineFlags config.EngineConfig, uiFlags config.UIConfig) (resolved, error) {
	var r resolved
	envCfg, err := config.FromEnv(getenv)
	if err != nil {
		return r, err
	}
	repo := config.ResolveAndTrim(".", envCfg.Engine.Repo, engineFlags.Repo)
	explicit := configPath
	if strings.TrimSpace(explicit) == "" {
		explicit = getenv(config.EnvConfigPath)
	}
	path, source, err := config.Find(repo, explicit, getenv("XDG_CONFIG_HOME"), getenv("HOME"))
	if err != nil {
		return r, fmt.Errorf("config: %w", err)
	}
	fileCfg, err := config.Load(path)
	if err != nil {
		return r, err
	}

	base := config.EngineSettingsFromOptions(engineopts.Defaults(repo))
	settings := config.MergeEngine(base, fileCfg.Engine, envCfg.Engine, engineFlags)
	if settings, err = config.NormalizeEngine(settings); err != nil {
		return r, err
	}
	ui := config.MergeUI(config.DefaultUISettings(), fileCfg.UI, envCfg.UI, uiFlags)
	if ui, err = config.NormalizeUI(ui); err != nil {
		return r, err
	}

	opts := engineopts.Defaults(settings.Repo)
	settings.ApplyToOptions(&opts)
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		return r, err
	}
	return resolved{opts: opts, settings: settings, ui: ui, source: source, path: path}, nil
}

func (c *cli) checkCmd(ctx context.Context, args []string) int {
	a, err := parseCheckArgs(args)
	if err != nil {
		return c.usageError("check", err)
	}
	r, err := resolveSettings(c.getenv, a.configPath, a.engine, a.ui)
	if err != nil {
		return c.usageError("check", err)
	}
	fields, err := output.ResolveFields(r.ui.Fields, r.opts.AllSpans, r.opts.WithLink)
	if err != nil {
		return c.usageError("check", err)
	}
	sortSpec, err := output.ParseSortSpec(r.ui.Sort)
	if err != nil {
		return c.usageError("check", err)
	}

	if progress.ShouldShowProgress(a.progress, a.noProgress) {
		r.opts.ProgressObserver = progress.NewAutoObserver(c.stderr)
	}
	res, err := engine.Run(ctx, r.opts)
	if err != nil {
		return c.fail("check", err)
	}

	o := output.Options{Format: r.settings.Output, Fields: fields, Sort: sortSpec, Painter: c.painter(r.settings.Color)}
	if err := c.render(res, o, a.copy); err != nil {
		return c.fail("check", err)
	}
	reportErrors(c.stderr, res)
	if res.HasErrors() {
		return exitFound
	}
	return exitOK
}

// render writes the report; with toClipboard the uncolored text also goes to the clipboard.
func (c *cli) render(res *engine.Result, o output.Options, toClipboard bool) error {
	if !toClipboard {
		return output.Write(c.stdout, res, o)
	}
	var plain bytes.Buffer
	o.Painter.Enabled = false
	if err := output.Write(&plain, res, o); err != nil {
		return err
	}
	if _, err := io.Copy(c.stdout, bytes.NewReader(plain.Bytes())); err != nil {
		return err
	}
	if err := clipboardWrite(plain.String()); err != nil {
		fmt.Fprintf(c.stderr, "ppcheck: warning: clipboard: %v\n", err)
		return nil
	}
	fmt.Fprintf(c.stderr, "ppcheck: copied %d bytes to the clipboard\n", plain.Len())
	return nil
}
