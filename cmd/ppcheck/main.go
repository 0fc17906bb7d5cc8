package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phyten/ppcheck/internal/engine"
	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
	"github.com/phyten/ppcheck/internal/termcolor"
)

// shutdownSignals cancel the root context; serve drains and exits on either.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// exit codes
const (
	exitOK    = 0
	exitFound = 1
	exitUsage = 2
)

// cli carries the process environment so subcommands can run against buffers in tests.
type cli struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	getenv  func(string) string
	environ []string
	logger  *log.Logger
}

func main() {
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	c := &cli{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
		environ: os.Environ(),
		logger:  log.Default(),
	}
	code := c.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func (c *cli) run(ctx context.Context, args []string) int {
	if c.logger == nil {
		c.logger = log.New(c.stderr, "", 0)
	}
	if len(args) > 0 {
		switch args[0] {
		case "check":
			return c.checkCmd(ctx, args[1:])
		case "highlight":
			return c.highlightCmd(ctx, args[1:])
		case "imports":
			return c.importsCmd(args[1:])
		case "keywords":
			return c.keywordsCmd(args[1:])
		case "serve":
			return c.serveCmd(ctx, args[1:])
		case "help":
			fmt.Fprint(c.stdout, usageText)
			return exitOK
		}
	}
	return c.checkCmd(ctx, args)
}

const usageText = `ppcheck - validate //#if / //#ifdef / //#else / //#endif directives in comments

Usage:
  ppcheck [check] [flags] [paths...]
  ppcheck highlight [--lang L] [--operators] [--output F] FILE|-
  ppcheck imports [--write] FILE...
  ppcheck keywords [PREFIX]
  ppcheck serve [-p PORT] [--repo DIR] [--open]

Check flags:
  --repo DIR             repository root (default: .)
  --lang L               languages to scan, repeatable or comma separated (default: java)
  --path P               include path or glob, repeatable
  --exclude P            exclude glob, repeatable
  --path-regex RE        keep only paths matching RE, repeatable
  --exclude-typical      skip vendor/, node_modules/, dist/, build/, target/ and *.min.*
  --no-git               walk the file system instead of git ls-files
  --jobs N               parallel workers (1..64)
  --max-file-bytes N     skip files larger than N bytes (0 = unlimited)
  --output F             table|tsv|json|ndjson|csv|md|pretty
  --fields LIST          columns for table/tsv/csv/md output
  --sort LIST            sort keys, e.g. -file,line
  --all-spans            report every classified span, not only errors
  --operators            classify operators in conditions
  --with-link            attach blob URLs for the HEAD commit
  --color MODE           auto|always|never
  --progress             force progress output on stderr
  --no-progress          disable progress output
  --copy                 also copy the rendered report to the clipboard
  --config FILE          configuration file (yaml, toml or json)

Exit status: 0 no errors, 1 directive errors found, 2 usage or runtime failure.
`

// listFlag collects repeatable, comma separated values.
type listFlag struct {
	values []string
}

func (l *listFlag) String() string { return strings.Join(l.values, ",") }

func (l *listFlag) Set(v string) error {
	l.values = append(l.values, engineopts.SplitMulti([]string{v})...)
	return nil
}

// parseInterleaved allows flags after positional arguments.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// usageError prints err and the usage text; flag.ErrHelp is not an error.
func (c *cli) usageError(name string, err error) int {
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(c.stdout, usageText)
		return exitOK
	}
	fmt.Fprintf(c.stderr, "ppcheck %s: %v\n\n%s", name, err, usageText)
	return exitUsage
}

func (c *cli) fail(name string, err error) int {
	c.logger.Printf("ppcheck %s: %v", name, err)
	return exitUsage
}

func (c *cli) painter(color string) termcolor.Painter {
	mode, err := termcolor.ParseMode(color)
	if err != nil {
		mode = termcolor.ModeAuto
	}
	f, _ := c.stdout.(*os.File)
	return termcolor.NewPainter(mode, f, termcolor.EnvMap(c.environ))
}

func reportErrors(w io.Writer, res *engine.Result) {
	if res == nil {
		return
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "ppcheck: %d error(s) while scanning\n", len(res.Errors))
		for _, e := range res.Errors {
			file := e.File
			if file == "" {
				file = "(repository)"
			}
			fmt.Fprintf(w, "  %s [%s] %s\n", file, e.Stage, e.Message)
		}
	}
	for _, u := range res.Unclosed {
		fmt.Fprintf(w, "ppcheck: warning: %s: %d block(s) not closed by #endif\n", u.File, u.Depth)
	}
}
