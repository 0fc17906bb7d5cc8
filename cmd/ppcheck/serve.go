package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/pkg/browser"

	"github.com/phyten/ppcheck/internal/config"
	"github.com/phyten/ppcheck/internal/web"
)

// openBrowser is swapped in tests.
var openBrowser = browser.OpenURL

func (c *cli) serveCmd(ctx context.Context, args []string) int {
	fs := newFlagSet("serve")
	port := fs.Int("p", 0, "")
	fs.IntVar(port, "port", 0, "")
	repo := fs.String("repo", ".", "")
	open := fs.Bool("open", false, "")
	configPath := fs.String("config", "", "")
	host := fs.String("host", "127.0.0.1", "")
	if _, err := parseInterleaved(fs, args); err != nil {
		return c.usageError("serve", err)
	}

	var engineFlags config.EngineConfig
	var uiFlags config.UIConfig
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "repo":
			engineFlags.Repo = repo
		case "p", "port":
			uiFlags.Port = port
		case "open":
			uiFlags.Open = open
		}
	})
	r, err := resolveSettings(c.getenv, *configPath, engineFlags, uiFlags)
	if err != nil {
		return c.usageError("serve", err)
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(*host, fmt.Sprint(r.ui.Port)))
	if err != nil {
		return c.fail("serve", err)
	}
	srv := &http.Server{
		Handler:           web.NewServer(r.opts.RepoDir, r.opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	url := "http://" + ln.Addr().String() + "/"
	c.logger.Printf("ppcheck serve listening on %s (repo=%s)", url, mustAbs(r.opts.RepoDir))
	if r.ui.Open {
		if err := openBrowser(url); err != nil {
			c.logger.Printf("ppcheck serve: open browser: %v", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return c.fail("serve", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return exitOK
}

func mustAbs(p string) string {
	a, _ := filepath.Abs(p)
	return a
}
