package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"slices"
	"strconv"
	"syscall"
	"testing"
	"time"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

func TestServeOpensBrowserAndServesAPI(t *testing.T) {
	urls := make(chan string, 1)
	old := openBrowser
	openBrowser = func(u string) error { urls <- u; return nil }
	t.Cleanup(func() { openBrowser = old })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	args := []string{"serve", "-p", strconv.Itoa(freePort(t)), "--repo", t.TempDir(), "--open"}
	done := make(chan runResult, 1)
	go func() { done <- runCLIContext(ctx, t, args...) }()

	var url string
	select {
	case url = <-urls:
	case r := <-done:
		t.Fatalf("serve exited early: code=%d stderr=%s", r.code, r.stderr)
	case <-time.After(10 * time.Second):
		t.Fatal("browser was not opened")
	}

	resp, err := http.Get(url + "api/keywords?prefix=%23if")
	if err != nil {
		t.Fatalf("GET keywords: %v", err)
	}
	defer resp.Body.Close()
	var payload map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload["items"]) != 2 {
		t.Fatalf("unexpected keywords: %v", payload)
	}

	cancel()
	select {
	case r := <-done:
		if r.code != exitOK {
			t.Fatalf("serve exit code = %d, stderr=%s", r.code, r.stderr)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeRejectsInvalidPort(t *testing.T) {
	r := runCLI(t, "", "serve", "-p", "70000", "--repo", t.TempDir())
	if r.code != exitUsage {
		t.Fatalf("exit code = %d, want %d", r.code, exitUsage)
	}
}

func TestShutdownSignalsIncludeSIGTERM(t *testing.T) {
	for _, sig := range []os.Signal{os.Interrupt, syscall.SIGTERM} {
		if !slices.Contains(shutdownSignals, sig) {
			t.Fatalf("%v should stop serve", sig)
		}
	}
}
