package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/ppcheck/internal/completion"
	"github.com/phyten/ppcheck/internal/engine"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func writeRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"src/A.java":   "class A {}\n//#endif\n",
		"src/Ok.java":  "//#ifdef DEBUG\n//#endif\n",
		"notes/b.kt":   "//#endif\n",
		"gen/Gen.java": "//#else\n",
	}
	for name, body := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestHighlightReturnsAllSpans(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()
	body := `{"path":"<b>x</b>.java","source":"//#if a < 5\n//#endif\n//#endif\n"}`
	rr := do(t, h, http.MethodPost, "/api/highlight", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"file":"<b>x</b>.java"`) {
		t.Fatalf("JSON must not HTML-escape: %s", rr.Body.String())
	}
	var resp highlightResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.File != "<b>x</b>.java" || resp.Lang != "java" || resp.Errors != 1 || resp.Depth != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	var got []string
	for _, d := range resp.Spans {
		got = append(got, d.Category+" "+d.Text)
	}
	want := []string{"directive #if", "identifier a", "number 5", "directive #endif", "directive #endif", "error //#endif"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestHighlightRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	cases := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"GET は不可", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"壊れた JSON", http.MethodPost, "{", http.StatusBadRequest},
		{"未知のフィールド", http.MethodPost, `{"src":"x"}`, http.StatusBadRequest},
		{"言語不明", http.MethodPost, `{"path":"notes.unknownext","source":"//#if"}`, http.StatusUnprocessableEntity},
		{"未対応言語", http.MethodPost, `{"lang":"cobol","source":"//#if"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, tc.method, "/api/highlight", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.status, rr.Body.String())
			}
			var payload map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil || payload["error"] == "" {
				t.Fatalf("error payload expected: %s", rr.Body.String())
			}
		})
	}

	s.maxBody = 16
	rr := do(t, h, http.MethodPost, "/api/highlight", `{"source":"`+strings.Repeat("x", 64)+`"}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
}

func TestScanUsesServerRepo(t *testing.T) {
	repo := writeRepo(t)
	h := newTestServer(t, repo).Handler()
	rr := do(t, h, http.MethodGet, "/api/scan?no_git=1&repo=/etc&exclude=gen/**", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	var res engine.Result
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Files != 2 || res.ErrorSpans != 1 || res.Diagnostics[0].File != "src/A.java" {
		t.Fatalf("unexpected result: %+v", res)
	}

	rr = do(t, h, http.MethodGet, "/api/scan?no_git=1&lang=java,kotlin", "")
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ErrorSpans != 3 {
		t.Fatalf("widened allow-list should report 3 errors: %+v", res)
	}
}

func TestScanRejectsInvalidQuery(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()
	for _, q := range []string{"jobs=0", "jobs=abc", "no_git=maybe", "lang=klingon", "path_regex=("} {
		t.Run(q, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, "/api/scan?"+q, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rr.Code, rr.Body.String())
			}
		})
	}
	if rr := do(t, h, http.MethodPost, "/api/scan", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /api/scan status = %d", rr.Code)
	}
}

func TestScanStreamEmitsProgressAndResult(t *testing.T) {
	repo := writeRepo(t)
	srv := httptest.NewServer(newTestServer(t, repo).Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/scan/stream?no_git=1", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to call stream endpoint: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type: %q", ct)
	}

	var events []string
	var result engine.Result
	var event string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
			events = append(events, event)
		case strings.HasPrefix(line, "data: ") && event == "result":
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &result); err != nil {
				t.Fatalf("decode result: %v", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(events) < 2 || events[0] != "progress" || events[len(events)-1] != "result" {
		t.Fatalf("unexpected events: %v", events)
	}
	if result.Files != 3 || result.ErrorSpans != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestKeywords(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()
	cases := map[string][]string{
		"":          {"#if", "#else", "#endif", "#ifdef"},
		"?prefix=e": {"#else", "#endif"},
		"?prefix=z": {},
	}
	for q, want := range cases {
		rr := do(t, h, http.MethodGet, "/api/keywords"+q, "")
		var payload map[string][]string
		if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if diff := cmp.Diff(want, payload["items"]); diff != "" {
			t.Fatalf("keywords %q mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestComplete(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()
	cases := []struct {
		name   string
		body   string
		status int
		want   completion.Result
	}{
		{"コメント内", `{"source":"//#en\nint x;","offset":5}`, http.StatusOK, completion.Result{Items: []string{"#endif"}, Start: 2, End: 5}},
		{"offset 省略", `{"lang":"go","source":"// #i"}`, http.StatusOK, completion.Result{Items: []string{"#if", "#ifdef"}, Start: 3, End: 5}},
		{"コメント外", `{"source":"int x;","offset":3}`, http.StatusOK, completion.Result{Items: []string{}, Start: 3, End: 3}},
		{"範囲外", `{"source":"//","offset":9}`, http.StatusBadRequest, completion.Result{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/complete", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.status, rr.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			var got completion.Result
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("completion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImports(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()
	src := "package a;\n\nimport x.Unused;\n\n//#if A > 1\nimport x.Used;\n//#endif\n\nclass B { Used u; }\n"
	body, _ := json.Marshal(map[string]string{"source": src})
	rr := do(t, h, http.MethodPost, "/api/imports", string(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	var resp importsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "package a;\n\n//#if A > 1\nimport x.Used;\n//#endif\n\nclass B { Used u; }\n"
	if !resp.Changed || resp.Result != want {
		t.Fatalf("unexpected imports response: %+v", resp)
	}

	plain, _ := json.Marshal(map[string]string{"source": "package a;\nimport x.Y;\nclass C {}\n"})
	rr = do(t, h, http.MethodPost, "/api/imports", string(plain))
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Changed || !resp.Plan.Defer {
		t.Fatalf("lists without directives should defer: %+v", resp)
	}
}
