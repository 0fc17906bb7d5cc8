package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
)

func newTestServer(t *testing.T, repo string) *Server {
	t.Helper()
	return NewServer(repo, engineopts.Defaults(repo))
}

func TestIndexはセキュリティヘッダを付与する(t *testing.T) {
	h := newTestServer(t, "/tmp/<repo>").Handler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if csp := rr.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "script-src 'self'") {
		t.Fatalf("CSP header missing script-src: %q", csp)
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("X-Frame-Options missing")
	}
	body := rr.Body.String()
	for _, want := range []string{`src="/assets/ui.js"`, `<option value="java">java</option>`, "<code>#ifdef</code>", "/tmp/&lt;repo&gt;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index should contain %q", want)
		}
	}
	if strings.Contains(body, "<repo>") {
		t.Fatal("repo path must be escaped")
	}
}

func TestAssetsAndNotFound(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()
	cases := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/assets/ui.js", http.StatusOK, "application/javascript; charset=utf-8"},
		{"/assets/styles.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			if tc.contentType != "" && rr.Header().Get("Content-Type") != tc.contentType {
				t.Fatalf("content type = %q", rr.Header().Get("Content-Type"))
			}
		})
	}
}
