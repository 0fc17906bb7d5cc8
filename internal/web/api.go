package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/phyten/ppcheck/internal/completion"
	"github.com/phyten/ppcheck/internal/directive"
	"github.com/phyten/ppcheck/internal/engine"
	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
	"github.com/phyten/ppcheck/internal/importopt"
	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/progress"
)

// DefaultMaxBodyBytes caps posted buffers.
const DefaultMaxBodyBytes = 2 << 20

// Server holds the state shared by the API handlers.
type Server struct {
	repoDir  string
	defaults engine.Options
	maxBody  int64
}

// NewServer は repoDir を走査対象とするサーバーを作ります。defaults は /api/scan のクエリで上書きされる基準値です。
// クエリの repo は無視され、常に repoDir が使われます。
func NewServer(repoDir string, defaults engine.Options) *Server {
	defaults.RepoDir = repoDir
	return &Server{repoDir: repoDir, defaults: defaults, maxBody: DefaultMaxBodyBytes}
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	Register(mux, s)
	return mux
}

type highlightRequest struct {
	Path      string `json:"path"`
	Lang      string `json:"lang"`
	Source    string `json:"source"`
	Operators bool   `json:"operators"`
}

type highlightResponse struct {
	File   string             `json:"file"`
	Lang   string             `json:"lang"`
	Depth  int                `json:"depth"`
	Errors int                `json:"errors"`
	Spans  []model.Diagnostic `json:"spans"`
}

func (s *Server) highlightHandler(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = "buffer"
	}
	rep, err := engine.ScanSource(r.Context(), path, req.Lang, []byte(req.Source), engine.Options{AllSpans: true, Operators: req.Operators})
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	resp := highlightResponse{File: rep.File, Lang: rep.Lang, Depth: rep.Depth, Spans: rep.Diagnostics}
	if resp.Spans == nil {
		resp.Spans = []model.Diagnostic{}
	}
	for _, d := range rep.Diagnostics {
		if d.IsError() {
			resp.Errors++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) scanOptions(r *http.Request) (engine.Options, error) {
	opts, err := engineopts.ApplyWebQueryToOptions(s.defaults, r.URL.Query())
	if err != nil {
		return opts, err
	}
	opts.RepoDir = s.repoDir
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	opts, err := s.scanOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := engine.Run(r.Context(), opts)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// sseWriter は進捗イベントを text/event-stream として直列に書き出します。
type sseWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseWriter) send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	s.flusher.Flush()
}

func (s *sseWriter) Publish(snap progress.Snapshot) { s.send("progress", snap) }

func (s *sseWriter) Done(snap progress.Snapshot) { s.send("progress", snap) }

func (s *Server) scanStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	opts, err := s.scanOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	stream := &sseWriter{w: w, flusher: flusher}
	opts.ProgressObserver = stream
	res, err := engine.Run(r.Context(), opts)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		stream.send("error", map[string]string{"error": err.Error()})
		return
	}
	stream.send("result", res)
}

func keywordsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	items := directive.KeywordsWithPrefix(r.URL.Query().Get("prefix"))
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"items": items})
}

type completeRequest struct {
	Lang   string `json:"lang"`
	Source string `json:"source"`
	Offset *int   `json:"offset"`
}

func (s *Server) completeHandler(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	offset := len(req.Source)
	if req.Offset != nil {
		offset = *req.Offset
	}
	if offset < 0 || offset > len(req.Source) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("offset must be between 0 and %d", len(req.Source)))
		return
	}
	lang := req.Lang
	if strings.TrimSpace(lang) == "" {
		lang = "java"
	}
	res, ok := completion.At([]byte(req.Source), offset, lang)
	if !ok {
		res = completion.Result{Start: offset, End: offset}
	}
	if res.Items == nil {
		res.Items = []string{}
	}
	writeJSON(w, http.StatusOK, res)
}

type importsRequest struct {
	Source string `json:"source"`
}

type importsResponse struct {
	Plan    importopt.Plan `json:"plan"`
	Changed bool           `json:"changed"`
	Result  string         `json:"result"`
}

func (s *Server) importsHandler(w http.ResponseWriter, r *http.Request) {
	var req importsRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	src := []byte(req.Source)
	plan := importopt.PlanFor(src)
	out := src
	if !plan.Empty() {
		out = importopt.Apply(src, plan)
	}
	writeJSON(w, http.StatusOK, importsResponse{Plan: plan, Changed: !plan.Empty(), Result: string(out)})
}

// decodePost reads a JSON body into dst; on failure it writes the response and returns false.
func (s *Server) decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return false
	}
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error(), "status": strconv.Itoa(status)})
}
