// Package web serves the ppcheck UI and its JSON API.
package web

import (
	_ "embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/phyten/ppcheck/internal/comments"
	"github.com/phyten/ppcheck/internal/directive"
)

const (
	stylesPath = "/assets/styles.css"
	scriptPath = "/assets/ui.js"
)

var (
	//go:embed templates/index.html
	indexHTML string
	indexOnce sync.Once
	indexTmpl *template.Template

	//go:embed assets/styles.css
	stylesCSS string

	//go:embed assets/ui.js
	scriptJS string
)

type indexData struct {
	StylesPath string
	ScriptPath string
	Repo       string
	Languages  []string
	Keywords   []string
}

// Register attaches the UI and API handlers of s to mux.
func Register(mux *http.ServeMux, s *Server) {
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc(stylesPath, stylesHandler)
	mux.HandleFunc(scriptPath, scriptHandler)
	mux.HandleFunc("/api/highlight", s.highlightHandler)
	mux.HandleFunc("/api/scan", s.scanHandler)
	mux.HandleFunc("/api/scan/stream", s.scanStreamHandler)
	mux.HandleFunc("/api/keywords", keywordsHandler)
	mux.HandleFunc("/api/complete", s.completeHandler)
	mux.HandleFunc("/api/imports", s.importsHandler)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	tmpl := loadTemplate()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'self'; script-src 'self'; img-src 'self'; connect-src 'self'; form-action 'self'; base-uri 'none'")
	data := indexData{
		StylesPath: stylesPath,
		ScriptPath: scriptPath,
		Repo:       s.repoDir,
		Languages:  comments.Languages(),
		Keywords:   directive.Keywords(),
	}
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
	}
}

func stylesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(stylesCSS))
}

func scriptHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(scriptJS))
}

func loadTemplate() *template.Template {
	indexOnce.Do(func() {
		indexTmpl = template.Must(template.New("index").Parse(indexHTML))
	})
	return indexTmpl
}
