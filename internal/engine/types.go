package engine

import (
	"regexp"

	"github.com/phyten/ppcheck/internal/execx"
	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/progress"
)

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Unclosed は走査終了時に閉じられていない #if ブロックを持つファイルです。
type Unclosed struct {
	File  string `json:"file"`
	Depth int    `json:"depth"`
}

// Options は実行オプション
type Options struct {
	RepoDir           string
	Langs             []string // allow-list; empty means detect.DefaultAllow
	Paths             []string
	Excludes          []string
	PathRegex         []string
	PathRegexCompiled []*regexp.Regexp
	ExcludeTypical    bool
	NoGit             bool
	Jobs              int
	MaxFileBytes      int
	AllSpans          bool
	Operators         bool
	WithLink          bool
	ProgressObserver  progress.Observer `json:"-"`
	Runner            execx.Runner      `json:"-"`
}

// Result は出力
type Result struct {
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Files       int                `json:"files"`
	Skipped     int                `json:"skipped"`
	Total       int                `json:"total"`
	ErrorSpans  int                `json:"error_spans"`
	Unclosed    []Unclosed         `json:"unclosed,omitempty"`
	HasURL      bool               `json:"has_url"`
	ElapsedMS   int64              `json:"elapsed_ms"`
	Errors      []ItemError        `json:"errors,omitempty"`
	ErrorCount  int                `json:"error_count"`
}

// FileReport は 1 バッファの走査結果です。
type FileReport struct {
	File        string             `json:"file"`
	Lang        string             `json:"lang"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Depth       int                `json:"depth"`
}

// HasErrors reports whether any diagnostic is an error span.
func (r *Result) HasErrors() bool { return r != nil && r.ErrorSpans > 0 }
