package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/phyten/ppcheck/internal/detect"
	"github.com/phyten/ppcheck/internal/execx"
	"github.com/phyten/ppcheck/internal/gitremote"
	"github.com/phyten/ppcheck/internal/link"
	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/progress"
)

const maxJobs = 64

// skip reasons
const (
	skipTooLarge = "too large"
	skipBinary   = "binary"
	skipEncoding = "invalid utf-8"
	skipLanguage = "language"
)

type fileOutcome struct {
	report  *FileReport
	skipped string
	err     *ItemError
}

// Run は指定されたオプションに従ってリポジトリを走査し、ディレクティブの診断一覧を返します。
//
// ファイル単位の読み込み失敗は Result.Errors に集約されます。
// ctx がキャンセルされた場合は部分的な結果を返さず ctx.Err() を返します。
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	opts.Jobs = min(max(opts.Jobs, 1), maxJobs)
	if opts.Runner == nil {
		opts.Runner = execx.DefaultRunner()
	}
	if strings.TrimSpace(opts.RepoDir) == "" {
		opts.RepoDir = "."
	}
	allow := opts.Langs
	if len(allow) == 0 {
		allow = detect.DefaultAllow
	}
	obs := opts.ProgressObserver
	if obs == nil {
		obs = progress.NoopObserver{}
	}

	listed, err := listFiles(ctx, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	// パスだけで言語が決まり許可リスト外のものは読み込まずに除外する
	files := listed[:0]
	for _, f := range listed {
		if info := detect.FromPathAndContent(f, nil); info.Name != "" && !detect.MatchesLang(info, allow) {
			continue
		}
		files = append(files, f)
	}

	est := progress.NewEstimator(len(files), progress.DefaultConfig())
	obs.Publish(est.Begin(progress.StageScan, len(files)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]fileOutcome, len(files))
	type job struct {
		idx  int
		file string
	}
	jobs := make(chan job)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for j := range jobs {
			if ctx.Err() != nil {
				continue
			}
			res := processFile(ctx, opts, allow, j.file)
			out[j.idx] = res
			n := 0
			if res.report != nil {
				n = countErrors(res.report.Diagnostics)
			}
			if snap, notify := est.Advance(j.file, n); notify {
				obs.Publish(snap)
			}
		}
	}

	wg.Add(opts.Jobs)
	for i := 0; i < opts.Jobs; i++ {
		go worker()
	}
feed:
	for i, f := range files {
		select {
		case jobs <- job{idx: i, file: f}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs.Done(est.Complete())

	result := &Result{}
	for _, o := range out {
		switch {
		case o.err != nil:
			result.Errors = append(result.Errors, *o.err)
		case o.skipped != "":
			result.Skipped++
		case o.report != nil:
			result.Files++
			result.Diagnostics = append(result.Diagnostics, o.report.Diagnostics...)
			if o.report.Depth > 0 {
				result.Unclosed = append(result.Unclosed, Unclosed{File: o.report.File, Depth: o.report.Depth})
			}
		}
	}

	if opts.WithLink && len(result.Diagnostics) > 0 {
		if itemErr := attachLinks(ctx, opts, result.Diagnostics); itemErr != nil {
			result.Errors = append(result.Errors, *itemErr)
		} else {
			result.HasURL = true
		}
	}

	sortDiagnostics(result.Diagnostics)
	sort.Slice(result.Errors, func(i, j int) bool {
		if result.Errors[i].File == result.Errors[j].File {
			return result.Errors[i].Stage < result.Errors[j].Stage
		}
		return result.Errors[i].File < result.Errors[j].File
	})
	result.Total = len(result.Diagnostics)
	result.ErrorSpans = countErrors(result.Diagnostics)
	result.ErrorCount = len(result.Errors)
	result.ElapsedMS = msSince(start)
	return result, nil
}

func processFile(ctx context.Context, opts Options, allow []string, file string) fileOutcome {
	full := filepath.Join(opts.RepoDir, filepath.FromSlash(file))
	if opts.MaxFileBytes > 0 {
		st, err := os.Stat(full)
		if err != nil {
			return fileOutcome{err: newItemError(file, "stat", err)}
		}
		if st.Size() > int64(opts.MaxFileBytes) {
			return fileOutcome{skipped: skipTooLarge}
		}
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return fileOutcome{err: newItemError(file, "read", err)}
	}
	if bytes.IndexByte(src, 0) >= 0 {
		return fileOutcome{skipped: skipBinary}
	}
	if !utf8.Valid(src) {
		return fileOutcome{skipped: skipEncoding}
	}
	info := detect.FromPathAndContent(file, src)
	if !detect.MatchesLang(info, allow) || !detect.KnownLanguage(info.Name) {
		return fileOutcome{skipped: skipLanguage}
	}
	report, err := ScanSource(ctx, file, info.Name, src, opts)
	if err != nil {
		if ctx.Err() != nil {
			return fileOutcome{}
		}
		return fileOutcome{err: newItemError(file, "scan", err)}
	}
	return fileOutcome{report: report}
}

func attachLinks(ctx context.Context, opts Options, diags []model.Diagnostic) *ItemError {
	info, err := gitremote.Detect(ctx, opts.Runner, opts.RepoDir)
	if err != nil {
		return newItemError("", "link", err)
	}
	sha, err := gitremote.Head(ctx, opts.Runner, opts.RepoDir)
	if err != nil {
		return newItemError("", "link", err)
	}
	for i := range diags {
		d := &diags[i]
		d.URL = link.BlobRange(info, sha, d.File, d.Span.StartLine, d.Span.EndLine)
	}
	return nil
}

func sortDiagnostics(diags []model.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Span.ByteStart != diags[j].Span.ByteStart {
			return diags[i].Span.ByteStart < diags[j].Span.ByteStart
		}
		return diags[i].Span.ByteEnd < diags[j].Span.ByteEnd
	})
}

func countErrors(diags []model.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.IsError() {
			n++
		}
	}
	return n
}

func newItemError(file, stage string, err error) *ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return &ItemError{File: file, Stage: stage, Message: msg}
}

func msSince(t time.Time) int64 { return time.Since(t).Milliseconds() }

// Describe is a one-line summary used by the CLI footer.
func (r *Result) Describe() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%d files, %d diagnostics, %d errors", r.Files, r.Total, r.ErrorSpans)
}
