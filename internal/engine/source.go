package engine

import (
	"context"
	"fmt"

	"github.com/phyten/ppcheck/internal/comments"
	"github.com/phyten/ppcheck/internal/detect"
	"github.com/phyten/ppcheck/internal/directive"
	"github.com/phyten/ppcheck/internal/hostlex"
	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/textutil"
)

// ScanSource はメモリ上の 1 バッファを走査します。lang が空ならパスと内容から推定します。
// opts のうち AllSpans と Operators だけを参照します。
func ScanSource(ctx context.Context, file, lang string, src []byte, opts Options) (*FileReport, error) {
	if lang == "" {
		lang = detect.FromPathAndContent(file, src).Name
	}
	lang = detect.NormalizeLangName(lang)
	style, ok := comments.ForLanguage(lang)
	if !ok {
		if lang == "" {
			return nil, fmt.Errorf("cannot detect language of %s", file)
		}
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	scanOpts := []directive.Option{directive.WithOperators(opts.Operators)}
	if lx, ok := hostlex.ForLanguage(lang); ok {
		scanOpts = append(scanOpts, directive.WithLexer(lx))
	}
	res, err := directive.ScanSeq(ctx, comments.All(src, style), scanOpts...)
	if err != nil {
		return nil, err
	}
	ix := model.NewLineIndex(src)
	diags := make([]model.Diagnostic, 0, len(res.Spans))
	for _, sp := range res.Spans {
		if !opts.AllSpans && !sp.IsError() {
			continue
		}
		diags = append(diags, toDiagnostic(file, lang, src, ix, sp))
	}
	return &FileReport{File: file, Lang: lang, Diagnostics: diags, Depth: res.Depth}, nil
}

func toDiagnostic(file, lang string, src []byte, ix *model.LineIndex, sp directive.Span) model.Diagnostic {
	start := min(max(sp.Start, 0), len(src))
	end := min(max(sp.End, start), len(src))
	startLine, startCol := ix.LineCol(start)
	endLine, endCol := ix.LineCol(end)
	lineText := ix.Line(startLine)
	return model.Diagnostic{
		File:     file,
		Lang:     lang,
		Category: string(sp.Category),
		Kind:     string(sp.Error),
		Token:    sp.Token,
		Message:  sp.Message,
		Text:     string(src[start:end]),
		Line:     lineText,
		Span: model.Span{
			StartLine:  startLine,
			StartCol:   startCol,
			EndLine:    endLine,
			EndCol:     endCol,
			ByteStart:  start,
			ByteEnd:    end,
			DisplayCol: textutil.DisplayColumn(lineText, startCol-1),
		},
	}
}
