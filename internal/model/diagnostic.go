package model

import (
	"bytes"
	"sort"
)

// Span は 1 件の分類範囲を行・桁・バイトオフセットで表します。桁は 1 始まりのバイト桁、DisplayCol は表示幅での桁です。
type Span struct {
	StartLine  int `json:"start_line"`
	StartCol   int `json:"start_col"`
	EndLine    int `json:"end_line"`
	EndCol     int `json:"end_col"`
	ByteStart  int `json:"byte_start"`
	ByteEnd    int `json:"byte_end"`
	DisplayCol int `json:"display_col"`
}

// Diagnostic は 1 ファイル内の分類済みスパン 1 件です。Kind と Message はエラー時のみ設定されます。
type Diagnostic struct {
	File     string `json:"file"`
	Lang     string `json:"lang,omitempty"`
	Category string `json:"category"`
	Kind     string `json:"kind,omitempty"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message,omitempty"`
	Text     string `json:"text"`
	Line     string `json:"-"`
	Span     Span   `json:"span"`
	URL      string `json:"url,omitempty"`
}

// IsError reports whether the diagnostic is an error span.
func (d Diagnostic) IsError() bool { return d.Category == "error" }

// LineIndex maps byte offsets of one buffer to 1-based lines and columns.
type LineIndex struct {
	src    []byte
	starts []int
}

func NewLineIndex(src []byte) *LineIndex {
	starts := make([]int, 0, bytes.Count(src, []byte{'\n'})+1)
	starts = append(starts, 0)
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// LineCol returns the 1-based line and byte column of offset.
func (ix *LineIndex) LineCol(offset int) (line, col int) {
	idx := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset })
	if idx == 0 {
		return 1, offset + 1
	}
	return idx, offset - ix.starts[idx-1] + 1
}

// Line returns the text of the 1-based line n without its line terminator.
func (ix *LineIndex) Line(n int) string {
	if n < 1 || n > len(ix.starts) {
		return ""
	}
	start := ix.starts[n-1]
	end := len(ix.src)
	if n < len(ix.starts) {
		end = ix.starts[n] - 1
	}
	if end < start {
		end = start
	}
	return string(bytes.TrimRight(ix.src[start:end], "\r"))
}

func (ix *LineIndex) Lines() int { return len(ix.starts) }
