package link

import (
	"fmt"
	"strings"

	"github.com/phyten/ppcheck/internal/gitremote"
)

// Blob はコミット SHA とファイルパス、行番号から GitHub 互換の blob URL を生成します。
func Blob(info gitremote.Info, sha, file string, line int) string {
	return BlobRange(info, sha, file, line, line)
}

// BlobRange links a line range (#Lstart-Lend). end <= start collapses to one line.
func BlobRange(info gitremote.Info, sha, file string, start, end int) string {
	if sha == "" || file == "" || start <= 0 || info.Host == "" {
		return ""
	}
	anchor := fmt.Sprintf("#L%d", start)
	if end > start {
		anchor += fmt.Sprintf("-L%d", end)
	}
	query := ""
	if isMarkdown(file) {
		query = "?plain=1"
	}
	return fmt.Sprintf("%s/blob/%s/%s%s%s", info.WebURL(), sha, gitremote.BlobPath(file), query, anchor)
}

// Commit はコミット詳細ページの URL を返します。
func Commit(info gitremote.Info, sha string) string {
	if sha == "" || info.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s/commit/%s", info.WebURL(), sha)
}

func isMarkdown(file string) bool {
	lower := strings.ToLower(file)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
