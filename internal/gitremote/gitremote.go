package gitremote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/phyten/ppcheck/internal/execx"
)

// Info は Git リモートから抽出したホスト・オーナー・リポジトリ情報です。
type Info struct {
	Host   string
	Owner  string
	Repo   string
	Scheme string
}

// Detect は repoDir の Git リモートを解析して Info を返します。
// PPCHECK_LINK_REMOTE でリモート名を、PPCHECK_LINK_SCHEME で http/https を上書きできます。
func Detect(ctx context.Context, runner execx.Runner, repoDir string) (Info, error) {
	name := strings.TrimSpace(os.Getenv("PPCHECK_LINK_REMOTE"))
	if name == "" {
		name = "origin"
	}
	key := "remote." + name + ".url"
	remote, err := gitValue(ctx, runner, repoDir, "config", "--get", key)
	if err != nil {
		return Info{}, err
	}
	if remote == "" {
		return Info{}, fmt.Errorf("%s is empty", key)
	}
	info, err := Parse(remote)
	if err != nil {
		return Info{}, err
	}
	if override := normalizeScheme(os.Getenv("PPCHECK_LINK_SCHEME")); override != "" {
		info.Scheme = override
	}
	return info, nil
}

// Head returns the commit SHA checked out in repoDir.
func Head(ctx context.Context, runner execx.Runner, repoDir string) (string, error) {
	return gitValue(ctx, runner, repoDir, "rev-parse", "HEAD")
}

func gitValue(ctx context.Context, runner execx.Runner, repoDir string, args ...string) (string, error) {
	if runner == nil {
		runner = execx.DefaultRunner()
	}
	stdout, err := execx.Output(ctx, runner, repoDir, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// Parse は remote.<name>.url の値 (scp 形式、ssh://, git://, http(s)://) を解析します。
func Parse(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Info{}, errors.New("empty remote url")
	}
	if !strings.Contains(raw, "://") {
		return parseSCP(raw)
	}
	return parseURL(raw)
}

// parseSCP handles user@host:owner/repo remotes.
func parseSCP(raw string) (Info, error) {
	userHost, p, found := strings.Cut(raw, ":")
	_, host, hasUser := strings.Cut(userHost, "@")
	if !found || !hasUser || host == "" {
		return Info{}, fmt.Errorf("invalid ssh remote: %s", raw)
	}
	owner, repo, err := splitPath(p)
	if err != nil {
		return Info{}, err
	}
	return Info{Host: strings.ToLower(host), Owner: owner, Repo: repo}, nil
}

func parseURL(raw string) (Info, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote url: %w", err)
	}
	info := Info{Host: strings.ToLower(u.Host)}
	switch scheme := strings.ToLower(u.Scheme); scheme {
	case "http", "https":
		info.Scheme = scheme
	case "ssh", "git":
	default:
		return Info{}, fmt.Errorf("unsupported remote url: %s", raw)
	}
	unescaped, err := url.PathUnescape(u.Path)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote path: %w", err)
	}
	if info.Owner, info.Repo, err = splitPath(unescaped); err != nil {
		return Info{}, err
	}
	return info, nil
}

// splitPath keeps the last two segments, so nested GitLab groups resolve to group/repo.
func splitPath(p string) (string, string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	cleaned = strings.Trim(strings.TrimSuffix(strings.Trim(cleaned, "/"), ".git"), "/")
	if cleaned == "" {
		return "", "", errors.New("missing owner/repo in remote url")
	}
	idx := strings.LastIndex(cleaned, "/")
	if idx < 0 {
		return "", "", errors.New("remote url must include owner and repo")
	}
	owner, repo := cleaned[:idx], cleaned[idx+1:]
	if j := strings.LastIndex(owner, "/"); j >= 0 {
		owner = owner[j+1:]
	}
	if owner == "" || repo == "" {
		return "", "", errors.New("invalid owner or repo in remote url")
	}
	return owner, repo, nil
}

// WebURL はリポジトリのブラウズ用ベース URL を返します。
func (i Info) WebURL() string {
	host := strings.TrimSuffix(i.Host, "/")
	return fmt.Sprintf("%s://%s/%s/%s", i.NormalizedScheme(), host, url.PathEscape(i.Owner), url.PathEscape(i.Repo))
}

// BlobPath escapes each segment of a repository-relative path.
func BlobPath(file string) string {
	parts := strings.Split(strings.ReplaceAll(file, "\\", "/"), "/")
	for idx, part := range parts {
		parts[idx] = url.PathEscape(part)
	}
	return path.Join(parts...)
}

// NormalizedScheme は http/https のみを許可し、それ以外は https とします。
func (i Info) NormalizedScheme() string {
	if s := normalizeScheme(i.Scheme); s != "" {
		return s
	}
	return "https"
}

func normalizeScheme(raw string) string {
	switch s := strings.ToLower(strings.TrimSpace(raw)); s {
	case "http", "https":
		return s
	default:
		return ""
	}
}
