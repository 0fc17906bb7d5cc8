package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source tells where Find located the configuration file.
type Source string

const (
	SourceNone     Source = ""
	SourceExplicit Source = "explicit"
	SourceRepo     Source = "repo-up"
	SourceXDG      Source = "xdg"
	SourceHome     Source = "home"
)

var (
	configFilenames = []string{".ppcheck.yaml", ".ppcheck.yml", ".ppcheck.toml", ".ppcheck.json"}
	xdgFilenames    = []string{"config.yaml", "config.yml", "config.toml", "config.json"}
)

// Find は設定ファイルを explicitPath、repoDir から上位ディレクトリ、XDG_CONFIG_HOME/ppcheck、ホームの順に探します。
// 見つからない場合は空文字列と SourceNone を返します。
func Find(repoDir, explicitPath, xdgHome, home string) (string, Source, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		candidate, err := filepath.Abs(explicit)
		if err != nil {
			return "", SourceNone, err
		}
		info, err := os.Stat(candidate)
		if err != nil {
			return "", SourceNone, err
		}
		if info.IsDir() {
			return "", SourceNone, fmt.Errorf("config %q points to a directory", candidate)
		}
		return candidate, SourceExplicit, nil
	}

	start := strings.TrimSpace(repoDir)
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", SourceNone, err
	}
	for {
		if found := firstExisting(dir, configFilenames); found != "" {
			return found, SourceRepo, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	homeDir := strings.TrimSpace(home)
	if homeDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			homeDir = h
		}
	}
	xdgRoot := strings.TrimSpace(xdgHome)
	if xdgRoot == "" && homeDir != "" {
		xdgRoot = filepath.Join(homeDir, ".config")
	}
	if xdgRoot != "" {
		if found := firstExisting(filepath.Join(xdgRoot, "ppcheck"), xdgFilenames); found != "" {
			return found, SourceXDG, nil
		}
	}
	if homeDir != "" {
		if found := firstExisting(homeDir, configFilenames); found != "" {
			return found, SourceHome, nil
		}
	}
	return "", SourceNone, nil
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
