package config

import (
	"errors"
	"math"
	"strings"

	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
)

// EnvConfigPath names the variable holding an explicit config file path.
const EnvConfigPath = "PPCHECK_CONFIG"

// FromEnv は PPCHECK_* 環境変数からレイヤーを作ります。解釈できない値はまとめて errors.Join で返します。
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	lookup := func(key string) (string, bool) {
		raw := strings.TrimSpace(getenv(key))
		return raw, raw != ""
	}
	setString := func(target **string, key string) {
		if raw, ok := lookup(key); ok {
			*target = &raw
		}
	}
	setList := func(target **[]string, key string) {
		if raw, ok := lookup(key); ok {
			list := engineopts.SplitMulti([]string{raw})
			if list == nil {
				list = []string{}
			}
			*target = &list
		}
	}
	setBool := func(target **bool, key string) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}
	setInt := func(target **int, key string, min, max int) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := engineopts.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}

	setList(&cfg.Engine.Langs, "PPCHECK_LANG")
	setList(&cfg.Engine.Paths, "PPCHECK_PATH")
	setList(&cfg.Engine.Excludes, "PPCHECK_EXCLUDE")
	setList(&cfg.Engine.PathRegex, "PPCHECK_PATH_REGEX")
	setBool(&cfg.Engine.ExcludeTypical, "PPCHECK_EXCLUDE_TYPICAL")
	setBool(&cfg.Engine.NoGit, "PPCHECK_NO_GIT")
	// 上限は NormalizeAndValidate に任せ、全入力経路で同じエラー文にする
	setInt(&cfg.Engine.Jobs, "PPCHECK_JOBS", 0, math.MaxInt)
	setString(&cfg.Engine.Repo, "PPCHECK_REPO")
	setInt(&cfg.Engine.MaxFileBytes, "PPCHECK_MAX_FILE_BYTES", 0, math.MaxInt)
	setBool(&cfg.Engine.AllSpans, "PPCHECK_ALL_SPANS")
	setBool(&cfg.Engine.Operators, "PPCHECK_OPERATORS")
	setBool(&cfg.Engine.WithLink, "PPCHECK_WITH_LINK")
	setString(&cfg.Engine.Output, "PPCHECK_OUTPUT")
	setString(&cfg.Engine.Color, "PPCHECK_COLOR")

	setString(&cfg.UI.Fields, "PPCHECK_FIELDS")
	setString(&cfg.UI.Sort, "PPCHECK_SORT")
	setInt(&cfg.UI.Port, "PPCHECK_PORT", 1, 65535)
	setBool(&cfg.UI.Open, "PPCHECK_OPEN")

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}
