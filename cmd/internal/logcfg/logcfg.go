package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const envConfigPath = "PROVCHECK_LOG_CONFIG"

var candidates = []string{
	"./smplog.config.toml",
	"./local/smplog.config.toml",
}

// Load returns the first readable smplog config: $PROVCHECK_LOG_CONFIG, then
// the candidate files, then smplog defaults.
func Load() logs.Config {
	cfg, _ := Resolve(os.Getenv(envConfigPath), candidates)
	return cfg
}

// Resolve is Load with explicit inputs. It also reports which file was used
// ("" for defaults).
func Resolve(explicit string, paths []string) (logs.Config, string) {
	if explicit != "" {
		if cfg, err := logs.ConfigFromFile(explicit); err == nil {
			return cfg, explicit
		}
	}
	for _, path := range paths {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg, path
		}
	}
	return logs.DefaultConfig(), ""
}
