package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/danmuck/provcheck/src/profile"
)

const DIR_FLAG = "--dir"
const EXT_FLAG = "--ext"
const DECODER_FLAG = "--decoder"
const REFERENCE_FLAG = "--reference"
const TIMEOUT_FLAG = "--timeout"
const CONFIG_FLAG = "--config"
const IPA_FLAG = "--ipa"
const INSTALLED_FLAG = "--installed"
const VERBOSE_FLAG = "--verbose"
const HELP_FLAG = "--help"

var errHelp = errors.New("help requested")

// RuntimeConfig is the resolved settings for one invocation.
type RuntimeConfig struct {
	Profile    profile.Config
	ConfigPath string // explicit --config; "" means the default file if present
}

// cliArgs holds flag values before they are layered over file and env settings.
type cliArgs struct {
	configPath string
	set        map[string]string
	bools      map[string]bool
}

// valueFlags take an argument, as "--flag VALUE" or "--flag=VALUE".
var valueFlags = []string{DIR_FLAG, EXT_FLAG, DECODER_FLAG, REFERENCE_FLAG, TIMEOUT_FLAG, CONFIG_FLAG}

func parseArgs(args []string) (cliArgs, error) {
	parsed := cliArgs{set: map[string]string{}, bools: map[string]bool{}}

	for i := 0; i < len(args); i++ {
		arg := strings.TrimSpace(args[i])

		switch arg {
		case HELP_FLAG, "-h":
			return parsed, errHelp
		case IPA_FLAG, INSTALLED_FLAG, VERBOSE_FLAG:
			parsed.bools[arg] = true
			continue
		}

		matched := false
		for _, flag := range valueFlags {
			if arg == flag {
				if i+1 >= len(args) {
					return parsed, fmt.Errorf("missing value after %q", flag)
				}
				i++
				parsed.set[flag] = strings.TrimSpace(args[i])
				matched = true
				break
			}
			if after, ok := strings.CutPrefix(arg, flag+"="); ok {
				parsed.set[flag] = strings.TrimSpace(after)
				matched = true
				break
			}
		}
		if !matched {
			return parsed, fmt.Errorf("unsupported argument %q", arg)
		}
	}

	parsed.configPath = parsed.set[CONFIG_FLAG]
	return parsed, nil
}

// resolveConfig layers defaults, the config file, the environment and CLI
// flags, in that order.
func resolveConfig(args []string) (RuntimeConfig, error) {
	parsed, err := parseArgs(args)
	if err != nil {
		return RuntimeConfig{}, err
	}

	cfg := profile.DefaultConfig()
	if parsed.configPath != "" {
		cfg, err = profile.LoadConfigFile(parsed.configPath, cfg)
	} else {
		cfg, err = profile.LoadDefaultConfigFile(cfg)
	}
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg = profile.ApplyEnv(cfg)

	if parsed.bools[INSTALLED_FLAG] {
		dir, err := pathutil.AbsPath(profile.InstalledProfilesDir)
		if err != nil {
			return RuntimeConfig{}, fmt.Errorf("failed to expand %s: %w", profile.InstalledProfilesDir, err)
		}
		cfg.Directory = dir
	}
	if v, ok := parsed.set[DIR_FLAG]; ok {
		cfg.Directory = v
	}
	if v, ok := parsed.set[EXT_FLAG]; ok {
		cfg.Extension = v
	}
	if v, ok := parsed.set[DECODER_FLAG]; ok {
		cfg.Decoder = strings.ToLower(v)
	}
	if v, ok := parsed.set[REFERENCE_FLAG]; ok {
		cfg.ReferenceDate = v
	}
	if v, ok := parsed.set[TIMEOUT_FLAG]; ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return RuntimeConfig{}, fmt.Errorf("invalid %s value %q: %w", TIMEOUT_FLAG, v, err)
		}
		if d < 0 {
			return RuntimeConfig{}, fmt.Errorf("%s must be >= 0", TIMEOUT_FLAG)
		}
		cfg.DecodeTimeout = profile.Duration{Duration: d}
	}
	if parsed.bools[IPA_FLAG] {
		cfg.ScanArchives = true
	}
	if parsed.bools[VERBOSE_FLAG] {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return RuntimeConfig{Profile: cfg, ConfigPath: parsed.configPath}, nil
}

func printUsage(w io.Writer) {
	def := profile.DefaultConfig()
	fmt.Fprintf(w, "Usage: provcheck [%s PATH] [%s SUFFIX] [%s security|pkcs7] [%s DATE] [%s DUR] [%s PATH] [%s] [%s] [%s]\n",
		DIR_FLAG, EXT_FLAG, DECODER_FLAG, REFERENCE_FLAG, TIMEOUT_FLAG, CONFIG_FLAG, IPA_FLAG, INSTALLED_FLAG, VERBOSE_FLAG)
	fmt.Fprintf(w, "Directory defaults to %q; files ending %q are checked.\n", def.Directory, def.Extension)
	fmt.Fprintf(w, "Decoder defaults to %q (security cms -D); %q decodes in-process.\n", def.Decoder, profile.DecoderPKCS7)
	fmt.Fprintf(w, "Reference date defaults to now; override with %s or $%s.\n", REFERENCE_FLAG, profile.ReferenceDateEnv)
	fmt.Fprintf(w, "%s also checks the embedded profile of .ipa bundles.\n", IPA_FLAG)
	fmt.Fprintf(w, "%s checks %s.\n", INSTALLED_FLAG, profile.InstalledProfilesDir)
	fmt.Fprintf(w, "Settings are read from %s when present, or from %s PATH.\n", profile.DefaultConfigFile, CONFIG_FLAG)
}
