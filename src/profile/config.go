package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDirectory     = "provision"
	ProfileExtension     = ".mobileprovision"
	ArchiveExtension     = ".ipa"
	DecodedSuffix        = ".plist"
	EmbeddedProfileName  = "embedded.mobileprovision"
	ExpirationDateKey    = "ExpirationDate"
	ReferenceDateEnv     = "PROVCHECK_REFERENCE_DATE"
	DefaultConfigFile    = "./provcheck.config.toml"
	InstalledProfilesDir = "~/Library/MobileDevice/Provisioning Profiles"
)

// Config controls a batch run. Zero ReferenceDate means "now".
type Config struct {
	Directory     string   `toml:"directory"`
	Extension     string   `toml:"extension"`
	Decoder       string   `toml:"decoder"`
	ReferenceDate string   `toml:"reference_date"`
	DecodeTimeout Duration `toml:"decode_timeout"`
	ScanArchives  bool     `toml:"scan_archives"`
	Sort          bool     `toml:"sort"`
	Verbose       bool     `toml:"verbose"`
}

// Duration lets TOML files carry Go duration strings ("30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration must not be negative: %q", raw)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the settings used when no config file or flags are given.
func DefaultConfig() Config {
	return Config{
		Directory: DefaultDirectory,
		Extension: ProfileExtension,
		Decoder:   DecoderSecurity,
		Sort:      true,
	}
}

// LoadConfigFile overlays the TOML file at path onto base. Keys absent from
// the file keep their base values.
func LoadConfigFile(path string, base Config) (Config, error) {
	cfg := base
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return base, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return base, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadDefaultConfigFile applies DefaultConfigFile when it exists.
func LoadDefaultConfigFile(base Config) (Config, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, err
	}
	return LoadConfigFile(DefaultConfigFile, base)
}

// ApplyEnv overlays environment settings onto cfg.
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(ReferenceDateEnv)); v != "" {
		cfg.ReferenceDate = v
	}
	return cfg
}

// Validate reports the first setting that cannot be used for a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return errors.New("directory must not be empty")
	}
	if strings.TrimSpace(c.Extension) == "" {
		return errors.New("extension must not be empty")
	}
	if !isKnownDecoder(c.Decoder) {
		return fmt.Errorf("unknown decoder %q (want %s or %s)", c.Decoder, DecoderSecurity, DecoderPKCS7)
	}
	if _, err := ParseReferenceDate(c.ReferenceDate); err != nil {
		return err
	}
	return nil
}
