// Package config resolves culler settings from ~/.culler/config.yaml, CULLER_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	KeyLibrary           = "library"
	KeyFadeDuration      = "fade.duration"
	KeyBurstGap          = "burst.gap"
	KeyBurstMin          = "burst.min"
	KeyGroupBy           = "group.by"
	KeyPageSize          = "page.size"
	KeyDoubleClickWindow = "doubleclick.window"
	KeyAdvancePolicy     = "advance.policy"
	KeySwatches          = "swatches"
	KeyExiftool          = "exiftool"
)

// GroupBy names how a page is split into groups.
const (
	GroupByDay    = "day"
	GroupByFolder = "folder"
	GroupByNone   = "none"
)

type Config struct {
	Library           string        `json:"library"`
	FadeDuration      time.Duration `json:"fadeDuration"`
	BurstGap          time.Duration `json:"burstGap"`
	BurstMin          int           `json:"burstMin"`
	GroupBy           string        `json:"groupBy"`
	PageSize          int           `json:"pageSize"`
	DoubleClickWindow time.Duration `json:"doubleClickWindow"`
	AdvancePolicy     string        `json:"advancePolicy"`
	Swatches          bool          `json:"swatches"`
	Exiftool          bool          `json:"exiftool"`

	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLibrary, "")
	v.SetDefault(KeyFadeDuration, 3*time.Second)
	v.SetDefault(KeyBurstGap, 2*time.Second)
	v.SetDefault(KeyBurstMin, 2)
	v.SetDefault(KeyGroupBy, GroupByDay)
	v.SetDefault(KeyPageSize, 500)
	v.SetDefault(KeyDoubleClickWindow, 400*time.Millisecond)
	v.SetDefault(KeyAdvancePolicy, "cursor")
	v.SetDefault(KeySwatches, true)
	v.SetDefault(KeyExiftool, true)
}

// Dir returns ~/.culler (or $CULLER_CONFIG_DIR).
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("CULLER_CONFIG_DIR")); d != "" {
		return d, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".culler"), nil
}

// New builds a viper instance with defaults, env binding and, when present, the
// config file. cfgFile overrides the default location.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("CULLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Library:           strings.TrimSpace(v.GetString(KeyLibrary)),
		FadeDuration:      v.GetDuration(KeyFadeDuration),
		BurstGap:          v.GetDuration(KeyBurstGap),
		BurstMin:          v.GetInt(KeyBurstMin),
		GroupBy:           strings.ToLower(strings.TrimSpace(v.GetString(KeyGroupBy))),
		PageSize:          v.GetInt(KeyPageSize),
		DoubleClickWindow: v.GetDuration(KeyDoubleClickWindow),
		AdvancePolicy:     strings.ToLower(strings.TrimSpace(v.GetString(KeyAdvancePolicy))),
		Swatches:          v.GetBool(KeySwatches),
		Exiftool:          v.GetBool(KeyExiftool),
		File:              v.ConfigFileUsed(),
	}
	if c.Library != "" {
		lib, err := homedir.Expand(c.Library)
		if err != nil {
			return Config{}, err
		}
		c.Library = lib
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.FadeDuration <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyFadeDuration, c.FadeDuration)
	}
	if c.BurstGap < 0 {
		return fmt.Errorf("%s must not be negative, got %s", KeyBurstGap, c.BurstGap)
	}
	if c.BurstMin < 2 {
		return fmt.Errorf("%s must be at least 2, got %d", KeyBurstMin, c.BurstMin)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyPageSize, c.PageSize)
	}
	if c.DoubleClickWindow <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyDoubleClickWindow, c.DoubleClickWindow)
	}
	switch c.GroupBy {
	case GroupByDay, GroupByFolder, GroupByNone:
	default:
		return fmt.Errorf("%s must be one of day|folder|none, got %q", KeyGroupBy, c.GroupBy)
	}
	switch c.AdvancePolicy {
	case "cursor", "clear":
	default:
		return fmt.Errorf("%s must be cursor or clear, got %q", KeyAdvancePolicy, c.AdvancePolicy)
	}
	return nil
}

// Keys lists every known key in display order.
func Keys() []string {
	return []string{
		KeyLibrary, KeyFadeDuration, KeyBurstGap, KeyBurstMin, KeyGroupBy,
		KeyPageSize, KeyDoubleClickWindow, KeyAdvancePolicy, KeySwatches, KeyExiftool,
	}
}

// WriteDefault writes a config file with every key at its current value. It never
// overwrites an existing file.
func WriteDefault(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return v.SafeWriteConfigAs(path)
}
