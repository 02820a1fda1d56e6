package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	c, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FadeDuration != 3*time.Second || c.BurstGap != 2*time.Second || c.BurstMin != 2 {
		t.Fatalf("unexpected timing defaults: %+v", c)
	}
	if c.PageSize != 500 || c.GroupBy != GroupByDay || c.AdvancePolicy != "cursor" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DoubleClickWindow != 400*time.Millisecond {
		t.Fatalf("expected 400ms double click window, got %s", c.DoubleClickWindow)
	}
}

func TestNew_ReadsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "library: /photos\nfade:\n  duration: 5s\ngroup:\n  by: folder\npage:\n  size: 200\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Library != "/photos" || c.FadeDuration != 5*time.Second || c.GroupBy != GroupByFolder || c.PageSize != 200 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.File != path {
		t.Fatalf("expected file %s, got %s", path, c.File)
	}
	// Unset keys keep their defaults.
	if c.BurstMin != 2 {
		t.Fatalf("expected default burst.min, got %d", c.BurstMin)
	}
}

func TestNew_MissingExplicitFileFails(t *testing.T) {
	t.Parallel()

	if _, err := New(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	base, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"fade", func(c *Config) { c.FadeDuration = 0 }, KeyFadeDuration},
		{"burst min", func(c *Config) { c.BurstMin = 1 }, KeyBurstMin},
		{"page size", func(c *Config) { c.PageSize = -1 }, KeyPageSize},
		{"group by", func(c *Config) { c.GroupBy = "week" }, KeyGroupBy},
		{"advance", func(c *Config) { c.AdvancePolicy = "jump" }, KeyAdvancePolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
