package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.TOC.ListStyle != "ordered-default" || cfg.TOC.Leader != "dots" || cfg.Page.Size != "letter" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "uppercase enum", mutate: func(c *Config) { c.TOC.ListStyle = "Decimal" }},
		{name: "depth range", mutate: func(c *Config) { c.TOC.MinDepth, c.TOC.MaxDepth = 2, 3 }},
		{name: "bad list style", mutate: func(c *Config) { c.TOC.ListStyle = "roman" }, wantErr: ErrInvalidValue},
		{name: "bad leader", mutate: func(c *Config) { c.TOC.Leader = "stars" }, wantErr: ErrInvalidValue},
		{name: "bad page size", mutate: func(c *Config) { c.Page.Size = "b5" }, wantErr: ErrInvalidValue},
		{name: "bad orientation", mutate: func(c *Config) { c.Page.Orientation = "diagonal" }, wantErr: ErrInvalidValue},
		{name: "depth too deep", mutate: func(c *Config) { c.TOC.MaxDepth = 7 }, wantErr: ErrInvalidValue},
		{name: "depth negative", mutate: func(c *Config) { c.TOC.MinDepth = -1 }, wantErr: ErrInvalidValue},
		{name: "min above max", mutate: func(c *Config) { c.TOC.MinDepth, c.TOC.MaxDepth = 4, 2 }, wantErr: ErrInvalidValue},
		{name: "short ordered alias", mutate: func(c *Config) { c.TOC.ListStyle = "ordered" }},
		{name: "footer", mutate: func(c *Config) { c.Page.Footer = FooterConfig{Enabled: true, Position: "Center", PageNumber: true} }},
		{name: "bad footer position", mutate: func(c *Config) { c.Page.Footer.Position = "top" }, wantErr: ErrInvalidValue},
		{name: "footer text too long", mutate: func(c *Config) { c.Page.Footer.Text = strings.Repeat("x", MaxFooterLength+1) }, wantErr: ErrFieldTooLong},
		{name: "scale", mutate: func(c *Config) { c.Page.Scale = 0.8 }},
		{name: "scale too small", mutate: func(c *Config) { c.Page.Scale = 0.05 }, wantErr: ErrInvalidValue},
		{name: "margin too large", mutate: func(c *Config) { c.Page.Margin = 5 }, wantErr: ErrInvalidValue},
		{name: "title too long", mutate: func(c *Config) { c.Document.Title = strings.Repeat("x", MaxTitleLength+1) }, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mdtoc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("merges over defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "toc:\n  listStyle: decimal\n  maxDepth: 3\n  pageNumbers: true\npage:\n  size: a4\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.TOC.ListStyle != "decimal" || cfg.TOC.MaxDepth != 3 || !cfg.TOC.PageNumbers {
			t.Errorf("TOC = %+v", cfg.TOC)
		}
		if cfg.TOC.Leader != "dots" {
			t.Errorf("Leader = %q, want default dots", cfg.TOC.Leader)
		}
		if cfg.Page.Size != "a4" || cfg.Page.Orientation != "portrait" {
			t.Errorf("Page = %+v", cfg.Page)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "toc:\n  depth: 3\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "toc:\n  leader: stars\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("no-such-config-7f3a")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})
}
