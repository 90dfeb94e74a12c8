// Package config loads mdtoc configuration from YAML files and from the
// front matter block at the top of a Markdown document.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pagemark/mdtoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultName is the config name looked up when none is given.
const DefaultName = "mdtoc"

// appDir is the directory under the user config dir holding named configs.
const appDir = "mdtoc"

// Field length limits.
const (
	MaxTitleLength     = 200
	MaxLangLength      = 35 // BCP 47 tags stay well below this
	MaxStyleNameLength = 64
	MaxPathLength      = 4096
	MaxFooterLength    = 200
)

// Accepted enumeration values.
var (
	ListStyles      = []string{"none", "ordered-default", "ordered", "unordered", "decimal"}
	Leaders         = []string{"none", "dots", "underline", "dashes"}
	PageSizes       = []string{"letter", "legal", "tabloid", "a3", "a4", "a5"}
	Orientations    = []string{"portrait", "landscape"}
	FooterPositions = []string{"left", "center", "right"}
)

// Config holds all configuration for a conversion.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	TOC      TOCConfig      `yaml:"toc"`
	Page     PageConfig     `yaml:"page"`
	CSS      CSSConfig      `yaml:"css"`
	Assets   AssetsConfig   `yaml:"assets"`
	Output   OutputConfig   `yaml:"output"`
	Browser  BrowserConfig  `yaml:"browser"`
}

// DocumentConfig defines document metadata.
type DocumentConfig struct {
	Title         string `yaml:"title"`         // shown title, fallback for metadata
	MetadataTitle string `yaml:"metadataTitle"` // PDF/HTML <title>, wins over Title
	Lang          string `yaml:"lang"`          // html lang attribute
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	ListStyle    string `yaml:"listStyle"`    // none, ordered-default, unordered, decimal
	MinDepth     int    `yaml:"minDepth"`     // 1-6, 0 = 1
	MaxDepth     int    `yaml:"maxDepth"`     // 1-6, 0 = 6
	PageNumbers  bool   `yaml:"pageNumbers"`  // two-pass render with page numbers
	Leader       string `yaml:"leader"`       // none, dots, underline, dashes
	ColoredLinks bool   `yaml:"coloredLinks"` // keep link colour and underline
	Outline      bool   `yaml:"outline"`      // write PDF bookmarks
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string       `yaml:"size"`        // default letter
	Orientation string       `yaml:"orientation"` // default portrait
	Margin      float64      `yaml:"margin"`      // inches, 0 = default
	Scale       float64      `yaml:"scale"`       // 0.1-2.0, 0 = 1
	Footer      FooterConfig `yaml:"footer"`
}

// FooterConfig defines the running page footer.
type FooterConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Position   string `yaml:"position"`   // left, center, right
	PageNumber bool   `yaml:"pageNumber"` // "n/total"
	Text       string `yaml:"text"`
}

// CSSConfig defines styling.
type CSSConfig struct {
	Style     string `yaml:"style"`     // asset name, empty = default
	File      string `yaml:"file"`      // extra stylesheet appended last
	CodeStyle string `yaml:"codeStyle"` // chroma style, "none" disables
	HeadFile  string `yaml:"headFile"`  // raw HTML appended to <head>
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// BrowserConfig defines the Chrome binary used for rendering.
type BrowserConfig struct {
	Path string `yaml:"path"` // empty = ROD_BROWSER_BIN or rod's lookup
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		TOC:  TOCConfig{ListStyle: "ordered-default", Leader: "dots"},
		Page: PageConfig{Size: "letter", Orientation: "portrait"},
	}
}

// Validate checks field lengths, enumerations and ranges.
// Called by LoadConfig and after front matter is applied.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.metadataTitle", c.Document.MetadataTitle, MaxTitleLength},
		{"document.lang", c.Document.Lang, MaxLangLength},
		{"css.style", c.CSS.Style, MaxStyleNameLength},
		{"css.file", c.CSS.File, MaxPathLength},
		{"css.codeStyle", c.CSS.CodeStyle, MaxStyleNameLength},
		{"css.headFile", c.CSS.HeadFile, MaxPathLength},
		{"page.footer.text", c.Page.Footer.Text, MaxFooterLength},
		{"browser.path", c.Browser.Path, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if err := validateEnum("toc.listStyle", c.TOC.ListStyle, ListStyles); err != nil {
		return err
	}
	if err := validateEnum("toc.leader", c.TOC.Leader, Leaders); err != nil {
		return err
	}
	if err := validateEnum("page.size", c.Page.Size, PageSizes); err != nil {
		return err
	}
	if err := validateEnum("page.orientation", c.Page.Orientation, Orientations); err != nil {
		return err
	}
	if err := validateEnum("page.footer.position", c.Page.Footer.Position, FooterPositions); err != nil {
		return err
	}

	for field, depth := range map[string]int{"toc.minDepth": c.TOC.MinDepth, "toc.maxDepth": c.TOC.MaxDepth} {
		if depth != 0 && (depth < 1 || depth > 6) {
			return fmt.Errorf("%w: %s must be between 1 and 6, got %d", ErrInvalidValue, field, depth)
		}
	}
	if c.TOC.MinDepth != 0 && c.TOC.MaxDepth != 0 && c.TOC.MinDepth > c.TOC.MaxDepth {
		return fmt.Errorf("%w: toc.minDepth (%d) exceeds toc.maxDepth (%d)", ErrInvalidValue, c.TOC.MinDepth, c.TOC.MaxDepth)
	}

	if c.Page.Margin < 0 || c.Page.Margin > 3 {
		return fmt.Errorf("%w: page.margin must be between 0 and 3 inches, got %.2f", ErrInvalidValue, c.Page.Margin)
	}
	if c.Page.Scale != 0 && (c.Page.Scale < 0.1 || c.Page.Scale > 2) {
		return fmt.Errorf("%w: page.scale must be between 0.1 and 2, got %.2f", ErrInvalidValue, c.Page.Scale)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed, case-insensitively.
func validateEnum(field, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's searched in the current directory, then in the user
// config directory under mdtoc/. Values missing from the file keep their
// DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the DefaultName config when one exists and falls back
// to DefaultConfig otherwise.
func LoadDefault() (*Config, error) {
	cfg, err := LoadConfig(DefaultName)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name.
// Extensions .yaml then .yml; current directory then user config dir.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
