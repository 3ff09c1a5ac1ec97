// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mathpdf/internal/browser"
	"github.com/alnah/go-mathpdf/internal/style"
	"github.com/alnah/go-mathpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength   = 4096 // PATH_MAX on Linux
	MaxURLLength    = 2048 // Browser limit
	MaxNameLength   = 64   // Theme and preset names
	MaxLengthLength = 16   // "0.75in", "12mm"
)

// configDirName is the directory under the user config dir.
const configDirName = "go-mathpdf"

// Config holds CLI settings read from a YAML file. Zero values mean
// "not set" so that environment variables and flags can fill them.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Style   style.Options `yaml:"style"`
	Page    PageConfig    `yaml:"page"`
	Math    MathConfig    `yaml:"math"`
	Browser BrowserConfig `yaml:"browser"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Format     string `yaml:"format"`     // "pdf" or "html"
	Minify     bool   `yaml:"minify"`     // minify HTML output
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Format            string          `yaml:"format"`    // letter, a4, a3, a5, legal, tabloid
	Margin            string          `yaml:"margin"`    // all sides, e.g. "0.5in"
	Margins           browser.Margins `yaml:"margins"`   // per side, overrides Margin
	Landscape         bool            `yaml:"landscape"` // default portrait
	PrintBackground   *bool           `yaml:"printBackground"`
	PreferCSSPageSize bool            `yaml:"preferCSSPageSize"`
}

// MathConfig defines math rendering options.
type MathConfig struct {
	Strict              bool   `yaml:"strict"`              // fail on formulas no engine renders
	KaTeXScript         string `yaml:"katexScript"`         // path to katex.min.js
	KaTeXStylesheet     string `yaml:"katexStylesheet"`     // stylesheet href
	Cache               string `yaml:"cache"`               // bbolt cache file
	Workers             int    `yaml:"workers"`             // 0 = auto
	ReclassifyMultiline *bool  `yaml:"reclassifyMultiline"` // single-$ spans with newlines become blocks
}

// BrowserConfig defines browser options.
type BrowserConfig struct {
	Bin              string `yaml:"bin"`              // Chrome binary
	NoSandbox        bool   `yaml:"noSandbox"`        // for containers
	ReadinessTimeout string `yaml:"readinessTimeout"` // per condition, e.g. "60s"; "0" disables
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string   `yaml:"basePath"`    // empty = embedded assets
	Theme       string   `yaml:"theme"`       // stylesheet name under styles/
	Stylesheets []string `yaml:"stylesheets"` // extra stylesheet paths or URLs
}

// Validate checks field lengths and values. Style presets and page layout
// are checked with the same functions the converter uses.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.format", c.Output.Format, MaxNameLength},
		{"page.format", c.Page.Format, MaxNameLength},
		{"page.margin", c.Page.Margin, MaxLengthLength},
		{"page.margins.top", c.Page.Margins.Top, MaxLengthLength},
		{"page.margins.right", c.Page.Margins.Right, MaxLengthLength},
		{"page.margins.bottom", c.Page.Margins.Bottom, MaxLengthLength},
		{"page.margins.left", c.Page.Margins.Left, MaxLengthLength},
		{"math.katexScript", c.Math.KaTeXScript, MaxPathLength},
		{"math.katexStylesheet", c.Math.KaTeXStylesheet, MaxURLLength},
		{"math.cache", c.Math.Cache, MaxPathLength},
		{"browser.bin", c.Browser.Bin, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.theme", c.Assets.Theme, MaxNameLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	for i, href := range c.Assets.Stylesheets {
		if err := validateFieldLength(fmt.Sprintf("assets.stylesheets[%d]", i), href, MaxURLLength); err != nil {
			return err
		}
	}

	if c.Output.Format != "" {
		switch strings.ToLower(c.Output.Format) {
		case "pdf", "html":
		default:
			return fmt.Errorf("%w: output.format %q (must be pdf or html)", ErrInvalidValue, c.Output.Format)
		}
	}

	if c.Math.Workers < 0 {
		return fmt.Errorf("%w: math.workers must be >= 0, got %d", ErrInvalidValue, c.Math.Workers)
	}

	if _, err := c.ReadinessTimeout(); err != nil {
		return err
	}

	if _, err := style.Normalize(c.Style); err != nil {
		return fmt.Errorf("style: %w", err)
	}

	layout := c.Layout()
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("page: %w", err)
	}

	return nil
}

// Layout converts the page settings into a browser layout. Unset fields
// keep browser.DefaultLayout values.
func (c *Config) Layout() browser.Layout {
	l := browser.DefaultLayout()
	if c.Page.Format != "" {
		l.Format = strings.ToLower(c.Page.Format)
	}
	if c.Page.Margin != "" {
		l.Margins = browser.UniformMargins(c.Page.Margin)
	}
	m := c.Page.Margins
	if m.Top != "" {
		l.Margins.Top = m.Top
	}
	if m.Right != "" {
		l.Margins.Right = m.Right
	}
	if m.Bottom != "" {
		l.Margins.Bottom = m.Bottom
	}
	if m.Left != "" {
		l.Margins.Left = m.Left
	}
	l.Landscape = c.Page.Landscape
	if c.Page.PrintBackground != nil {
		l.PrintBackground = *c.Page.PrintBackground
	}
	l.PreferCSSPageSize = c.Page.PreferCSSPageSize
	return l
}

// ReadinessTimeout parses browser.readinessTimeout. Zero means unset.
// A bare "0" disables the per-condition bound and returns -1.
func (c *Config) ReadinessTimeout() (time.Duration, error) {
	v := strings.TrimSpace(c.Browser.ReadinessTimeout)
	switch v {
	case "":
		return 0, nil
	case "0":
		return -1, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: browser.readinessTimeout %q (e.g. 30s, 2m)", ErrInvalidValue, c.Browser.ReadinessTimeout)
	}
	if d == 0 {
		return -1, nil
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every value comes from
// the converter defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
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

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mathpdf/
func resolveConfigPath(name string) (string, error) {
	return searchConfig(name, userConfigDir())
}

// userConfigDir returns the user config directory, or "" when unknown.
var userConfigDir = func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName)
}

func searchConfig(name, userDir string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		p := name + ext
		if fileExists(p) {
			return p, nil
		}
		tried = append(tried, p)
	}

	if userDir != "" {
		for _, ext := range extensions {
			p := filepath.Join(userDir, name+ext)
			if fileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// SearchedPaths lists where LoadConfig looks for a config named name.
func SearchedPaths(name string) []string {
	paths := []string{name + ".yaml", name + ".yml"}
	if dir := userConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, name+".yaml"), filepath.Join(dir, name+".yml"))
	}
	return paths
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
