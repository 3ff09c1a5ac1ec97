package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alnah/go-mathpdf/internal/config"
)

// envPrefix marks the variables this tool reads.
const envPrefix = "MATHPDF_"

// knownEnvVars lists valid MATHPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MATHPDF_CONFIG":            true,
	"MATHPDF_OUTPUT_DIR":        true,
	"MATHPDF_FORMAT":            true,
	"MATHPDF_THEME":             true,
	"MATHPDF_ASSET_PATH":        true,
	"MATHPDF_PAGE_FORMAT":       true,
	"MATHPDF_MARGIN":            true,
	"MATHPDF_MATH_ENGINE":       true,
	"MATHPDF_STRICT_MATH":       true,
	"MATHPDF_KATEX_JS":          true,
	"MATHPDF_KATEX_CSS":         true,
	"MATHPDF_MATH_CACHE":        true,
	"MATHPDF_MATH_WORKERS":      true,
	"MATHPDF_BROWSER_BIN":       true,
	"MATHPDF_NO_SANDBOX":        true,
	"MATHPDF_READINESS_TIMEOUT": true,
}

// envConfig holds configuration from environment variables. Pointers
// distinguish unset booleans and numbers from false and zero.
type envConfig struct {
	ConfigPath       string
	OutputDir        string
	Format           string
	Theme            string
	AssetPath        string
	PageFormat       string
	Margin           string
	MathEngine       string
	StrictMath       *bool
	KaTeXScript      string
	KaTeXStylesheet  string
	MathCache        string
	MathWorkers      *int
	BrowserBin       string
	NoSandbox        *bool
	ReadinessTimeout string
}

// loadEnvConfig reads MATHPDF_* variables through getenv. Malformed
// booleans and numbers are errors rather than silently ignored.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	env := &envConfig{
		ConfigPath:       getenv("MATHPDF_CONFIG"),
		OutputDir:        getenv("MATHPDF_OUTPUT_DIR"),
		Format:           getenv("MATHPDF_FORMAT"),
		Theme:            getenv("MATHPDF_THEME"),
		AssetPath:        getenv("MATHPDF_ASSET_PATH"),
		PageFormat:       getenv("MATHPDF_PAGE_FORMAT"),
		Margin:           getenv("MATHPDF_MARGIN"),
		MathEngine:       getenv("MATHPDF_MATH_ENGINE"),
		KaTeXScript:      getenv("MATHPDF_KATEX_JS"),
		KaTeXStylesheet:  getenv("MATHPDF_KATEX_CSS"),
		MathCache:        getenv("MATHPDF_MATH_CACHE"),
		BrowserBin:       getenv("MATHPDF_BROWSER_BIN"),
		ReadinessTimeout: getenv("MATHPDF_READINESS_TIMEOUT"),
	}

	var err error
	if env.StrictMath, err = envBool(getenv, "MATHPDF_STRICT_MATH"); err != nil {
		return nil, err
	}
	if env.NoSandbox, err = envBool(getenv, "MATHPDF_NO_SANDBOX"); err != nil {
		return nil, err
	}
	if v := getenv("MATHPDF_MATH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: MATHPDF_MATH_WORKERS=%q (must be >= 0)", config.ErrInvalidValue, v)
		}
		env.MathWorkers = &n
	}
	return env, nil
}

func envBool(getenv func(string) string, name string) (*bool, error) {
	v := getenv(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q (use 1, 0, true or false)", config.ErrInvalidValue, name, v)
	}
	return &b, nil
}

// warnUnknownEnvVars logs unrecognized MATHPDF_* variables.
// Helps catch typos like MATHPDF_THEMES instead of MATHPDF_THEME.
func warnUnknownEnvVars(environ []string, logger *slog.Logger) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig overrides file values with set variables, so that
// environment beats the config file. Flags are applied afterwards.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	setString(&cfg.Output.Format, env.Format)
	setString(&cfg.Assets.Theme, env.Theme)
	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Page.Format, env.PageFormat)
	setString(&cfg.Page.Margin, env.Margin)
	setString(&cfg.Style.MathEngine, env.MathEngine)
	setString(&cfg.Math.KaTeXScript, env.KaTeXScript)
	setString(&cfg.Math.KaTeXStylesheet, env.KaTeXStylesheet)
	setString(&cfg.Math.Cache, env.MathCache)
	setString(&cfg.Browser.Bin, env.BrowserBin)
	setString(&cfg.Browser.ReadinessTimeout, env.ReadinessTimeout)

	if env.StrictMath != nil {
		cfg.Math.Strict = *env.StrictMath
	}
	if env.NoSandbox != nil {
		cfg.Browser.NoSandbox = *env.NoSandbox
	}
	if env.MathWorkers != nil {
		cfg.Math.Workers = *env.MathWorkers
	}
}

// setString assigns v to dst when v is set.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
