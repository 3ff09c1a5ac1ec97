package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	mathpdf "github.com/alnah/go-mathpdf"
	"github.com/alnah/go-mathpdf/internal/config"
	"github.com/alnah/go-mathpdf/internal/fileutil"
)

// noStylesheet is the --katex-css value that links no KaTeX stylesheet.
const noStylesheet = "none"

// loadSettings builds the effective configuration.
// Precedence: flags > environment > config file > defaults.
func loadSettings(flags *cliFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := env.ConfigPath
	if flags.common.config != "" {
		name = flags.common.config
	}
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, &configLoadError{name: name, err: err}
		}
	}

	applyEnvConfig(env, cfg)
	applyFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configLoadError records which config could not be loaded.
type configLoadError struct {
	name string
	err  error
}

func (e *configLoadError) Error() string {
	return fmt.Sprintf("loading config %q: %v", e.name, e.err)
}

func (e *configLoadError) Unwrap() error { return e.err }

// applyFlags overrides config values with flags set on the command line.
func applyFlags(f *cliFlags, cfg *config.Config) {
	str := func(name string, dst *string, v string) {
		if f.changed(name) {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool, v bool) {
		if f.changed(name) {
			*dst = v
		}
	}

	str("output", &cfg.Output.DefaultDir, f.output.path)
	str("format", &cfg.Output.Format, f.output.format)
	boolean("minify", &cfg.Output.Minify, f.output.minify)

	str("font-size", &cfg.Style.FontSize, f.style.fontSize)
	str("chinese-font", &cfg.Style.ChineseFont, f.style.chineseFont)
	str("font-weight", &cfg.Style.FontWeight, f.style.fontWeight)
	str("line-spacing", &cfg.Style.LineSpacing, f.style.lineSpacing)
	str("paragraph-spacing", &cfg.Style.ParagraphSpacing, f.style.paragraphSpacing)
	str("math-spacing", &cfg.Style.MathSpacing, f.style.mathSpacing)
	str("math-engine", &cfg.Style.MathEngine, f.style.mathEngine)

	str("page-format", &cfg.Page.Format, f.page.format)
	if f.changed("margin") {
		// A uniform margin flag beats per-side values from lower layers.
		cfg.Page.Margin = f.page.margin
		cfg.Page.Margins = mathpdf.Margins{}
	}
	str("margin-top", &cfg.Page.Margins.Top, f.page.marginTop)
	str("margin-right", &cfg.Page.Margins.Right, f.page.marginRight)
	str("margin-bottom", &cfg.Page.Margins.Bottom, f.page.marginBottom)
	str("margin-left", &cfg.Page.Margins.Left, f.page.marginLeft)
	boolean("landscape", &cfg.Page.Landscape, f.page.landscape)
	if f.changed("no-background") {
		background := !f.page.noBackground
		cfg.Page.PrintBackground = &background
	}
	boolean("prefer-css-page-size", &cfg.Page.PreferCSSPageSize, f.page.preferCSSPageSize)

	boolean("strict-math", &cfg.Math.Strict, f.math.strict)
	str("katex-js", &cfg.Math.KaTeXScript, f.math.katexJS)
	str("katex-css", &cfg.Math.KaTeXStylesheet, f.math.katexCSS)
	str("math-cache", &cfg.Math.Cache, f.math.cache)
	if f.changed("math-workers") {
		cfg.Math.Workers = f.math.workers
	}
	if f.changed("no-reclassify") {
		reclassify := !f.math.noReclassify
		cfg.Math.ReclassifyMultiline = &reclassify
	}

	str("browser-bin", &cfg.Browser.Bin, f.browser.bin)
	boolean("no-sandbox", &cfg.Browser.NoSandbox, f.browser.noSandbox)
	str("readiness-timeout", &cfg.Browser.ReadinessTimeout, f.browser.readinessTimeout)

	str("theme", &cfg.Assets.Theme, f.assets.theme)
	str("asset-path", &cfg.Assets.BasePath, f.assets.assetPath)
	if f.changed("css") {
		cfg.Assets.Stylesheets = append(cfg.Assets.Stylesheets, f.assets.stylesheets...)
	}
}

// converterOptions translates the configuration into converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger, reuse bool) ([]mathpdf.Option, error) {
	opts := []mathpdf.Option{
		mathpdf.WithLogger(logger),
		mathpdf.WithBrowserReuse(reuse),
		mathpdf.WithStrictMath(cfg.Math.Strict),
		mathpdf.WithMathWorkers(cfg.Math.Workers),
		mathpdf.WithMinifiedHTML(cfg.Output.Minify),
		mathpdf.WithNoSandbox(cfg.Browser.NoSandbox),
	}

	if cfg.Math.KaTeXScript != "" {
		opts = append(opts, mathpdf.WithKaTeXScript(cfg.Math.KaTeXScript))
	}
	switch cfg.Math.KaTeXStylesheet {
	case "":
	case noStylesheet:
		opts = append(opts, mathpdf.WithKaTeXStylesheet(""))
	default:
		href, err := stylesheetHref(cfg.Math.KaTeXStylesheet)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mathpdf.WithKaTeXStylesheet(href))
	}
	if cfg.Math.Cache != "" {
		opts = append(opts, mathpdf.WithMathCache(cfg.Math.Cache))
	}

	extract := mathpdf.DefaultExtractOptions()
	if cfg.Math.ReclassifyMultiline != nil {
		extract.ReclassifyMultiline = *cfg.Math.ReclassifyMultiline
	}
	opts = append(opts, mathpdf.WithExtractOptions(extract))

	if cfg.Browser.Bin != "" {
		opts = append(opts, mathpdf.WithBrowserBin(cfg.Browser.Bin))
	}
	timeout, err := cfg.ReadinessTimeout()
	if err != nil {
		return nil, err
	}
	switch {
	case timeout < 0:
		opts = append(opts, mathpdf.WithReadinessTimeout(0))
	case timeout > 0:
		opts = append(opts, mathpdf.WithReadinessTimeout(timeout))
	}

	if cfg.Assets.BasePath != "" {
		opts = append(opts, mathpdf.WithAssetPath(cfg.Assets.BasePath))
	}
	sheets := cfg.Assets.Stylesheets
	if theme := cfg.Assets.Theme; theme != "" {
		if fileutil.IsFilePath(theme) {
			// A theme path is linked on top of the default theme.
			sheets = append([]string{theme}, sheets...)
		} else {
			opts = append(opts, mathpdf.WithTheme(theme))
		}
	}
	for _, s := range sheets {
		href, err := stylesheetHref(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mathpdf.WithStylesheets(href))
	}

	return opts, nil
}

// stylesheetHref keeps URLs and turns local paths into absolute file URLs.
func stylesheetHref(s string) (string, error) {
	if fileutil.IsURL(s) {
		return s, nil
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return "", fmt.Errorf("resolving stylesheet %q: %w", s, err)
	}
	return fileutil.FileURL(abs), nil
}
