package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds output verbosity and config selection.
type commonFlags struct {
	config      string
	quiet       bool
	verbose     bool
	version     bool
	printConfig bool
}

// outputFlags holds destination and format flags.
type outputFlags struct {
	path   string
	format string
	merge  bool
	minify bool
}

// styleFlags holds document style flags. Empty means not set.
type styleFlags struct {
	fontSize         string
	chineseFont      string
	fontWeight       string
	lineSpacing      string
	paragraphSpacing string
	mathSpacing      string
	mathEngine       string
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	format            string
	margin            string
	marginTop         string
	marginRight       string
	marginBottom      string
	marginLeft        string
	landscape         bool
	noBackground      bool
	preferCSSPageSize bool
}

// mathFlags holds math rendering flags.
type mathFlags struct {
	strict       bool
	katexJS      string
	katexCSS     string
	cache        string
	workers      int
	noReclassify bool
}

// browserFlags holds browser session flags.
type browserFlags struct {
	bin              string
	noSandbox        bool
	noReuse          bool
	readinessTimeout string
}

// assetFlags holds theme and stylesheet flags.
type assetFlags struct {
	theme       string
	assetPath   string
	stylesheets []string
}

// cliFlags holds every flag. changed reports flags set on the command line.
type cliFlags struct {
	common  commonFlags
	output  outputFlags
	style   styleFlags
	page    pageFlags
	math    mathFlags
	browser browserFlags
	assets  assetFlags

	changed func(name string) bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration and exit")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html")
	fs.BoolVarP(&f.merge, "merge", "m", false, "merge all inputs into one document")
	fs.BoolVar(&f.minify, "minify", false, "minify HTML output")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.fontSize, "font-size", "", "small, medium, large, xlarge or a length")
	fs.StringVar(&f.chineseFont, "chinese-font", "", "CJK font preset, auto or a font-family")
	fs.StringVar(&f.fontWeight, "font-weight", "", "light..black or 100-900")
	fs.StringVar(&f.lineSpacing, "line-spacing", "", "tight, normal, loose, relaxed or a multiplier")
	fs.StringVar(&f.paragraphSpacing, "paragraph-spacing", "", "compact, normal, relaxed, loose or a length")
	fs.StringVar(&f.mathSpacing, "math-spacing", "", "compact, normal, relaxed, loose or a length")
	fs.StringVar(&f.mathEngine, "math-engine", "", "auto, primary (KaTeX) or secondary (MathML)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.format, "page-format", "p", "", "letter, legal, tabloid, a3, a4, a5")
	fs.StringVar(&f.margin, "margin", "", "margin on every side, e.g. 0.5in, 20mm")
	fs.StringVar(&f.marginTop, "margin-top", "", "top margin")
	fs.StringVar(&f.marginRight, "margin-right", "", "right margin")
	fs.StringVar(&f.marginBottom, "margin-bottom", "", "bottom margin")
	fs.StringVar(&f.marginLeft, "margin-left", "", "left margin")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.BoolVar(&f.noBackground, "no-background", false, "do not print backgrounds")
	fs.BoolVar(&f.preferCSSPageSize, "prefer-css-page-size", false, "let CSS @page size win")
}

func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.BoolVar(&f.strict, "strict-math", false, "fail on formulas no engine renders")
	fs.StringVar(&f.katexJS, "katex-js", "", "path to katex.min.js")
	fs.StringVar(&f.katexCSS, "katex-css", "", "KaTeX stylesheet path or URL (\"none\" links none)")
	fs.StringVar(&f.cache, "math-cache", "", "persistent formula cache file")
	fs.IntVarP(&f.workers, "math-workers", "w", 0, "concurrent formula renders (0 = auto)")
	fs.BoolVar(&f.noReclassify, "no-reclassify", false, "keep multi-line $...$ spans inline")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome or Chromium binary")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers)")
	fs.BoolVar(&f.noReuse, "no-reuse", false, "launch a fresh browser for every document")
	fs.StringVar(&f.readinessTimeout, "readiness-timeout", "", "bound per readiness condition, e.g. 30s (0 = none)")
}

func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme name, or a CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory of custom styles/ and templates/")
	fs.StringSliceVar(&f.stylesheets, "css", nil, "extra stylesheet path or URL (repeatable)")
}

// parseFlags parses args (without the program name) and returns the
// positional inputs. flag.ErrHelp is returned for -h/--help.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mathpdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	f := &cliFlags{changed: fs.Changed}
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addStyleFlags(fs, &f.style)
	addPageFlags(fs, &f.page)
	addMathFlags(fs, &f.math)
	addBrowserFlags(fs, &f.browser)
	addAssetFlags(fs, &f.assets)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
