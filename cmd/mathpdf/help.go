package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathpdf [flags] <file|dir>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown with LaTeX math ($...$, $$...$$, \\(...\\), \\[...\\]) to PDF or HTML.")
	fmt.Fprintln(w, "Directories are searched for .md and .markdown files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output file (one input) or directory")
	fmt.Fprintln(w, "  -f, --format <s>             pdf (default) or html")
	fmt.Fprintln(w, "  -m, --merge                  Merge all inputs into one document")
	fmt.Fprintln(w, "      --minify                 Minify HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "      --font-size <s>          small, medium, large, xlarge or a length")
	fmt.Fprintln(w, "      --chinese-font <s>       CJK font preset, auto or a font-family")
	fmt.Fprintln(w, "      --font-weight <s>        light..black or 100-900")
	fmt.Fprintln(w, "      --line-spacing <s>       tight, normal, loose, relaxed or a multiplier")
	fmt.Fprintln(w, "      --paragraph-spacing <s>  compact, normal, relaxed, loose or a length")
	fmt.Fprintln(w, "      --math-spacing <s>       compact, normal, relaxed, loose or a length")
	fmt.Fprintln(w, "      --theme <s>              Theme name, or a CSS file linked on top of the default")
	fmt.Fprintln(w, "      --css <s>                Extra stylesheet path or URL (repeatable)")
	fmt.Fprintln(w, "      --asset-path <dir>       Custom styles/ and templates/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-format <s>        letter, legal, tabloid, a3, a4 (default), a5")
	fmt.Fprintln(w, "      --margin <len>           Every side, e.g. 0.5in, 20mm, 48 (px)")
	fmt.Fprintln(w, "      --margin-top <len>       Also --margin-right, --margin-bottom, --margin-left")
	fmt.Fprintln(w, "      --landscape              Landscape orientation")
	fmt.Fprintln(w, "      --no-background          Do not print backgrounds")
	fmt.Fprintln(w, "      --prefer-css-page-size   Let CSS @page size win")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "      --math-engine <s>        auto (default), primary (KaTeX) or secondary (MathML)")
	fmt.Fprintln(w, "      --strict-math            Fail on formulas no engine renders")
	fmt.Fprintln(w, "      --katex-js <path>        katex.min.js (default ~/.config/go-mathpdf/katex.min.js)")
	fmt.Fprintln(w, "      --katex-css <s>          KaTeX stylesheet path or URL, or \"none\"")
	fmt.Fprintln(w, "      --math-cache <path>      Persistent formula cache")
	fmt.Fprintln(w, "  -w, --math-workers <n>       Concurrent formula renders (0 = auto)")
	fmt.Fprintln(w, "      --no-reclassify          Keep multi-line $...$ spans inline")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>     Chrome or Chromium binary")
	fmt.Fprintln(w, "      --no-sandbox             Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w, "      --no-reuse               Launch a fresh browser for every document")
	fmt.Fprintln(w, "      --readiness-timeout <d>  Bound per readiness condition (default 60s, 0 = none)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show debug logs")
	fmt.Fprintln(w, "      --print-config           Print the effective configuration")
	fmt.Fprintln(w, "      --version                Print version")
	fmt.Fprintln(w, "  -h, --help                   Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings are taken from flags, then MATHPDF_* variables, then the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 error, 2 usage, 3 I/O, 4 browser.")
}
