// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mathpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a known CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant settings.
func ForBrowserConnect() string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("MATHPDF_NO_SANDBOX") == "" {
		hints = append(hints, "use --no-sandbox (or MATHPDF_NO_SANDBOX=1) in Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" && os.Getenv("MATHPDF_BROWSER_BIN") == "" {
		hints = append(hints, "use --browser-bin or ROD_BROWSER_BIN to pick an installed Chrome")
	}

	return formatHints(hints)
}

// ForKaTeXScript returns a hint for a KaTeX script that cannot be read.
func ForKaTeXScript(userPath string) string {
	hint := "download katex.min.js from https://github.com/KaTeX/KaTeX/releases"
	if userPath != "" {
		hint += " and save it as " + userPath
	}
	return format(hint + ", or set MATHPDF_KATEX_JS")
}

// ForMathRender returns a hint for formulas rejected in strict mode.
func ForMathRender() string {
	return format("fix the formula or drop --strict-math to print its source instead")
}

// ForReadInput returns a hint for unreadable inputs.
func ForReadInput() string {
	return format("inputs must be .md or .markdown files or directories containing them")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mathpdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/go-mathpdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for theme not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForInvalidStyle lists the presets of a style field.
func ForInvalidStyle(field string, presets []string) string {
	if len(presets) == 0 {
		return ""
	}
	return format(field + " presets: " + strings.Join(presets, ", ") + ", or a literal value")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
