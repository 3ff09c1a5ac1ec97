package mathpdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mathpdf/internal/fileutil"
)

// KaTeX defaults.
const (
	// KaTeXScriptEnv names the environment variable holding the path to
	// katex.min.js.
	KaTeXScriptEnv = "MATHPDF_KATEX_JS"

	// DefaultKaTeXStylesheet is linked from every document so that KaTeX
	// markup gets its fonts and layout rules in the browser.
	DefaultKaTeXStylesheet = "https://cdn.jsdelivr.net/npm/katex@0.16.22/dist/katex.min.css"

	katexScriptName = "katex.min.js"
)

// userKaTeXScriptPath returns ~/.config/go-mathpdf/katex.min.js, or "" when
// the home directory is unknown.
var userKaTeXScriptPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "go-mathpdf", katexScriptName)
}

// resolveKaTeXScript finds the KaTeX source. Priority: inline source >
// explicit path > environment > user config directory. An explicit path or
// environment value that cannot be read is an error; a missing user file
// means KaTeX is not installed and returns "" with no error.
func resolveKaTeXScript(source, path string) (script, origin string, err error) {
	if source != "" {
		return source, "inline", nil
	}

	if path == "" {
		path = os.Getenv(KaTeXScriptEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrKaTeXScript, err)
		}
		return string(data), path, nil
	}

	user := userKaTeXScriptPath()
	if user == "" || !fileutil.FileExists(user) {
		return "", "", nil
	}
	data, err := os.ReadFile(user) // #nosec G304 -- fixed location under the home directory
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKaTeXScript, err)
	}
	return string(data), user, nil
}

// UserKaTeXScriptPath returns where the converter looks for katex.min.js
// when no script is configured, or "" when the home directory is unknown.
func UserKaTeXScriptPath() string {
	return userKaTeXScriptPath()
}
