package mathengine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWarningFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewWarningFilter(slog.NewTextHandler(&buf, nil), "custom noise"))

	logger.Warn("LaTeX-incompatible input and strict mode is set to 'warn': Unicode text character used in math mode [unicodeTextInMathMode]")
	logger.Warn("katex console", "message", "No character metrics for '中' in style 'Main-Regular'")
	logger.Info("custom noise here")
	logger.Warn("genuine problem")
	logger.Error("unicodeTextInMathMode but at error level")
	logger.With("engine", "katex").Warn("newLineInDisplayMode")

	out := buf.String()
	for _, dropped := range []string{"strict mode", "character metrics", "custom noise", "newLineInDisplayMode"} {
		if strings.Contains(out, dropped) {
			t.Errorf("filtered message leaked: %q in %s", dropped, out)
		}
	}
	for _, kept := range []string{"genuine problem", "at error level"} {
		if !strings.Contains(out, kept) {
			t.Errorf("message %q was dropped", kept)
		}
	}
}
