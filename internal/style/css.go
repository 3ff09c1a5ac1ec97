package style

import (
	"fmt"
	"sort"
	"strings"
)

// latinFontFamily precedes the CJK stack so Latin text keeps a Latin face.
const latinFontFamily = `"Helvetica Neue", Arial`

// CSS builds the style-dependent stylesheet from normalized options.
// Callers must pass the result of Normalize.
func CSS(o Options) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, `
/* Document style */
:root {
  --font-size: %s;
  --font-weight: %s;
  --line-height: %s;
  --paragraph-spacing: %s;
  --math-spacing: %s;
}

body {
  font-family: %s, %s;
  font-size: var(--font-size);
  font-weight: var(--font-weight);
  line-height: var(--line-height);
}

p, ul, ol, blockquote, table {
  margin-top: 0;
  margin-bottom: var(--paragraph-spacing);
}
`, o.FontSize, o.FontWeight, o.LineSpacing, o.ParagraphSpacing, o.MathSpacing,
		latinFontFamily, o.ChineseFont)

	buf.WriteString(`
/* Math containers */
.math-block {
  display: block;
  text-align: center;
  margin: var(--math-spacing) 0;
  overflow-x: auto;
  overflow-y: hidden;
  break-inside: avoid;
  page-break-inside: avoid;
}

.math-inline {
  margin: 0 calc(var(--math-spacing) / 5);
}

.math-raw {
  font-family: "SFMono-Regular", Consolas, monospace;
  white-space: pre-wrap;
  color: #b00020;
}
`)

	return buf.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
