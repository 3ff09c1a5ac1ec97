package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Highlight placeholders use Unicode Private Use Area characters. They pass
// through Goldmark unchanged (no WithUnsafe needed) and become <mark> tags
// after HTML generation. U+E002 and U+E003 are taken by math placeholders.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)

	// reservedRunes are stripped from input so they cannot forge placeholders.
	reservedRunes = strings.NewReplacer("\uE000", "", "\uE001", "", "\uE002", "", "\uE003", "")
)

// Preprocess normalizes line endings to \n, applies Unicode NFC, removes the
// reserved placeholder runes and compresses runs of blank lines.
func Preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = norm.NFC.String(content)
	content = reservedRunes.Replace(content)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights transforms ==text== into placeholder markers. It runs
// after math extraction so that == inside formulas is left alone.
func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
