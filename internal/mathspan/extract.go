package mathspan

import "strings"

// Options tunes extraction heuristics.
type Options struct {
	// ReclassifyMultiline turns a single-dollar span whose content contains a
	// newline into a Block span. Some documents put multi-line display math
	// inside single dollars.
	ReclassifyMultiline bool

	// SkipCode leaves fenced and indented code blocks and backtick code spans
	// untouched so that dollar signs in code samples are not taken for math.
	SkipCode bool
}

// DefaultOptions returns the options used by Extract.
func DefaultOptions() Options {
	return Options{
		ReclassifyMultiline: true,
		SkipCode:            true,
	}
}

// Extract runs DefaultOptions().Extract.
func Extract(text string) (string, []Span) {
	return DefaultOptions().Extract(text)
}

// Extract replaces every well-formed math span in text with its placeholder
// and returns the rewritten text with the spans in document order.
//
// Extraction is best-effort: an opening delimiter without a valid closer is
// copied through as plain text. The input must not contain U+E002/U+E003.
func (o Options) Extract(text string) (string, []Span) {
	var (
		b         strings.Builder
		spans     []Span
		lineStart = true
	)
	b.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]

		if o.SkipCode {
			if lineStart {
				if end, ok := fencedBlockEnd(text, i); ok {
					b.WriteString(text[i:end])
					i = end
					continue
				}
				if end, ok := indentedBlockEnd(text, i); ok {
					b.WriteString(text[i:end])
					i = end
					continue
				}
			}
			if c == '`' {
				end, run := codeSpanEnd(text, i)
				b.WriteString(text[i:end])
				i = end
				lineStart = false
				if run > 0 {
					continue
				}
			}
			if i >= len(text) {
				break
			}
			c = text[i]
		}

		// Escaped dollar or escaped backslash: never a delimiter.
		if c == '\\' && i+1 < len(text) && (text[i+1] == '$' || text[i+1] == '\\') {
			b.WriteString(text[i : i+2])
			i += 2
			lineStart = false
			continue
		}

		if span, end, ok := o.match(text, i); ok {
			span.ID = len(spans)
			spans = append(spans, span)
			b.WriteString(span.Placeholder().String())
			i = end
			lineStart = false
			continue
		}

		b.WriteByte(c)
		i++
		lineStart = c == '\n'
	}

	return b.String(), spans
}

// match tries every delimiter pair at position i, block delimiters first.
// It returns the span (without ID) and the index just past its closer.
func (o Options) match(text string, i int) (Span, int, bool) {
	switch {
	case strings.HasPrefix(text[i:], "$$"):
		if i > 0 && text[i-1] == '$' {
			return Span{}, 0, false
		}
		return matchPair(text, i, "$$", "$$", Block)
	case text[i] == '$':
		return o.matchDollar(text, i)
	case strings.HasPrefix(text[i:], `\[`):
		return matchPair(text, i, `\[`, `\]`, Block)
	case strings.HasPrefix(text[i:], `\(`):
		return matchPair(text, i, `\(`, `\)`, Inline)
	}
	return Span{}, 0, false
}

// matchPair matches a fixed open/close pair with non-blank content.
func matchPair(text string, i int, open, closer string, kind Kind) (Span, int, bool) {
	start := i + len(open)
	n := strings.Index(text[start:], closer)
	if n < 0 {
		return Span{}, 0, false
	}
	content := text[start : start+n]
	if strings.TrimSpace(content) == "" {
		return Span{}, 0, false
	}
	return Span{Kind: kind, Source: content, Open: open, Close: closer}, start + n + len(closer), true
}

// matchDollar matches a single-dollar inline span. It stands in for the
// lookaround expression (?<!\$)\$(?!\$)(.+?)(?<!\$)\$(?![\$\d]): neither
// delimiter may touch another dollar, content may not contain an unescaped
// dollar or a blank line, and a closer followed by a digit is rejected so
// that prices such as "$5 and $10" stay plain text.
func (o Options) matchDollar(text string, i int) (Span, int, bool) {
	if i > 0 && text[i-1] == '$' {
		return Span{}, 0, false
	}

	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			// Skip the escaped character, but never a newline: the
			// blank-line check must still see it.
			if j+1 < len(text) && text[j+1] != '\n' {
				j++
			}
		case '\n':
			if isBlankLineAfter(text, j) {
				return Span{}, 0, false
			}
		case '$':
			if j+1 < len(text) && (text[j+1] == '$' || isDigit(text[j+1])) {
				return Span{}, 0, false
			}
			content := text[i+1 : j]
			if strings.TrimSpace(content) == "" {
				return Span{}, 0, false
			}
			kind := Inline
			if o.ReclassifyMultiline && strings.Contains(content, "\n") {
				kind = Block
			}
			return Span{Kind: kind, Source: content, Open: "$", Close: "$"}, j + 1, true
		}
	}
	return Span{}, 0, false
}

// isBlankLineAfter reports whether the line following the newline at j is
// empty or whitespace only (a paragraph break).
func isBlankLineAfter(text string, j int) bool {
	for k := j + 1; k < len(text); k++ {
		switch text[k] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// fencedBlockEnd detects a fenced code block opening at line start i and
// returns the index just past its closing fence line. An unclosed fence runs
// to the end of the text, as in CommonMark.
func fencedBlockEnd(text string, i int) (int, bool) {
	char, width, ok := fenceAt(text, i)
	if !ok {
		return 0, false
	}

	pos := nextLine(text, i)
	for pos < len(text) {
		c, w, ok := fenceAt(text, pos)
		if ok && c == char && w >= width {
			return nextLine(text, pos), true
		}
		pos = nextLine(text, pos)
	}
	return len(text), true
}

// fenceAt reports a ``` or ~~~ fence (3+ characters, up to 3 spaces of
// indentation) starting the line at i.
func fenceAt(text string, i int) (byte, int, bool) {
	j := i
	for j < len(text) && j-i < 3 && text[j] == ' ' {
		j++
	}
	if j >= len(text) || (text[j] != '`' && text[j] != '~') {
		return 0, 0, false
	}
	char := text[j]
	w := 0
	for j+w < len(text) && text[j+w] == char {
		w++
	}
	if w < 3 {
		return 0, 0, false
	}
	return char, w, true
}

// nextLine returns the index of the first byte of the line after i.
func nextLine(text string, i int) int {
	n := strings.IndexByte(text[i:], '\n')
	if n < 0 {
		return len(text)
	}
	return i + n + 1
}

// indentedBlockEnd detects an indented code block at line start i: a line
// indented by four or more columns that starts the text or follows a blank
// line, and is not the continuation of a list item. It returns the index
// past the last indented line of the block.
func indentedBlockEnd(text string, i int) (int, bool) {
	if cols, _, blank := indentAt(text, i); blank || cols < 4 {
		return 0, false
	}
	if i > 0 {
		prev := strings.LastIndexByte(text[:i-1], '\n') + 1
		if _, _, blank := indentAt(text, prev); !blank || inListItem(text, prev) {
			return 0, false
		}
	}

	end := i
	for pos := i; pos < len(text); {
		cols, _, blank := indentAt(text, pos)
		if !blank && cols < 4 {
			break
		}
		next := nextLine(text, pos)
		if !blank {
			end = next
		}
		pos = next
	}
	return end, true
}

// indentAt measures the indentation of the line starting at i in columns
// (tabs stop every four) and returns the offset of its first other byte.
func indentAt(text string, i int) (cols, off int, blank bool) {
	off = i
	for ; off < len(text); off++ {
		switch text[off] {
		case ' ':
			cols++
		case '\t':
			cols += 4 - cols%4
		default:
			c := text[off]
			return cols, off, c == '\n' || c == '\r'
		}
	}
	return cols, off, true
}

// inListItem reports whether the nearest non-blank line before the line at
// end that is indented by less than four columns opens a list item, which
// makes indented lines after it list content rather than code.
func inListItem(text string, end int) bool {
	for end > 0 {
		start := strings.LastIndexByte(text[:end-1], '\n') + 1
		if cols, off, blank := indentAt(text, start); !blank && cols < 4 {
			return listMarkerAt(text, off)
		}
		end = start
	}
	return false
}

// listMarkerAt reports a bullet (-, *, +) or ordered (1. or 1)) list marker
// at k followed by whitespace or the end of the line.
func listMarkerAt(text string, k int) bool {
	d := k
	switch {
	case text[d] == '-' || text[d] == '*' || text[d] == '+':
		d++
	default:
		for d < len(text) && d-k < 9 && isDigit(text[d]) {
			d++
		}
		if d == k || d >= len(text) || (text[d] != '.' && text[d] != ')') {
			return false
		}
		d++
	}
	return d >= len(text) || text[d] == ' ' || text[d] == '\t' || text[d] == '\n' || text[d] == '\r'
}

// codeSpanEnd handles a backtick run at i. When a closing run of the same
// length exists before the next paragraph break it returns the index past it
// and the run length; otherwise it returns the index past the opening run and
// zero, so the run is copied as literal text.
func codeSpanEnd(text string, i int) (int, int) {
	run := 0
	for i+run < len(text) && text[i+run] == '`' {
		run++
	}

	limit := len(text)
	if n := strings.Index(text[i+run:], "\n\n"); n >= 0 {
		limit = i + run + n
	}

	for j := i + run; j < limit; {
		if text[j] != '`' {
			j++
			continue
		}
		k := 0
		for j+k < limit && text[j+k] == '`' {
			k++
		}
		if k == run {
			return j + k, run
		}
		j += k
	}
	return i + run, 0
}
