package pipeline

import "testing"

func TestPreprocess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"blank line runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"nfc", "café", "café"},
		{"reserved runes stripped", "x\uE002B0\uE003y\uE000", "xB0y"},
		{"math untouched", "$a_1 * b_2$", "$a_1 * b_2$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Preprocess(tt.in); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHighlights(t *testing.T) {
	t.Parallel()

	got := ConvertMarkPlaceholders(convertHighlights("a ==key== b == c"))
	if got != "a <mark>key</mark> b == c" {
		t.Errorf("highlights = %q", got)
	}
}
