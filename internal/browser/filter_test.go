package browser

import "testing"

func TestShouldAllowRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		resourceType string
		url          string
		want         bool
	}{
		{"inline image", ResourceImage, "data:image/png;base64,AAAA", true},
		{"local image", ResourceImage, "file:///docs/plot.png", true},
		{"remote image", ResourceImage, "https://example.com/a.png", false},
		{"remote media", ResourceMedia, "https://example.com/a.mp4", false},
		{"local media", ResourceMedia, "file:///docs/a.mp4", true},
		{"katex font on cdn", ResourceFont, "https://cdn.jsdelivr.net/npm/katex@0.16.22/dist/fonts/KaTeX_Main-Regular.woff2", true},
		{"mathjax font", ResourceFont, "https://cdn.jsdelivr.net/npm/mathjax@3/es5/output/chtml/fonts/woff-v2/MathJax_Zero.woff", true},
		{"other remote font", ResourceFont, "https://fonts.gstatic.com/s/roboto/v30/x.woff2", false},
		{"inline font", ResourceFont, "data:font/woff2;base64,AAAA", true},
		{"remote stylesheet", ResourceStylesheet, "https://cdn.jsdelivr.net/npm/katex/dist/katex.min.css", true},
		{"document", ResourceDocument, "file:///tmp/mathpdf-1.html", true},
		{"script", ResourceScript, "https://cdn.example.com/x.js", true},
		{"remote xhr", "XHR", "https://api.example.com/track", false},
		{"local fetch", "Fetch", "file:///tmp/data.json", true},
		{"malformed url", ResourceImage, "://bad", false},
		{"katex in query is not a font host", ResourceFont, "https://evil.example.com/f.woff?ref=katex", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ShouldAllowRequest(tt.resourceType, tt.url); got != tt.want {
				t.Errorf("ShouldAllowRequest(%q, %q) = %v, want %v", tt.resourceType, tt.url, got, tt.want)
			}
		})
	}
}
