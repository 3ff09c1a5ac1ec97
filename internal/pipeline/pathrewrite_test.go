package pipeline

import (
	"runtime"
	"strings"
	"testing"
)

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := []struct {
		name         string
		html         string
		sourceDir    string
		wantContains []string
	}{
		{
			name:         "relative image",
			html:         `<p><img src="images/plot.png" alt="plot"/></p>`,
			sourceDir:    "/docs",
			wantContains: []string{`src="file:///docs/images/plot.png"`, `alt="plot"`},
		},
		{
			name:         "dot slash link",
			html:         `<a href="./appendix.md">see</a>`,
			sourceDir:    "/docs",
			wantContains: []string{`href="file:///docs/appendix.md"`},
		},
		{
			name:         "space is escaped",
			html:         `<img src="my image.png"/>`,
			sourceDir:    "/docs",
			wantContains: []string{`file:///docs/my%20image.png`},
		},
		{
			name:         "remote URL unchanged",
			html:         `<img src="https://example.com/a.png"/>`,
			sourceDir:    "/docs",
			wantContains: []string{`src="https://example.com/a.png"`},
		},
		{
			name:         "data URI unchanged",
			html:         `<img src="data:image/png;base64,AAAA"/>`,
			sourceDir:    "/docs",
			wantContains: []string{`src="data:image/png;base64,AAAA"`},
		},
		{
			name:         "anchor unchanged",
			html:         `<a href="#eq-1">eq</a>`,
			sourceDir:    "/docs",
			wantContains: []string{`href="#eq-1"`},
		},
		{
			name:         "absolute path unchanged",
			html:         `<img src="/abs/a.png"/>`,
			sourceDir:    "/docs",
			wantContains: []string{`src="/abs/a.png"`},
		},
		{
			name:         "traversal unchanged",
			html:         `<img src="../../etc/passwd"/>`,
			sourceDir:    "/docs",
			wantContains: []string{`src="../../etc/passwd"`},
		},
		{
			name:         "empty source dir is a no-op",
			html:         `<img src="a.png"/>`,
			sourceDir:    "",
			wantContains: []string{`<img src="a.png"/>`},
		},
		{
			name:         "math placeholders survive",
			html:         "<p>x \uE002I0\uE003 y</p>",
			sourceDir:    "/docs",
			wantContains: []string{"\uE002I0\uE003"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, tt.sourceDir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativePaths() = %q, want substring %q", got, want)
				}
			}
		})
	}
}
