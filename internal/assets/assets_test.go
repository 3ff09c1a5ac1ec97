package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{name: "default theme", styleName: "default"},
		{name: "academic theme", styleName: "academic"},
		{name: "nonexistent style", styleName: "nonexistent", wantErr: ErrStyleNotFound},
		{name: "empty name", styleName: "", wantErr: ErrInvalidAssetName},
		{name: "traversal with slash", styleName: "../secret", wantErr: ErrInvalidAssetName},
		{name: "traversal with backslash", styleName: "..\\secret", wantErr: ErrInvalidAssetName},
		{name: "name with dot", styleName: "style.name", wantErr: ErrInvalidAssetName},
		{name: "absolute path", styleName: "/etc/passwd", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if content == "" {
				t.Errorf("LoadStyle(%q) returned empty content", tt.styleName)
			}
		})
	}
}

func TestLoadTemplate_DocumentFields(t *testing.T) {
	t.Parallel()

	content, err := LoadTemplate(DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate(%q) error: %v", DefaultTemplateName, err)
	}
	for _, part := range []string{"{{.Title}}", "{{.Lang}}", "{{.CSS}}", "{{.Body}}", "range .Stylesheets"} {
		if !strings.Contains(content, part) {
			t.Errorf("document template should contain %q", part)
		}
	}
}

func TestCheckName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"hyphen", "my-style", false},
		{"underscore", "my_style", false},
		{"empty", "", true},
		{"dot", "a.css", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"nul", "a\x00b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	if strings.Join(names, ",") != "academic,default" {
		t.Errorf("StyleNames() = %v, want [academic default]", names)
	}
	for _, n := range names {
		if _, err := LoadStyle(n); err != nil {
			t.Errorf("LoadStyle(%q) error = %v", n, err)
		}
	}
}
