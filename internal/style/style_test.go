package style

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Options
		check   func(t *testing.T, got Options)
		wantErr error
	}{
		{
			name:  "empty options resolve to defaults",
			input: Options{},
			check: func(t *testing.T, got Options) {
				want := Options{
					FontSize:         "16px",
					ChineseFont:      chineseFontPresets["auto"],
					FontWeight:       "400",
					LineSpacing:      "1.6",
					ParagraphSpacing: "1em",
					MathSpacing:      "10px",
					MathEngine:       "auto",
				}
				if got != want {
					t.Errorf("Normalize({}) = %+v, want %+v", got, want)
				}
			},
		},
		{
			name: "presets resolve to concrete values",
			input: Options{
				FontSize:         "xlarge",
				ChineseFont:      "songti",
				FontWeight:       "Bold",
				LineSpacing:      "tight",
				ParagraphSpacing: "loose",
				MathSpacing:      "compact",
				MathEngine:       "Secondary",
			},
			check: func(t *testing.T, got Options) {
				if got.FontSize != "20px" {
					t.Errorf("FontSize = %q, want 20px", got.FontSize)
				}
				if !strings.Contains(got.ChineseFont, "SimSun") {
					t.Errorf("ChineseFont = %q, want songti stack", got.ChineseFont)
				}
				if got.FontWeight != "700" {
					t.Errorf("FontWeight = %q, want 700", got.FontWeight)
				}
				if got.LineSpacing != "1.2" {
					t.Errorf("LineSpacing = %q, want 1.2", got.LineSpacing)
				}
				if got.ParagraphSpacing != "2em" {
					t.Errorf("ParagraphSpacing = %q, want 2em", got.ParagraphSpacing)
				}
				if got.MathSpacing != "4px" {
					t.Errorf("MathSpacing = %q, want 4px", got.MathSpacing)
				}
				if got.MathEngine != "secondary" {
					t.Errorf("MathEngine = %q, want secondary", got.MathEngine)
				}
			},
		},
		{
			name: "bare numbers get canonical units",
			input: Options{
				FontSize:         "18",
				ParagraphSpacing: "1.25",
				MathSpacing:      "12",
				LineSpacing:      "1.8",
				FontWeight:       "350",
			},
			check: func(t *testing.T, got Options) {
				if got.FontSize != "18px" {
					t.Errorf("FontSize = %q, want 18px", got.FontSize)
				}
				if got.ParagraphSpacing != "1.25em" {
					t.Errorf("ParagraphSpacing = %q, want 1.25em", got.ParagraphSpacing)
				}
				if got.MathSpacing != "12px" {
					t.Errorf("MathSpacing = %q, want 12px", got.MathSpacing)
				}
				if got.LineSpacing != "1.8" {
					t.Errorf("LineSpacing = %q, want 1.8", got.LineSpacing)
				}
				if got.FontWeight != "350" {
					t.Errorf("FontWeight = %q, want 350", got.FontWeight)
				}
			},
		},
		{
			name:  "literal units pass through",
			input: Options{FontSize: "12pt", ParagraphSpacing: "8px", ChineseFont: `"My Font", serif`},
			check: func(t *testing.T, got Options) {
				if got.FontSize != "12pt" {
					t.Errorf("FontSize = %q, want 12pt", got.FontSize)
				}
				if got.ParagraphSpacing != "8px" {
					t.Errorf("ParagraphSpacing = %q, want 8px", got.ParagraphSpacing)
				}
				if got.ChineseFont != `"My Font", serif` {
					t.Errorf("ChineseFont = %q", got.ChineseFont)
				}
			},
		},
		{name: "unknown font size", input: Options{FontSize: "huge"}, wantErr: ErrInvalidStyle},
		{name: "font weight out of range", input: Options{FontWeight: "1000"}, wantErr: ErrInvalidStyle},
		{name: "negative line spacing", input: Options{LineSpacing: "-1"}, wantErr: ErrInvalidStyle},
		{name: "unknown engine", input: Options{MathEngine: "mathjax"}, wantErr: ErrInvalidStyle},
		{name: "font stack injection", input: Options{ChineseFont: "serif; } body { color: red"}, wantErr: ErrInvalidStyle},
		{name: "double unit", input: Options{FontSize: "16pxpx"}, wantErr: ErrInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []Options{
		{},
		{FontSize: "16px"},
		{FontSize: "large", ChineseFont: "kaiti", FontWeight: "black", LineSpacing: "relaxed", ParagraphSpacing: "compact", MathSpacing: "loose", MathEngine: "primary"},
		{FontSize: "20", ParagraphSpacing: "2", MathSpacing: "3.5", LineSpacing: "2.0"},
	}

	for _, in := range inputs {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%+v): %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%+v)): %v", in, err)
		}
		if once != twice {
			t.Errorf("not idempotent:\n once:  %+v\n twice: %+v", once, twice)
		}
	}
}

func TestCSS(t *testing.T) {
	t.Parallel()

	opts, err := Normalize(Options{FontSize: "20px", MathSpacing: "compact"})
	if err != nil {
		t.Fatal(err)
	}
	css := CSS(opts)

	for _, want := range []string{
		"--font-size: 20px;",
		"--math-spacing: 4px;",
		"--line-height: 1.6;",
		".math-block",
		".math-inline",
		"PingFang SC",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q", want)
		}
	}
}

func TestPresets(t *testing.T) {
	t.Parallel()

	p := Presets()
	if got := strings.Join(p["fontSize"], ","); got != "large,medium,small,xlarge" {
		t.Errorf("fontSize presets = %q", got)
	}
	if len(p["mathEngine"]) != 3 {
		t.Errorf("mathEngine presets = %v", p["mathEngine"])
	}
}
