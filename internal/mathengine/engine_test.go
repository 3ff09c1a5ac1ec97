package mathengine

import (
	"errors"
	"testing"
)

func TestParseSelector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Selector
		wantErr bool
	}{
		{"", SelectorAuto, false},
		{"auto", SelectorAuto, false},
		{" Primary ", SelectorPrimary, false},
		{"SECONDARY", SelectorSecondary, false},
		{"mathjax", SelectorAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSelector(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSelector(%q) error = %v", tt.in, err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidSelector) {
				t.Errorf("error = %v, want ErrInvalidSelector", err)
			}
			if got != tt.want {
				t.Errorf("ParseSelector(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEngineUsed_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, e := range []EngineUsed{Primary, Secondary} {
		got, ok := parseEngineUsed(e.String())
		if !ok || got != e {
			t.Errorf("parseEngineUsed(%q) = %v, %v", e.String(), got, ok)
		}
	}
	if _, ok := parseEngineUsed(RawFallback.String()); ok {
		t.Error("raw fallback must not parse as a cacheable engine")
	}
}
