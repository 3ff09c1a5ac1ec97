package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mathpdf/internal/yamlutil"
)

type mathSettings struct {
	Engine  string `yaml:"engine"`
	Workers int    `yaml:"workers"`
	Strict  bool   `yaml:"strict"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    mathSettings
		wantErr error
	}{
		{name: "all fields", data: "engine: katex\nworkers: 4\nstrict: true\n", want: mathSettings{Engine: "katex", Workers: 4, Strict: true}},
		{name: "unknown fields ignored", data: "engine: mathml\ncolor: red\n", want: mathSettings{Engine: "mathml"}},
		{name: "empty data", data: "", wantErr: yamlutil.ErrNilData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got mathSettings
			err := yamlutil.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "known fields", data: "engine: katex\nworkers: 2\n"},
		{name: "unknown field rejected", data: "engine: katex\nwokers: 2\n", wantErr: true},
		{name: "type mismatch rejected", data: "workers: many\n", wantErr: true},
		{name: "malformed YAML", data: "engine: [unclosed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got mathSettings
			err := yamlutil.UnmarshalStrict([]byte(tt.data), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalStrict() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.HasPrefix(err.Error(), "yamlutil:") {
				t.Errorf("error not prefixed: %v", err)
			}
		})
	}
}

func TestUnmarshal_NilDestination(t *testing.T) {
	t.Parallel()

	if err := yamlutil.Unmarshal([]byte("a: 1"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
		t.Errorf("error = %v, want ErrNilDestination", err)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	in := mathSettings{Engine: "katex", Workers: 3, Strict: true}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"engine: katex", "workers: 3", "strict: true"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, data)
		}
	}

	var back mathSettings
	if err := yamlutil.UnmarshalStrict(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != in {
		t.Errorf("decoded %+v, want %+v", back, in)
	}
}

// Not parallel: modifies MaxInputSize.
func TestInputSizeLimit(t *testing.T) {
	original := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = original })

	yamlutil.MaxInputSize = 16
	var got mathSettings
	err := yamlutil.Unmarshal([]byte("engine: "+strings.Repeat("x", 32)), &got)
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}
