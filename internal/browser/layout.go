package browser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-rod/rod/lib/proto"
)

// ErrInvalidLayout indicates an unknown page format or a bad margin.
var ErrInvalidLayout = errors.New("invalid PDF layout")

// Page formats.
const (
	FormatLetter  = "letter"
	FormatLegal   = "legal"
	FormatTabloid = "tabloid"
	FormatA3      = "a3"
	FormatA4      = "a4"
	FormatA5      = "a5"
)

// DefaultFormat and DefaultMargin apply to empty layout fields.
const (
	DefaultFormat = FormatA4
	DefaultMargin = "0.5in"
)

// paperSizes holds portrait width and height in inches.
var paperSizes = map[string][2]float64{
	FormatLetter:  {8.5, 11},
	FormatLegal:   {8.5, 14},
	FormatTabloid: {11, 17},
	FormatA3:      {11.69, 16.54},
	FormatA4:      {8.27, 11.69},
	FormatA5:      {5.83, 8.27},
}

// unitsPerInch converts margin units to inches. Bare numbers are px.
var unitsPerInch = map[string]float64{
	"in": 1,
	"cm": 2.54,
	"mm": 25.4,
	"pt": 72,
	"px": 96,
	"":   96,
}

// maxMarginInches keeps margins below half of the smallest paper side.
const maxMarginInches = 2.9

var marginPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)\s*(in|cm|mm|pt|px)?$`)

// Margins holds one length per side, e.g. "20mm" or "0.5in".
type Margins struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

// Layout describes the printed page.
type Layout struct {
	Format            string  `yaml:"format"`
	Margins           Margins `yaml:"margins"`
	Landscape         bool    `yaml:"landscape"`
	PrintBackground   bool    `yaml:"printBackground"`
	PreferCSSPageSize bool    `yaml:"preferCSSPageSize"`
}

// DefaultLayout returns A4 portrait with 0.5in margins and backgrounds.
func DefaultLayout() Layout {
	return Layout{
		Format:          DefaultFormat,
		Margins:         UniformMargins(DefaultMargin),
		PrintBackground: true,
	}
}

// UniformMargins sets the same length on every side.
func UniformMargins(v string) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}

// Validate reports the first invalid field.
func (l Layout) Validate() error {
	_, err := l.PrintOptions()
	return err
}

// PrintOptions converts the layout into DevTools print parameters. Empty
// fields take their defaults.
func (l Layout) PrintOptions() (*proto.PagePrintToPDF, error) {
	format := strings.ToLower(strings.TrimSpace(l.Format))
	if format == "" {
		format = DefaultFormat
	}
	size, ok := paperSizes[format]
	if !ok {
		return nil, fmt.Errorf("%w: format %q (use letter, legal, tabloid, a3, a4 or a5)", ErrInvalidLayout, l.Format)
	}

	sides := []struct {
		name  string
		value string
	}{
		{"top", l.Margins.Top},
		{"right", l.Margins.Right},
		{"bottom", l.Margins.Bottom},
		{"left", l.Margins.Left},
	}
	inches := make([]float64, len(sides))
	for i, s := range sides {
		v, err := ParseLength(s.value)
		if err != nil {
			return nil, fmt.Errorf("%w: margin %s: %v", ErrInvalidLayout, s.name, err)
		}
		inches[i] = v
	}

	return &proto.PagePrintToPDF{
		Landscape:         l.Landscape,
		PrintBackground:   l.PrintBackground,
		PreferCSSPageSize: l.PreferCSSPageSize,
		PaperWidth:        floatPtr(size[0]),
		PaperHeight:       floatPtr(size[1]),
		MarginTop:         floatPtr(inches[0]),
		MarginRight:       floatPtr(inches[1]),
		MarginBottom:      floatPtr(inches[2]),
		MarginLeft:        floatPtr(inches[3]),
	}, nil
}

// ParseLength converts a CSS length to inches. Empty means DefaultMargin.
func ParseLength(v string) (float64, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		v = DefaultMargin
	}
	m := marginPattern.FindStringSubmatch(v)
	if m == nil {
		return 0, fmt.Errorf("%q is not a length (use in, cm, mm, pt or px)", v)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}
	inches := n / unitsPerInch[m[2]]
	if inches > maxMarginInches {
		return 0, fmt.Errorf("%q exceeds %.1fin", v, maxMarginInches)
	}
	return inches, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
