// Package style resolves document style options (presets or literal values)
// into concrete CSS values and builds the document stylesheet.
package style

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidStyle indicates a style value that is neither a known preset
// nor a valid literal.
var ErrInvalidStyle = errors.New("invalid style value")

// Options holds document style settings. Each field accepts a preset name or
// a literal value; after Normalize every field holds a CSS-ready value.
type Options struct {
	FontSize         string `yaml:"fontSize"`         // small, medium, large, xlarge or a length ("20px", "12pt", "18")
	ChineseFont      string `yaml:"chineseFont"`      // preset name, "auto" or a CSS font-family stack
	FontWeight       string `yaml:"fontWeight"`       // light..black or 100-900
	LineSpacing      string `yaml:"lineSpacing"`      // tight, normal, loose, relaxed or a multiplier
	ParagraphSpacing string `yaml:"paragraphSpacing"` // compact, normal, relaxed, loose or a length (bare numbers are em)
	MathSpacing      string `yaml:"mathSpacing"`      // compact, normal, relaxed, loose or a length (bare numbers are px)
	MathEngine       string `yaml:"mathEngine"`       // auto, primary, secondary
}

// Default preset names.
const (
	DefaultFontSize         = "medium"
	DefaultChineseFont      = "auto"
	DefaultFontWeight       = "normal"
	DefaultLineSpacing      = "normal"
	DefaultParagraphSpacing = "normal"
	DefaultMathSpacing      = "normal"
	DefaultMathEngine       = "auto"
)

// Defaults returns options made only of default presets.
func Defaults() Options {
	return Options{
		FontSize:         DefaultFontSize,
		ChineseFont:      DefaultChineseFont,
		FontWeight:       DefaultFontWeight,
		LineSpacing:      DefaultLineSpacing,
		ParagraphSpacing: DefaultParagraphSpacing,
		MathSpacing:      DefaultMathSpacing,
		MathEngine:       DefaultMathEngine,
	}
}

var (
	fontSizePresets = map[string]string{
		"small":  "14px",
		"medium": "16px",
		"large":  "18px",
		"xlarge": "20px",
	}

	fontWeightPresets = map[string]string{
		"light":    "300",
		"normal":   "400",
		"medium":   "500",
		"semibold": "600",
		"bold":     "700",
		"black":    "900",
	}

	lineSpacingPresets = map[string]string{
		"tight":   "1.2",
		"normal":  "1.6",
		"loose":   "2.0",
		"relaxed": "2.4",
	}

	paragraphSpacingPresets = map[string]string{
		"compact": "0.5em",
		"normal":  "1em",
		"relaxed": "1.5em",
		"loose":   "2em",
	}

	mathSpacingPresets = map[string]string{
		"compact": "4px",
		"normal":  "10px",
		"relaxed": "16px",
		"loose":   "24px",
	}

	// chineseFontPresets map names to font-family stacks. Latin faces come
	// first so that CJK fonts only cover CJK glyphs.
	chineseFontPresets = map[string]string{
		"auto":       `"PingFang SC", "Hiragino Sans GB", "Microsoft YaHei", "Noto Sans CJK SC", "Source Han Sans SC", "WenQuanYi Micro Hei", sans-serif`,
		"songti":     `"Songti SC", "SimSun", "STSong", "Noto Serif CJK SC", "Source Han Serif SC", serif`,
		"heiti":      `"Heiti SC", "SimHei", "STHeiti", "Noto Sans CJK SC", "Source Han Sans SC", sans-serif`,
		"kaiti":      `"Kaiti SC", "KaiTi", "STKaiti", "AR PL UKai CN", serif`,
		"fangsong":   `"FangSong", "STFangsong", "FangSong_GB2312", serif`,
		"yahei":      `"Microsoft YaHei", "微软雅黑", "Noto Sans CJK SC", sans-serif`,
		"pingfang":   `"PingFang SC", "PingFang TC", "Noto Sans CJK SC", sans-serif`,
		"noto-sans":  `"Noto Sans CJK SC", "Noto Sans SC", "Source Han Sans SC", sans-serif`,
		"noto-serif": `"Noto Serif CJK SC", "Noto Serif SC", "Source Han Serif SC", serif`,
	}

	mathEngines = map[string]bool{
		"auto":      true,
		"primary":   true,
		"secondary": true,
	}

	// lengthPattern matches a number with an optional CSS unit.
	lengthPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)(px|pt|em|rem|%|mm|cm|in)?$`)

	// fontStackPattern rejects characters that could escape a CSS declaration.
	fontStackPattern = regexp.MustCompile(`^[^;{}<>]+$`)
)

// Normalize resolves presets and appends canonical units to bare numbers.
// Empty fields take their default. Normalizing an already normalized value
// returns it unchanged.
func Normalize(o Options) (Options, error) {
	var (
		n   Options
		err error
	)
	if n.FontSize, err = resolveLength("fontSize", o.FontSize, DefaultFontSize, fontSizePresets, "px"); err != nil {
		return Options{}, err
	}
	if n.ChineseFont, err = resolveFontStack(o.ChineseFont); err != nil {
		return Options{}, err
	}
	if n.FontWeight, err = resolveFontWeight(o.FontWeight); err != nil {
		return Options{}, err
	}
	if n.LineSpacing, err = resolveLineSpacing(o.LineSpacing); err != nil {
		return Options{}, err
	}
	if n.ParagraphSpacing, err = resolveLength("paragraphSpacing", o.ParagraphSpacing, DefaultParagraphSpacing, paragraphSpacingPresets, "em"); err != nil {
		return Options{}, err
	}
	if n.MathSpacing, err = resolveLength("mathSpacing", o.MathSpacing, DefaultMathSpacing, mathSpacingPresets, "px"); err != nil {
		return Options{}, err
	}
	if n.MathEngine, err = resolveMathEngine(o.MathEngine); err != nil {
		return Options{}, err
	}
	return n, nil
}

// key lowercases and trims a preset lookup key.
func key(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// resolveLength resolves a preset or literal length. Bare numbers get unit.
func resolveLength(field, v, def string, presets map[string]string, unit string) (string, error) {
	if strings.TrimSpace(v) == "" {
		v = def
	}
	if p, ok := presets[key(v)]; ok {
		return p, nil
	}
	m := lengthPattern.FindStringSubmatch(key(v))
	if m == nil {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidStyle, field, v)
	}
	if m[2] == "" {
		return m[1] + unit, nil
	}
	return m[1] + m[2], nil
}

func resolveFontStack(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		v = DefaultChineseFont
	}
	if p, ok := chineseFontPresets[key(v)]; ok {
		return p, nil
	}
	v = strings.TrimSpace(v)
	if !fontStackPattern.MatchString(v) {
		return "", fmt.Errorf("%w: chineseFont %q", ErrInvalidStyle, v)
	}
	return v, nil
}

func resolveFontWeight(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		v = DefaultFontWeight
	}
	if p, ok := fontWeightPresets[key(v)]; ok {
		return p, nil
	}
	w, err := strconv.Atoi(key(v))
	if err != nil || w < 100 || w > 900 {
		return "", fmt.Errorf("%w: fontWeight %q (must be a preset or 100-900)", ErrInvalidStyle, v)
	}
	return strconv.Itoa(w), nil
}

func resolveLineSpacing(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		v = DefaultLineSpacing
	}
	if p, ok := lineSpacingPresets[key(v)]; ok {
		return p, nil
	}
	f, err := strconv.ParseFloat(key(v), 64)
	if err != nil || f <= 0 || f > 10 {
		return "", fmt.Errorf("%w: lineSpacing %q (must be a preset or a multiplier)", ErrInvalidStyle, v)
	}
	return key(v), nil
}

func resolveMathEngine(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return DefaultMathEngine, nil
	}
	if !mathEngines[key(v)] {
		return "", fmt.Errorf("%w: mathEngine %q (must be auto, primary or secondary)", ErrInvalidStyle, v)
	}
	return key(v), nil
}

// Presets lists preset names per field, for help output and shell hints.
func Presets() map[string][]string {
	return map[string][]string{
		"fontSize":         sortedKeys(fontSizePresets),
		"chineseFont":      sortedKeys(chineseFontPresets),
		"fontWeight":       sortedKeys(fontWeightPresets),
		"lineSpacing":      sortedKeys(lineSpacingPresets),
		"paragraphSpacing": sortedKeys(paragraphSpacingPresets),
		"mathSpacing":      sortedKeys(mathSpacingPresets),
		"mathEngine":       {"auto", "primary", "secondary"},
	}
}
