package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName    = "default"
	DefaultTemplateName = "document"
)

// Sentinel errors for asset lookups.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
)

// AssetLoader loads themes and document templates by bare name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind is one asset family: where it lives and how a miss is reported.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// path returns the slash-separated path of name, relative to a base.
func (k kind) path(name string) string {
	return k.dir + "/" + name + k.ext
}

func (k kind) missing(name string) error {
	return fmt.Errorf("%w: %q", k.notFound, name)
}

// checkName rejects names that could select a file outside the family
// directory or change its extension.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

var builtin = NewEmbeddedLoader()

// LoadStyle loads a built-in theme.
func LoadStyle(name string) (string, error) {
	return builtin.LoadStyle(name)
}

// LoadTemplate loads a built-in document template.
func LoadTemplate(name string) (string, error) {
	return builtin.LoadTemplate(name)
}

// StyleNames lists the built-in themes in lexical order.
func StyleNames() []string {
	entries, err := fs.ReadDir(embedded, styleKind.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), styleKind.ext); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	return names
}
