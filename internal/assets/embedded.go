package assets

import (
	"embed"
	"io/fs"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader serves the themes and template compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(styleKind, name)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(templateKind, name)
}

func (e *EmbeddedLoader) load(k kind, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(embedded, k.path(name))
	if err != nil {
		return "", k.missing(name)
	}
	return string(data), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
