package assets

import "errors"

// Overlay serves assets from a custom directory and falls back to the
// built-in ones for names the directory does not provide.
type Overlay struct {
	custom   AssetLoader
	fallback AssetLoader
}

// NewOverlay creates an Overlay over dir. An empty dir serves only
// built-in assets.
func NewOverlay(dir string) (*Overlay, error) {
	o := &Overlay{fallback: builtin}
	if dir == "" {
		return o, nil
	}
	custom, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	o.custom = custom
	return o, nil
}

func (o *Overlay) LoadStyle(name string) (string, error) {
	return o.load(AssetLoader.LoadStyle, name)
}

func (o *Overlay) LoadTemplate(name string) (string, error) {
	return o.load(AssetLoader.LoadTemplate, name)
}

// load falls back only on a miss. Invalid names and read errors from the
// custom directory are returned as is.
func (o *Overlay) load(get func(AssetLoader, string) (string, error), name string) (string, error) {
	if o.custom == nil {
		return get(o.fallback, name)
	}
	s, err := get(o.custom, name)
	if errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound) {
		return get(o.fallback, name)
	}
	return s, err
}

// Custom reports whether a custom directory is layered on top.
func (o *Overlay) Custom() bool {
	return o.custom != nil
}

var _ AssetLoader = (*Overlay)(nil)
