// Package fileutil holds the small file and path helpers shared by the
// converter and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for temp file creation.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// TempFile writes content to a new hidden file named .mathpdf-*.ext in dir
// and returns its path with a func that removes it. An empty dir means the
// system temp directory. Creating the file next to a source document keeps
// its relative links resolvable.
func TempFile(dir, content, ext string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(ext); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp(dir, ".mathpdf-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = f.WriteString(content)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing temp file: %w", closeErr)
	} else if err != nil {
		err = fmt.Errorf("writing temp file: %w", err)
	}
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// ValidateExtension rejects extensions that could move a temp file out of
// its directory.
func ValidateExtension(ext string) error {
	if ext == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(ext, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s names a path rather than a bare asset name,
// i.e. contains a separator: "./custom.css" and "sub/dir" are paths,
// "academic" is a name.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// FileURL converts an absolute path to a file:// URL, escaping as needed.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
