package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	mathpdf "github.com/alnah/go-mathpdf"
)

func TestMergeInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "A\n\n\n", "b.md": "B"})

	path, cleanup, err := mergeInputs([]string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md")})
	if err != nil {
		t.Fatalf("mergeInputs() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("merged file in %s, want next to the first input", filepath.Dir(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A\n\n\nB\n" {
		t.Errorf("merged = %q", data)
	}

	cleanup()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("cleanup did not remove the merged file")
	}
}

func TestMergeInputs_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := mergeInputs([]string{filepath.Join(dir, "gone.md")})
	if !errors.Is(err, mathpdf.ErrReadInput) {
		t.Errorf("mergeInputs() error = %v, want ErrReadInput", err)
	}
}
