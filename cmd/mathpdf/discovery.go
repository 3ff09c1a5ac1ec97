package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	mathpdf "github.com/alnah/go-mathpdf"
)

// Sentinel errors for input discovery.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrNoMarkdown       = errors.New("no markdown files found")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// markdownPattern selects Markdown files below a directory argument.
const markdownPattern = "**/*.{md,markdown}"

// FileToConvert is a discovered input and its output path.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverInputs expands args into Markdown files. Files keep their
// argument order; files found in a directory are naturally sorted.
// A file named twice is converted once.
func discoverInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := filepath.Clean(p)
		if !seen[key] {
			seen[key] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mathpdf.ErrReadInput, err)
		}
		if !info.IsDir() {
			if err := validateMarkdownExtension(arg); err != nil {
				return nil, err
			}
			add(arg)
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(arg), markdownPattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", arg, err)
		}
		sortNatural(matches)
		for _, m := range matches {
			add(filepath.Join(arg, filepath.FromSlash(m)))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMarkdown, strings.Join(args, ", "))
	}
	return files, nil
}

// planOutputs pairs inputs with output paths. output is a file when it has
// the format's extension and there is one input, otherwise a directory
// that mirrors the layout below baseDir.
func planOutputs(inputs []string, output string, format mathpdf.Format, baseDir string) []FileToConvert {
	plan := make([]FileToConvert, len(inputs))
	for i, in := range inputs {
		plan[i] = FileToConvert{InputPath: in, OutputPath: resolveOutputPath(in, output, baseDir, format, len(inputs) == 1)}
	}
	return plan
}

// resolveOutputPath determines the output path for one input.
func resolveOutputPath(inputPath, output, baseDir string, format mathpdf.Format, single bool) string {
	ext := filepath.Ext(inputPath)
	name := strings.TrimSuffix(filepath.Base(inputPath), ext) + format.Ext()

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	if single && isOutputFile(output) {
		return output
	}
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, inputPath); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(output, filepath.Dir(rel), name)
		}
	}
	return filepath.Join(output, name)
}

// isOutputFile reports whether path names a document rather than a directory.
func isOutputFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".html", ".htm":
		return true
	}
	return false
}

// baseDirOf returns the directory argument when args is exactly one
// directory, so that outputs mirror its layout.
func baseDirOf(args []string) string {
	if len(args) != 1 {
		return ""
	}
	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return args[0]
	}
	return ""
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
}
