package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mathpdf "github.com/alnah/go-mathpdf"
	"github.com/alnah/go-mathpdf/internal/fileutil"
)

// mergedName is the base name of a merged document without -o.
const mergedName = "merged"

// mergeInputs concatenates inputs into one temporary Markdown file next
// to the first input, so that its relative links keep resolving. The
// caller must call cleanup, also when the conversion fails.
func mergeInputs(inputs []string) (path string, cleanup func(), err error) {
	var b strings.Builder
	for i, in := range inputs {
		data, err := os.ReadFile(in) // #nosec G304 -- user-provided input
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", mathpdf.ErrReadInput, err)
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimRight(string(data), "\n"))
		b.WriteString("\n")
	}
	return fileutil.TempFile(filepath.Dir(inputs[0]), b.String(), "md")
}

// mergedOutputPath is -o when it names a file, otherwise "merged" with
// the format's extension in -o or next to the first input.
func mergedOutputPath(inputs []string, output string, format mathpdf.Format) string {
	if output != "" && isOutputFile(output) {
		return output
	}
	dir := output
	if dir == "" {
		dir = filepath.Dir(inputs[0])
	}
	return filepath.Join(dir, mergedName+format.Ext())
}
