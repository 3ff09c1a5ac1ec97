package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	mathpdf "github.com/alnah/go-mathpdf"
)

// fakeConverter records jobs and fails inputs listed in fail by base name.
type fakeConverter struct {
	mu       sync.Mutex
	jobs     []mathpdf.Job
	contents []string // input contents at conversion time
	fail     map[string]error
	batches  int
	singles  int
	closed   bool
}

func (f *fakeConverter) Convert(_ context.Context, job mathpdf.Job) (string, error) {
	f.mu.Lock()
	f.singles++
	f.mu.Unlock()
	return f.convert(job)
}

func (f *fakeConverter) ConvertBatch(_ context.Context, jobs []mathpdf.Job, _ mathpdf.ProgressFunc) []mathpdf.BatchResult {
	f.mu.Lock()
	f.batches++
	f.mu.Unlock()
	results := make([]mathpdf.BatchResult, len(jobs))
	for i, job := range jobs {
		out, err := f.convert(job)
		results[i] = mathpdf.BatchResult{Input: job.InputPath, Output: out, Err: err}
	}
	return results
}

func (f *fakeConverter) convert(job mathpdf.Job) (string, error) {
	data, _ := os.ReadFile(job.InputPath)

	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.contents = append(f.contents, string(data))
	err := f.fail[filepath.Base(job.InputPath)]
	f.mu.Unlock()

	job.Progress.Report(mathpdf.Progress{Phase: mathpdf.PhaseReading})
	if err != nil {
		job.Progress.Report(mathpdf.Progress{Phase: mathpdf.PhaseError, Err: err})
		return "", &mathpdf.PhaseError{Phase: mathpdf.PhaseExporting, Err: err}
	}
	job.Progress.Report(mathpdf.Progress{Phase: mathpdf.PhaseDone})
	return job.Output(), nil
}

func (f *fakeConverter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// testEnv is an environment with captured output, fixed variables and a
// fake converter.
type testEnv struct {
	*Environment
	stdout, stderr *bytes.Buffer
	conv           *fakeConverter
	opts           int
}

func newTestEnv(vars map[string]string) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   &fakeConverter{fail: map[string]error{}},
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			var kv []string
			for k, v := range vars {
				kv = append(kv, k+"="+v)
			}
			return kv
		},
		Interactive: func() bool { return false },
		NewConverter: func(opts ...mathpdf.Option) (Converter, error) {
			te.opts = len(opts)
			return te.conv, nil
		},
	}
	return te
}

// writeFiles creates files under dir from a name-to-content map.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}
