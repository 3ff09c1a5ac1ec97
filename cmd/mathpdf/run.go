package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	mathpdf "github.com/alnah/go-mathpdf"
	"github.com/alnah/go-mathpdf/internal/assets"
	"github.com/alnah/go-mathpdf/internal/config"
	"github.com/alnah/go-mathpdf/internal/hints"
	"github.com/alnah/go-mathpdf/internal/yamlutil"
)

// runMain runs the CLI and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	flags, inputs, err := parseFlags(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\nRun 'mathpdf --help' for usage.\n", err)
		return ExitUsage
	}
	if flags.common.version {
		fmt.Fprintf(env.Stdout, "mathpdf %s\n", Version)
		return ExitSuccess
	}

	logger := newLogger(env, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(env.Environ(), logger)

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return report(env, err)
	}
	cfg, err := loadSettings(flags, envCfg)
	if err != nil {
		return report(env, err)
	}

	if flags.common.printConfig {
		out, err := yamlutil.Marshal(cfg)
		if err != nil {
			return report(env, err)
		}
		_, _ = env.Stdout.Write(out)
		return ExitSuccess
	}

	if len(inputs) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	return report(env, runConvert(ctx, inputs, flags, cfg, logger, env))
}

// newLogger returns a text logger on stderr. Quiet keeps errors only,
// verbose adds debug records.
func newLogger(env *Environment, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

// runConvert discovers inputs, runs the conversion and prints results.
func runConvert(ctx context.Context, args []string, flags *cliFlags, cfg *config.Config, logger *slog.Logger, env *Environment) error {
	format, err := mathpdf.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if cfg.Output.Format == "" && isOutputFile(cfg.Output.DefaultDir) {
		// -o report.html implies HTML.
		format, _ = mathpdf.ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(cfg.Output.DefaultDir)), "."))
	}

	inputs, err := discoverInputs(args)
	if err != nil {
		return err
	}

	var plan []FileToConvert
	if flags.output.merge && len(inputs) > 1 {
		merged, cleanup, err := mergeInputs(inputs)
		if err != nil {
			return err
		}
		defer cleanup()
		plan = []FileToConvert{{InputPath: merged, OutputPath: mergedOutputPath(inputs, cfg.Output.DefaultDir, format)}}
		logger.Debug("merged inputs", "count", len(inputs), "output", plan[0].OutputPath)
	} else {
		plan = planOutputs(inputs, cfg.Output.DefaultDir, format, baseDirOf(args))
	}

	reuse := !flags.browser.noReuse
	opts, err := converterOptions(cfg, logger, reuse)
	if err != nil {
		return err
	}
	conv, err := env.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			logger.Warn("closing converter", "error", cerr)
		}
	}()

	layout := cfg.Layout()
	rep := newReporter(env, flags.common.quiet)
	jobs := make([]mathpdf.Job, len(plan))
	for i, f := range plan {
		input := f.InputPath
		if flags.output.merge && len(inputs) > 1 {
			input = mergedName
		}
		jobs[i] = mathpdf.Job{
			InputPath:  f.InputPath,
			OutputPath: f.OutputPath,
			Format:     format,
			Layout:     &layout,
			Style:      cfg.Style,
			Progress:   func(p mathpdf.Progress) { rep.Update(i, input, p) },
		}
	}

	rep.Start(len(jobs))
	var results []mathpdf.BatchResult
	if reuse {
		results = conv.ConvertBatch(ctx, jobs, nil)
	} else {
		results = convertEach(ctx, conv, jobs)
	}
	rep.Finish()

	return printResults(results, flags.common.quiet, env)
}

// convertEach converts jobs one by one, each with its own browser.
func convertEach(ctx context.Context, conv Converter, jobs []mathpdf.Job) []mathpdf.BatchResult {
	results := make([]mathpdf.BatchResult, len(jobs))
	for i, job := range jobs {
		out, err := conv.Convert(ctx, job)
		if out == "" {
			out = job.Output()
		}
		results[i] = mathpdf.BatchResult{Input: job.InputPath, Output: out, Err: err}
	}
	return results
}

// printResults prints one line per document and a summary for batches.
// It returns the first failure, wrapped with the failure count.
func printResults(results []mathpdf.BatchResult, quiet bool, env *Environment) error {
	var (
		failed   int
		firstErr error
	)
	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Input, r.Err, hintFor(r.Err))
			continue
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Output)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	if failed > 0 {
		return &reportedError{fmt.Errorf("%d of %d conversion(s) failed: %w", failed, len(results), firstErr)}
	}
	return nil
}

// reportedError is an error whose details were already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// report prints err with a hint and returns its exit code.
func report(env *Environment, err error) int {
	if err == nil {
		return ExitSuccess
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mathpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mathpdf.ErrKaTeXScript):
		return hints.ForKaTeXScript(mathpdf.UserKaTeXScriptPath())
	case errors.Is(err, mathpdf.ErrMathRender):
		return hints.ForMathRender()
	case errors.Is(err, ErrInvalidExtension), errors.Is(err, ErrNoMarkdown):
		return hints.ForReadInput()
	case errors.Is(err, config.ErrConfigNotFound):
		var ce *configLoadError
		if errors.As(err, &ce) {
			return hints.ForConfigNotFound(config.SearchedPaths(ce.name))
		}
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, mathpdf.ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, mathpdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, mathpdf.ErrInvalidStyle):
		for field, presets := range mathpdf.StylePresets() {
			if strings.Contains(err.Error(), field+" ") {
				return hints.ForInvalidStyle(field, presets)
			}
		}
	}
	return ""
}
