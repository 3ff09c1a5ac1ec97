package mathpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"github.com/alnah/go-mathpdf/internal/assets"
	"github.com/alnah/go-mathpdf/internal/browser"
	"github.com/alnah/go-mathpdf/internal/fileutil"
	"github.com/alnah/go-mathpdf/internal/mathcache"
	"github.com/alnah/go-mathpdf/internal/mathengine"
	"github.com/alnah/go-mathpdf/internal/mathspan"
	"github.com/alnah/go-mathpdf/internal/pipeline"
	"github.com/alnah/go-mathpdf/internal/readiness"
)

// Converter runs conversion jobs. It exclusively owns one lazily launched
// browser session; converters must not share sessions. Calls are serialized.
// Create with NewConverter and call Close when done.
type Converter struct {
	cfg        converterConfig
	renderer   *pipeline.Renderer
	cache      mathcache.Cache
	detector   *readiness.Detector
	newSession func() pdfSession

	mu     sync.Mutex // serializes jobs
	closed bool

	sessMu  sync.Mutex // guards session
	session pdfSession
}

// NewConverter creates a Converter. It fails when the theme, the KaTeX
// script or the math cache cannot be loaded. A missing KaTeX script is not
// an error: formulas then render through MathML.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
			katexStylesheet:  DefaultKaTeXStylesheet,
			readinessTimeout: defaultReadinessTimeout,
			extract:          mathspan.DefaultOptions(),
			theme:            assets.DefaultStyleName,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	logger := c.cfg.logger

	loader, err := assets.NewOverlay(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if _, err := loader.LoadStyle(c.cfg.theme); err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", c.cfg.theme, err)
	}

	script, origin, err := resolveKaTeXScript(c.cfg.katexSource, c.cfg.katexPath)
	if err != nil {
		return nil, err
	}
	if script == "" {
		logger.Debug("KaTeX script not found, formulas render as MathML", "env", KaTeXScriptEnv)
	} else {
		logger.Debug("KaTeX script loaded", "origin", origin)
	}

	if c.cfg.cachePath != "" {
		b, err := mathcache.OpenBolt(c.cfg.cachePath, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMathCache, err)
		}
		c.cache = b
	} else {
		c.cache = mathcache.NewMemory()
	}

	workers := ResolveWorkers(c.cfg.workers)
	engineLogger := slog.New(mathengine.NewWarningFilter(logger.Handler())).With("engine", "katex")
	adapter := mathengine.NewAdapter(
		mathengine.NewKaTeX(script, workers, engineLogger),
		mathengine.MathML{},
		mathengine.WithCache(c.cache),
		mathengine.WithStrict(c.cfg.strict),
		mathengine.WithLogger(logger),
	)

	var sheets []string
	if c.cfg.katexStylesheet != "" {
		sheets = append(sheets, c.cfg.katexStylesheet)
	}
	sheets = append(sheets, c.cfg.stylesheets...)

	c.renderer = pipeline.NewRenderer(adapter,
		pipeline.WithAssets(loader),
		pipeline.WithTheme(c.cfg.theme),
		pipeline.WithStylesheets(sheets...),
		pipeline.WithWorkers(workers),
		pipeline.WithExtractOptions(c.cfg.extract),
		pipeline.WithMinify(c.cfg.minify),
		pipeline.WithLogger(logger),
	)

	c.detector = readiness.New(logger)
	c.detector.ConditionTimeout = c.cfg.readinessTimeout

	if c.newSession == nil {
		bcfg := browser.Config{
			Bin:       c.cfg.browserBin,
			NoSandbox: c.cfg.noSandbox,
			Logger:    logger,
		}
		c.newSession = func() pdfSession { return newRodSession(bcfg) }
	}

	return c, nil
}

// Convert runs one job and returns the output path. Without browser reuse
// the browser launched for a PDF job is closed before Convert returns.
// Failures are *PhaseError values.
func (c *Converter) Convert(ctx context.Context, job Job) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrConverterClosed
	}

	out, err := c.convert(ctx, uuid.NewString(), job, job.Progress)
	if !c.cfg.reuse {
		if cerr := c.closeSession(); cerr != nil {
			c.cfg.logger.Warn("closing browser session", "error", cerr)
		}
	}
	return out, err
}

// ConvertBatch runs jobs one at a time on a shared browser session, then
// closes the session whatever the outcome. progress observes jobs that have
// no Progress of their own. A failed job does not stop the batch; a
// canceled context fails the remaining jobs.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []Job, progress ProgressFunc) []BatchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]BatchResult, len(jobs))
	for i, job := range jobs {
		results[i] = BatchResult{Input: job.InputPath, Output: job.Output()}
	}
	if c.closed {
		for i := range results {
			results[i].Err = ErrConverterClosed
		}
		return results
	}

	defer func() {
		if err := c.closeSession(); err != nil {
			c.cfg.logger.Warn("closing browser session after batch", "error", err)
		}
	}()

	for i, job := range jobs {
		results[i].JobID = uuid.NewString()
		if err := ctx.Err(); err != nil {
			results[i].Err = &PhaseError{Phase: PhaseReading, Err: err}
			continue
		}

		p := job.Progress
		if p == nil {
			p = progress
		}
		out, err := c.convert(ctx, results[i].JobID, job, p)
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].Output = out
	}
	return results
}

// RenderHTML renders markdown into a complete HTML document without a
// browser. Relative paths are left as written.
func (c *Converter) RenderHTML(ctx context.Context, markdown string, style StyleOptions, progress ProgressFunc) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrConverterClosed
	}
	return c.renderer.Render(ctx, markdown, style, progress)
}

// OpenPages returns the number of browser pages currently open.
func (c *Converter) OpenPages() int {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.OpenPages()
}

// SessionOpen reports whether a browser process is running.
func (c *Converter) SessionOpen() bool {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	return c.session != nil && c.session.IsOpen()
}

// Close closes every open page, the browser and the math cache. The
// converter cannot be used afterwards. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	return errors.Join(c.closeSession(), c.cache.Close())
}

// convert runs one job: read, render, export. Panics are recovered into
// errors.
func (c *Converter) convert(ctx context.Context, jobID string, job Job, progress ProgressFunc) (out string, err error) {
	log := c.cfg.logger.With("job_id", jobID, "input", job.InputPath)
	phase := PhaseReading

	defer func() {
		if r := recover(); r != nil {
			err = &PhaseError{Phase: phase, Err: fmt.Errorf("internal error: %v", r)}
		}
		if err != nil {
			log.Error("conversion failed", "phase", phase, "error", err)
			progress.Report(Progress{Phase: PhaseError, Err: err})
		}
	}()

	progress.Report(Progress{Phase: PhaseReading})

	format, err := ParseFormat(string(job.Format))
	if err != nil {
		return "", &PhaseError{Phase: phase, Err: err}
	}

	var printOpts *proto.PagePrintToPDF
	if format == FormatPDF {
		layout := DefaultLayout()
		if job.Layout != nil {
			layout = *job.Layout
		}
		if printOpts, err = layout.PrintOptions(); err != nil {
			return "", &PhaseError{Phase: phase, Err: err}
		}
	}

	markdown, sourceDir, err := readInput(job.InputPath)
	if err != nil {
		return "", &PhaseError{Phase: phase, Err: err}
	}

	phase = PhaseRendering
	res, err := c.renderer.RenderInput(ctx, pipeline.Input{
		Markdown:  markdown,
		Style:     job.Style,
		SourceDir: sourceDir,
	}, progress)
	if err != nil {
		return "", &PhaseError{Phase: phase, Err: err}
	}

	phase = PhaseExporting
	progress.Report(Progress{Phase: PhaseExporting})
	out = job.Output()

	data := []byte(res.HTML)
	if format == FormatPDF {
		if data, err = c.exportPDF(ctx, log, res.HTML, printOpts); err != nil {
			return "", &PhaseError{Phase: phase, Err: err}
		}
	}
	if err := writeOutput(out, data); err != nil {
		return "", &PhaseError{Phase: phase, Err: err}
	}

	log.Info("conversion complete",
		"output", out,
		"format", format,
		"spans", res.Spans,
		"primary", res.Used[mathengine.Primary],
		"secondary", res.Used[mathengine.Secondary],
		"raw", res.Used[mathengine.RawFallback],
	)
	progress.Report(Progress{Phase: PhaseDone})
	return out, nil
}

// exportPDF loads html from a temp file in a fresh page, waits for
// readiness and prints it. The page and the temp file are removed on every
// path.
func (c *Converter) exportPDF(ctx context.Context, log *slog.Logger, html string, printOpts *proto.PagePrintToPDF) ([]byte, error) {
	path, cleanup, err := fileutil.TempFile("", html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	page, err := c.ensureSession().NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("closing page", "error", err)
		}
	}()

	if err := page.Load(ctx, fileutil.FileURL(path)); err != nil {
		return nil, err
	}

	report := c.detector.Wait(ctx, page)
	if !report.Ready() {
		log.Debug("exporting with unsettled readiness conditions")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return page.PDF(ctx, printOpts)
}

func (c *Converter) ensureSession() pdfSession {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()
	if c.session == nil {
		c.session = c.newSession()
	}
	return c.session
}

// closeSession closes the session, if any, and forgets it.
func (c *Converter) closeSession() error {
	c.sessMu.Lock()
	s := c.session
	c.session = nil
	c.sessMu.Unlock()

	if s == nil {
		return nil
	}
	if n := s.OpenPages(); n > 0 {
		c.cfg.logger.Debug("closing browser session with open pages", "pages", n)
	}
	return s.Close()
}

// readInput reads a Markdown file and returns its content and absolute
// directory.
func readInput(path string) (string, string, error) {
	if path == "" {
		return "", "", fmt.Errorf("%w: no input path", ErrReadInput)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), filepath.Dir(abs), nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- output documents are meant to be readable
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
