// Package browser owns the headless Chrome lifecycle: lazy launch, tracked
// pages with request filtering, page evaluation and PDF printing.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mathpdf/internal/process"
)

// Sentinel errors.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrSessionClosed  = errors.New("browser session closed")
)

// pageCloseTimeout bounds closing one tab, which no job context covers.
const pageCloseTimeout = 10 * time.Second

// RequestFilter decides whether a page request may proceed.
type RequestFilter func(resourceType, url string) bool

// Config configures a Session.
type Config struct {
	// Bin is the Chrome binary. Empty uses ROD_BROWSER_BIN, then rod's lookup
	// (which downloads Chromium on first run).
	Bin string
	// NoSandbox disables the Chrome sandbox. It is forced on in CI and when a
	// browser binary is configured (containers).
	NoSandbox bool
	// Filter is installed on every page. Nil uses ShouldAllowRequest.
	Filter RequestFilter
	Logger *slog.Logger
}

// Session is one browser process and the set of pages open in it. Sessions
// are not shared between owners.
type Session struct {
	cfg Config

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	pages    map[*Page]struct{}
}

// NewSession creates a session. The browser starts on the first NewPage.
func NewSession(cfg Config) *Session {
	if cfg.Filter == nil {
		cfg.Filter = ShouldAllowRequest
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{cfg: cfg, pages: make(map[*Page]struct{})}
}

// IsOpen reports whether a browser process is running.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser != nil
}

// OpenPages returns the number of pages not yet closed.
func (s *Session) OpenPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// ensureBrowser lazily launches and connects to the browser. Caller holds mu.
func (s *Session) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)

	bin := s.cfg.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if s.cfg.NoSandbox || bin != "" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s.launcher = l
	s.browser = b
	s.cfg.Logger.Debug("browser launched", "pid", l.PID())
	return nil
}

// NewPage opens a blank page with the request filter installed.
func (s *Session) NewPage(ctx context.Context) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	rp, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	// The page outlives ctx: teardown and the request router must keep
	// working after the job is canceled. Calls that serve the job pass
	// their own context.
	rp = rp.Context(context.WithoutCancel(ctx))

	p := &Page{session: s, page: rp, logger: s.cfg.Logger}
	router := rp.HijackRequests()
	err = router.Add("*", "", func(h *rod.Hijack) {
		resourceType := string(h.Request.Type())
		target := h.Request.URL().String()
		if s.cfg.Filter(resourceType, target) {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		s.cfg.Logger.Debug("request blocked", "type", resourceType, "url", target)
		h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
	})
	if err != nil {
		_ = rp.Close()
		return nil, fmt.Errorf("%w: installing request filter: %v", ErrPageCreate, err)
	}
	go router.Run()
	p.router = router

	s.pages[p] = struct{}{}
	return p, nil
}

// forget removes a page from the open set.
func (s *Session) forget(p *Page) {
	s.mu.Lock()
	delete(s.pages, p)
	s.mu.Unlock()
}

// Close closes every outstanding page, then the browser. If the browser does
// not close cleanly its process group is killed. Page close errors are
// logged; only the browser close error is returned.
func (s *Session) Close() error {
	s.mu.Lock()
	pages := make([]*Page, 0, len(s.pages))
	for p := range s.pages {
		pages = append(pages, p)
	}
	s.mu.Unlock()

	for _, p := range pages {
		if err := p.Close(); err != nil {
			s.cfg.Logger.Warn("closing page during session teardown", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}

	err := s.browser.Close()
	if err != nil {
		s.cfg.Logger.Warn("browser did not close cleanly, killing process group", "pid", s.launcher.PID(), "error", err)
		if kerr := process.KillProcessGroup(s.launcher.PID()); kerr != nil {
			s.cfg.Logger.Debug("skipping process group kill", "error", kerr)
		}
		s.launcher.Kill()
	}
	s.launcher.Cleanup()

	s.browser = nil
	s.launcher = nil
	return err
}

// Page is one browser tab owned by a Session.
type Page struct {
	session *Session
	page    *rod.Page
	router  *rod.HijackRouter
	logger  *slog.Logger

	once     sync.Once
	closeErr error
}

// Load navigates to url and waits for the load event. There is no timeout
// beyond ctx.
func (p *Page) Load(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return nil
}

// Eval runs a JavaScript function expression, awaits its promise and
// returns the result as a string.
func (p *Page) Eval(ctx context.Context, js string) (string, error) {
	res, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// PDF prints the page.
func (p *Page) PDF(ctx context.Context, req *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := p.page.Context(ctx).PDF(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// Close stops the request filter and closes the tab. It is idempotent.
func (p *Page) Close() error {
	p.once.Do(func() {
		if p.router != nil {
			if err := p.router.Stop(); err != nil {
				p.logger.Debug("stopping request router", "error", err)
			}
		}
		p.closeErr = p.page.Timeout(pageCloseTimeout).Close()
		p.session.forget(p)
	})
	return p.closeErr
}
