package mathpdf

import (
	"context"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mathpdf/internal/browser"
	"github.com/alnah/go-mathpdf/internal/readiness"
)

// pdfSession abstracts the browser session to allow testing without Chrome.
type pdfSession interface {
	NewPage(ctx context.Context) (pdfPage, error)
	OpenPages() int
	IsOpen() bool
	Close() error
}

// pdfPage is one browser tab.
type pdfPage interface {
	readiness.Evaluator
	Load(ctx context.Context, url string) error
	PDF(ctx context.Context, req *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ pdfSession = (*rodSession)(nil)
	_ pdfPage    = (*browser.Page)(nil)
)

// rodSession adapts browser.Session to pdfSession.
type rodSession struct {
	*browser.Session
}

func newRodSession(cfg browser.Config) pdfSession {
	return &rodSession{Session: browser.NewSession(cfg)}
}

func (s *rodSession) NewPage(ctx context.Context) (pdfPage, error) {
	p, err := s.Session.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	return p, nil
}
