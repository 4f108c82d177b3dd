package rendering

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/resume"
)

// DefaultPDFTimeout bounds one browser session
const DefaultPDFTimeout = 60 * time.Second

// A4 in inches
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

// Exporter turns a document into PDF bytes
type Exporter interface {
	ExportPDF(ctx context.Context, doc *resume.Document) ([]byte, error)
}

// PDFRenderer prints the HTML layout of a document with headless Chrome.
type PDFRenderer struct {
	// ChromePath overrides the browser binary; empty uses the chromedp lookup
	ChromePath string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewPDFRenderer creates a renderer. An empty chromePath falls back to CHROME_PATH.
func NewPDFRenderer(chromePath string, timeout time.Duration, logger *zap.Logger) *PDFRenderer {
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{ChromePath: chromePath, Timeout: timeout, Logger: logger}
}

// ExportPDF renders the document layout and prints it to an A4 PDF
func (r *PDFRenderer) ExportPDF(ctx context.Context, doc *resume.Document) ([]byte, error) {
	html, err := RenderHTML(doc)
	if err != nil {
		return nil, err
	}
	return r.PrintHTML(ctx, html)
}

// PrintHTML loads a standalone HTML page in headless Chrome and prints it
func (r *PDFRenderer) PrintHTML(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout())
	defer cancel()

	dir, err := os.MkdirTemp("", "resume-pdf-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp dir", Cause: err}
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(html), 0o600); err != nil {
		return nil, &RenderError{Message: "failed to write html", Cause: err}
	}

	start := time.Now()
	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+path),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "failed to print pdf", Cause: err}
	}

	r.logger().Debug("printed pdf",
		zap.Int("bytes", len(buf)),
		zap.Duration("duration", time.Since(start)))
	return buf, nil
}

func (r *PDFRenderer) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultPDFTimeout
	}
	return r.Timeout
}

func (r *PDFRenderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
