package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const snapshotTimeout = 30 * time.Second

// waitForImagesJS resolves once every <img> of the page has loaded or failed
const waitForImagesJS = `
	(function() {
		return Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
			return new Promise((resolve) => {
				if (img.complete) {
					resolve();
					return;
				}
				const timeout = setTimeout(() => resolve(), 5000);
				img.onload = () => { clearTimeout(timeout); resolve(); };
				img.onerror = () => { clearTimeout(timeout); resolve(); };
			});
		}));
	})();
`

// SnapshotService captures the dress-up page of a session with headless Chrome
type SnapshotService struct {
	baseURL    string // Base URL the service is reachable at (e.g., "http://localhost:8080")
	chromePath string
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(baseURL, chromePath string) *SnapshotService {
	return &SnapshotService{
		baseURL:    baseURL,
		chromePath: chromePath,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// renderURL returns the URL of the dress-up page of a session
func (s *SnapshotService) renderURL(sessionID string) string {
	return fmt.Sprintf("%s/dressup?session=%s", s.baseURL, url.QueryEscape(sessionID))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (s *SnapshotService) newBrowser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	return chromedpCtx, func() {
		chromedpCancel()
		allocCancel()
	}
}

// CapturePNG screenshots the character canvas (.base-container) of a session
func (s *SnapshotService) CapturePNG(ctx context.Context, sessionID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	chromedpCtx, closeBrowser := s.newBrowser(ctx)
	defer closeBrowser()

	renderURL := s.renderURL(sessionID)
	log.Printf("📸 CapturePNG: session=%s url=%s", sessionID, renderURL)

	var buf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(1024, 768),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady(".base-container"),
		chromedp.Evaluate(waitForImagesJS, nil, awaitPromise),
		chromedp.Screenshot(".base-container", &buf, chromedp.NodeVisible),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("empty screenshot for session %s", sessionID)
	}

	log.Printf("✓ CapturePNG: session=%s bytes=%d", sessionID, len(buf))
	return buf, nil
}

// CapturePDF prints the dress-up page of a session to PDF
func (s *SnapshotService) CapturePDF(ctx context.Context, sessionID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	chromedpCtx, closeBrowser := s.newBrowser(ctx)
	defer closeBrowser()

	renderURL := s.renderURL(sessionID)
	log.Printf("📄 CapturePDF: session=%s url=%s", sessionID, renderURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForImagesJS, nil, awaitPromise),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
