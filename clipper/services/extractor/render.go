package extractor

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Renderer fetches JS-heavy pages through a headless browser so the image
// discovery pass sees the DOM after client-side rendering. Opt-in via
// RENDER_JS; the default pipeline never pays the browser startup cost.
type Renderer struct {
	pw *playwright.Playwright
}

// NewRenderer initializes Playwright
func NewRenderer() (*Renderer, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	return &Renderer{pw: pw}, nil
}

// Close stops Playwright
func (r *Renderer) Close() {
	if r.pw != nil {
		r.pw.Stop()
	}
}

// Render returns the page HTML after DOMContentLoaded. The navigation
// timeout is derived from the caller's deadline so an abandoned heavy path
// doesn't keep a browser tab alive.
func (r *Renderer) Render(ctx context.Context, targetURL string) (string, error) {
	timeout := 15 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)})
	if err != nil {
		return "", err
	}
	defer browser.Close()

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return "", err
	}
	page, err := bctx.NewPage()
	if err != nil {
		return "", err
	}

	if _, err := page.Goto(targetURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return "", err
	}

	return page.Content()
}
