// Package browser renders JS-heavy career pages with a headless browser
// before handing the DOM to the generic anchor scan. Rendering is bounded:
// after the timeout we proceed with whatever DOM is present.
package browser

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/generic"
)

const (
	scrollPasses = 5
	scrollPause  = 400 * time.Millisecond
	settleWait   = 5 * time.Second
)

type Adapter struct {
	log     *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func New(log *zap.Logger, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{log: log, timeout: timeout}
}

func (a *Adapter) Name() string { return "browser" }

// ensureBrowser launches playwright on first use so runs without any
// browser-rendered source never pay the startup cost.
func (a *Adapter) ensureBrowser() (playwright.Browser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browser != nil && a.browser.IsConnected() {
		return a.browser, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	br, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}
	a.pw = pw
	a.browser = br
	return br, nil
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browser != nil {
		_ = a.browser.Close()
		a.browser = nil
	}
	if a.pw != nil {
		err := a.pw.Stop()
		a.pw = nil
		return err
	}
	return nil
}

func (a *Adapter) Fetch(ctx context.Context, src source.Descriptor) ([]domain.RawCandidate, error) {
	br, err := a.ensureBrowser()
	if err != nil {
		return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonParse, Err: err}
	}

	page, err := br.NewPage()
	if err != nil {
		return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonParse, Err: err}
	}
	defer page.Close()

	// Navigation failure past DOMContentLoaded is tolerated: score whatever
	// rendered before the deadline.
	if _, err := page.Goto(src.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(a.timeout.Milliseconds())),
	}); err != nil {
		a.log.Warn("navigation incomplete, scanning partial DOM",
			zap.String("source", src.Name), zap.Error(err))
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(settleWait.Milliseconds())),
	}); err != nil {
		a.log.Debug("network never settled", zap.String("source", src.Name))
	}

	// Scroll-to-bottom to trigger lazy listing loads.
	for i := 0; i < scrollPasses; i++ {
		if ctx.Err() != nil {
			break
		}
		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			break
		}
		page.WaitForTimeout(float64(scrollPause.Milliseconds()))
	}

	html, err := page.Content()
	if err != nil {
		return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonParse, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &source.FetchError{Source: src.Name, Reason: source.ReasonParse, Err: err}
	}

	out := generic.ScanDocument(doc, src)
	a.log.Debug("rendered scan",
		zap.String("source", src.Name),
		zap.Int("candidates", len(out)))
	return out, nil
}
