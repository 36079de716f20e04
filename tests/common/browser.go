package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Page drives one headless Chrome tab against the portal. Paths passed to
// Open are relative to the portal base URL.
type Page struct {
	ctx      context.Context
	cancel   context.CancelFunc
	baseURL  string
	settings *Settings

	mu       sync.Mutex
	jsErrors []string
}

// Card is an asset class card as rendered on the investor page.
type Card struct {
	AssetClass string `json:"assetClass"`
	Amount     string `json:"amount"`
	Selected   bool   `json:"selected"`
}

// NewPage starts a browser. JavaScript errors are recorded from the first
// navigation on.
func NewPage(baseURL string, s *Settings) *Page {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(tabCtx, s.BrowserTimeout())

	p := &Page{
		ctx:      ctx,
		baseURL:  baseURL,
		settings: s,
		cancel: func() {
			timeoutCancel()
			tabCancel()
			allocCancel()
		},
	}
	chromedp.ListenTarget(ctx, p.recordJSError)
	return p
}

func (p *Page) Close() {
	p.cancel()
}

func (p *Page) recordJSError(ev interface{}) {
	var msg string
	switch e := ev.(type) {
	case *runtime.EventExceptionThrown:
		msg = e.ExceptionDetails.Text
		if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
			msg = e.ExceptionDetails.Exception.Description
		}
		msg = "exception: " + msg
	case *runtime.EventConsoleAPICalled:
		if e.Type != runtime.APITypeError {
			return
		}
		var parts []string
		for _, arg := range e.Args {
			if arg.Value != nil {
				parts = append(parts, string(arg.Value))
			} else if arg.Description != "" {
				parts = append(parts, arg.Description)
			}
		}
		msg = strings.Join(parts, " ")
		if msg == "" || strings.Contains(msg, "favicon") {
			return
		}
		msg = "console.error: " + msg
	default:
		return
	}

	p.mu.Lock()
	p.jsErrors = append(p.jsErrors, msg)
	p.mu.Unlock()
}

// JSErrors returns the errors recorded so far.
func (p *Page) JSErrors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.jsErrors...)
}

// Open navigates to path. Pages are streamed, so the load event fires only
// once the content after the loading shell has arrived.
func (p *Page) Open(path string) error {
	return chromedp.Run(p.ctx,
		chromedp.Navigate(p.baseURL+path),
		chromedp.WaitReady("main.page", chromedp.ByQuery),
		chromedp.Sleep(p.settings.Settle()),
	)
}

// Click follows the link under selector and waits for the next page.
func (p *Page) Click(selector string) error {
	return chromedp.Run(p.ctx,
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.WaitReady("main.page", chromedp.ByQuery),
		chromedp.Sleep(p.settings.Settle()),
	)
}

// URL returns the current location.
func (p *Page) URL() (string, error) {
	var loc string
	err := chromedp.Run(p.ctx, chromedp.Location(&loc))
	return loc, err
}

// Texts returns the trimmed text of every match, in document order.
func (p *Page) Texts(selector string) ([]string, error) {
	var texts []string
	err := p.eval(fmt.Sprintf(
		`Array.from(document.querySelectorAll('%s')).map(el => el.textContent.trim())`,
		escJS(selector)), &texts)
	return texts, err
}

func (p *Page) Count(selector string) (int, error) {
	var n int
	err := p.eval(fmt.Sprintf(`document.querySelectorAll('%s').length`, escJS(selector)), &n)
	return n, err
}

// Displayed reports whether selector matches an element that is not
// display:none. A missing element is not displayed.
func (p *Page) Displayed(selector string) (bool, error) {
	var shown bool
	err := p.eval(fmt.Sprintf(`(() => {
		const el = document.querySelector('%s');
		return !!el && getComputedStyle(el).display !== 'none';
	})()`, escJS(selector)), &shown)
	return shown, err
}

// InvestorNames returns the name column of the investors table.
func (p *Page) InvestorNames() ([]string, error) {
	return p.Texts("tr.investor-row td.name")
}

// Cards returns the asset class cards of the investor page.
func (p *Page) Cards() ([]Card, error) {
	var cards []Card
	err := p.eval(`Array.from(document.querySelectorAll('.asset-class-card')).map(el => ({
		assetClass: el.querySelector('.asset-class').textContent.trim(),
		amount: el.querySelector('.amount').textContent.trim(),
		selected: el.classList.contains('selected'),
	}))`, &cards)
	return cards, err
}

// Screenshot saves a full page PNG under the run's <kind> artifact dir.
func (p *Page) Screenshot(kind, name string) error {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.settings.ArtifactDir(kind), name), buf, 0o644)
}

func (p *Page) eval(js string, out interface{}) error {
	return chromedp.Run(p.ctx, chromedp.Evaluate(js, out))
}

func escJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
