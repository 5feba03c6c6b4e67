// Package render loads a URL into an isolated, script-disabled rendering
// context and runs the extractor cascade against the settled DOM. It is the
// preferred strategy because it tolerates client-rendered pages and observes
// in-page redirects, at the cost of needing a headless browser.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/clipread/clipread/internal/article"
	"github.com/clipread/clipread/internal/extract"
)

// Timeout bounds one render attempt. Fixed by contract, not configurable.
const Timeout = 10 * time.Second

var (
	// ErrTimeout reports that the page never finished loading within Timeout.
	ErrTimeout = errors.New("render timed out")
	// ErrNoContent reports that the page loaded but neither extractor
	// produced non-empty text.
	ErrNoContent = errors.New("no content extracted")
)

// Capturer loads a URL in an isolated rendering context and returns the
// serialized document along with the context's actual location. The returned
// HTML is a detached snapshot; extractors never touch the live tree.
type Capturer interface {
	Capture(ctx context.Context, pageURL string) (html string, finalURL string, err error)
}

// ChromeCapturer drives a headless Chrome tab. Script execution is disabled
// at the Blink level, so untrusted page script never runs.
type ChromeCapturer struct {
	UserAgent string
	// ExecPath overrides the browser binary location when set.
	ExecPath string
}

func (c *ChromeCapturer) Capture(ctx context.Context, pageURL string) (string, string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("blink-settings", "scriptEnabled=false"),
	)
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	// The tab is owned by this one attempt; the deferred cancel tears it
	// down on every exit path exactly once.
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html, loc string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&loc),
	)
	if err != nil {
		return "", "", err
	}
	return html, loc, nil
}

// Strategy renders a page and runs the extractor cascade over the snapshot.
type Strategy struct {
	Capturer Capturer
	Engine   extract.Engine
}

func (s *Strategy) Name() string { return "render" }

// Extract renders pageURL under the fixed deadline, then attempts
// readability and, on a nil result, the selector fallback. FinalURL comes
// from the tab's actual location, which may differ from pageURL when the
// page performed an in-page redirect.
func (s *Strategy) Extract(ctx context.Context, pageURL string) (*article.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	html, finalURL, err := s.Capturer.Capture(ctx, pageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, Timeout, pageURL)
		}
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}
	if finalURL == "" {
		finalURL = pageURL
	}

	if rec := extract.Readability(s.Engine, html, finalURL); rec != nil {
		rec.Stamp(finalURL, article.MethodReadability)
		return rec, nil
	}

	doc, err := extract.ParseDocument([]byte(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered document: %w", err)
	}
	rec := extract.Fallback(doc, finalURL)
	if rec.TextContent == "" {
		return nil, ErrNoContent
	}
	rec.Stamp(finalURL, article.MethodFallback)
	return rec, nil
}
