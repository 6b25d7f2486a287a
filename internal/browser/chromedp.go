// Package browser renders pages. The chromedp implementation drives
// headless Chrome; Static does a plain fetch for environments without
// a browser. Parsing never happens here.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// Config controls the headless browser.
type Config struct {
	MaxParallel       int
	UserAgent         string
	NavigationTimeout time.Duration

	// DomainQPS throttles page opens per registered domain; zero
	// disables throttling.
	DomainQPS float64
}

// Chrome implements extractor.Browser with chromedp.
type Chrome struct {
	cfg         Config
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewChrome creates a headless browser backed by chromedp.
func NewChrome(cfg Config) (*Chrome, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 45 * time.Second
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Chrome{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		limiters:    make(map[string]*rate.Limiter),
	}, nil
}

// Close cancels the allocator context.
func (c *Chrome) Close() {
	c.allocCancel()
}

// Open navigates to the URL and returns a live session. The caller
// owns the session and must Close it.
func (c *Chrome) Open(ctx context.Context, pageURL string) (extractor.Session, error) {
	if err := c.waitDomain(ctx, pageURL); err != nil {
		return nil, err
	}
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}

	taskCtx, taskCancel := chromedp.NewContext(c.allocator)
	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, c.cfg.NavigationTimeout)

	cleanup := func() {
		timeoutCancel()
		taskCancel()
		c.release()
	}

	var finalURL string
	actions := []chromedp.Action{
		c.networkSetupAction(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.Location(&finalURL),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		cleanup()
		return nil, fmt.Errorf("open %s: %w", pageURL, err)
	}
	if finalURL == "" {
		finalURL = pageURL
	}

	return &chromeSession{ctx: taskCtx, cleanup: cleanup, finalURL: finalURL}, nil
}

func (c *Chrome) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if c.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(c.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

func (c *Chrome) waitDomain(ctx context.Context, pageURL string) error {
	if c.cfg.DomainQPS <= 0 {
		return nil
	}
	lim := c.domainLimiter(pageURL)
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("domain rate wait: %w", err)
	}
	return nil
}

// domainOf buckets URLs by bare hostname so www and apex share one
// limiter. Unparseable URLs share the empty bucket.
func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return extractor.StripWWW(u.Hostname())
}

func (c *Chrome) domainLimiter(pageURL string) *rate.Limiter {
	domain := domainOf(pageURL)
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[domain]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(c.cfg.DomainQPS), 1)
		c.limiters[domain] = lim
	}
	return lim
}

func (c *Chrome) acquire(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	select {
	case c.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser slot wait canceled: %w", ctx.Err())
	}
}

func (c *Chrome) release() {
	if c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}

type chromeSession struct {
	ctx      context.Context
	cleanup  func()
	finalURL string
	closed   bool
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read dom: %w", err)
	}
	return html, nil
}

// expandNavScript clicks the first visible hamburger/menu control so
// links hidden behind it land in the DOM. Best effort with nothing to
// lose: a failed click reports false.
const expandNavScript = `(() => {
  const selectors = [
    'header button[aria-label*="menu" i]',
    'header [role="button"][aria-label*="menu" i]',
    'button[aria-label*="open menu" i]',
    'button[aria-label*="menu" i]',
    '[role="button"][aria-label*="menu" i]',
    'button[aria-expanded="false"]',
  ];
  const visible = (el) => {
    const r = el.getBoundingClientRect();
    return r.width > 0 && r.height > 0;
  };
  for (const sel of selectors) {
    const els = Array.from(document.querySelectorAll(sel)).slice(0, 5);
    for (const el of els) {
      if (!visible(el)) continue;
      el.click();
      return true;
    }
  }
  for (const btn of Array.from(document.querySelectorAll('button')).slice(0, 200)) {
    const label = (btn.innerText || '').trim().toLowerCase();
    if ((label === 'menu' || label === 'navigation' || label === 'more') && visible(btn)) {
      btn.click();
      return true;
    }
  }
  return false;
})()`

func (s *chromeSession) ExpandNavigation(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var clicked bool
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(expandNavScript, &clicked),
	)
	if err != nil {
		return false, fmt.Errorf("expand navigation: %w", err)
	}
	if clicked {
		// Give the menu animation time to attach its links.
		_ = chromedp.Run(s.ctx, chromedp.Sleep(600*time.Millisecond))
	}
	return clicked, nil
}

func (s *chromeSession) FinalURL() string { return s.finalURL }

func (s *chromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cleanup()
	return nil
}
