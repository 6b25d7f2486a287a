package browser

import (
	"context"
	"fmt"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

const maxStaticPageBytes = 4 * 1024 * 1024

// Static implements extractor.Browser with a raw fetch. JavaScript
// never runs, so sites that render client-side come back thin; it
// exists for tests and Chrome-less deployments.
type Static struct {
	fetcher extractor.Fetcher
}

// NewStatic builds a Static browser on top of a raw fetcher.
func NewStatic(fetcher extractor.Fetcher) *Static {
	return &Static{fetcher: fetcher}
}

// Open fetches the URL once and wraps the body in a session.
func (s *Static) Open(ctx context.Context, pageURL string) (extractor.Session, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL, maxStaticPageBytes)
	if err != nil {
		return nil, fmt.Errorf("static open %s: %w", pageURL, err)
	}
	return &staticSession{html: string(body), finalURL: pageURL}, nil
}

type staticSession struct {
	html     string
	finalURL string
}

func (s *staticSession) HTML(context.Context) (string, error) { return s.html, nil }

// ExpandNavigation is a no-op without a script engine.
func (s *staticSession) ExpandNavigation(context.Context) (bool, error) { return false, nil }

func (s *staticSession) FinalURL() string { return s.finalURL }

func (s *staticSession) Close() error { return nil }
