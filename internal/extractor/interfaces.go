package extractor

import (
	"context"
	"time"
)

// Anchor is one link collected from a rendered page.
type Anchor struct {
	Href string
	Text string
}

// Browser opens rendered pages. Implementations run headless Chrome or
// a plain HTTP fetch; all heuristic logic stays outside the browser.
type Browser interface {
	Open(ctx context.Context, url string) (Session, error)
}

// Session is one open page. HTML returns the current rendered markup,
// so a snapshot taken after ExpandNavigation reflects the opened menu.
type Session interface {
	HTML(ctx context.Context) (string, error)
	ExpandNavigation(ctx context.Context) (bool, error)
	FinalURL() string
	Close() error
}

// Fetcher performs bounded raw fetches for robots.txt and sitemaps.
type Fetcher interface {
	Fetch(ctx context.Context, url string, maxBytes int) ([]byte, error)
}

// Frontier admits visits, deduplicating by Visit.UniqueKey.
type Frontier interface {
	Enqueue(ctx context.Context, v Visit) error
}

// Sink receives output records.
type Sink interface {
	Emit(ctx context.Context, rec OutputRecord) error
}

// BlobStore archives raw page snapshots and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces record IDs.
type IDGenerator interface {
	NewID() string
}
