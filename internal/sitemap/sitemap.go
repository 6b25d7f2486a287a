// Package sitemap mines robots.txt and XML sitemaps for likely
// team-page URLs without parsing full sitemap documents.
package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

const (
	maxRobotsBytes       = 200 * 1024
	maxSitemapBytes      = 2 * 1024 * 1024
	maxDecompressedBytes = 8 * 1024 * 1024
	maxLocsPerDocument   = 50000

	// DefaultMaxFetches bounds how many sitemap documents one discovery
	// pass may download, index expansions included.
	DefaultMaxFetches = 2
)

var (
	sitemapDirectiveRe = regexp.MustCompile(`(?im)^\s*sitemap\s*:\s*(\S+)`)
	locRe              = regexp.MustCompile(`(?is)<loc[^>]*>(.*?)</loc>`)
	cdataRe            = regexp.MustCompile(`(?is)^<!\[CDATA\[(.*)\]\]>$`)
	mediaSitemapRe     = regexp.MustCompile(`(?i)(image|video|news)\.xml(\.gz)?$`)
	sitemapIndexRe     = regexp.MustCompile(`(?is)<sitemapindex[\s>]`)

	// teamRelatedRe admits sitemap leaves worth visiting. Broader than
	// the anchor-text vocabulary: sitemap URLs carry no link text, so
	// generic about/company paths stay in.
	teamRelatedRe = regexp.MustCompile(`(?i)(team|leadership|executive|management|people|about|who-we-are|company|partners|staff)`)
)

// Miner discovers team-page candidates through a site's sitemaps.
type Miner struct {
	fetcher    extractor.Fetcher
	maxFetches int
	logger     *zap.Logger
}

// NewMiner builds a Miner; maxFetches below 1 falls back to the
// default budget.
func NewMiner(fetcher extractor.Fetcher, maxFetches int, logger *zap.Logger) *Miner {
	if maxFetches < 1 {
		maxFetches = DefaultMaxFetches
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Miner{fetcher: fetcher, maxFetches: maxFetches, logger: logger}
}

// Discover fetches robots.txt for the site, follows Sitemap directives
// within the fetch budget and returns same-site URLs carrying a team
// keyword. Errors on individual documents are logged and swallowed so
// a broken sitemap never blocks extraction.
func (m *Miner) Discover(ctx context.Context, siteURL string) []extractor.Candidate {
	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return nil
	}
	origin := base.Scheme + "://" + base.Host
	rootDomain := extractor.StripWWW(base.Hostname())

	sitemaps := m.sitemapURLs(ctx, origin)
	if len(sitemaps) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []extractor.Candidate

	// FIFO over sitemap URLs; index documents push their children onto
	// the back of the queue but children never expand again.
	type queued struct {
		url       string
		fromIndex bool
	}
	queue := make([]queued, 0, len(sitemaps))
	for _, s := range sitemaps {
		queue = append(queue, queued{url: s})
	}

	fetches := 0
	for len(queue) > 0 && fetches < m.maxFetches {
		item := queue[0]
		queue = queue[1:]

		if mediaSitemapRe.MatchString(item.url) {
			continue
		}
		fetches++

		body, err := m.fetchSitemap(ctx, item.url)
		if err != nil {
			m.logger.Debug("sitemap fetch failed", zap.String("url", item.url), zap.Error(err))
			continue
		}

		locs := extractLocs(body)
		if sitemapIndexRe.Match(body) {
			if !item.fromIndex {
				for _, loc := range locs {
					queue = append(queue, queued{url: loc, fromIndex: true})
				}
			}
			continue
		}

		for _, loc := range locs {
			if !extractor.SameSite(loc, rootDomain) {
				continue
			}
			if !teamRelatedRe.MatchString(loc) {
				continue
			}
			if _, ok := seen[loc]; ok {
				continue
			}
			seen[loc] = struct{}{}
			out = append(out, extractor.Candidate{URL: loc, Score: 8, Text: "sitemap"})
		}
	}
	return out
}

// sitemapURLs returns Sitemap directives from robots.txt, falling back
// to the conventional /sitemap.xml and /sitemap_index.xml when
// robots.txt yields none. Relative directives resolve against the
// origin, which some robots.txt files emit despite the standard.
func (m *Miner) sitemapURLs(ctx context.Context, origin string) []string {
	fallback := []string{origin + "/sitemap.xml", origin + "/sitemap_index.xml"}

	robots, err := m.fetcher.Fetch(ctx, origin+"/robots.txt", maxRobotsBytes)
	if err != nil {
		m.logger.Debug("robots fetch failed", zap.String("origin", origin), zap.Error(err))
		return fallback
	}

	base, err := url.Parse(origin + "/")
	if err != nil {
		return fallback
	}

	var urls []string
	seen := make(map[string]struct{})
	for _, match := range sitemapDirectiveRe.FindAllSubmatch(robots, -1) {
		raw := strings.TrimSpace(string(match[1]))
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(u)
		if resolved.Host == "" {
			continue
		}
		s := resolved.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		urls = append(urls, s)
	}
	if len(urls) == 0 {
		urls = fallback
	}
	return urls
}

func (m *Miner) fetchSitemap(ctx context.Context, sitemapURL string) ([]byte, error) {
	body, err := m.fetcher.Fetch(ctx, sitemapURL, maxSitemapBytes)
	if err != nil {
		return nil, err
	}
	if isGzip(body) || strings.HasSuffix(strings.ToLower(sitemapURL), ".gz") {
		return gunzip(body)
	}
	return body, nil
}

func isGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxDecompressedBytes))
	if err != nil {
		return nil, fmt.Errorf("decompress sitemap: %w", err)
	}
	return out, nil
}

// extractLocs pulls <loc> values out of sitemap XML by regex,
// unwrapping CDATA and decoding entities. A full XML parse buys
// nothing here and chokes on the malformed feeds sites actually serve.
func extractLocs(body []byte) []string {
	matches := locRe.FindAllSubmatch(body, maxLocsPerDocument)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		loc := strings.TrimSpace(string(match[1]))
		if cm := cdataRe.FindStringSubmatch(loc); cm != nil {
			loc = strings.TrimSpace(cm[1])
		}
		loc = html.UnescapeString(loc)
		if loc == "" {
			continue
		}
		u, err := url.Parse(loc)
		if err != nil || u.Host == "" {
			continue
		}
		out = append(out, loc)
	}
	return out
}
