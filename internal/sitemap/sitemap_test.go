package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	docs  map[string][]byte
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, maxBytes int) ([]byte, error) {
	f.calls = append(f.calls, url)
	body, ok := f.docs[url]
	if !ok {
		return nil, errors.New("not found")
	}
	if len(body) > maxBytes {
		body = body[:maxBytes]
	}
	return body, nil
}

func gz(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDiscoverFromRobotsDirective(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt": []byte("User-agent: *\nDisallow:\nSitemap: https://example.com/map.xml\n"),
		"https://example.com/map.xml": []byte(`<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/team</loc></url>
  <url><loc>https://example.com/pricing</loc></url>
  <url><loc>https://other.com/leadership</loc></url>
</urlset>`),
	}}

	m := NewMiner(f, 2, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/team", got[0].URL)
	assert.Equal(t, "sitemap", got[0].Text)
}

func TestDiscoverFallsBackToConventionalPath(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/sitemap.xml": []byte(`<urlset><url><loc>https://example.com/our-people</loc></url></urlset>`),
	}}

	m := NewMiner(f, 2, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/our-people", got[0].URL)
}

func TestDiscoverExpandsIndexOneLevel(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt": []byte("Sitemap: https://example.com/index.xml\n"),
		"https://example.com/index.xml": []byte(`<sitemapindex>
  <sitemap><loc>https://example.com/pages.xml</loc></sitemap>
</sitemapindex>`),
		"https://example.com/pages.xml": []byte(`<urlset><url><loc>https://example.com/leadership</loc></url></urlset>`),
	}}

	m := NewMiner(f, 3, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/leadership", got[0].URL)
}

func TestDiscoverHonorsFetchBudget(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt": []byte("Sitemap: https://example.com/a.xml\nSitemap: https://example.com/b.xml\nSitemap: https://example.com/c.xml\n"),
		"https://example.com/a.xml":      []byte(`<urlset><url><loc>https://example.com/team</loc></url></urlset>`),
		"https://example.com/b.xml":      []byte(`<urlset><url><loc>https://example.com/people</loc></url></urlset>`),
		"https://example.com/c.xml":      []byte(`<urlset><url><loc>https://example.com/staff</loc></url></urlset>`),
	}}

	m := NewMiner(f, 2, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	// robots.txt itself does not count against the budget.
	require.Len(t, got, 2)
}

func TestDiscoverSkipsMediaSitemaps(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt": []byte("Sitemap: https://example.com/image.xml\nSitemap: https://example.com/pages.xml\n"),
		"https://example.com/pages.xml":  []byte(`<urlset><url><loc>https://example.com/team</loc></url></urlset>`),
	}}

	m := NewMiner(f, 1, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/team", got[0].URL)
	assert.NotContains(t, f.calls, "https://example.com/image.xml")
}

func TestDiscoverGzippedSitemap(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt":     []byte("Sitemap: https://example.com/sitemap.xml.gz\n"),
		"https://example.com/sitemap.xml.gz": gz(t, `<urlset><url><loc>https://example.com/leadership</loc></url></urlset>`),
	}}

	m := NewMiner(f, 2, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/leadership", got[0].URL)
}

func TestDiscoverSwallowsBrokenDocuments(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt": []byte("Sitemap: https://example.com/broken.xml\nSitemap: https://example.com/pages.xml\n"),
		"https://example.com/pages.xml":  []byte(`<urlset><url><loc>https://example.com/team</loc></url></urlset>`),
	}}

	m := NewMiner(f, 3, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
}

func TestDiscoverResolvesRelativeDirectives(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt":        []byte("User-agent: *\nSitemap: /sitemap-pages.xml\n"),
		"https://example.com/sitemap-pages.xml": []byte(`<urlset><url><loc>https://example.com/team</loc></url></urlset>`),
	}}

	m := NewMiner(f, 2, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/team", got[0].URL)
}

func TestDiscoverFallbackTriesSitemapIndex(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/sitemap_index.xml": []byte(`<sitemapindex>
  <sitemap><loc>https://example.com/pages.xml</loc></sitemap>
</sitemapindex>`),
		"https://example.com/pages.xml": []byte(`<urlset><url><loc>https://example.com/leadership</loc></url></urlset>`),
	}}

	m := NewMiner(f, 3, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/leadership", got[0].URL)
	assert.Contains(t, f.calls, "https://example.com/sitemap.xml")
}

func TestDiscoverKeepsAboutAndCompanyPaths(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{docs: map[string][]byte{
		"https://example.com/robots.txt": []byte("Sitemap: https://example.com/map.xml\n"),
		"https://example.com/map.xml": []byte(`<urlset>
  <url><loc>https://example.com/about-us/</loc></url>
  <url><loc>https://example.com/who-we-are</loc></url>
  <url><loc>https://example.com/company/history</loc></url>
  <url><loc>https://example.com/board-of-directors</loc></url>
  <url><loc>https://example.com/founders</loc></url>
  <url><loc>https://example.com/blog/post-1</loc></url>
</urlset>`),
	}}

	m := NewMiner(f, 2, zap.NewNop())
	got := m.Discover(context.Background(), "https://example.com/")

	urls := make([]string, 0, len(got))
	for _, c := range got {
		urls = append(urls, c.URL)
	}
	assert.Contains(t, urls, "https://example.com/about-us/")
	assert.Contains(t, urls, "https://example.com/who-we-are")
	assert.Contains(t, urls, "https://example.com/company/history")
	assert.NotContains(t, urls, "https://example.com/board-of-directors")
	assert.NotContains(t, urls, "https://example.com/founders")
	assert.NotContains(t, urls, "https://example.com/blog/post-1")
}

func TestExtractLocsCDATAAndEntities(t *testing.T) {
	t.Parallel()

	body := []byte(`<urlset>
  <url><loc><![CDATA[https://example.com/team]]></loc></url>
  <url><loc>https://example.com/people?a=1&amp;b=2</loc></url>
  <url><loc>not a url</loc></url>
</urlset>`)

	got := extractLocs(body)
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/team", got[0])
	assert.Equal(t, "https://example.com/people?a=1&b=2", got[1])
}
