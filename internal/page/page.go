// Package page turns rendered HTML into the views the extraction
// heuristics consume: visible text with line structure, anchors
// resolved against the page URL, JSON-LD blocks and mailto links. All
// parsing lives here so every heuristic stays a pure function over a
// snapshot.
package page

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// Snapshot is one parsed page.
type Snapshot struct {
	doc  *goquery.Document
	base *url.URL
	raw  string
}

// Parse builds a Snapshot from rendered markup. baseURL anchors
// relative hrefs; an unparseable baseURL still yields a snapshot with
// unresolved anchors.
func Parse(rawHTML, baseURL string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		base = nil
	}
	return &Snapshot{doc: doc, base: base, raw: rawHTML}, nil
}

// Raw returns the original markup.
func (s *Snapshot) Raw() string { return s.raw }

// Doc exposes the underlying document for selector-based heuristics.
func (s *Snapshot) Doc() *goquery.Document { return s.doc }

// BaseURL returns the resolved page URL, or "" when unknown.
func (s *Snapshot) BaseURL() string {
	if s.base == nil {
		return ""
	}
	return s.base.String()
}

// Resolve makes href absolute against the page URL.
func (s *Snapshot) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if s.base == nil {
		if ref.Host == "" {
			return "", false
		}
		return ref.String(), true
	}
	return s.base.ResolveReference(ref).String(), true
}

// Anchors returns every href-carrying link with its collapsed text.
// Hrefs stay as written; ranking resolves them itself.
func (s *Snapshot) Anchors() []extractor.Anchor {
	var out []extractor.Anchor
	s.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		parts := []string{collapseSpace(sel.Text())}
		for _, attr := range []string{"aria-label", "title"} {
			if v, ok := sel.Attr(attr); ok {
				if v = collapseSpace(v); v != "" {
					parts = append(parts, v)
				}
			}
		}
		out = append(out, extractor.Anchor{
			Href: href,
			Text: strings.TrimSpace(strings.Join(parts, " ")),
		})
	})
	return out
}

// MailtoHrefs returns the raw href values of mailto links.
func (s *Snapshot) MailtoHrefs() []string {
	var out []string
	s.doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			out = append(out, href)
		}
	})
	return out
}

// JSONLD returns the text of every application/ld+json script block.
func (s *Snapshot) JSONLD() []string {
	var out []string
	s.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		if txt := strings.TrimSpace(sel.Text()); txt != "" {
			out = append(out, txt)
		}
	})
	return out
}

// VisibleText renders the page's human-visible text, one line per
// block-level element, scripts and styles excluded.
func (s *Snapshot) VisibleText() string {
	var b strings.Builder
	for _, n := range s.doc.Selection.Nodes {
		writeVisibleText(&b, n)
	}
	return collapseLines(b.String())
}

// VisibleLines splits VisibleText into trimmed non-empty lines.
func (s *Snapshot) VisibleLines() []string {
	var out []string
	for _, line := range strings.Split(s.VisibleText(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// TextOf renders the visible text of a single selection, block
// elements separated by newlines. Heuristics that work card-by-card
// use this instead of goquery's Text, which drops line structure.
func TextOf(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeVisibleText(&b, n)
	}
	return collapseLines(b.String())
}

// LinesOf returns TextOf split into trimmed non-empty lines.
func LinesOf(sel *goquery.Selection) []string {
	var out []string
	for _, line := range strings.Split(TextOf(sel), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"svg":      {},
	"head":     {},
	"iframe":   {},
}

var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {},
	"div": {}, "dl": {}, "dt": {}, "dd": {}, "fieldset": {},
	"figure": {}, "figcaption": {}, "footer": {}, "form": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hr": {}, "li": {}, "main": {}, "nav": {},
	"ol": {}, "p": {}, "pre": {}, "section": {}, "table": {},
	"tr": {}, "ul": {},
}

func writeVisibleText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if txt := collapseSpace(n.Data); txt != "" {
			b.WriteString(txt)
			b.WriteByte(' ')
		}
		return
	case html.ElementNode:
		if _, skip := skippedElements[n.Data]; skip {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
		_, block := blockElements[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeVisibleText(b, c)
		}
		if block {
			b.WriteByte('\n')
		}
		return
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeVisibleText(b, c)
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	lastBlank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !lastBlank {
				out = append(out, "")
			}
			lastBlank = true
			continue
		}
		out = append(out, line)
		lastBlank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
