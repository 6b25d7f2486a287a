package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
)

// cardSelectors walk from the most team-specific markup outward.
// Order matters: an element matched early is never re-read by a later,
// looser selector.
var cardSelectors = []string{
	`[class*="team"] [class*="member"]`,
	`[class*="team"] [class*="person"]`,
	`[class*="team"] [class*="profile"]`,
	`[class*="team"] [class*="card"]`,
	`[class*="leadership"] [class*="member"]`,
	`[class*="leadership"] [class*="person"]`,
	`[class*="member"]`,
	`[class*="person"]`,
	`[class*="profile"]`,
	`[class*="bio"]`,
}

const (
	maxCardsPerPage = 200
	maxCardBioChars = 800
	maxCardLines    = 12
)

// PeopleFromCards reads team-card markup: a container whose class
// hints at a person, holding a name heading and a role line.
func PeopleFromCards(snap *page.Snapshot) []extractor.Person {
	seen := make(map[*html.Node]struct{})
	var out []extractor.Person

	for _, selector := range cardSelectors {
		snap.Doc().Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(out) >= maxCardsPerPage {
				return false
			}
			node := sel.Get(0)
			if _, ok := seen[node]; ok {
				return true
			}
			seen[node] = struct{}{}

			if p, ok := personFromCard(snap, sel); ok {
				out = append(out, p)
			}
			return true
		})
		if len(out) >= maxCardsPerPage {
			break
		}
	}
	return DedupePeople(out)
}

func personFromCard(snap *page.Snapshot, sel *goquery.Selection) (extractor.Person, bool) {
	text := page.TextOf(sel)
	if text == "" || len(text) > maxCardBioChars {
		return extractor.Person{}, false
	}
	lines := page.LinesOf(sel)
	if len(lines) > maxCardLines {
		lines = lines[:maxCardLines]
	}
	if len(lines) < 2 {
		return extractor.Person{}, false
	}

	var name string
	if heading := sel.Find("h1,h2,h3,h4,h5,strong,b").First(); heading.Length() > 0 {
		if t := clean(heading.Text()); looksLikeCardName(t) {
			name = t
		}
	}
	if name == "" {
		for _, line := range lines {
			if looksLikeCardName(line) {
				name = line
				break
			}
		}
	}
	if name == "" {
		return extractor.Person{}, false
	}

	var title string
	if roleEl := sel.Find(`[class*="title"],[class*="role"],[class*="position"],[class*="job"]`).First(); roleEl.Length() > 0 {
		if t := clean(roleEl.Text()); looksLikeCardTitle(t) {
			title = t
		}
	}
	if title == "" {
		start := 0
		for i, line := range lines {
			if line == name {
				start = i
				break
			}
		}
		for _, line := range lines[start+1:] {
			if looksLikeCardTitle(line) {
				title = line
				break
			}
		}
	}

	var hrefs []string
	var email string
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		hrefs = append(hrefs, href)
		if email == "" {
			if e := parseMailto(href); e != "" {
				email = e
			}
		}
	})
	socials := FindSocials(hrefs)

	return extractor.Person{
		Name:        name,
		Title:       title,
		Email:       email,
		ProfileURL:  profileLink(snap, hrefs),
		LinkedinURL: socials.LinkedIn,
		TwitterURL:  socials.Twitter,
		GithubURL:   socials.GitHub,
		BlueskyURL:  socials.Bluesky,
		Source:      "cards",
	}, true
}

// profileLink picks the first same-origin link that is neither the
// site root nor the page itself. Cards usually link the member photo
// or name to a bio page on the same site.
func profileLink(snap *page.Snapshot, hrefs []string) string {
	base, err := url.Parse(snap.BaseURL())
	if err != nil || base.Host == "" {
		return ""
	}
	for _, href := range hrefs {
		h := strings.ToLower(strings.TrimSpace(href))
		if h == "" || strings.HasPrefix(h, "#") ||
			strings.HasPrefix(h, "mailto:") || strings.HasPrefix(h, "tel:") ||
			strings.HasPrefix(h, "javascript:") {
			continue
		}
		abs, ok := snap.Resolve(href)
		if !ok {
			continue
		}
		u, err := url.Parse(abs)
		if err != nil || !strings.EqualFold(u.Host, base.Host) {
			continue
		}
		if u.Path == "" || u.Path == "/" {
			continue
		}
		if u.Path == base.Path && u.RawQuery == base.RawQuery {
			continue
		}
		return abs
	}
	return ""
}

func parseMailto(href string) string {
	h := strings.TrimSpace(href)
	if !strings.HasPrefix(strings.ToLower(h), "mailto:") {
		return ""
	}
	part := strings.SplitN(h[len("mailto:"):], "?", 2)[0]
	if decoded, err := url.QueryUnescape(part); err == nil {
		part = decoded
	}
	return NormalizeEmail(part)
}
