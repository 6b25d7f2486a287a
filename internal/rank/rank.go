// Package rank scores homepage anchors to find likely team/about pages.
package rank

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// DefaultMaxCandidates is used when the caller passes a non-positive
// limit. Limits are always clamped to [1, 10].
const DefaultMaxCandidates = 3

var whitespaceRe = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

func clampLimit(n int) int {
	if n <= 0 {
		n = DefaultMaxCandidates
	}
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}

func skippableHref(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	switch {
	case h == "":
		return true
	case strings.HasPrefix(h, "mailto:"):
		return true
	case strings.HasPrefix(h, "tel:"):
		return true
	case strings.HasPrefix(h, "javascript:"):
		return true
	}
	return false
}

func scorePhrases(s string) int {
	score := 0
	for _, pw := range positivePhrases {
		if strings.Contains(s, pw.Phrase) {
			score += pw.Weight
		}
	}
	for _, pw := range negativePhrases {
		if strings.Contains(s, pw.Phrase) {
			score += pw.Weight
		}
	}
	return score
}

// TeamCandidates resolves, scores and ranks anchors against the base
// URL, returning at most limit candidates with positive scores.
func TeamCandidates(anchors []extractor.Anchor, baseURL string, limit int) []extractor.Candidate {
	return rankCandidates(anchors, baseURL, limit, nil)
}

// AboutCandidates ranks like TeamCandidates but keeps only candidates
// carrying an about-page signal; used for depth-2 discovery.
func AboutCandidates(anchors []extractor.Anchor, baseURL string, limit int) []extractor.Candidate {
	return rankCandidates(anchors, baseURL, limit, func(c extractor.Candidate) bool {
		return HasAboutSignal(c.Text, c.URL)
	})
}

func rankCandidates(anchors []extractor.Anchor, baseURL string, limit int, keep func(extractor.Candidate) bool) []extractor.Candidate {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}
	rootDomain := extractor.StripWWW(base.Hostname())

	var candidates []extractor.Candidate
	for _, a := range anchors {
		if skippableHref(a.Href) {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(a.Href))
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		if resolved.Host == "" {
			continue
		}
		abs := resolved.String()
		if abs == baseURL && a.Href != "" && strings.HasPrefix(strings.TrimSpace(a.Href), "#") {
			continue
		}

		text := normalize(a.Text)
		score := scorePhrases(text) + scorePhrases(normalize(abs))

		if extractor.SameSite(abs, rootDomain) {
			score += 5
		} else {
			score -= 20
		}
		if resolved.RawQuery == "" {
			score += 2
		}
		if pathSegments(resolved.Path) <= 2 {
			score++
		}

		if score <= 0 {
			continue
		}
		c := extractor.Candidate{URL: abs, Score: score, Text: text}
		if keep != nil && !keep(c) {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return len(candidates[i].URL) < len(candidates[j].URL)
	})

	max := clampLimit(limit)
	seen := make(map[string]struct{}, len(candidates))
	out := make([]extractor.Candidate, 0, max)
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
		if len(out) >= max {
			break
		}
	}
	return out
}

func pathSegments(p string) int {
	n := 0
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}

// FallbackCandidates synthesizes conventional team-page path guesses
// against the site origin, each with a token score of 1.
func FallbackCandidates(baseURL string, limit int) []extractor.Candidate {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}
	origin := base.Scheme + "://" + base.Host

	max := clampLimit(limit)
	out := make([]extractor.Candidate, 0, max)
	for _, p := range fallbackTeamPaths {
		if len(out) >= max {
			break
		}
		out = append(out, extractor.Candidate{
			URL:   origin + p,
			Score: 1,
			Text:  "fallback:" + p,
		})
	}
	return out
}

// MergeAnchors unions two anchor slices, deduplicating by href and
// keeping first-seen text.
func MergeAnchors(a, b []extractor.Anchor) []extractor.Anchor {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]extractor.Anchor, 0, len(a)+len(b))
	for _, anchor := range append(append([]extractor.Anchor{}, a...), b...) {
		href := strings.TrimSpace(anchor.Href)
		if href == "" {
			continue
		}
		if _, ok := seen[href]; ok {
			continue
		}
		seen[href] = struct{}{}
		out = append(out, extractor.Anchor{Href: href, Text: normalizeKeepCase(anchor.Text)})
	}
	return out
}

func normalizeKeepCase(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
