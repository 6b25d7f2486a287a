// Package extract holds the deterministic people-extraction
// strategies: JSON-LD, team-card markup, generic name/title patterns
// and email harvesting. Every function is pure over a parsed snapshot.
package extract

import (
	"regexp"
	"strings"
)

// cardRoleHints mark a line as a plausible job title inside team-card
// markup.
var cardRoleHints = []string{
	"ceo", "chief", "founder", "co-founder", "cofounder", "cto", "cfo",
	"coo", "vp", "vice president", "director", "head", "manager",
	"partner", "principal", "president", "owner", "lead", "marketing",
	"sales", "engineering", "product", "operations", "finance", "hr",
	"people",
}

// genericRoleHints extend the card list for the generic pattern pass,
// which scans arbitrary markup and can afford a wider net.
var genericRoleHints = append(append([]string{}, cardRoleHints...),
	"advisor", "chairman", "board", "member",
)

// blocklist disqualifies navigation and legal boilerplate from being
// read as names or titles.
var blocklist = []string{"privacy", "terms", "cookie", "legal", "careers", "jobs"}

var (
	digitRe     = regexp.MustCompile(`\d`)
	upperwordRe = regexp.MustCompile(`^[A-Z]`)
)

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func blocked(lower string) bool {
	for _, b := range blocklist {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// looksLikeCardName accepts loose person names: 2 to 5 words, no
// digits or @, at least one capitalized word.
func looksLikeCardName(s string) bool {
	v := clean(s)
	if v == "" || len(v) < 3 || len(v) > 80 {
		return false
	}
	if strings.Contains(v, "@") || digitRe.MatchString(v) {
		return false
	}
	lower := strings.ToLower(v)
	if blocked(lower) || strings.Contains(lower, "team") || strings.Contains(lower, "leadership") {
		return false
	}
	parts := strings.Fields(v)
	if len(parts) < 2 || len(parts) > 5 {
		return false
	}
	for _, p := range parts {
		if upperwordRe.MatchString(p) || p == strings.ToUpper(p) {
			return true
		}
	}
	return false
}

// looksLikeStrictName is the tighter variant used by the generic pass:
// 2 to 4 words, every word capitalized.
func looksLikeStrictName(s string) bool {
	v := clean(s)
	if v == "" || len(v) < 3 || len(v) > 50 {
		return false
	}
	if strings.Contains(v, "@") || digitRe.MatchString(v) {
		return false
	}
	lower := strings.ToLower(v)
	if blocked(lower) || strings.Contains(lower, "team") || strings.Contains(lower, "leadership") {
		return false
	}
	parts := strings.Fields(v)
	if len(parts) < 2 || len(parts) > 4 {
		return false
	}
	for _, p := range parts {
		if !upperwordRe.MatchString(p) {
			return false
		}
	}
	return true
}

func looksLikeTitle(s string, hints []string, maxLen int) bool {
	v := clean(s)
	if v == "" || len(v) < 2 || len(v) > maxLen {
		return false
	}
	if strings.Contains(v, "@") {
		return false
	}
	lower := strings.ToLower(v)
	if blocked(lower) {
		return false
	}
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func looksLikeCardTitle(s string) bool    { return looksLikeTitle(s, cardRoleHints, 120) }
func looksLikeGenericTitle(s string) bool { return looksLikeTitle(s, genericRoleHints, 80) }
