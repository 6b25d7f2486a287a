package extract

import (
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
)

// MaxEmailsPerPage caps the on-page email set so link farms cannot
// inflate a record.
const MaxEmailsPerPage = 50

var (
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	strictEmailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	cfemailRe     = regexp.MustCompile(`data-cfemail="([0-9a-fA-F]+)"`)
	cfHrefRe      = regexp.MustCompile(`/cdn-cgi/l/email-protection#([0-9a-fA-F]+)`)
	trailingRe    = regexp.MustCompile(`[),.;:]+$`)

	// Obfuscation like "jane (at) example (dot) com" or
	// "bob[at]example[dot]co[dot]uk" or "sam {at} example {dot} io".
	obfuscatedRe = regexp.MustCompile(`(?i)([a-z0-9._%+-]+)\s*[\[({]\s*at\s*[\])}]\s*([a-z0-9-]+(?:\s*[\[({]\s*dot\s*[\])}]\s*[a-z0-9-]+)+)`)
	dotTokenRe   = regexp.MustCompile(`(?i)\s*[\[({]\s*dot\s*[\])}]\s*`)
)

// NormalizeEmail trims, strips a mailto: prefix and trailing
// punctuation, and lowercases.
func NormalizeEmail(email string) string {
	e := strings.TrimSpace(email)
	if strings.HasPrefix(strings.ToLower(e), "mailto:") {
		e = e[len("mailto:"):]
	}
	e = trailingRe.ReplaceAllString(e, "")
	return strings.ToLower(e)
}

// EmailsFromStrings scans free text or markup for plain addresses.
func EmailsFromStrings(values []string) []string {
	set := make(map[string]struct{})
	for _, s := range values {
		for _, m := range emailRe.FindAllString(s, -1) {
			if e := NormalizeEmail(m); e != "" {
				set[e] = struct{}{}
			}
		}
	}
	return sortedSet(set)
}

// EmailsFromMailtoHrefs decodes mailto link targets, dropping query
// parts like subject lines.
func EmailsFromMailtoHrefs(hrefs []string) []string {
	set := make(map[string]struct{})
	for _, href := range hrefs {
		h := strings.TrimSpace(href)
		if !strings.HasPrefix(strings.ToLower(h), "mailto:") {
			continue
		}
		part := strings.SplitN(h[len("mailto:"):], "?", 2)[0]
		if decoded, err := url.QueryUnescape(part); err == nil {
			part = decoded
		}
		if e := NormalizeEmail(part); e != "" && strictEmailRe.MatchString(e) {
			set[e] = struct{}{}
		}
	}
	return sortedSet(set)
}

// CloudflareEmails decodes email-protection payloads, both the
// data-cfemail attribute and /cdn-cgi/l/email-protection#<hex> link
// targets. The first hex byte is the XOR key for the rest.
func CloudflareEmails(rawHTML string) []string {
	set := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{cfemailRe, cfHrefRe} {
		for _, m := range re.FindAllStringSubmatch(rawHTML, -1) {
			if e, ok := decodeCfemail(m[1]); ok {
				set[e] = struct{}{}
			}
		}
	}
	return sortedSet(set)
}

func decodeCfemail(payload string) (string, bool) {
	raw, err := hex.DecodeString(payload)
	if err != nil || len(raw) < 2 {
		return "", false
	}
	key := raw[0]
	decoded := make([]byte, len(raw)-1)
	for i, b := range raw[1:] {
		decoded[i] = b ^ key
	}
	e := NormalizeEmail(string(decoded))
	if !strictEmailRe.MatchString(e) {
		return "", false
	}
	return e, true
}

// ObfuscatedEmails reconstructs "(at)"/"[dot]" style addresses from
// visible text.
func ObfuscatedEmails(text string) []string {
	set := make(map[string]struct{})
	for _, m := range obfuscatedRe.FindAllStringSubmatch(text, -1) {
		local := m[1]
		domain := dotTokenRe.ReplaceAllString(m[2], ".")
		domain = strings.ReplaceAll(domain, " ", "")
		e := NormalizeEmail(local + "@" + domain)
		if strictEmailRe.MatchString(e) {
			set[e] = struct{}{}
		}
	}
	return sortedSet(set)
}

// CollectEmails runs all four strategies over a snapshot and returns
// the merged, sorted set capped at MaxEmailsPerPage.
func CollectEmails(snap *page.Snapshot) []string {
	set := make(map[string]struct{})
	text := snap.VisibleText()
	for _, e := range EmailsFromStrings([]string{snap.Raw(), text}) {
		set[e] = struct{}{}
	}
	for _, e := range EmailsFromMailtoHrefs(snap.MailtoHrefs()) {
		set[e] = struct{}{}
	}
	for _, e := range CloudflareEmails(snap.Raw()) {
		set[e] = struct{}{}
	}
	for _, e := range ObfuscatedEmails(text) {
		set[e] = struct{}{}
	}
	out := sortedSet(set)
	if len(out) > MaxEmailsPerPage {
		out = out[:MaxEmailsPerPage]
	}
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
