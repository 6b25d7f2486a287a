package extract

import (
	"strings"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// DedupePeople drops nameless entries and exact duplicates, keyed on
// lowercase name|title|email.
func DedupePeople(people []extractor.Person) []extractor.Person {
	seen := make(map[string]struct{}, len(people))
	out := make([]extractor.Person, 0, len(people))
	for _, p := range people {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		p.Name = name
		p.Title = strings.TrimSpace(p.Title)
		p.Email = NormalizeEmail(p.Email)

		key := p.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// MergePeople combines results from several strategies. Entries
// sharing a name and title collapse into one person: empty fields fill
// from later entries and sources join comma-separated, so a card hit
// and a JSON-LD hit for the same person yield one record. Order
// follows first appearance.
func MergePeople(groups ...[]extractor.Person) []extractor.Person {
	merged := make(map[string]int)
	var out []extractor.Person

	for _, group := range groups {
		for _, p := range DedupePeople(group) {
			key := strings.ToLower(p.Name) + "|" + strings.ToLower(p.Title)
			idx, ok := merged[key]
			if !ok {
				merged[key] = len(out)
				out = append(out, p)
				continue
			}
			existing := &out[idx]
			if existing.Email == "" {
				existing.Email = p.Email
			}
			if existing.ProfileURL == "" {
				existing.ProfileURL = p.ProfileURL
			}
			if existing.LinkedinURL == "" {
				existing.LinkedinURL = p.LinkedinURL
			}
			if existing.TwitterURL == "" {
				existing.TwitterURL = p.TwitterURL
			}
			if existing.GithubURL == "" {
				existing.GithubURL = p.GithubURL
			}
			if existing.BlueskyURL == "" {
				existing.BlueskyURL = p.BlueskyURL
			}
			if p.Source != "" && !containsSource(existing.Source, p.Source) {
				if existing.Source == "" {
					existing.Source = p.Source
				} else {
					existing.Source += "," + p.Source
				}
			}
		}
	}
	return out
}

func containsSource(sources, source string) bool {
	for _, s := range strings.Split(sources, ",") {
		if s == source {
			return true
		}
	}
	return false
}
