package extract

import (
	"encoding/json"
	"strings"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// PeopleFromJSONLD walks every JSON-LD block for schema.org Person
// nodes, wherever they nest. Invalid JSON is skipped.
func PeopleFromJSONLD(blocks []string) []extractor.Person {
	var out []extractor.Person
	for _, raw := range blocks {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			continue
		}
		walkJSONLD(parsed, &out)
	}
	return DedupePeople(out)
}

func walkJSONLD(node any, out *[]extractor.Person) {
	switch v := node.(type) {
	case []any:
		for _, n := range v {
			walkJSONLD(n, out)
		}
	case map[string]any:
		if isPersonType(v["@type"]) {
			if name := personName(v); name != "" {
				links := stringList(v, "sameAs")
				profile := stringField(v, "url")
				if profile != "" {
					links = append(links, profile)
				}
				socials := FindSocials(links)
				*out = append(*out, extractor.Person{
					Name:        name,
					Title:       stringField(v, "jobTitle"),
					Email:       NormalizeEmail(stringField(v, "email")),
					ProfileURL:  profile,
					LinkedinURL: socials.LinkedIn,
					TwitterURL:  socials.Twitter,
					GithubURL:   socials.GitHub,
					BlueskyURL:  socials.Bluesky,
					Source:      "jsonld",
				})
			}
		}
		for _, child := range v {
			walkJSONLD(child, out)
		}
	}
}

func isPersonType(typeValue any) bool {
	switch t := typeValue.(type) {
	case string:
		return strings.EqualFold(t, "person")
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.EqualFold(s, "person") {
				return true
			}
		}
	}
	return false
}

func personName(node map[string]any) string {
	if name := stringField(node, "name"); name != "" {
		return name
	}
	given := stringField(node, "givenName")
	family := stringField(node, "familyName")
	return strings.TrimSpace(given + " " + family)
}

func stringField(node map[string]any, key string) string {
	if s, ok := node[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// stringList reads a field that schema.org allows as either a scalar
// string or a list, as sameAs is in the wild.
func stringList(node map[string]any, key string) []string {
	switch v := node[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}
