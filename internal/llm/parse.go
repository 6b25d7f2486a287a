package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extract"
	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

var (
	codeFenceRe  = regexp.MustCompile("```[a-zA-Z]*\n?")
	validEmailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type rawPerson struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Email       string `json:"email"`
	LinkedinURL string `json:"linkedinUrl"`
	TwitterURL  string `json:"twitterUrl"`
	GithubURL   string `json:"githubUrl"`
	BlueskyURL  string `json:"blueskyUrl"`
	ProfileURL  string `json:"profileUrl"`
}

type peopleEnvelope struct {
	People []rawPerson `json:"people"`
}

// ParsePeople reads model output tolerantly: fences are stripped, then
// direct JSON, the outermost [...], the outermost {...} and a "people"
// key are tried in turn. Anything unparseable yields an empty slice,
// never an error; a chatty model is a data problem, not a failure.
func ParsePeople(raw string) []extractor.Person {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(codeFenceRe.ReplaceAllString(text, ""), "```", ""))

	people, ok := tryDecode(cleaned)
	if !ok {
		if start, end := strings.Index(cleaned, "["), strings.LastIndex(cleaned, "]"); start != -1 && end > start {
			people, ok = tryDecode(cleaned[start : end+1])
		}
	}
	if !ok {
		if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start != -1 && end > start {
			people, ok = tryDecode(cleaned[start : end+1])
		}
	}
	if !ok {
		return nil
	}

	seen := make(map[string]struct{}, len(people))
	var out []extractor.Person
	for _, p := range people {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		title := strings.TrimSpace(p.Title)
		email := strings.ToLower(strings.TrimSpace(p.Email))
		if email != "" && !validEmailRe.MatchString(email) {
			email = ""
		}

		key := strings.ToLower(name) + "|" + strings.ToLower(title) + "|" + email
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, extractor.Person{
			Name:        name,
			Title:       title,
			Email:       email,
			LinkedinURL: strings.TrimSpace(p.LinkedinURL),
			TwitterURL:  strings.TrimSpace(p.TwitterURL),
			GithubURL:   strings.TrimSpace(p.GithubURL),
			BlueskyURL:  strings.TrimSpace(p.BlueskyURL),
			ProfileURL:  strings.TrimSpace(p.ProfileURL),
			Source:      "llm",
		})
	}
	return out
}

func tryDecode(s string) ([]rawPerson, bool) {
	var arr []rawPerson
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return arr, true
	}
	var env peopleEnvelope
	if err := json.Unmarshal([]byte(s), &env); err == nil && env.People != nil {
		return env.People, true
	}
	return nil, false
}

// GuardEmails nulls any model-claimed email that deterministic
// extraction never saw on the page. The model may summarize; it may
// not invent contact details.
func GuardEmails(people []extractor.Person, pageEmails []string) []extractor.Person {
	onPage := make(map[string]struct{}, len(pageEmails))
	for _, e := range pageEmails {
		onPage[extract.NormalizeEmail(e)] = struct{}{}
	}
	out := make([]extractor.Person, 0, len(people))
	for _, p := range people {
		if p.Email != "" {
			if _, ok := onPage[p.Email]; !ok {
				p.Email = ""
			}
		}
		out = append(out, p)
	}
	return out
}
