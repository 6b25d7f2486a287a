// Package extractor defines core types shared across subsystems.
package extractor

import (
	"time"
)

// Label identifies the stage of a candidate-page visit.
type Label string

// Visit labels. HOME produces candidates, DISCOVER may promote to TEAM,
// TEAM is terminal.
const (
	LabelHome     Label = "HOME"
	LabelDiscover Label = "DISCOVER"
	LabelTeam     Label = "TEAM"
)

// transitions declares, per label, which labels a completed visit may
// enqueue. A nil entry means the label is terminal.
var transitions = map[Label][]Label{
	LabelHome:     {LabelDiscover, LabelTeam},
	LabelDiscover: {LabelTeam},
	LabelTeam:     nil,
}

// CanEnqueue reports whether a visit labeled from may enqueue a visit
// labeled to.
func CanEnqueue(from, to Label) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether visits with this label never enqueue
// follow-up visits.
func Terminal(l Label) bool {
	return len(transitions[l]) == 0
}

// Visit is one unit of frontier work: a single page to open and process.
type Visit struct {
	URL           string `json:"url"`
	Label         Label  `json:"label"`
	CompanyURL    string `json:"company_url"`
	CompanyDomain string `json:"company_domain"`

	// HOME retry state: the scheme/www permutations still untried.
	HomeVariants     []string `json:"home_variants,omitempty"`
	HomeVariantIndex int      `json:"home_variant_index,omitempty"`

	// Forefront visits jump the queue; used when a failed homepage
	// retries its next variant.
	Forefront bool `json:"-"`

	// Discovery provenance carried into output notes.
	DiscoveredFrom string `json:"discovered_from,omitempty"`
	DiscoveryScore int    `json:"discovery_score,omitempty"`
	DiscoveryText  string `json:"discovery_text,omitempty"`
	DiscoveryDepth int    `json:"discovery_depth,omitempty"`
}

// UniqueKey returns the frontier dedup key for this visit.
func (v Visit) UniqueKey() string {
	return v.CompanyDomain + "::" + string(v.Label) + "::" + v.URL
}

// Candidate is a scored team/about page prospect. Candidates live only
// for the duration of the HOME or DISCOVER visit that ranked them.
type Candidate struct {
	URL   string
	Score int
	Text  string
}

// Person is one extracted person record. Name is always present and
// trimmed; Email, when set, is lower-case and matches the strict email
// pattern.
type Person struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email,omitempty"`
	ProfileURL  string `json:"profileUrl,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`
	TwitterURL  string `json:"twitterUrl,omitempty"`
	GithubURL   string `json:"githubUrl,omitempty"`
	BlueskyURL  string `json:"blueskyUrl,omitempty"`
	Source      string `json:"source,omitempty"`
}

// IdentityKey is the process-lifetime dedup key for emitted person
// records: lower(name)|lower(title)|email.
func (p Person) IdentityKey() string {
	return normKeyPart(p.Name) + "|" + normKeyPart(p.Title) + "|" + normKeyPart(p.Email)
}

// OutputRecord is one emission to the sink. Either a person record, a
// page-level email lead, or a terminal "no data" marker with the reason
// in Notes.
type OutputRecord struct {
	ID            string    `json:"id"`
	CompanyDomain string    `json:"companyDomain"`
	CompanyURL    string    `json:"companyUrl"`
	SourceURL     string    `json:"sourceUrl"`
	Name          *string   `json:"name"`
	Title         *string   `json:"title"`
	Email         *string   `json:"email"`
	ProfileURL    *string   `json:"profileUrl"`
	LinkedinURL   *string   `json:"linkedinUrl"`
	TwitterURL    *string   `json:"twitterUrl,omitempty"`
	GithubURL     *string   `json:"githubUrl,omitempty"`
	BlueskyURL    *string   `json:"blueskyUrl,omitempty"`
	EmailsOnPage  []string  `json:"emailsOnPage"`
	ExtractedAt   time.Time `json:"extractedAt"`
	Notes         string    `json:"notes"`
}
