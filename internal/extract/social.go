package extract

import "strings"

// Socials groups the profile links found near one person.
type Socials struct {
	LinkedIn string
	Twitter  string
	GitHub   string
	Bluesky  string
}

// FindSocials classifies hrefs into social profiles. LinkedIn prefers
// personal /in/ profiles over company pages; Twitter share intents are
// ignored.
func FindSocials(hrefs []string) Socials {
	var s Socials
	for _, href := range hrefs {
		l := strings.ToLower(href)
		if strings.Contains(l, "linkedin.com/") {
			if s.LinkedIn == "" || strings.Contains(l, "/in/") {
				s.LinkedIn = href
			}
		}
		if (strings.Contains(l, "twitter.com/") || strings.Contains(l, "x.com/")) &&
			s.Twitter == "" && !strings.Contains(l, "/share") && !strings.Contains(l, "/intent") {
			s.Twitter = href
		}
		if strings.Contains(l, "github.com/") && s.GitHub == "" {
			s.GitHub = href
		}
		if strings.Contains(l, "bsky.app/") && s.Bluesky == "" {
			s.Bluesky = href
		}
	}
	return s
}
