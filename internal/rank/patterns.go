package rank

import "regexp"

// PhraseWeight pairs a lowercase substring with the score it adds when
// found in a candidate's anchor text or URL.
type PhraseWeight struct {
	Phrase string
	Weight int
}

// Positive and negative vocabularies are configuration data for the
// scorer; keep them sorted roughly by specificity so the tables read as
// intent.
var (
	positivePhrases = []PhraseWeight{
		{"meet the team", 30},
		{"our team", 28},
		{"team", 22},
		{"leadership team", 28},
		{"leadership", 22},
		{"executive team", 24},
		{"executives", 18},
		{"management", 18},
		{"people", 14},
		{"partners", 12},
		{"staff", 16},
		{"founders", 18},
		{"about us", 14},
		{"about", 10},
		{"who we are", 12},
	}

	negativePhrases = []PhraseWeight{
		{"privacy", -40},
		{"terms", -40},
		{"cookie", -40},
		{"legal", -20},
		{"sitemap", -20},
		{"jobs", -20},
		{"careers", -20},
		{"press", -10},
		{"news", -10},
		{"blog", -10},
		{"login", -30},
		{"sign in", -30},
		{"signup", -30},
		{"register", -30},
	}
)

// fallbackTeamPaths are conventional locations tried when ranking finds
// nothing useful on the homepage.
var fallbackTeamPaths = []string{
	"/team",
	"/our-team",
	"/meet-the-team",
	"/leadership",
	"/leadership-team",
	"/executive-team",
	"/management",
	"/people",
	"/about",
	"/about-us",
	"/who-we-are",
	"/company",
	"/company/team",
	"/about/team",
	"/about-us/team",
}

var (
	teamSignalRe  = regexp.MustCompile(`(?i)(team|leadership|executive|management|people|staff|founder|founders|partner|partners|board|directors)`)
	aboutSignalRe = regexp.MustCompile(`(?i)(about|company|who\s+we\s+are|who-we-are|our\s+story|our-story|mission|values|culture)`)
)

// HasTeamSignal reports whether a candidate's text or URL carries an
// explicit people-page keyword.
func HasTeamSignal(text, url string) bool {
	return teamSignalRe.MatchString(text + " " + url)
}

// HasAboutSignal reports whether a candidate looks like a general
// about/company page.
func HasAboutSignal(text, url string) bool {
	return aboutSignalRe.MatchString(text + " " + url)
}
