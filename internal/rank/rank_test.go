package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

func TestTeamCandidatesPrefersTeamOverLegal(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "/privacy", Text: "Privacy Policy"},
		{Href: "/our-team", Text: "Our Team"},
		{Href: "/terms", Text: "Terms"},
	}
	got := TeamCandidates(anchors, "https://example.com/", 3)

	require.NotEmpty(t, got)
	assert.Equal(t, "https://example.com/our-team", got[0].URL)
	for _, c := range got {
		assert.NotContains(t, c.URL, "privacy")
		assert.NotContains(t, c.URL, "terms")
	}
}

func TestTeamCandidatesSkipsNonHTTPSchemes(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "mailto:team@example.com", Text: "Team"},
		{Href: "tel:+123456", Text: "Our Team"},
		{Href: "javascript:void(0)", Text: "Meet the Team"},
		{Href: "/team", Text: "Team"},
	}
	got := TeamCandidates(anchors, "https://example.com/", 5)

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/team", got[0].URL)
}

func TestTeamCandidatesPenalizesOffsite(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "https://other.com/team", Text: "Team"},
		{Href: "/people", Text: "People"},
	}
	got := TeamCandidates(anchors, "https://example.com/", 5)

	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/people", got[0].URL)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestTeamCandidatesStripsFragmentsAndDedupes(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "/team#leadership", Text: "Leadership"},
		{Href: "/team", Text: "Team"},
	}
	got := TeamCandidates(anchors, "https://example.com/", 5)

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/team", got[0].URL)
}

func TestTeamCandidatesLimitClamped(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "/team", Text: "Team"},
		{Href: "/people", Text: "People"},
		{Href: "/leadership", Text: "Leadership"},
		{Href: "/staff", Text: "Staff"},
		{Href: "/founders", Text: "Founders"},
	}

	got := TeamCandidates(anchors, "https://example.com/", 0)
	assert.Len(t, got, DefaultMaxCandidates)

	got = TeamCandidates(anchors, "https://example.com/", 100)
	assert.Len(t, got, 5)
}

func TestTeamCandidatesTieBreakShorterURL(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "/company/people", Text: "People"},
		{Href: "/people", Text: "People"},
	}
	got := TeamCandidates(anchors, "https://example.com/", 5)

	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/people", got[0].URL)
}

func TestAboutCandidatesFiltersToAboutSignal(t *testing.T) {
	t.Parallel()

	anchors := []extractor.Anchor{
		{Href: "/about-us", Text: "About Us"},
		{Href: "/people", Text: "People"},
	}
	got := AboutCandidates(anchors, "https://example.com/", 5)

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/about-us", got[0].URL)
}

func TestFallbackCandidates(t *testing.T) {
	t.Parallel()

	got := FallbackCandidates("https://example.com/some/page", 3)
	require.Len(t, got, 3)
	assert.Equal(t, "https://example.com/team", got[0].URL)
	assert.Equal(t, 1, got[0].Score)
	assert.Equal(t, "fallback:/team", got[0].Text)
	assert.Equal(t, "https://example.com/our-team", got[1].URL)
}

func TestFallbackCandidatesBadBase(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FallbackCandidates("::", 3))
}

func TestSignals(t *testing.T) {
	t.Parallel()

	assert.True(t, HasTeamSignal("Meet the Team", ""))
	assert.True(t, HasTeamSignal("", "https://example.com/leadership"))
	assert.False(t, HasTeamSignal("Pricing", "https://example.com/pricing"))

	assert.True(t, HasAboutSignal("Who we are", ""))
	assert.True(t, HasAboutSignal("", "https://example.com/our-story"))
	assert.False(t, HasAboutSignal("Blog", "https://example.com/blog"))
}

func TestMergeAnchors(t *testing.T) {
	t.Parallel()

	a := []extractor.Anchor{{Href: "/team", Text: "Team"}}
	b := []extractor.Anchor{{Href: "/team", Text: "Our  Team"}, {Href: "/about", Text: " About "}}

	got := MergeAnchors(a, b)
	require.Len(t, got, 2)
	assert.Equal(t, "Team", got[0].Text)
	assert.Equal(t, "About", got[1].Text)
}
