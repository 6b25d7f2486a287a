package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		want  string
		valid bool
	}{
		{name: "bare host", in: "example.com", want: "https://example.com", valid: true},
		{name: "full url kept", in: "https://example.com/about?x=1", want: "https://example.com/about?x=1", valid: true},
		{name: "fragment stripped", in: "https://example.com/page#team", want: "https://example.com/page", valid: true},
		{name: "http preserved", in: "http://example.com", want: "http://example.com", valid: true},
		{name: "whitespace trimmed", in: "  example.com  ", want: "https://example.com", valid: true},
		{name: "empty", in: "", valid: false},
		{name: "garbage", in: "http://[::bad", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeStart(tt.in)
			require.Equal(t, tt.valid, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHomepageVariants(t *testing.T) {
	t.Parallel()

	got := HomepageVariants("https://www.example.com/some/page")
	want := []string{
		"https://www.example.com/some/page",
		"https://www.example.com/",
		"https://example.com/",
		"http://www.example.com/",
		"http://example.com/",
	}
	assert.Equal(t, want, got)
}

func TestHomepageVariantsDedupesRoot(t *testing.T) {
	t.Parallel()

	got := HomepageVariants("https://example.com/")
	want := []string{
		"https://example.com/",
		"https://www.example.com/",
		"http://example.com/",
		"http://www.example.com/",
	}
	assert.Equal(t, want, got)
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	assert.True(t, SameSite("https://example.com/team", "example.com"))
	assert.True(t, SameSite("https://www.example.com/team", "example.com"))
	assert.True(t, SameSite("https://careers.example.com/jobs", "example.com"))
	assert.True(t, SameSite("https://example.com", "www.example.com"))
	assert.False(t, SameSite("https://evil.com", "example.com"))
	assert.False(t, SameSite("https://notexample.com", "example.com"))
	assert.False(t, SameSite("::", "example.com"))
}

func TestLabelTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, CanEnqueue(LabelHome, LabelTeam))
	assert.True(t, CanEnqueue(LabelHome, LabelDiscover))
	assert.True(t, CanEnqueue(LabelDiscover, LabelTeam))
	assert.False(t, CanEnqueue(LabelDiscover, LabelDiscover))
	assert.False(t, CanEnqueue(LabelTeam, LabelTeam))
	assert.True(t, Terminal(LabelTeam))
	assert.False(t, Terminal(LabelHome))
}

func TestVisitUniqueKey(t *testing.T) {
	t.Parallel()

	v := Visit{URL: "https://example.com/team", Label: LabelTeam, CompanyDomain: "example.com"}
	assert.Equal(t, "example.com::TEAM::https://example.com/team", v.UniqueKey())
}

func TestPersonIdentityKey(t *testing.T) {
	t.Parallel()

	p := Person{Name: " Jane Doe ", Title: "CEO", Email: "jane@acme.com"}
	assert.Equal(t, "jane doe|ceo|jane@acme.com", p.IdentityKey())
}
