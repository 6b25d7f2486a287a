package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
)

func TestPeopleFromJSONLD(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"@context": "https://schema.org",
		"@graph": []any{
			map[string]any{"@type": "Organization", "name": "Acme"},
			map[string]any{"@type": "Person", "name": "Jane Doe", "jobTitle": "CEO", "email": "jane@acme.com"},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	people := PeopleFromJSONLD([]string{string(raw)})
	require.Len(t, people, 1)
	assert.Equal(t, "Jane Doe", people[0].Name)
	assert.Equal(t, "CEO", people[0].Title)
	assert.Equal(t, "jane@acme.com", people[0].Email)
	assert.Equal(t, "jsonld", people[0].Source)
}

func TestPeopleFromJSONLDGivenFamilyName(t *testing.T) {
	t.Parallel()

	people := PeopleFromJSONLD([]string{
		`{"@type":["Person"],"givenName":"Bob","familyName":"Smith"}`,
		`not json at all`,
	})
	require.Len(t, people, 1)
	assert.Equal(t, "Bob Smith", people[0].Name)
	assert.Empty(t, people[0].Title)
}

func TestPeopleFromJSONLDProfileAndSameAs(t *testing.T) {
	t.Parallel()

	people := PeopleFromJSONLD([]string{`{
		"@type": "Person",
		"name": "Jane Doe",
		"jobTitle": "CEO",
		"url": "https://acme.com/people/jane-doe",
		"sameAs": ["https://linkedin.com/in/janedoe", "https://github.com/janedoe"]
	}`})
	require.Len(t, people, 1)
	assert.Equal(t, "https://acme.com/people/jane-doe", people[0].ProfileURL)
	assert.Equal(t, "https://linkedin.com/in/janedoe", people[0].LinkedinURL)
	assert.Equal(t, "https://github.com/janedoe", people[0].GithubURL)
	assert.Empty(t, people[0].TwitterURL)
}

func TestPeopleFromJSONLDScalarSameAs(t *testing.T) {
	t.Parallel()

	people := PeopleFromJSONLD([]string{
		`{"@type":"Person","name":"Bob Smith","sameAs":"https://bsky.app/profile/bob.acme.com"}`,
	})
	require.Len(t, people, 1)
	assert.Equal(t, "https://bsky.app/profile/bob.acme.com", people[0].BlueskyURL)
	assert.Empty(t, people[0].ProfileURL)
}

const cardsHTML = `<html><body>
<section class="team-grid">
  <div class="team-member">
    <h3>Jane Doe</h3>
    <div class="role">CEO &amp; Founder</div>
    <a href="mailto:jane@acme.com">Email</a>
  </div>
  <div class="team-member">
    <h3>Bob Smith</h3>
    <p>Head of Engineering</p>
  </div>
  <div class="team-member">
    <h3>Join our team</h3>
    <p>Visit our careers page</p>
  </div>
</section>
</body></html>`

func TestPeopleFromCards(t *testing.T) {
	t.Parallel()

	snap, err := page.Parse(cardsHTML, "https://acme.com/team")
	require.NoError(t, err)

	people := PeopleFromCards(snap)
	require.Len(t, people, 2)

	assert.Equal(t, "Jane Doe", people[0].Name)
	assert.Equal(t, "CEO & Founder", people[0].Title)
	assert.Equal(t, "jane@acme.com", people[0].Email)
	assert.Equal(t, "cards", people[0].Source)

	assert.Equal(t, "Bob Smith", people[1].Name)
	assert.Equal(t, "Head of Engineering", people[1].Title)
	assert.Empty(t, people[1].Email)
}

func TestPeopleFromCardsLinks(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="team-member">
  <h3><a href="/people/jane-doe">Jane Doe</a></h3>
  <p>CEO</p>
  <a href="https://linkedin.com/in/janedoe">LinkedIn</a>
  <a href="https://twitter.com/janedoe">Twitter</a>
</div>
</body></html>`

	snap, err := page.Parse(html, "https://acme.com/team")
	require.NoError(t, err)

	people := PeopleFromCards(snap)
	require.Len(t, people, 1)

	assert.Equal(t, "https://acme.com/people/jane-doe", people[0].ProfileURL)
	assert.Equal(t, "https://linkedin.com/in/janedoe", people[0].LinkedinURL)
	assert.Equal(t, "https://twitter.com/janedoe", people[0].TwitterURL)
}

func TestPeopleFromCardsProfileSkipsRootAndSelf(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="team-member">
  <h3>Bob Smith</h3>
  <p>Head of Engineering</p>
  <a href="/">Home</a>
  <a href="/team">Back to team</a>
  <a href="#bio">Bio</a>
</div>
</body></html>`

	snap, err := page.Parse(html, "https://acme.com/team")
	require.NoError(t, err)

	people := PeopleFromCards(snap)
	require.Len(t, people, 1)
	assert.Empty(t, people[0].ProfileURL)
}

func TestPeopleFromCardsSkipsLongBios(t *testing.T) {
	t.Parallel()

	long := ""
	for range 100 {
		long += "lorem ipsum "
	}
	html := `<div class="person"><h3>Jane Doe</h3><p>CEO</p><p>` + long + `</p></div>`

	snap, err := page.Parse(html, "https://acme.com/team")
	require.NoError(t, err)

	assert.Empty(t, PeopleFromCards(snap))
}

const genericHTML = `<html><body>
<table>
  <tr>
    <td><span>Alice Johnson</span></td>
    <td><span>Chief Operating Officer</span></td>
    <td><a href="https://linkedin.com/in/alicejohnson">LinkedIn</a>
        <a href="https://twitter.com/share?u=x">share</a>
        <a href="https://x.com/alicej">X</a></td>
  </tr>
</table>
</body></html>`

func TestPeopleFromGeneric(t *testing.T) {
	t.Parallel()

	snap, err := page.Parse(genericHTML, "https://acme.com/about")
	require.NoError(t, err)

	people := PeopleFromGeneric(snap)
	require.Len(t, people, 1)

	assert.Equal(t, "Alice Johnson", people[0].Name)
	assert.Equal(t, "Chief Operating Officer", people[0].Title)
	assert.Equal(t, "https://linkedin.com/in/alicejohnson", people[0].LinkedinURL)
	assert.Equal(t, "https://x.com/alicej", people[0].TwitterURL)
	assert.Equal(t, "generic-pattern", people[0].Source)
}

func TestPeopleFromGenericRejectsLowercaseNames(t *testing.T) {
	t.Parallel()

	html := `<div><p>our fearless leader</p><p>Chief executive officer</p></div>`
	snap, err := page.Parse(html, "https://acme.com/about")
	require.NoError(t, err)

	assert.Empty(t, PeopleFromGeneric(snap))
}

func TestDedupePeople(t *testing.T) {
	t.Parallel()

	people := DedupePeople([]extractor.Person{
		{Name: "Jane Doe", Title: "CEO", Email: "JANE@acme.com"},
		{Name: " Jane Doe ", Title: "CEO", Email: "jane@acme.com"},
		{Name: "", Title: "CTO"},
		{Name: "Bob Smith"},
	})
	require.Len(t, people, 2)
	assert.Equal(t, "jane@acme.com", people[0].Email)
}

func TestMergePeopleFillsGapsAndJoinsSources(t *testing.T) {
	t.Parallel()

	cards := []extractor.Person{{Name: "Jane Doe", Title: "CEO", Source: "cards"}}
	jsonld := []extractor.Person{{Name: "Jane Doe", Title: "CEO", Email: "jane@acme.com", Source: "jsonld"}}
	generic := []extractor.Person{{Name: "Bob Smith", Title: "CTO", Source: "generic-pattern"}}

	merged := MergePeople(cards, jsonld, generic)
	require.Len(t, merged, 2)

	assert.Equal(t, "jane@acme.com", merged[0].Email)
	assert.Equal(t, "cards,jsonld", merged[0].Source)
	assert.Equal(t, "Bob Smith", merged[1].Name)
}

func TestFindSocials(t *testing.T) {
	t.Parallel()

	s := FindSocials([]string{
		"https://linkedin.com/company/acme",
		"https://linkedin.com/in/jane",
		"https://twitter.com/intent/tweet?x=1",
		"https://twitter.com/jane",
		"https://github.com/jane",
		"https://bsky.app/profile/jane.acme.com",
	})
	assert.Equal(t, "https://linkedin.com/in/jane", s.LinkedIn)
	assert.Equal(t, "https://twitter.com/jane", s.Twitter)
	assert.Equal(t, "https://github.com/jane", s.GitHub)
	assert.Equal(t, "https://bsky.app/profile/jane.acme.com", s.Bluesky)
}
