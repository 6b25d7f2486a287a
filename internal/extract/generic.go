package extract

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
	"github.com/firasmosbehi/about-us-team-extractor/internal/page"
)

// genericTextSelectors covers leaf-ish elements that may hold a name
// or title. h1/h2 are excluded: they are almost always section
// headers.
const genericTextSelectors = "div, span, p, h3, h4, h5, h6, li, td, b, strong, em, i, small"

const maxNameSearchDepth = 3

// PeopleFromGeneric finds job-title text anywhere in the page and
// pairs it with a strictly name-shaped string in a nearby container.
// It catches team pages whose markup carries no card classes.
func PeopleFromGeneric(snap *page.Snapshot) []extractor.Person {
	doc := snap.Doc()

	type titleCandidate struct {
		sel  *goquery.Selection
		text string
	}
	var titles []titleCandidate

	doc.Find(genericTextSelectors).Each(func(_ int, sel *goquery.Selection) {
		children := sel.Children()
		if children.Length() > 1 {
			return
		}
		if children.Length() == 1 && clean(children.Text()) == clean(sel.Text()) {
			return
		}
		if t := clean(sel.Text()); looksLikeGenericTitle(t) {
			titles = append(titles, titleCandidate{sel: sel, text: t})
		}
	})

	var out []extractor.Person
	for _, tc := range titles {
		titleNode := tc.sel.Get(0)
		container := tc.sel.Parent()
		var name string

		for depth := 0; depth < maxNameSearchDepth && container.Length() > 0; depth++ {
			container.Find(genericTextSelectors).EachWithBreak(func(_ int, node *goquery.Selection) bool {
				n := node.Get(0)
				if n == titleNode || containsNode(n, titleNode) || containsNode(titleNode, n) {
					return true
				}
				if node.Children().Length() > 0 {
					return true
				}
				t := clean(node.Text())
				if t == tc.text || !looksLikeStrictName(t) {
					return true
				}
				name = t
				return false
			})
			if name != "" {
				break
			}
			container = container.Parent()
		}
		if name == "" {
			continue
		}

		var hrefs []string
		var email string
		container.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			hrefs = append(hrefs, href)
			if email == "" {
				if e := parseMailto(href); e != "" {
					email = e
				}
			}
		})
		socials := FindSocials(hrefs)

		out = append(out, extractor.Person{
			Name:        name,
			Title:       tc.text,
			Email:       email,
			LinkedinURL: socials.LinkedIn,
			TwitterURL:  socials.Twitter,
			GithubURL:   socials.GitHub,
			BlueskyURL:  socials.Bluesky,
			Source:      "generic-pattern",
		})
	}
	return DedupePeople(out)
}

func containsNode(ancestor, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
