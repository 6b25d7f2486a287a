// Package llm is the fallback extraction path: when deterministic
// strategies find nobody, a trimmed page is handed to a language model
// and its answer is validated against what the page actually contains.
package llm

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var strippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"svg":      {},
	"noscript": {},
	"template": {},
	"iframe":   {},
}

// CleanHTML shrinks markup for prompting: scripts, styles, svg,
// comments and every attribute except href are dropped. The structure
// that helps a model pair names with titles survives; the bytes that
// don't are gone.
func CleanHTML(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}
	cleanNode(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return rawHTML
	}
	return buf.String()
}

func cleanNode(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		switch c.Type {
		case html.CommentNode:
			n.RemoveChild(c)
		case html.ElementNode:
			if _, strip := strippedElements[c.Data]; strip {
				n.RemoveChild(c)
				continue
			}
			var kept []html.Attribute
			for _, attr := range c.Attr {
				if attr.Key == "href" {
					kept = append(kept, attr)
				}
			}
			c.Attr = kept
			cleanNode(c)
		default:
			cleanNode(c)
		}
	}
}
