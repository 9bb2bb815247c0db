package htmlelements

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Patch replaces the markup of one top-level section.
type Patch struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// Sections holds the serialised top-level sections of a render, in page order.
type Sections struct {
	Order []string
	HTML  map[string]string
}

// RenderSections renders s and serialises each top-level section (every
// element child of <main> that carries an id) separately.
func RenderSections(s State, c *Content) (Sections, error) {
	root, err := Render(s, c)
	if err != nil {
		return Sections{}, err
	}

	out := Sections{HTML: make(map[string]string)}
	body := Find(root, func(n *html.Node) bool { return n.Data == "main" })
	if body == nil {
		return out, nil
	}

	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		id, ok := Attr(n, "id")
		if !ok || id == "" {
			continue
		}
		var b strings.Builder
		if err := html.Render(&b, n); err != nil {
			return Sections{}, fmt.Errorf("failed to serialise section %q: %w", id, err)
		}
		out.Order = append(out.Order, id)
		out.HTML[id] = b.String()
	}
	return out, nil
}

// Diff returns patches for the sections of next whose markup differs from
// prev, in next's page order.
func Diff(prev, next Sections) []Patch {
	var patches []Patch
	for _, id := range next.Order {
		markup := next.HTML[id]
		if old, ok := prev.HTML[id]; ok && old == markup {
			continue
		}
		patches = append(patches, Patch{ID: id, HTML: markup})
	}
	return patches
}
