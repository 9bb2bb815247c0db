package htmlelements

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

const sectionClass = "bg-white p-5 rounded shadow-sm"

// Render maps a state snapshot and the static content to the component's
// markup tree. It has no side effects.
func Render(s State, c *Content) (*html.Node, error) {
	if c == nil {
		c = DefaultContent()
	}

	intro, err := fragment(c.IntroHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse intro: %w", err)
	}

	header := el("header", attrs("class", "max-w-6xl mx-auto mb-6"),
		el("div", attrs("class", "flex items-center justify-between"),
			el("h1", attrs("class", "text-3xl font-extrabold"), text(c.Title)),
			renderNav(c),
		),
	)
	introBox := el("div", attrs("class", "mt-2 text-sm text-slate-600"))
	for _, n := range intro {
		introBox.AppendChild(n)
	}
	header.AppendChild(introBox)

	body := el("main", attrs("class", "max-w-6xl mx-auto grid gap-6"))
	for _, info := range c.Sections {
		sec, err := renderSection(info, s, c)
		if err != nil {
			return nil, err
		}
		body.AppendChild(sec)
	}

	note, err := fragment(c.FooterHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footer: %w", err)
	}
	if len(note) > 0 {
		box := el("section", attrs("id", NoteID, "class", "text-sm text-slate-500 text-center"))
		for _, n := range note {
			box.AppendChild(n)
		}
		body.AppendChild(box)
	}

	return el("div", attrs("id", "elements-root", "class", "min-h-screen bg-slate-50 p-6"), header, body), nil
}

func renderNav(c *Content) *html.Node {
	ul := el("ul", attrs("class", "flex gap-3 text-sm"))
	for _, info := range c.Sections {
		ul.AppendChild(el("li", nil,
			el("a", attrs("href", "#"+info.ID, "class", "underline"), text(info.NavText)),
		))
	}
	return el("nav", attrs("aria-label", "Main navigation"), ul)
}

func renderSection(info SectionInfo, s State, c *Content) (*html.Node, error) {
	sec := el("section", attrs("id", info.ID, "class", sectionClass),
		el("h2", attrs("class", "text-2xl font-bold mb-3"), text(info.Heading)),
	)

	if info.ID == SectionForms {
		sec.AppendChild(renderForm(s))
		return sec, nil
	}

	nodes, err := fragment(c.fragments[info.ID])
	if err != nil {
		return nil, fmt.Errorf("failed to parse section %q: %w", info.ID, err)
	}
	for _, n := range nodes {
		sec.AppendChild(n)
	}
	return sec, nil
}

// RenderHTML writes the rendered component as HTML.
func RenderHTML(w io.Writer, s State, c *Content) error {
	root, err := Render(s, c)
	if err != nil {
		return err
	}
	return html.Render(w, root)
}
