package htmlelements

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/livetemplate/htmlelements/internal/security"
)

//go:embed sections/*.html
var sectionFS embed.FS

// Section ids, in default page order.
const (
	SectionText     = "text"
	SectionMedia    = "media"
	SectionForms    = "forms"
	SectionSemantic = "semantic"
	SectionOthers   = "others"
)

// SectionInfo describes one catalogue section.
type SectionInfo struct {
	ID      string
	NavText string // label in the top navigation
	Heading string // h2 inside the section
}

// Catalogue lists every section the component knows, in default order.
var Catalogue = []SectionInfo{
	{ID: SectionText, NavText: "Text", Heading: "Text & Inline Elements"},
	{ID: SectionMedia, NavText: "Media", Heading: "Media Elements"},
	{ID: SectionForms, NavText: "Forms", Heading: "Form Controls"},
	{ID: SectionSemantic, NavText: "Semantic", Heading: "Semantic & Structural Elements"},
	{ID: SectionOthers, NavText: "Other", Heading: "Other / Interactive Elements"},
}

// NoteID is the id of the closing note below the sections.
const NoteID = "note"

const (
	DefaultTitle  = "HTML Elements — Go demo"
	DefaultIntro  = "A compact page demonstrating many common (and some uncommon) HTML elements — rendered by a Go server."
	DefaultFooter = "This demo contains many common HTML elements but not every obscure/obsolete tag (e.g., `<acronym>`, `<applet>`). Use it as a playground or documentation page."
)

// Content is the static part of the page: everything the render function
// needs besides State.
type Content struct {
	Title      string
	IntroHTML  string // sanitised HTML
	FooterHTML string // sanitised HTML
	Sections   []SectionInfo

	fragments map[string]string
}

// LookupSection returns the catalogue entry for id.
func LookupSection(id string) (SectionInfo, bool) {
	for _, s := range Catalogue {
		if s.ID == id {
			return s, true
		}
	}
	return SectionInfo{}, false
}

// DefaultContent returns the content with every section enabled.
func DefaultContent() *Content {
	c, err := NewContent(DefaultTitle, DefaultIntro, DefaultFooter, nil)
	if err != nil {
		// The defaults are compiled in; failing here is a programming error.
		panic(err)
	}
	return c
}

// NewContent builds page content. intro and footer are markdown. sections
// selects and orders the catalogue sections by id; nil or empty means all.
func NewContent(title, intro, footer string, sections []string) (*Content, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	introHTML, err := RenderMarkdown(intro)
	if err != nil {
		return nil, fmt.Errorf("failed to render intro: %w", err)
	}
	footerHTML, err := RenderMarkdown(footer)
	if err != nil {
		return nil, fmt.Errorf("failed to render footer: %w", err)
	}

	c := &Content{
		Title:      title,
		IntroHTML:  introHTML,
		FooterHTML: footerHTML,
		fragments:  make(map[string]string),
	}

	if len(sections) == 0 {
		c.Sections = append(c.Sections, Catalogue...)
	} else {
		seen := make(map[string]bool)
		for _, id := range sections {
			info, ok := LookupSection(id)
			if !ok {
				return nil, fmt.Errorf("unknown section %q", id)
			}
			if seen[id] {
				return nil, fmt.Errorf("section %q listed twice", id)
			}
			seen[id] = true
			c.Sections = append(c.Sections, info)
		}
	}

	for _, s := range c.Sections {
		if s.ID == SectionForms {
			continue
		}
		data, err := sectionFS.ReadFile("sections/" + s.ID + ".html")
		if err != nil {
			return nil, fmt.Errorf("failed to read section %q: %w", s.ID, err)
		}
		c.fragments[s.ID] = string(data)
	}

	return c, nil
}

var (
	markdownOnce   sync.Once
	markdownEngine goldmark.Markdown
)

// RenderMarkdown converts markdown to sanitised HTML.
func RenderMarkdown(src string) (string, error) {
	markdownOnce.Do(func() {
		markdownEngine = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})

	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(security.SanitizeHTML(buf.String())), nil
}

// fragment parses an HTML fragment in the context of a <div>. Each call
// returns fresh nodes.
func fragment(src string) ([]*html.Node, error) {
	if src == "" {
		return nil, nil
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(strings.NewReader(src), ctx)
}
