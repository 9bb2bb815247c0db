package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/livetemplate/htmlelements"
	"github.com/livetemplate/htmlelements/internal/assets"
)

const tailwindCDNOrigin = "https://cdn.tailwindcss.com"

// PageOptions controls the document shell around the rendered component.
type PageOptions struct {
	TailwindCDN bool // load Tailwind's play script
	Live        bool // link the client script and stylesheet; otherwise inline the CSS only
}

type pageData struct {
	Title       string
	TailwindSrc string
	Live        bool
	ScriptSrc   string
	StyleHref   string
	InlineCSS   template.CSS
	Body        template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .TailwindSrc}}
<script src="{{.TailwindSrc}}"></script>
{{- end}}
{{- if .Live}}
<link rel="stylesheet" href="{{.StyleHref}}">
{{- else}}
<style>{{.InlineCSS}}</style>
{{- end}}
</head>
<body>
{{.Body}}
{{- if .Live}}
<script src="{{.ScriptSrc}}"></script>
{{- end}}
</body>
</html>
`))

// WritePage writes a complete HTML document showing s.
func WritePage(w io.Writer, s htmlelements.State, c *htmlelements.Content, opts PageOptions) error {
	if c == nil {
		c = htmlelements.DefaultContent()
	}

	var body bytes.Buffer
	if err := htmlelements.RenderHTML(&body, s, c); err != nil {
		return fmt.Errorf("failed to render component: %w", err)
	}

	data := pageData{
		Title:     c.Title,
		Live:      opts.Live,
		ScriptSrc: "/assets/" + assets.ClientJSName,
		StyleHref: "/assets/" + assets.ClientCSSName,
		Body:      template.HTML(body.String()),
	}
	if opts.TailwindCDN {
		data.TailwindSrc = tailwindCDNOrigin
	}
	if !opts.Live {
		css, err := assets.GetClientCSS()
		if err != nil {
			return fmt.Errorf("failed to read stylesheet: %w", err)
		}
		data.InlineCSS = template.CSS(css)
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
