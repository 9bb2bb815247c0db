// Package assets embeds the browser client served next to the page.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed client/*
var clientFS embed.FS

const (
	// ClientJSName is the script the page shell loads from /assets/.
	ClientJSName = "htmlelements-client.js"
	// ClientCSSName holds the few rules Tailwind's utilities do not cover.
	ClientCSSName = "htmlelements-client.css"
)

// ClientFS returns the embedded client files
func ClientFS() fs.FS {
	sub, err := fs.Sub(clientFS, "client")
	if err != nil {
		panic(err)
	}
	return sub
}

// GetClientJS returns the browser JavaScript
func GetClientJS() ([]byte, error) {
	return clientFS.ReadFile("client/" + ClientJSName)
}

// GetClientCSS returns the browser stylesheet
func GetClientCSS() ([]byte, error) {
	return clientFS.ReadFile("client/" + ClientCSSName)
}
