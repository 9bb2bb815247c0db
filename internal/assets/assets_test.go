package assets

import (
	"io/fs"
	"strings"
	"testing"
)

func TestGetClientJS(t *testing.T) {
	data, err := GetClientJS()
	if err != nil {
		t.Fatalf("GetClientJS failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("GetClientJS returned empty data")
	}

	js := string(data)
	for _, want := range []string{"/ws", "data-action", "patch", "reload", "data-file-name", "resume="} {
		if !strings.Contains(js, want) {
			t.Errorf("client script does not mention %q", want)
		}
	}
}

func TestGetClientCSS(t *testing.T) {
	data, err := GetClientCSS()
	if err != nil {
		t.Fatalf("GetClientCSS failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("GetClientCSS returned empty data")
	}
}

func TestClientFS(t *testing.T) {
	for _, name := range []string{ClientJSName, ClientCSSName} {
		if _, err := fs.Stat(ClientFS(), name); err != nil {
			t.Errorf("ClientFS missing %s: %v", name, err)
		}
	}
}
