package security

import (
	"strings"
	"testing"
)

func TestValidateOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		wantErr string
	}{
		{name: "wildcard", origin: "*", wantErr: ""},
		{name: "https origin", origin: "https://dash.example.com", wantErr: ""},
		{name: "http with port", origin: "http://localhost:3000", wantErr: ""},
		{name: "subdomain wildcard", origin: "https://*.example.com", wantErr: ""},
		{name: "trailing slash", origin: "https://dash.example.com/", wantErr: ""},
		{name: "ftp scheme", origin: "ftp://example.com", wantErr: "scheme must be http or https"},
		{name: "no scheme", origin: "example.com", wantErr: "scheme must be http or https"},
		{name: "no host", origin: "https://", wantErr: "must have a host"},
		{name: "inner wildcard", origin: "https://a.*.example.com", wantErr: "leading *. wildcard"},
		{name: "path", origin: "https://example.com/app", wantErr: "must not have a path"},
		{name: "query", origin: "https://example.com?x=1", wantErr: "must not have a path"},
		{name: "credentials", origin: "https://user:pw@example.com", wantErr: "must not have a path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrigin(tt.origin)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateOrigin(%q) unexpected error: %v", tt.origin, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateOrigin(%q) expected error containing %q", tt.origin, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateOrigin(%q) error = %q, want it to contain %q", tt.origin, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		keep    []string
		dropped []string
	}{
		{
			name:    "script removed",
			input:   `<p>hi<script>alert(1)</script></p>`,
			keep:    []string{"<p>hi"},
			dropped: []string{"<script", "alert(1)"},
		},
		{
			name:    "event handler removed",
			input:   `<a href="https://example.com" onclick="steal()">x</a>`,
			keep:    []string{`href="https://example.com"`, `rel="nofollow`, `target="_blank"`},
			dropped: []string{"onclick"},
		},
		{
			name:    "javascript url removed",
			input:   `<a href="javascript:alert(1)">x</a>`,
			dropped: []string{"javascript:"},
		},
		{
			name:  "inline formatting kept",
			input: `<strong>b</strong> <em>i</em> <code>c</code>`,
			keep:  []string{"<strong>b</strong>", "<em>i</em>", "<code>c</code>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SanitizeHTML(tt.input)
			for _, want := range tt.keep {
				if !strings.Contains(out, want) {
					t.Errorf("SanitizeHTML(%q) = %q, missing %q", tt.input, out, want)
				}
			}
			for _, bad := range tt.dropped {
				if strings.Contains(out, bad) {
					t.Errorf("SanitizeHTML(%q) = %q, still contains %q", tt.input, out, bad)
				}
			}
		})
	}
}
