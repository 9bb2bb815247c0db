// Package security provides shared validation and sanitising functions.
package security

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// SanitizeHTML strips markup that user-supplied content must not carry:
// scripts, event handlers, javascript: URLs and the like.
func SanitizeHTML(s string) string {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy.Sanitize(s)
}

// ValidateOrigin checks a CORS origin: "*", or a scheme://host[:port] with
// no path, query or fragment. A single leading "*." wildcard label is allowed
// in the host.
func ValidateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("origin %q: scheme must be http or https", origin)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("origin %q: must have a host", origin)
	}
	if strings.Contains(strings.TrimPrefix(host, "*."), "*") {
		return fmt.Errorf("origin %q: only a leading *. wildcard is supported", origin)
	}

	if (parsed.Path != "" && parsed.Path != "/") || parsed.RawQuery != "" || parsed.Fragment != "" || parsed.User != nil {
		return fmt.Errorf("origin %q: must not have a path, query, fragment or credentials", origin)
	}

	return nil
}
