// internal/app/system/navigation/backurl.go

// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/rooms").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit",
	// "/delete", "/new"), preventing redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return",
// rejects open redirects, optionally enforces the prefix, and excludes
// the configured subpaths.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" {
		valid := true

		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}

		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}

		if valid {
			return ret
		}
	}

	return opts.Fallback
}

// ForResource returns the standard back-URL options for a resource's
// pages. Every console resource mounts at /<slug> and uses the same
// action subpaths.
func ForResource(slug string) BackURLOptions {
	base := "/" + slug
	return BackURLOptions{
		AllowedPrefix:    base,
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         base,
	}
}
