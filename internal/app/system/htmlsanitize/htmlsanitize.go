// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe markup from rich-text fields
// (room and request descriptions) before they are stored or rendered.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}

// Sanitize returns s with disallowed tags and attributes removed.
// Basic formatting, lists, tables, and safe links survive.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML sanitizes and marks the result safe for templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s contains no markup at all.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
