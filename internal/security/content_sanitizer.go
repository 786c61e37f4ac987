// Package security cleans user supplied content before it is stored.
package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer cleans text before persistence
type ContentSanitizer interface {
	// SanitizeText strips every tag and returns unescaped plain text, so "a & b" stays "a & b".
	// Used for titles, comments, replies, tags and names.
	SanitizeText(raw string) string
	// SanitizeHTML keeps a small formatting allowlist. Used for thread bodies.
	SanitizeHTML(raw string) string
}

type contentSanitizer struct {
	strict *bluemonday.Policy
	rich   *bluemonday.Policy
}

// NewContentSanitizer builds the strict and rich policies once; both are safe for concurrent use
func NewContentSanitizer() ContentSanitizer {
	rich := bluemonday.NewPolicy()
	rich.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "h1", "h2", "h3",
	)

	rich.AllowAttrs("href").OnElements("a")
	rich.AllowRelativeURLs(false)
	rich.AddTargetBlankToFullyQualifiedLinks(true)
	rich.RequireNoReferrerOnLinks(true)

	// img src is https only
	rich.AllowAttrs("src", "alt").OnElements("img")
	rich.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		strict: bluemonday.StrictPolicy(),
		rich:   rich,
	}
}

func (s *contentSanitizer) SanitizeText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(raw)))
}

func (s *contentSanitizer) SanitizeHTML(raw string) string {
	return strings.TrimSpace(s.rich.Sanitize(raw))
}
