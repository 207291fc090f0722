// Package htmlsanitize cleans user-supplied rich text before storage or
// display. Policies are built once at init; bluemonday policies are safe
// for concurrent use.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// richPolicy keeps common formatting: headings, lists, tables, links,
	// code blocks. Scripts, iframes, and event handlers are always removed.
	richPolicy *bluemonday.Policy

	// strictPolicy strips every tag, leaving text content only.
	strictPolicy = bluemonday.StrictPolicy()
)

func init() {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	richPolicy = p
}

// Sanitize removes dangerous markup from HTML while preserving common
// formatting elements.
func Sanitize(s string) string {
	return richPolicy.Sanitize(s)
}

// SanitizeToHTML sanitizes and wraps the result as template.HTML so
// templates render it unescaped.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup, returning plain text. Use for single-line
// form fields like names and course titles.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// IsPlainText reports whether s contains no HTML tags. The heuristic is a
// matched angle-bracket pair; "5 < 10" counts as plain text.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt < 0 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') < 0
}

// PlainTextToHTML escapes plain text and converts newlines to <br>, wrapped
// in a paragraph.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// PrepareForDisplay renders stored content: plain text is escaped and
// paragraph-wrapped, HTML is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
