// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes all markup from user-entered free text and returns
// plain text. Entities are decoded so the result is stored as the user
// would read it; templates escape it again on output.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextToHTML escapes s and turns line breaks into <br>, wrapped in a
// single paragraph.
func PlainTextToHTML(s string) template.HTML {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	escaped := template.HTMLEscapeString(s)
	return template.HTML("<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>")
}
