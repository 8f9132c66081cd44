// Package navigation validates "return" URLs carried through forms and
// links so redirects stay on-site.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions constrains which return URLs SafeBackURL accepts.
type BackURLOptions struct {
	// AllowedPrefix, when set, must prefix the return URL.
	AllowedPrefix string
	// ExcludedSubpaths reject return URLs that point at action pages.
	ExcludedSubpaths []string
	// Fallback is used when no acceptable return URL is present.
	Fallback string
}

// SafeBackURL reads "return" from the query, then the form, and returns it
// when it is a local path that satisfies opts. Otherwise opts.Fallback.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret == "" {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, ex := range opts.ExcludedSubpaths {
		if strings.Contains(ret, ex) {
			return opts.Fallback
		}
	}
	return ret
}

var (
	// RequestsBackURL returns to a (possibly filtered) listing, never to the post form.
	RequestsBackURL = BackURLOptions{
		AllowedPrefix:    "/requests",
		ExcludedSubpaths: []string{"/new"},
		Fallback:         "/requests",
	}

	// CategoriesBackURL returns to the category catalog.
	CategoriesBackURL = BackURLOptions{
		AllowedPrefix:    "/categories",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/categories",
	}
)
