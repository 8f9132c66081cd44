// internal/app/system/limits/limits.go
package limits

import (
	"net/http"
	"strings"
)

// Request body size limits for form posts.
const (
	// MaxRequestFormSize covers the service request form, whose description
	// is free text.
	MaxRequestFormSize = 64 << 10 // 64 KB

	// MaxFormSize covers every other form (categories, actions, auth).
	MaxFormSize = 16 << 10 // 16 KB
)

// requestFormPath is the only route that accepts MaxRequestFormSize.
const requestFormPath = "/requests/new"

// SizeFor returns the body limit for r.
func SizeFor(r *http.Request) int64 {
	if strings.TrimSuffix(r.URL.Path, "/") == requestFormPath {
		return MaxRequestFormSize
	}
	return MaxFormSize
}

// Forms caps the body of unsafe requests and parses the form before
// anything downstream reads it. It must run ahead of CSRF checking, which
// reads the token from the posted form. A body over the limit, or one that
// does not parse, goes to onBadForm and the chain stops there.
func Forms(onBadForm func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, SizeFor(r))
			if err := r.ParseForm(); err != nil {
				onBadForm(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
