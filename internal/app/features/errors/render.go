// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// render writes the status first so the code survives a template failure.
func render(w http.ResponseWriter, r *http.Request, code int, title, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, nil, title, backURL),
		Code:    code,
		Message: msg,
	}
	data.BackURL = backURL

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows the access denied page with msg.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "You don't have permission to view this page."
	}
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

// RenderNotFound shows the 404 page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "The page you were looking for could not be found."
	}
	render(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// RenderBadRequest shows the 400 page.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "The request could not be understood."
	}
	render(w, r, http.StatusBadRequest, "Bad request", msg, backURL)
}

// RenderServerError shows the 500 page. Callers log first; see ErrorLogger.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "A server error occurred."
	}
	render(w, r, http.StatusInternalServerError, "Server error", msg, backURL)
}
