// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ksef/internal/app/system/viewdata"
)

// pageData is the view model shared by every error page.
type pageData struct {
	viewdata.BaseVM
	Code    int
	Message string
}

// Handler serves the standalone error routes. No DB needed.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders the "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "/")
}

// NotFound renders the 404 page. Used as the router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, "", "/")
}

// CSRFFailure renders the page shown when a form post fails the CSRF check,
// usually because the page sat open past the session lifetime.
func (h *Handler) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "Your form expired. Go back, reload the page, and try again.", "/")
}
