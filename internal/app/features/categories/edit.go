// internal/app/features/categories/edit.go
package categories

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/formutil"
	"github.com/dalemusser/ksef/internal/app/system/inputval"
	"github.com/dalemusser/ksef/internal/app/system/navigation"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgCategoryNotFound = "Category not found."

// categoryID parses {id}; it renders 404 and returns false when malformed.
func categoryID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, msgCategoryNotFound, "/categories")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeEdit renders the Edit Category page.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, ok := categoryID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, oid)
	if errors.Is(err, categorystore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, msgCategoryNotFound, "/categories")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load category failed", err, "A database error occurred.", "/categories")
		return
	}

	templates.Render(w, r, "category_form", formData{
		Base:        formutil.NewBase(w, r, h.SessionMgr, "Edit Category", "/categories"),
		ID:          cat.ID.Hex(),
		Name:        cat.Name,
		Description: cat.Description,
		Icon:        cat.Icon,
	})
}

// HandleEdit handles POST /categories/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	oid, ok := categoryID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/categories")
		return
	}
	in := readInput(r)

	data := formData{
		Base:        formutil.NewBase(w, r, nil, "Edit Category", "/categories"),
		ID:          oid.Hex(),
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
	}
	if res := inputval.Validate(in); res.HasErrors() {
		data.SetResult(res)
		templates.Render(w, r, "category_form", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.Categories.NameExistsForOther(ctx, in.Name, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check category name failed", err, "A database error occurred.", "/categories")
		return
	}
	if exists {
		data.SetError(msgDuplicateName)
		templates.Render(w, r, "category_form", data)
		return
	}

	err = h.Categories.Update(ctx, oid, models.Category{Name: in.Name, Description: in.Description, Icon: in.Icon})
	switch {
	case errors.Is(err, categorystore.ErrNotFound):
		uierrors.RenderNotFound(w, r, msgCategoryNotFound, "/categories")
		return
	case errors.Is(err, categorystore.ErrDuplicateCategory):
		data.SetError(msgDuplicateName)
		templates.Render(w, r, "category_form", data)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update category failed", err, "A database error occurred.", "/categories")
		return
	}

	h.AuditLog.CategoryUpdated(ctx, r, requestpolicy.FromRequest(r).UserID, oid, in.Name)
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, "Category \""+in.Name+"\" updated.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CategoriesBackURL), http.StatusSeeOther)
}
