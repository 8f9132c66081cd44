// internal/app/features/categories/new.go
package categories

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/formutil"
	"github.com/dalemusser/ksef/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ksef/internal/app/system/inputval"
	"github.com/dalemusser/ksef/internal/app/system/navigation"
	"github.com/dalemusser/ksef/internal/app/system/normalize"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgDuplicateName = "Another category already uses that name."

// readInput trims the posted fields; the description loses any markup.
func readInput(r *http.Request) categoryInput {
	return categoryInput{
		Name:        normalize.Name(r.FormValue("name")),
		Description: htmlsanitize.StripTags(r.FormValue("description")),
		Icon:        normalize.Token(r.FormValue("icon")),
	}
}

// ServeNew renders the New Category page.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "category_form", formData{
		Base: formutil.NewBase(w, r, h.SessionMgr, "New Category", "/categories"),
	})
}

// HandleCreate handles POST /categories.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/categories")
		return
	}
	in := readInput(r)
	reRender := func(msg string, res *inputval.Result) {
		data := formData{
			Base:        formutil.NewBase(w, r, nil, "New Category", "/categories"),
			Name:        in.Name,
			Description: in.Description,
			Icon:        in.Icon,
		}
		if res != nil {
			data.SetResult(res)
		} else {
			data.SetError(msg)
		}
		templates.Render(w, r, "category_form", data)
	}

	if res := inputval.Validate(in); res.HasErrors() {
		reRender("", res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.Categories.NameExistsForOther(ctx, in.Name, primitive.NilObjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check category name failed", err, "A database error occurred.", "/categories")
		return
	}
	if exists {
		reRender(msgDuplicateName, nil)
		return
	}

	cat, err := h.Categories.Create(ctx, models.Category{Name: in.Name, Description: in.Description, Icon: in.Icon})
	if errors.Is(err, categorystore.ErrDuplicateCategory) {
		reRender(msgDuplicateName, nil)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create category failed", err, "A database error occurred.", "/categories")
		return
	}

	h.AuditLog.CategoryCreated(ctx, r, requestpolicy.FromRequest(r).UserID, cat.ID, cat.Name)
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, "Category \""+cat.Name+"\" created.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CategoriesBackURL), http.StatusSeeOther)
}
