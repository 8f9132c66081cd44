// internal/app/features/requests/new.go
package requests

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

// FlashPosted confirms a new request.
const FlashPosted = "Your service request has been posted successfully!"

/*─────────────────────────────────────────────────────────────────────────────*
| GET /requests/new                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if err := requestpolicy.AuthorizeCreate(requestpolicy.FromRequest(r)); err != nil {
		h.deny(w, r, err, "/requests")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data, err := h.newForm(ctx, w, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/requests")
		return
	}
	data.Priority = models.PriorityMedium
	templates.Render(w, r, "requests_new", data)
}

func (h *Handler) newForm(ctx context.Context, w http.ResponseWriter, r *http.Request) (newFormData, error) {
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return newFormData{}, err
	}
	return newFormData{
		Base:       formutil.NewBase(w, r, h.SessionMgr, "Post a Service Request", navigation.SafeBackURL(r, navigation.RequestsBackURL)),
		Categories: categoryOptions(cats),
		Priorities: priorityOptions(),
	}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /requests/new                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	viewer := requestpolicy.FromRequest(r)
	if err := requestpolicy.AuthorizeCreate(viewer); err != nil {
		h.deny(w, r, err, "/requests")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/requests/new")
		return
	}

	in := newInput{
		Title:         normalize.Name(r.FormValue("title")),
		Description:   htmlsanitize.StripTags(r.FormValue("description")),
		Category:      normalize.FilterID(r.FormValue("category")),
		Priority:      normalize.Token(r.FormValue("priority")),
		Location:      normalize.Name(r.FormValue("location")),
		ContactInfo:   normalize.Name(r.FormValue("contact_info")),
		EstimatedTime: normalize.Name(r.FormValue("estimated_time")),
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.newForm(ctx, w, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/requests")
		return
	}
	data.Title = in.Title
	data.Description = in.Description
	data.Category = in.Category
	data.Priority = in.Priority
	data.Location = in.Location
	data.ContactInfo = in.ContactInfo
	data.EstimatedTime = in.EstimatedTime

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetResult(res)
		templates.Render(w, r, "requests_new", data)
		return
	}

	var catID *primitive.ObjectID
	if in.Category != "" {
		oid, _ := primitive.ObjectIDFromHex(in.Category)
		if _, err := h.Categories.GetByID(ctx, oid); err != nil {
			if !errors.Is(err, categorystore.ErrNotFound) {
				h.ErrLog.LogServerError(w, r, "load category failed", err, "A database error occurred.", "/requests")
				return
			}
			msg := "Select a valid category."
			data.SetError(msg)
			data.FieldErrors = map[string]string{"Category": msg}
			templates.Render(w, r, "requests_new", data)
			return
		}
		catID = &oid
	}

	created, err := h.Requests.Create(ctx, models.ServiceRequest{
		Title:         in.Title,
		Description:   in.Description,
		CategoryID:    catID,
		RequesterID:   viewer.UserID,
		Priority:      in.Priority,
		Location:      in.Location,
		ContactInfo:   in.ContactInfo,
		EstimatedTime: in.EstimatedTime,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create request failed", err, "Unable to post your request.", "/requests")
		return
	}

	h.AuditLog.RequestCreated(ctx, r, viewer.UserID, created.ID, created.Title, created.Priority)
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, FlashPosted)
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}
