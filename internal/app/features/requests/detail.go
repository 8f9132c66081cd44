// internal/app/features/requests/detail.go
package requests

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/store/audit"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ksef/internal/app/system/navigation"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgRequestNotFound = "That service request could not be found."

var historyLabels = map[string]string{
	audit.EventRequestCreated:   "Posted",
	audit.EventRequestClaimed:   "Volunteer assigned",
	audit.EventRequestCompleted: "Marked completed",
	audit.EventRequestCancelled: "Cancelled",
}

// loadRequest resolves the {id} URL param. It renders the 404 page and
// returns false when the id is malformed or unknown.
func (h *Handler) loadRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.ServiceRequest, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, msgRequestNotFound, "/requests")
		return models.ServiceRequest{}, false
	}
	req, err := h.Requests.GetByID(ctx, id)
	if errors.Is(err, servicerequeststore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, msgRequestNotFound, "/requests")
		return models.ServiceRequest{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load request failed", err, "A database error occurred.", "/requests")
		return models.ServiceRequest{}, false
	}
	return req, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /requests/{id}                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, ok := h.loadRequest(ctx, w, r)
	if !ok {
		return
	}
	viewer := requestpolicy.FromRequest(r)
	if err := requestpolicy.AuthorizeView(viewer, req); err != nil {
		h.deny(w, r, err, "/requests")
		return
	}

	data, err := h.detail(ctx, req)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load request detail failed", err, "A database error occurred.", "/requests")
		return
	}
	data.BaseVM = viewdata.NewBaseVM(w, r, h.SessionMgr, req.Title, navigation.SafeBackURL(r, navigation.RequestsBackURL))
	data.Controls = requestpolicy.ControlsFor(viewer, req)
	templates.Render(w, r, "requests_detail", data)
}

// detail resolves names and the lifecycle timeline for req.
func (h *Handler) detail(ctx context.Context, req models.ServiceRequest) (detailData, error) {
	d := detailData{
		ID:              req.ID.Hex(),
		Title:           req.Title,
		DescriptionHTML: htmlsanitize.PlainTextToHTML(req.Description),
		Status:          req.Status,
		StatusLabel:     models.StatusLabel(req.Status),
		Priority:        req.Priority,
		PriorityLabel:   models.PriorityLabel(req.Priority),
		Location:        req.Location,
		ContactInfo:     req.ContactInfo,
		EstimatedTime:   req.EstimatedTime,
		CreatedAt:       req.CreatedAt,
		CompletedAt:     req.CompletedAt,
	}

	if req.CategoryID != nil {
		cat, err := h.Categories.GetByID(ctx, *req.CategoryID)
		switch {
		case err == nil:
			d.CategoryName = cat.Name
		case !errors.Is(err, categorystore.ErrNotFound):
			return detailData{}, err
		}
	}

	events, err := h.Audit.History(ctx, req.ID)
	if err != nil {
		return detailData{}, err
	}

	ids := []primitive.ObjectID{req.RequesterID}
	if req.VolunteerID != nil {
		ids = append(ids, *req.VolunteerID)
	}
	for _, e := range events {
		if e.ActorID != nil {
			ids = append(ids, *e.ActorID)
		}
	}
	names, err := h.Users.NamesByIDs(ctx, ids)
	if err != nil {
		return detailData{}, err
	}

	d.RequesterName = names[req.RequesterID]
	if req.VolunteerID != nil {
		d.VolunteerName = names[*req.VolunteerID]
	}
	for _, e := range events {
		row := historyRow{When: e.Timestamp, Label: historyLabels[e.EventType]}
		if row.Label == "" {
			row.Label = e.EventType
		}
		if e.ActorID != nil {
			row.ActorName = names[*e.ActorID]
		}
		d.History = append(d.History, row)
	}
	return d, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /requests/{id}                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAction applies a lifecycle action and always returns to the
// detail page. Disallowed actions are silent no-ops.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, ok := h.loadRequest(ctx, w, r)
	if !ok {
		return
	}
	viewer := requestpolicy.FromRequest(r)
	if err := requestpolicy.RequireProfile(viewer); err != nil {
		h.deny(w, r, err, "/requests")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/requests/"+req.ID.Hex())
		return
	}
	decided := requestpolicy.Decide(requestpolicy.ParseAction(r.PostFormValue("action")), viewer, req)
	matched, err := h.apply(ctx, decided, req.ID, viewer.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "apply request action failed", err, "A database error occurred.", "/requests/"+req.ID.Hex())
		return
	}
	outcome := requestpolicy.Resolve(decided, matched)

	switch outcome {
	case requestpolicy.OutcomeClaim:
		h.AuditLog.RequestClaimed(ctx, r, viewer.UserID, req.ID)
	case requestpolicy.OutcomeComplete:
		h.AuditLog.RequestCompleted(ctx, r, viewer.UserID, req.ID)
	case requestpolicy.OutcomeCancel:
		h.AuditLog.RequestCancelled(ctx, r, viewer.UserID, req.ID, req.Status)
	}
	if decided != outcome {
		h.Log.Debug("request action lost a race",
			zap.String("request_id", req.ID.Hex()),
			zap.String("decided", decided.String()),
			zap.String("outcome", outcome.String()))
	}

	if n, ok := outcome.Notice(); ok {
		level := auth.FlashSuccess
		if n.Level == requestpolicy.NoticeError {
			level = auth.FlashError
		}
		h.SessionMgr.AddFlash(w, r, level, n.Text)
	}
	http.Redirect(w, r, "/requests/"+req.ID.Hex(), http.StatusSeeOther)
}

// apply runs the conditional update for a mutating outcome. matched is
// true for outcomes that write nothing.
func (h *Handler) apply(ctx context.Context, o requestpolicy.Outcome, id, actorID primitive.ObjectID) (bool, error) {
	switch o {
	case requestpolicy.OutcomeClaim:
		return h.Requests.Claim(ctx, id, actorID)
	case requestpolicy.OutcomeComplete:
		return h.Requests.Complete(ctx, id, actorID)
	case requestpolicy.OutcomeCancel:
		return h.Requests.Cancel(ctx, id, actorID)
	}
	return true, nil
}
