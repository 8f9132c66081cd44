// internal/app/features/home/home.go
package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	model, err := h.feed(ctx, requestpolicy.FromRequest(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load home feed failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "home", homeData{
		BaseVM:    viewdata.NewBaseVM(w, r, h.Flash, "Welcome to "+viewdata.SiteName, "/"),
		feedModel: model,
	})
}

// feed loads the viewer's sample and the global counters. A viewer
// without a profile gets the anonymous feed.
func (h *Handler) feed(ctx context.Context, viewer requestpolicy.Viewer) (feedModel, error) {
	feed := requestpolicy.HomeFeedFor(viewer)
	m := feedModel{
		FeedLabel: feed.Label,
		CanCreate: viewer.CanCreate(),
	}

	counters, err := h.counters(ctx)
	if err != nil {
		return feedModel{}, err
	}
	m.Counters = counters

	if feed.Empty {
		return m, nil
	}
	reqs, err := h.Requests.Find(ctx, feed.Query)
	if err != nil {
		return feedModel{}, err
	}
	if m.Requests, err = h.Rows.Rows(ctx, reqs); err != nil {
		return feedModel{}, err
	}
	return m, nil
}

// counters loads the global figures. The headcount is volunteers only,
// not every privileged role.
func (h *Handler) counters(ctx context.Context) (Counters, error) {
	var c Counters
	var err error
	if c.TotalRequests, err = h.Requests.CountAll(ctx); err != nil {
		return Counters{}, err
	}
	if c.CompletedRequests, err = h.Requests.CountByStatus(ctx, models.StatusCompleted); err != nil {
		return Counters{}, err
	}
	if c.VolunteerHeadcount, err = h.Profiles.CountByRole(ctx, models.RoleVolunteer); err != nil {
		return Counters{}, err
	}
	return c, nil
}
