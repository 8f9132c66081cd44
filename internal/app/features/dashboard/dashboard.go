// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/features/shared"
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/requestid"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	viewer := requestpolicy.FromRequest(r)
	dash, err := requestpolicy.DashboardFor(viewer)
	if errors.Is(err, requestpolicy.ErrNoProfile) {
		requestid.Logger(r.Context(), h.Log).Warn("dashboard: user has no profile",
			zap.String("user_id", viewer.UserID.Hex()))
		h.SessionMgr.AddFlash(w, r, auth.FlashError, err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.load(ctx, dash)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load dashboard failed", err, "A database error occurred.", "/")
		return
	}
	p.CanCreate = viewer.CanCreate()

	templates.Render(w, r, "dashboard", dashboardData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Dashboard", "/"),
		panels: p,
	})
}

func (h *Handler) load(ctx context.Context, dash requestpolicy.Dashboard) (panels, error) {
	p := panels{Privileged: dash.Privileged}
	var err error
	if dash.Privileged {
		if p.Assignments, err = h.rows(ctx, dash.Assignments); err != nil {
			return panels{}, err
		}
		if p.Available, err = h.rows(ctx, dash.Available); err != nil {
			return panels{}, err
		}
		return p, nil
	}
	if p.MyRequests, err = h.rows(ctx, dash.MyRequests); err != nil {
		return panels{}, err
	}
	return p, nil
}

func (h *Handler) rows(ctx context.Context, q servicerequeststore.Query) ([]shared.RequestRow, error) {
	reqs, err := h.Requests.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return h.Rows.Rows(ctx, reqs)
}
