package dashboard

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/ksef/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T, logger *zap.Logger) (*Handler, *auth.SessionManager, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sm := testutil.NewSessionManager(t)
	return NewHandler(db, sm, uierrors.NewErrorLogger(logger), logger), sm, testutil.NewFixtures(t, db)
}

func TestServeDashboard_NoProfileRedirectsHome(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h, sm, _ := newTestHandler(t, zap.New(core))

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.NoProfileUser())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, req)

	rec.AssertRedirect(t, "/")
	flashes := testutil.Flashes(sm, rec.ResponseRecorder)
	if len(flashes) != 1 || flashes[0].Level != auth.FlashError || flashes[0].Text != requestpolicy.MsgNoProfile {
		t.Errorf("unexpected flashes %+v", flashes)
	}
	if logs.FilterMessage("dashboard: user has no profile").Len() != 1 {
		t.Error("expected a warning for the missing profile")
	}
}

func TestLoad_Volunteer(t *testing.T) {
	h, _, fx := newTestHandler(t, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fx.CreateUserWithRole(ctx, "member", models.RoleCommunityMember)
	vol := fx.CreateUserWithRole(ctx, "vol", models.RoleVolunteer)
	other := fx.CreateUserWithRole(ctx, "other", models.RoleVolunteer)

	fx.CreateServiceRequest(ctx, "mine assigned", member.ID, testutil.WithStatus(models.StatusAssigned), testutil.WithVolunteer(vol.ID))
	fx.CreateServiceRequest(ctx, "mine done", member.ID, testutil.WithStatus(models.StatusCompleted), testutil.WithVolunteer(vol.ID))
	fx.CreateServiceRequest(ctx, "theirs", member.ID, testutil.WithStatus(models.StatusAssigned), testutil.WithVolunteer(other.ID))
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		fx.CreateServiceRequest(ctx, "open", member.ID, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}

	dash, err := requestpolicy.DashboardFor(requestpolicy.NewViewer(vol.ID, models.RoleVolunteer, true))
	if err != nil {
		t.Fatalf("DashboardFor: %v", err)
	}
	p, err := h.load(ctx, dash)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !p.Privileged {
		t.Error("volunteer dashboard should be privileged")
	}
	if len(p.Assignments) != 2 {
		t.Errorf("assignments: got %d, want 2", len(p.Assignments))
	}
	if len(p.Available) != requestpolicy.DashboardOpenLimit {
		t.Errorf("available: got %d, want %d", len(p.Available), requestpolicy.DashboardOpenLimit)
	}
	if len(p.MyRequests) != 0 {
		t.Errorf("privileged dashboard should not list own requests, got %d", len(p.MyRequests))
	}
}

func TestLoad_CommunityMember(t *testing.T) {
	h, _, fx := newTestHandler(t, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUserWithRole(ctx, "me", models.RoleCommunityMember)
	other := fx.CreateUserWithRole(ctx, "other", models.RoleCommunityMember)
	fx.CreateServiceRequest(ctx, "a", me.ID)
	fx.CreateServiceRequest(ctx, "b", me.ID, testutil.WithStatus(models.StatusCancelled))
	fx.CreateServiceRequest(ctx, "c", other.ID)

	dash, err := requestpolicy.DashboardFor(requestpolicy.NewViewer(me.ID, models.RoleCommunityMember, true))
	if err != nil {
		t.Fatalf("DashboardFor: %v", err)
	}
	p, err := h.load(ctx, dash)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Privileged || len(p.MyRequests) != 2 {
		t.Errorf("expected 2 own requests, got privileged=%v count=%d", p.Privileged, len(p.MyRequests))
	}
}
