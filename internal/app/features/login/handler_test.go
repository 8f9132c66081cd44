package login_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/features/login"
	"github.com/dalemusser/ksef/internal/app/store/audit"
	"github.com/dalemusser/ksef/internal/app/system/auditlog"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/ratelimit"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/ksef/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	h    *login.Handler
	sm   *auth.SessionManager
	db   *mongo.Database
	user models.User
}

func newEnv(t *testing.T, limiter *ratelimit.LoginLimiter) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUserWithRole(ctx, "Thandi", models.RoleCommunityMember)
	setPassword(t, ctx, db, u, "s3cret-pass")

	logger := zap.NewNop()
	sm := testutil.NewSessionManager(t)
	al := auditlog.New(audit.New(db), logger, auditlog.Config{})
	h := login.NewHandler(db, sm, limiter, al, uierrors.NewErrorLogger(logger), logger)
	return env{h: h, sm: sm, db: db, user: u}
}

func setPassword(t *testing.T, ctx context.Context, db *mongo.Database, u models.User, pw string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"password_hash": string(hash)}}); err != nil {
		t.Fatalf("set password: %v", err)
	}
}

func post(e env, form url.Values) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	testutil.ServeIgnoringRender(e.h.HandleLoginPost, rec, testutil.NewAnonymousFormRequest("/login", form))
	return rec
}

func auditEvents(t *testing.T, db *mongo.Database, eventType string) []audit.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: eventType})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	return events
}

func TestHandleLoginPost_Success(t *testing.T) {
	e := newEnv(t, nil)

	rec := post(e, url.Values{"username": {"thandi"}, "password": {"s3cret-pass"}})

	rec.AssertRedirect(t, "/dashboard")
	if got := testutil.SignedInUserID(e.sm, rec.ResponseRecorder); got != e.user.ID.Hex() {
		t.Errorf("signed-in user: got %q, want %q", got, e.user.ID.Hex())
	}
	if n := len(auditEvents(t, e.db, audit.EventLoginSuccess)); n != 1 {
		t.Errorf("expected 1 login_success event, got %d", n)
	}
}

func TestHandleLoginPost_ReturnURL(t *testing.T) {
	e := newEnv(t, nil)

	tests := []struct {
		name string
		ret  string
		want string
	}{
		{"local path", "/requests/new", "/requests/new"},
		{"absolute url rejected", "https://evil.example/steal", "/dashboard"},
		{"empty", "", "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(e, url.Values{"username": {"Thandi"}, "password": {"s3cret-pass"}, "return": {tt.ret}})
			rec.AssertRedirect(t, tt.want)
		})
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	e := newEnv(t, nil)

	rec := post(e, url.Values{"username": {"thandi"}, "password": {"nope"}})

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("expected form re-render, got redirect to %q", loc)
	}
	if got := testutil.SignedInUserID(e.sm, rec.ResponseRecorder); got != "" {
		t.Errorf("should not be signed in, got %q", got)
	}
	if n := len(auditEvents(t, e.db, audit.EventLoginFailedWrongPassword)); n != 1 {
		t.Errorf("expected 1 wrong-password event, got %d", n)
	}
}

func TestHandleLoginPost_UnknownUser(t *testing.T) {
	e := newEnv(t, nil)

	rec := post(e, url.Values{"username": {"ghost"}, "password": {"whatever"}})

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("expected form re-render, got redirect to %q", loc)
	}
	if n := len(auditEvents(t, e.db, audit.EventLoginFailedUserNotFound)); n != 1 {
		t.Errorf("expected 1 user-not-found event, got %d", n)
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(100, 2, time.Minute)
	t.Cleanup(limiter.Stop)
	e := newEnv(t, limiter)

	for i := 0; i < 2; i++ {
		post(e, url.Values{"username": {"thandi"}, "password": {"wrong"}})
	}
	rec := post(e, url.Values{"username": {"thandi"}, "password": {"s3cret-pass"}})

	rec.AssertStatus(t, http.StatusTooManyRequests)
	if got := testutil.SignedInUserID(e.sm, rec.ResponseRecorder); got != "" {
		t.Errorf("rate-limited login should not sign in, got %q", got)
	}
	events := auditEvents(t, e.db, audit.EventLoginFailedRateLimit)
	if len(events) != 1 {
		t.Fatalf("expected 1 rate-limit event, got %d", len(events))
	}
	if got := events[0].Details["limit_type"]; got != ratelimit.LimitUsername {
		t.Errorf("limit_type: got %q, want %q", got, ratelimit.LimitUsername)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	e := newEnv(t, nil)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/login", testutil.CommunityMemberUser())
	rec := testutil.NewRecorder()

	e.h.ServeLogin(rec, req)

	rec.AssertRedirect(t, "/dashboard")
}
