package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/ksef/internal/app/system/auth"
	"go.uber.org/zap"
)

// TestSessionKey is a 32+ character signing key for test session managers.
const TestSessionKey = "test-only-session-key-0123456789abcdef"

// NewSessionManager returns an insecure (http) session manager for tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(TestSessionKey, "ksef-test", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

// FollowCookies returns a GET request to target carrying the cookies the
// response set, as a browser following a redirect would. When a cookie was
// set more than once the last value wins.
func FollowCookies(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	last := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := last[c.Name]; !seen {
			order = append(order, c.Name)
		}
		last[c.Name] = c
	}
	for _, name := range order {
		req.AddCookie(last[name])
	}
	return req
}

// Flashes returns the flash messages the response queued in its session.
func Flashes(sm *auth.SessionManager, rec *httptest.ResponseRecorder) []auth.Flash {
	return sm.PopFlashes(httptest.NewRecorder(), FollowCookies(rec, "/"))
}

// SignedInUserID returns the user id stored in the response's session, or
// "" when the session is not authenticated.
func SignedInUserID(sm *auth.SessionManager, rec *httptest.ResponseRecorder) string {
	var id string
	probe := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			id = u.ID
		}
	}))
	probe.ServeHTTP(httptest.NewRecorder(), FollowCookies(rec, "/"))
	return id
}
