package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
// An empty Role means the user has no profile.
type TestUser struct {
	ID       string
	Name     string
	Username string
	Role     string
}

func newTestUser(name, username, role string) TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Name:     name,
		Username: username,
		Role:     role,
	}
}

// CommunityMemberUser returns a TestUser with the community member role.
func CommunityMemberUser() TestUser {
	return newTestUser("Test Member", "member", models.RoleCommunityMember)
}

// VolunteerUser returns a TestUser with the volunteer role.
func VolunteerUser() TestUser {
	return newTestUser("Test Volunteer", "volunteer", models.RoleVolunteer)
}

// NGOUser returns a TestUser with the NGO role.
func NGOUser() TestUser {
	return newTestUser("Test NGO", "ngo", models.RoleNGO)
}

// AdminUser returns a TestUser with the local administrator role.
func AdminUser() TestUser {
	return newTestUser("Test Admin", "admin", models.RoleAdmin)
}

// NoProfileUser returns a signed-in TestUser without a profile.
func NoProfileUser() TestUser {
	return newTestUser("Test Orphan", "orphan", "")
}

// UserFor returns a TestUser matching an existing user record.
func UserFor(u models.User, role string) TestUser {
	return TestUser{ID: u.ID.Hex(), Name: u.FullName(), Username: u.Username, Role: role}
}

// ObjectID returns the user's id as an ObjectID.
func (u TestUser) ObjectID() primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(u.ID)
	return oid
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:         user.ID,
		Name:       user.Name,
		Username:   user.Username,
		Role:       user.Role,
		HasProfile: user.Role != "",
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// NewFormRequest creates a form-encoded POST request with a user in context.
func NewFormRequest(target string, form url.Values, user TestUser) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithUser(req, user)
}

// NewAnonymousFormRequest creates a form-encoded POST request with no user.
func NewAnonymousFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// ServeIgnoringRender calls h and swallows a panic raised while rendering.
// The template engine is not booted in handler tests, so a render may fail;
// status codes, headers, redirects, and database effects written before the
// render are still observable.
func ServeIgnoringRender(h http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() {
		_ = recover()
	}()
	h(w, r)
}
