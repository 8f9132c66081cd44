package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testUserID returns a valid ObjectID hex string for tests.
func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	role, name, id, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a user")
	}
	if role != "visitor" || name != "" || !id.IsZero() {
		t.Errorf("unexpected values: %q %q %v", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "bad", Role: "admin", HasProfile: true})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed user id")
	}
}

func TestUserCtx_LowercasesRole(t *testing.T) {
	id := testUserID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: id, Name: "Ada", Role: "Volunteer", HasProfile: true})

	role, name, oid, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "volunteer" {
		t.Errorf("expected lowercased role, got %q", role)
	}
	if name != "Ada" {
		t.Errorf("expected name Ada, got %q", name)
	}
	if oid.Hex() != id {
		t.Errorf("expected id %s, got %s", id, oid.Hex())
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"admin", &auth.SessionUser{ID: testUserID(), Role: "admin", HasProfile: true}, true},
		{"ngo", &auth.SessionUser{ID: testUserID(), Role: "ngo", HasProfile: true}, false},
		{"community member", &auth.SessionUser{ID: testUserID(), Role: "community_member", HasProfile: true}, false},
		{"no profile", &auth.SessionUser{ID: testUserID()}, false},
		{"no user", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if got := authz.IsAdmin(req); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: "ngo", HasProfile: true})

	if !authz.HasAnyRole(req, "volunteer", " NGO ") {
		t.Error("expected ngo to match")
	}
	if authz.HasAnyRole(req, "admin") {
		t.Error("expected admin not to match")
	}
	if role, ok := authz.Role(req); !ok || role != "ngo" {
		t.Errorf("Role() = %q, %v", role, ok)
	}
}

func TestHasAnyRole_NoProfileNeverMatches(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID()})

	if authz.HasAnyRole(req, "", "admin") {
		t.Error("a user without a profile must not match any role")
	}
}
