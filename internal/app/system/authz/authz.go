// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's profile role (lowercased), name, Mongo ObjectID,
// and a found flag. If no user is present in context or the user ID is
// malformed, it returns "visitor", "", NilObjectID, false. A signed-in user
// without a profile has an empty role.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// HasProfile reports whether the signed-in user has a profile.
func HasProfile(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.HasProfile
}

// IsAdmin reports whether the current request's user is a local administrator.
func IsAdmin(r *http.Request) bool {
	return HasProfile(r) && HasRole(r, models.RoleAdmin)
}
