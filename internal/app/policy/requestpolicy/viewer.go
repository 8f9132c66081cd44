package requestpolicy

import (
	"net/http"

	"github.com/dalemusser/ksef/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State classifies who is looking at a page.
type State int

const (
	// StateAnonymous is a visitor with no session.
	StateAnonymous State = iota
	// StateNoProfile is a signed-in user without a profile.
	StateNoProfile
	// StateRestricted sees only the requests they posted.
	StateRestricted
	// StatePrivileged sees every request.
	StatePrivileged
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateNoProfile:
		return "no_profile"
	case StateRestricted:
		return "restricted"
	case StatePrivileged:
		return "privileged"
	}
	return "unknown"
}

// Viewer is the actor every decision in this package takes.
// UserID and Role are zero for anonymous viewers; Role is empty for
// viewers without a profile.
type Viewer struct {
	State  State
	UserID primitive.ObjectID
	Role   string
}

// Anonymous returns the viewer for a visitor without a session.
func Anonymous() Viewer { return Viewer{State: StateAnonymous} }

// NewViewer classifies a signed-in user. hasProfile false yields the
// no-profile state regardless of role.
func NewViewer(userID primitive.ObjectID, role string, hasProfile bool) Viewer {
	if !hasProfile {
		return Viewer{State: StateNoProfile, UserID: userID}
	}
	st := StateRestricted
	if IsPrivileged(role) {
		st = StatePrivileged
	}
	return Viewer{State: st, UserID: userID, Role: role}
}

// FromRequest builds the Viewer for the session user on r. A session whose
// user id does not parse is treated as anonymous.
func FromRequest(r *http.Request) Viewer {
	role, _, id, ok := authz.UserCtx(r)
	if !ok {
		return Anonymous()
	}
	return NewViewer(id, role, authz.HasProfile(r))
}

// SignedIn reports whether the viewer has a session.
func (v Viewer) SignedIn() bool { return v.State != StateAnonymous }

// HasProfile reports whether the viewer is restricted or privileged.
func (v Viewer) HasProfile() bool {
	return v.State == StateRestricted || v.State == StatePrivileged
}

// Privileged reports whether the viewer sees every request.
func (v Viewer) Privileged() bool { return v.State == StatePrivileged }

// RoleDisplay returns the display name of the viewer's role.
func (v Viewer) RoleDisplay() string { return DisplayName(v.Role) }

// CanCreate reports whether the viewer may post new requests.
func (v Viewer) CanCreate() bool { return v.HasProfile() && CanCreateRole(v.Role) }

// CanClaim reports whether the viewer may volunteer for open requests.
func (v Viewer) CanClaim() bool { return v.HasProfile() && CanClaimRole(v.Role) }
