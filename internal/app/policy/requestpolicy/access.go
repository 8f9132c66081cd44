package requestpolicy

import (
	"errors"
	"strings"

	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	"github.com/dalemusser/ksef/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sample sizes for the home and dashboard feeds.
const (
	HomeSampleSize     = 6
	DashboardOpenLimit = 10
)

// User-facing denial messages. Each error's text is shown as-is.
const (
	MsgNoProfile      = "Your account does not have a profile. Please contact a local administrator."
	MsgCreateDenied   = "Only community members can post service requests."
	MsgViewDenied     = "You do not have permission to view this request."
	MsgSignInRequired = "Please sign in to continue."
)

var (
	// ErrNoProfile means the viewer is signed in but has no profile.
	ErrNoProfile = errors.New(MsgNoProfile)
	// ErrCreateDenied means the viewer's role may not post requests.
	ErrCreateDenied = errors.New(MsgCreateDenied)
	// ErrViewDenied means the viewer may not see the request.
	ErrViewDenied = errors.New(MsgViewDenied)
	// ErrSignedOut means the decision needs a signed-in viewer.
	ErrSignedOut = errors.New(MsgSignInRequired)
)

// RequireProfile fails with ErrSignedOut or ErrNoProfile for viewers that
// cannot act on requests.
func RequireProfile(v Viewer) error {
	switch v.State {
	case StateAnonymous:
		return ErrSignedOut
	case StateNoProfile:
		return ErrNoProfile
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Home feed                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// HomeFeed describes the request sample shown on the landing page.
// When Empty is true no requests are loaded.
type HomeFeed struct {
	Label string
	Empty bool
	Query servicerequeststore.Query
}

// HomeFeedFor returns the sample the viewer sees on the landing page.
// Viewers without a profile get the anonymous feed.
func HomeFeedFor(v Viewer) HomeFeed {
	switch v.State {
	case StatePrivileged:
		return HomeFeed{
			Label: "Recent Open Requests",
			Query: servicerequeststore.Query{Status: models.StatusOpen, Limit: HomeSampleSize},
		}
	case StateRestricted:
		id := v.UserID
		return HomeFeed{
			Label: "My Recent Requests",
			Query: servicerequeststore.Query{RequesterID: &id, Limit: HomeSampleSize},
		}
	}
	return HomeFeed{Label: "Recent Community Requests", Empty: true}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Dashboard                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Dashboard describes the queries backing the dashboard page.
// Privileged viewers get Assignments and Available; restricted viewers
// get MyRequests.
type Dashboard struct {
	Privileged  bool
	Assignments servicerequeststore.Query
	Available   servicerequeststore.Query
	MyRequests  servicerequeststore.Query
}

// DashboardFor returns the dashboard queries for v, or ErrNoProfile /
// ErrSignedOut when v has no profile.
func DashboardFor(v Viewer) (Dashboard, error) {
	if err := RequireProfile(v); err != nil {
		return Dashboard{}, err
	}
	id := v.UserID
	if v.Privileged() {
		return Dashboard{
			Privileged:  true,
			Assignments: servicerequeststore.Query{VolunteerID: &id},
			Available:   servicerequeststore.Query{Status: models.StatusOpen, Limit: DashboardOpenLimit},
		}, nil
	}
	return Dashboard{MyRequests: servicerequeststore.Query{RequesterID: &id}}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Create                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// AuthorizeCreate allows only viewers whose role may post requests.
func AuthorizeCreate(v Viewer) error {
	if err := RequireProfile(v); err != nil {
		return err
	}
	if !CanCreateRole(v.Role) {
		return ErrCreateDenied
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Listing                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Filters are the raw listing filters taken from the query string.
type Filters struct {
	Category string
	Status   string
	Search   string
}

// Listing is the scoped query and page labels for the request list.
type Listing struct {
	Title  string
	Banner string
	Query  servicerequeststore.Query
}

// ListingFor scopes the request list to v and narrows it by f.
// A category that is not a valid id or a status that is not known still
// narrows the list, so it matches nothing.
func ListingFor(v Viewer, f Filters) (Listing, error) {
	if err := RequireProfile(v); err != nil {
		return Listing{}, err
	}

	var l Listing
	if v.Privileged() {
		l.Title = "All Community Service Requests"
		l.Banner = "You are viewing all community service requests as a " + v.RoleDisplay() + "."
	} else {
		id := v.UserID
		l.Query.RequesterID = &id
		l.Title = "My Service Requests"
		l.Banner = "You are viewing your own service requests."
	}

	if c := strings.TrimSpace(f.Category); c != "" {
		oid, err := primitive.ObjectIDFromHex(c)
		if err != nil {
			l.Query.NoMatch = true
		} else {
			l.Query.CategoryID = &oid
		}
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		l.Query.Status = s
		if !models.IsValidStatus(s) {
			l.Query.NoMatch = true
		}
	}
	l.Query.Search = strings.TrimSpace(f.Search)
	return l, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Detail                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// AuthorizeView allows privileged viewers and the request's requester.
func AuthorizeView(v Viewer, req models.ServiceRequest) error {
	if err := RequireProfile(v); err != nil {
		return err
	}
	if v.Privileged() || req.RequesterID == v.UserID {
		return nil
	}
	return ErrViewDenied
}
