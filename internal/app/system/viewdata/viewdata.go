// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the layout header and page titles.
const SiteName = "KSEF"

// FlashSource yields the one-shot messages queued for this request.
// *auth.SessionManager satisfies it.
type FlashSource interface {
	PopFlashes(w http.ResponseWriter, r *http.Request) []auth.Flash
}

// BaseVM holds the fields every page template reads.
// Embed it in feature view models.
//
//	data := detailData{BaseVM: viewdata.NewBaseVM(w, r, h.Flash, "Request", "/requests")}
type BaseVM struct {
	SiteName string

	IsLoggedIn  bool
	HasProfile  bool
	IsAdmin     bool
	Role        string
	RoleDisplay string
	UserName    string

	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string
	Flashes   []auth.Flash
}

// NewBaseVM fills BaseVM from the request. flashes may be nil.
func NewBaseVM(w http.ResponseWriter, r *http.Request, flashes FlashSource, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.HasProfile = u.HasProfile
		vm.Role = u.Role
		vm.UserName = u.Name
		if u.HasProfile {
			vm.RoleDisplay = requestpolicy.DisplayName(u.Role)
			vm.IsAdmin = authz.IsAdmin(r)
		}
	}
	if flashes != nil {
		vm.Flashes = flashes.PopFlashes(w, r)
	}
	return vm
}
