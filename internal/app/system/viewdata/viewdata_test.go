package viewdata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/ksef/internal/domain/models"
)

type fakeFlashes []auth.Flash

func (f fakeFlashes) PopFlashes(http.ResponseWriter, *http.Request) []auth.Flash { return f }

func TestNewBaseVM_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/requests", nil)
	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, nil, "Requests", "/")

	if vm.SiteName != viewdata.SiteName {
		t.Errorf("SiteName = %q", vm.SiteName)
	}
	if vm.IsLoggedIn || vm.HasProfile || vm.IsAdmin {
		t.Errorf("expected anonymous view, got %+v", vm)
	}
	if vm.Title != "Requests" || vm.CurrentPath != "/requests" {
		t.Errorf("unexpected page fields %+v", vm)
	}
}

func TestNewBaseVM_SignedInWithRole(t *testing.T) {
	r := httptest.NewRequest("GET", "/dashboard", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "x", Name: "Vera V", Role: models.RoleVolunteer, HasProfile: true})
	flashes := fakeFlashes{{Level: auth.FlashSuccess, Text: "Done"}}

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, flashes, "Dashboard", "/")

	if !vm.IsLoggedIn || !vm.HasProfile {
		t.Fatalf("expected signed-in profile view, got %+v", vm)
	}
	if vm.RoleDisplay != "Youth Volunteer" {
		t.Errorf("RoleDisplay = %q", vm.RoleDisplay)
	}
	if vm.IsAdmin {
		t.Error("volunteer should not be admin")
	}
	if len(vm.Flashes) != 1 || vm.Flashes[0].Text != "Done" {
		t.Errorf("Flashes = %+v", vm.Flashes)
	}
}

func TestNewBaseVM_NoProfile(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "x", Name: "Orphan"})

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, nil, "Home", "/")
	if !vm.IsLoggedIn || vm.HasProfile || vm.RoleDisplay != "" {
		t.Errorf("unexpected view %+v", vm)
	}
}

func TestNewBaseVM_Admin(t *testing.T) {
	r := httptest.NewRequest("GET", "/categories", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "x", Role: models.RoleAdmin, HasProfile: true})

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, nil, "Categories", "/")
	if !vm.IsAdmin || vm.RoleDisplay != "Local Administrator" {
		t.Errorf("unexpected view %+v", vm)
	}
}
