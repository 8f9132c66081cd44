package validators_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/ksef/internal/app/system/validators"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/ksef/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*testutil.Fixtures, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return testutil.NewFixtures(t, db), ctx
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	fx, ctx := setup(t)

	names, err := fx.DB().ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "profiles", "categories", "service_requests", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestProfilesValidator(t *testing.T) {
	fx, ctx := setup(t)

	tests := []struct {
		name    string
		role    string
		wantErr bool
	}{
		{"community member", models.RoleCommunityMember, false},
		{"volunteer", models.RoleVolunteer, false},
		{"ngo", models.RoleNGO, false},
		{"admin", models.RoleAdmin, false},
		{"unknown role", "superadmin", true},
		{"empty role", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.DB().Collection("profiles").InsertOne(ctx, bson.M{
				"user_id":    primitive.NewObjectID(),
				"role":       tt.role,
				"created_at": time.Now().UTC(),
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("insert role %q: err=%v, wantErr=%v", tt.role, err, tt.wantErr)
			}
		})
	}
}

func TestServiceRequestsValidator(t *testing.T) {
	fx, ctx := setup(t)

	valid := func() bson.M {
		return bson.M{
			"title":        "Fix the roof",
			"title_ci":     "fix the roof",
			"description":  "Leaks when it rains",
			"requester_id": primitive.NewObjectID(),
			"status":       models.StatusOpen,
			"priority":     models.PriorityMedium,
			"created_at":   time.Now().UTC(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr bool
	}{
		{"valid", func(bson.M) {}, false},
		{"null volunteer", func(d bson.M) { d["volunteer_id"] = nil }, false},
		{"unknown status", func(d bson.M) { d["status"] = "archived" }, true},
		{"unknown priority", func(d bson.M) { d["priority"] = "critical" }, true},
		{"blank title", func(d bson.M) { d["title"] = "   " }, true},
		{"missing requester", func(d bson.M) { delete(d, "requester_id") }, true},
		{"string volunteer id", func(d bson.M) { d["volunteer_id"] = "abc" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)
			_, err := fx.DB().Collection("service_requests").InsertOne(ctx, doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestFixturesSatisfyValidators(t *testing.T) {
	fx, ctx := setup(t)

	// Each fixture helper fails the test on an insert error.
	member := fx.CreateUserWithRole(ctx, "member", models.RoleCommunityMember)
	vol := fx.CreateUserWithRole(ctx, "vol", models.RoleVolunteer)
	cat := fx.CreateCategory(ctx, "Plumbing")
	fx.CreateServiceRequest(ctx, "Leaky tap", member.ID,
		testutil.WithCategory(cat.ID),
		testutil.WithStatus(models.StatusCompleted),
		testutil.WithVolunteer(vol.ID),
		testutil.WithCompletedAt(time.Now().UTC()))
}
