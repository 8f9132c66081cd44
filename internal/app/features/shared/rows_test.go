package shared_test

import (
	"context"
	"testing"

	"github.com/dalemusser/ksef/internal/app/features/shared"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/ksef/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRows_ResolvesNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	requester := fixtures.CreateUser(ctx, "rita", "Rita", "Requester")
	volunteer := fixtures.CreateUser(ctx, "vic", "Vic", "Volunteer")

	cats := categorystore.New(db)
	cat, err := cats.Create(ctx, models.Category{Name: "Tutoring"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	gone := primitive.NewObjectID()

	reqs := []models.ServiceRequest{
		{ID: primitive.NewObjectID(), Title: "Math help", CategoryID: &cat.ID, RequesterID: requester.ID, VolunteerID: &volunteer.ID, Status: models.StatusAssigned, Priority: models.PriorityHigh},
		{ID: primitive.NewObjectID(), Title: "Orphaned", CategoryID: &gone, RequesterID: requester.ID, Status: models.StatusOpen, Priority: models.PriorityLow},
	}

	b := shared.RowBuilder{Categories: cats, Users: userstore.New(db)}
	rows, err := b.Rows(ctx, reqs)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Title != "Math help" || first.CategoryName != "Tutoring" {
		t.Errorf("first row: got %+v", first)
	}
	if first.RequesterName != "Rita Requester" || first.VolunteerName != "Vic Volunteer" {
		t.Errorf("names: got requester %q volunteer %q", first.RequesterName, first.VolunteerName)
	}
	if first.StatusLabel != "Assigned" || first.PriorityLabel != "High" {
		t.Errorf("labels: got %q %q", first.StatusLabel, first.PriorityLabel)
	}
	if rows[1].CategoryName != "" {
		t.Errorf("deleted category should have no name, got %q", rows[1].CategoryName)
	}
}

func TestRows_Empty(t *testing.T) {
	b := shared.RowBuilder{}
	rows, err := b.Rows(context.Background(), nil)
	if err != nil || rows != nil {
		t.Errorf("Rows(nil) = %v, %v; want nil, nil", rows, err)
	}
}
