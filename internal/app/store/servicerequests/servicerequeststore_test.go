package servicerequeststore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/ksef/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	vol := primitive.NewObjectID()
	now := time.Now()
	created, err := store.Create(ctx, models.ServiceRequest{
		Title:       "Help moving boxes",
		Description: "Two flights of stairs",
		RequesterID: primitive.NewObjectID(),
		Status:      models.StatusCompleted,
		VolunteerID: &vol,
		CompletedAt: &now,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.StatusOpen {
		t.Errorf("expected status open, got %q", created.Status)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("expected priority medium, got %q", created.Priority)
	}
	if created.VolunteerID != nil {
		t.Error("expected volunteer to be cleared")
	}
	if created.CompletedAt != nil {
		t.Error("expected completed_at to be cleared")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Help moving boxes" {
		t.Errorf("unexpected title %q", got.Title)
	}
}

func TestStore_Create_KeepsPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.ServiceRequest{
		Title:       "Urgent ride",
		RequesterID: primitive.NewObjectID(),
		Priority:    models.PriorityUrgent,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Priority != models.PriorityUrgent {
		t.Errorf("expected urgent, got %q", created.Priority)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, servicerequeststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Find_NewestFirstWithLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	requester := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i, title := range []string{"first", "second", "third", "fourth"} {
		fx.CreateServiceRequest(ctx, title, requester, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}

	got, err := store.Find(ctx, servicerequeststore.Query{Limit: 3})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := []string{"fourth", "third", "second"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, w)
		}
	}

	page2, err := store.Find(ctx, servicerequeststore.Query{Limit: 3, Skip: 3})
	if err != nil {
		t.Fatalf("Find with skip failed: %v", err)
	}
	if len(page2) != 1 || page2[0].Title != "first" {
		t.Errorf("second page = %+v, want only \"first\"", page2)
	}
}

func TestStore_Find_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	vol := primitive.NewObjectID()
	errands := fx.CreateCategory(ctx, "Errands")

	fx.CreateServiceRequest(ctx, "Grocery run", alice, testutil.WithCategory(errands.ID))
	fx.CreateServiceRequest(ctx, "Fix fence", alice, testutil.WithDescription("The GARDEN fence is broken"))
	fx.CreateServiceRequest(ctx, "Garden weeding", bob, testutil.WithStatus(models.StatusAssigned), testutil.WithVolunteer(vol))
	fx.CreateServiceRequest(ctx, "Reading help", bob, testutil.WithStatus(models.StatusCompleted))

	tests := []struct {
		name  string
		query servicerequeststore.Query
		want  int
	}{
		{"all", servicerequeststore.Query{}, 4},
		{"by requester", servicerequeststore.Query{RequesterID: &alice}, 2},
		{"by volunteer", servicerequeststore.Query{VolunteerID: &vol}, 1},
		{"by category", servicerequeststore.Query{CategoryID: &errands.ID}, 1},
		{"by status", servicerequeststore.Query{Status: models.StatusOpen}, 2},
		{"search title or description", servicerequeststore.Query{Search: "garden"}, 2},
		{"search is literal", servicerequeststore.Query{Search: "gr.*"}, 0},
		{"combined", servicerequeststore.Query{RequesterID: &alice, Search: "garden"}, 1},
		{"no match", servicerequeststore.Query{NoMatch: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Find(ctx, tt.query)
			if err != nil {
				t.Fatalf("Find failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Find: expected %d, got %d", tt.want, len(got))
			}
			n, err := store.Count(ctx, tt.query)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != int64(tt.want) {
				t.Errorf("Count: expected %d, got %d", tt.want, n)
			}
		})
	}
}

func TestStore_Counters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := primitive.NewObjectID()
	fx.CreateServiceRequest(ctx, "a", r)
	fx.CreateServiceRequest(ctx, "b", r, testutil.WithStatus(models.StatusCompleted))
	fx.CreateServiceRequest(ctx, "c", r, testutil.WithStatus(models.StatusCompleted))

	total, err := store.CountAll(ctx)
	if err != nil || total != 3 {
		t.Errorf("CountAll = %d, %v; want 3", total, err)
	}
	done, err := store.CountByStatus(ctx, models.StatusCompleted)
	if err != nil || done != 2 {
		t.Errorf("CountByStatus = %d, %v; want 2", done, err)
	}
}

func TestStore_Claim_OnlyOneWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := fx.CreateServiceRequest(ctx, "Walk the dog", primitive.NewObjectID())

	const claimants = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []primitive.ObjectID
	)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vol := primitive.NewObjectID()
			ok, err := store.Claim(ctx, req.ID, vol)
			if err != nil {
				t.Errorf("Claim failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				wins = append(wins, vol)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(wins) != 1 {
		t.Fatalf("expected exactly one winning claim, got %d", len(wins))
	}
	got, err := store.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusAssigned {
		t.Errorf("expected assigned, got %q", got.Status)
	}
	if got.VolunteerID == nil || *got.VolunteerID != wins[0] {
		t.Error("expected volunteer to be the winning claimant")
	}
}

func TestStore_Complete_Once(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	vol := primitive.NewObjectID()
	req := fx.CreateServiceRequest(ctx, "Paint shed", primitive.NewObjectID(),
		testutil.WithStatus(models.StatusAssigned), testutil.WithVolunteer(vol))

	ok, err := store.Complete(ctx, req.ID, primitive.NewObjectID())
	if err != nil || ok {
		t.Errorf("Complete by stranger = %v, %v; want false", ok, err)
	}

	ok, err = store.Complete(ctx, req.ID, vol)
	if err != nil || !ok {
		t.Fatalf("Complete = %v, %v; want true", ok, err)
	}
	first, _ := store.GetByID(ctx, req.ID)
	if first.Status != models.StatusCompleted || first.CompletedAt == nil {
		t.Fatalf("expected completed with completed_at, got %+v", first)
	}

	time.Sleep(5 * time.Millisecond)
	ok, err = store.Complete(ctx, req.ID, vol)
	if err != nil || ok {
		t.Errorf("second Complete = %v, %v; want false", ok, err)
	}
	second, _ := store.GetByID(ctx, req.ID)
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Error("expected completed_at to be unchanged")
	}
}

func TestStore_Cancel_NoStatusGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := servicerequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	requester := primitive.NewObjectID()
	vol := primitive.NewObjectID()
	req := fx.CreateServiceRequest(ctx, "Tutor", requester,
		testutil.WithStatus(models.StatusAssigned), testutil.WithVolunteer(vol))
	if ok, _ := store.Complete(ctx, req.ID, vol); !ok {
		t.Fatal("setup: Complete did not match")
	}

	ok, err := store.Cancel(ctx, req.ID, primitive.NewObjectID())
	if err != nil || ok {
		t.Errorf("Cancel by stranger = %v, %v; want false", ok, err)
	}

	ok, err = store.Cancel(ctx, req.ID, requester)
	if err != nil || !ok {
		t.Fatalf("Cancel = %v, %v; want true", ok, err)
	}
	got, _ := store.GetByID(ctx, req.ID)
	if got.Status != models.StatusCancelled {
		t.Errorf("expected cancelled, got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at to be left in place")
	}
}
