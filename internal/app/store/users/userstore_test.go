package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/indexes"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/ksef/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Username:     "  Jane.Doe ",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Username != "Jane.Doe" {
		t.Errorf("expected trimmed username, got %q", created.Username)
	}
	if created.UsernameCI != "jane.doe" {
		t.Errorf("expected folded username, got %q", created.UsernameCI)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Username: "sam"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Username: "SAM"})
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_GetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "Kofi", FirstName: "Kofi"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByUsername(ctx, "KOFI")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID.Hex(), got.ID.Hex())
	}

	if _, err := store.GetByUsername(ctx, "nobody"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UsernameExistsAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Username: "temp"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ok, err := store.UsernameExists(ctx, "Temp"); err != nil || !ok {
		t.Fatalf("expected username to exist, got %v %v", ok, err)
	}

	n, err := store.Delete(ctx, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if ok, _ := store.UsernameExists(ctx, "temp"); ok {
		t.Error("expected username to be free after delete")
	}
}

func TestStore_NamesByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "ama", "Ama", "Owusu")
	b := fx.CreateUser(ctx, "ben", "", "")

	names, err := store.NamesByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("NamesByIDs failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[a.ID] != "Ama Owusu" {
		t.Errorf("unexpected name %q", names[a.ID])
	}
	if names[b.ID] != "ben" {
		t.Errorf("expected username fallback, got %q", names[b.ID])
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	f := userstore.NewFetcher(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	withProfile := fx.CreateUserWithRole(ctx, "vol", models.RoleVolunteer)
	orphan := fx.CreateUser(ctx, "orphan", "Or", "Phan")

	su := f.FetchUser(ctx, withProfile.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if !su.HasProfile || su.Role != models.RoleVolunteer {
		t.Errorf("unexpected session user %+v", su)
	}

	su = f.FetchUser(ctx, orphan.ID.Hex())
	if su == nil {
		t.Fatal("expected session user for orphan")
	}
	if su.HasProfile || su.Role != "" {
		t.Errorf("expected no profile, got %+v", su)
	}
	if su.Name != "Or Phan" {
		t.Errorf("unexpected name %q", su.Name)
	}

	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for missing user")
	}
	if f.FetchUser(ctx, "not-hex") != nil {
		t.Error("expected nil for malformed id")
	}
}
