package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user without a profile. The password hash is a
// placeholder; tests that sign in should hash their own.
func (f *Fixtures) CreateUser(ctx context.Context, username, first, last string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		FirstName:    first,
		LastName:     last,
		Email:        strings.ToLower(username) + "@test.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProfile attaches a profile with role to userID.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, role string) models.Profile {
	f.t.Helper()

	p := models.Profile{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateUserWithRole inserts a user and a profile with role.
func (f *Fixtures) CreateUserWithRole(ctx context.Context, username, role string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, username, "Test", strings.ToUpper(username[:1])+username[1:])
	f.CreateProfile(ctx, u.ID, role)
	return u
}

// CreateCategory inserts a category with the given name.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("categories").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

// RequestOption customizes a fixture service request.
type RequestOption func(*models.ServiceRequest)

// WithStatus sets the request status.
func WithStatus(status string) RequestOption {
	return func(r *models.ServiceRequest) { r.Status = status }
}

// WithVolunteer assigns the request to volunteerID.
func WithVolunteer(volunteerID primitive.ObjectID) RequestOption {
	return func(r *models.ServiceRequest) { r.VolunteerID = &volunteerID }
}

// WithCategory sets the request category.
func WithCategory(categoryID primitive.ObjectID) RequestOption {
	return func(r *models.ServiceRequest) { r.CategoryID = &categoryID }
}

// WithCreatedAt sets created_at (and updated_at).
func WithCreatedAt(ts time.Time) RequestOption {
	return func(r *models.ServiceRequest) {
		r.CreatedAt = ts
		r.UpdatedAt = ts
	}
}

// WithCompletedAt sets completed_at.
func WithCompletedAt(ts time.Time) RequestOption {
	return func(r *models.ServiceRequest) { r.CompletedAt = &ts }
}

// WithDescription sets the description.
func WithDescription(d string) RequestOption {
	return func(r *models.ServiceRequest) { r.Description = d }
}

// CreateServiceRequest inserts an open, medium-priority request posted by
// requesterID, then applies opts.
func (f *Fixtures) CreateServiceRequest(ctx context.Context, title string, requesterID primitive.ObjectID, opts ...RequestOption) models.ServiceRequest {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.ServiceRequest{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "Test description for " + title,
		RequesterID: requesterID,
		Status:      models.StatusOpen,
		Priority:    models.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, o := range opts {
		o(&r)
	}
	if _, err := f.db.Collection("service_requests").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test service request: %v", err)
	}
	return r
}
