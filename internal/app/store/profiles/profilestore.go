// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ksef/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrProfileExists is returned when the user already has a profile.
	ErrProfileExists = errors.New("this user already has a profile")
	// ErrNoProfile is returned when the user has no profile.
	ErrNoProfile = errors.New("profile not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts the profile for p.UserID. There is no update path: a
// profile's role is fixed once created.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrProfileExists
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByUserID returns the profile for userID, or ErrNoProfile.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, ErrNoProfile
	}
	if err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// CountByRole returns the number of profiles with exactly role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}
