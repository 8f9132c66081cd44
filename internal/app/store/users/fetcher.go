// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// It joins the user with their profile so role changes and deleted accounts
// take effect immediately.
type Fetcher struct {
	users    *mongo.Collection
	profiles *mongo.Collection
	log      *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		users:    db.Collection("users"),
		profiles: db.Collection("profiles"),
		log:      logger,
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found
// or the lookup fails. A user without a profile is returned with
// HasProfile=false and an empty role.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":        1,
		"username":   1,
		"first_name": 1,
		"last_name":  1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err != mongo.ErrNoDocuments {
			f.log.Warn("session user lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	su := &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName(),
		Username: u.Username,
	}

	var p models.Profile
	err = f.profiles.FindOne(ctx, bson.M{"user_id": oid}, options.FindOne().SetProjection(bson.M{"role": 1})).Decode(&p)
	switch {
	case err == nil:
		su.Role = p.Role
		su.HasProfile = true
	case err != mongo.ErrNoDocuments:
		// Treat as no profile; handlers then fall back to the home page.
		f.log.Warn("session profile lookup failed", zap.String("user_id", userID), zap.Error(err))
	}

	return su
}
