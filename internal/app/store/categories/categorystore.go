// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/ksef/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateCategory is returned when the folded name is taken.
	ErrDuplicateCategory = errors.New("a category with this name already exists")
	// ErrNotFound is returned when no category has the given id.
	ErrNotFound = errors.New("category not found")
)

type Store struct {
	c        *mongo.Collection
	requests *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("categories"),
		requests: db.Collection("service_requests"),
	}
}

func (s *Store) Create(ctx context.Context, cat models.Category) (models.Category, error) {
	now := time.Now().UTC()
	cat.ID = primitive.NewObjectID()
	cat.Name = strings.TrimSpace(cat.Name)
	cat.NameCI = text.Fold(cat.Name)
	cat.CreatedAt = now
	cat.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cat); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, ErrDuplicateCategory
		}
		return models.Category{}, err
	}
	return cat, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var cat models.Category
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return models.Category{}, ErrNotFound
	}
	if err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// List returns every category ordered by folded name.
func (s *Store) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NamesByID returns category names keyed by id, for list rendering.
func (s *Store) NamesByID(ctx context.Context) (map[primitive.ObjectID]string, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]string, len(cats))
	for _, c := range cats {
		out[c.ID] = c.Name
	}
	return out, nil
}

// Update replaces a category's name, description, and icon and refreshes
// UpdatedAt. Returns ErrNotFound when id does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, cat models.Category) error {
	name := strings.TrimSpace(cat.Name)
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": cat.Description,
		"icon":        cat.Icon,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCategory
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete unsets category_id on every request that referenced the category
// and then removes it. Returns the number of categories deleted (0 or 1).
// Requests are detached first so a failure between the two writes never
// leaves a request pointing at a missing category.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, err := s.requests.UpdateMany(ctx,
		bson.M{"category_id": id},
		bson.M{
			"$unset": bson.M{"category_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// NameExistsForOther reports whether another category already uses name.
// Pass NilObjectID as excludeID when creating.
func (s *Store) NameExistsForOther(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"name_ci": text.Fold(strings.TrimSpace(name))}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Defaults is the starter catalog seeded on first start.
var Defaults = []models.Category{
	{Name: "Groceries & Errands", Description: "Shopping, pharmacy pickups, and other errands.", Icon: "cart"},
	{Name: "Elderly Support", Description: "Companionship and help for older residents.", Icon: "heart"},
	{Name: "Tutoring", Description: "Homework help and reading practice.", Icon: "book"},
	{Name: "Home Repairs", Description: "Small fixes around the house and garden.", Icon: "wrench"},
	{Name: "Transportation", Description: "Rides to appointments and community events.", Icon: "car"},
	{Name: "Community Cleanup", Description: "Neighbourhood and public-space cleanups.", Icon: "leaf"},
}

// EnsureDefaults inserts any of defs whose name is missing. Existing
// categories are left untouched. Returns how many were inserted.
func (s *Store) EnsureDefaults(ctx context.Context, defs []models.Category) (int, error) {
	inserted := 0
	now := time.Now().UTC()
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		res, err := s.c.UpdateOne(ctx,
			bson.M{"name_ci": text.Fold(name)},
			bson.M{"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID(),
				"name":        name,
				"name_ci":     text.Fold(name),
				"description": d.Description,
				"icon":        d.Icon,
				"created_at":  now,
				"updated_at":  now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return inserted, err
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}
