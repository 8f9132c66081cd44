// internal/app/store/servicerequests/servicerequeststore.go
package servicerequeststore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no service request has the given id.
var ErrNotFound = errors.New("service request not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("service_requests")}
}

// Query describes a filtered, newest-first read of service requests.
// Zero-valued fields do not filter. All set fields are AND-combined.
type Query struct {
	RequesterID *primitive.ObjectID
	VolunteerID *primitive.ObjectID
	CategoryID  *primitive.ObjectID
	Status      string
	Search      string // case-insensitive substring of title or description
	Limit       int64  // 0 means no limit
	Skip        int64  // offset into the newest-first order

	// NoMatch short-circuits the query to an empty result. It is set when a
	// filter value can never match (for example a malformed category id).
	NoMatch bool
}

// Filter builds the Mongo filter for q.
func (q Query) Filter() bson.M {
	f := bson.M{}
	if q.RequesterID != nil {
		f["requester_id"] = *q.RequesterID
	}
	if q.VolunteerID != nil {
		f["volunteer_id"] = *q.VolunteerID
	}
	if q.CategoryID != nil {
		f["category_id"] = *q.CategoryID
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		f["$or"] = []bson.M{
			{"title": re},
			{"description": re},
		}
	}
	return f
}

// newestFirst is the default ordering; _id breaks created_at ties.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts a new request. Status defaults to open and priority to
// medium; VolunteerID and CompletedAt are always cleared.
func (s *Store) Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.TitleCI = text.Fold(req.Title)
	req.Status = models.StatusOpen
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	req.VolunteerID = nil
	req.CompletedAt = nil
	req.CreatedAt = now
	req.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.ServiceRequest{}, err
	}
	return req, nil
}

// GetByID loads one request. Returns ErrNotFound when it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return models.ServiceRequest{}, ErrNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, err
	}
	return req, nil
}

// Find returns the requests matching q, newest first.
func (s *Store) Find(ctx context.Context, q Query) ([]models.ServiceRequest, error) {
	if q.NoMatch {
		return nil, nil
	}
	find := options.Find().SetSort(newestFirst)
	if q.Limit > 0 {
		find.SetLimit(q.Limit)
	}
	if q.Skip > 0 {
		find.SetSkip(q.Skip)
	}
	cur, err := s.c.Find(ctx, q.Filter(), find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of requests matching q (Limit and Skip are ignored).
func (s *Store) Count(ctx context.Context, q Query) (int64, error) {
	if q.NoMatch {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, q.Filter())
}

// CountAll returns the total number of requests.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of requests in the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Lifecycle transitions                                                       |
|                                                                             |
| Each transition is a single conditional update whose filter restates the    |
| precondition, so concurrent submissions cannot both succeed. The returned   |
| bool reports whether the document matched.                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Claim assigns an open request to volunteerID.
func (s *Store) Claim(ctx context.Context, id, volunteerID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusOpen},
		bson.M{"$set": bson.M{
			"status":       models.StatusAssigned,
			"volunteer_id": volunteerID,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Complete marks a request completed when volunteerID is its volunteer.
// An already completed request is left untouched so completed_at is
// written exactly once.
func (s *Store) Complete(ctx context.Context, id, volunteerID primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":          id,
			"volunteer_id": volunteerID,
			"status":       bson.M{"$ne": models.StatusCompleted},
		},
		bson.M{"$set": bson.M{
			"status":       models.StatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Cancel marks a request cancelled when requesterID posted it. There is no
// status guard and completed_at is not cleared.
func (s *Store) Cancel(ctx context.Context, id, requesterID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "requester_id": requesterID},
		bson.M{"$set": bson.M{
			"status":     models.StatusCancelled,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
