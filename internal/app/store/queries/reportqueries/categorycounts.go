// Package reportqueries holds read-only aggregations that span collections
// or summarize many documents at once.
package reportqueries

import (
	"context"

	"github.com/dalemusser/ksef/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CategoryCounts is the request tally for one category.
type CategoryCounts struct {
	Total int64
	Open  int64
}

// CountRequestsPerCategory tallies service requests by category_id in one
// aggregation. Requests without a category are not counted; categories with
// no requests are absent from the map.
func CountRequestsPerCategory(ctx context.Context, db *mongo.Database) (map[primitive.ObjectID]CategoryCounts, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"category_id": bson.M{"$type": "objectId"}}},
		{"$group": bson.M{
			"_id":   "$category_id",
			"total": bson.M{"$sum": 1},
			"open": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusOpen}}, 1, 0},
			}},
		}},
	}

	cur, err := db.Collection("service_requests").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	result := make(map[primitive.ObjectID]CategoryCounts)
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Total int64              `bson:"total"`
			Open  int64              `bson:"open"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = CategoryCounts{Total: row.Total, Open: row.Open}
	}
	return result, cur.Err()
}
