// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/ksef/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called from the EnsureSchema hook. Each ensure* function is
idempotent. Problems are aggregated so startup fails with the full list.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"profiles", ensureProfiles},
		{"categories", ensureCategories},
		{"service_requests", ensureServiceRequests},
		{"audit_events", ensureAuditEvents},
	}

	var problems []string
	for _, s := range steps {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// DocumentDB and older servers report IndexOptionsConflict when the same
// keys already exist under another name.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// recreate drops old and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, old string, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	_, err := coll.Indexes().CreateOne(ctx, m)
	return err
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		isUnique := unique != nil && *unique
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique),
		}

		fail := func(err error) {
			if isDuplicateKeyErr(err) && isUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
		}

		ex, found := listIndexes(ctx, coll)[sig]
		switch {
		case found && sameBoolPtr(unique, ex.Unique) && (name == "" || ex.Name == name):
			zap.L().Debug("reusing existing index", fields...)
			continue
		case found:
			// Name or uniqueness differs: replace it.
			if err := recreate(ctx, coll, ex.Name, m); err != nil {
				fail(err)
				continue
			}
			zap.L().Info("index recreated", append(fields, zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))...)
			continue
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if !isOptionsConflictErr(err) {
				fail(err)
				continue
			}
			// Lost a race with another process or the server matched on options.
			ex, found := listIndexes(ctx, coll)[sig]
			if found && sameBoolPtr(unique, ex.Unique) {
				continue
			}
			if found {
				if err := recreate(ctx, coll, ex.Name, m); err != nil {
					fail(err)
				}
				continue
			}
			fail(err)
			continue
		}
		zap.L().Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Usernames are unique after folding case and diacritics.
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_usernameci"),
		},
	})
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("profiles"), []mongo.IndexModel{
		// One profile per user.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_profiles_user"),
		},
		// Volunteer headcount on the home page.
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_profiles_role"),
		},
	})
}

func ensureCategories(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("categories"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_categories_nameci"),
		},
	})
}

func ensureServiceRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("service_requests"), []mongo.IndexModel{
		// Default listing order (privileged "all" view).
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_requests_created_id"),
		},
		// Open feed on home and dashboard, status filter.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_requests_status_created"),
		},
		// "My requests" for community members.
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_requests_requester_created"),
		},
		// "My assignments" for volunteers.
		{
			Keys:    bson.D{{Key: "volunteer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_requests_volunteer_created"),
		},
		// Category filter and category delete.
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}},
			Options: options.Index().SetName("idx_requests_category"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return audit.New(db).EnsureIndexes(ctx)
}
