package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Indexes maps a collection name to the indexes it must carry.
type Indexes map[string][]mongo.IndexModel

// Merge combines index sets declared by different stores.
func Merge(sets ...Indexes) Indexes {
	out := Indexes{}
	for _, set := range sets {
		for coll, models := range set {
			out[coll] = append(out[coll], models...)
		}
	}
	return out
}

// EnsureIndexes creates every declared index. Existing identical indexes are left alone by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, indexes Indexes) error {
	for coll, models := range indexes {
		if len(models) == 0 {
			continue
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrIndexMigration, coll, err)
		}
	}
	return nil
}

// Active adds is_active=true to filter. Every read of a soft-deletable collection goes through it.
func Active(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter["is_active"] = true
	return filter
}
