package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
)

const (
	plansCollection    = "plans"
	featuresCollection = "plan_features"
)

// MongoSource loads plans from the document store.
type MongoSource struct {
	plans    *mongo.Collection
	features *mongo.Collection
	timeout  time.Duration
}

func NewMongoSource(db *mongo.Database, timeout time.Duration) *MongoSource {
	return &MongoSource{
		plans:    db.Collection(plansCollection),
		features: db.Collection(featuresCollection),
		timeout:  timeout,
	}
}

// Indexes declares the unique (plan_id, name) feature index.
func Indexes() pmongo.Indexes {
	return pmongo.Indexes{
		featuresCollection: {
			{
				Keys:    bson.D{{Key: "plan_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("plan_feature_unique"),
			},
		},
	}
}

func (s *MongoSource) Load(ctx context.Context) ([]Plan, []PlanFeature, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var plans []Plan
	cur, err := s.plans.Find(ctx, pmongo.Active(nil), options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, nil, fmt.Errorf("catalog/mongo: find plans: %w", err)
	}
	if err := cur.All(ctx, &plans); err != nil {
		return nil, nil, fmt.Errorf("catalog/mongo: decode plans: %w", err)
	}

	var features []PlanFeature
	cur, err = s.features.Find(ctx, pmongo.Active(nil))
	if err != nil {
		return nil, nil, fmt.Errorf("catalog/mongo: find features: %w", err)
	}
	if err := cur.All(ctx, &features); err != nil {
		return nil, nil, fmt.Errorf("catalog/mongo: decode features: %w", err)
	}
	return plans, features, nil
}

// Seed upserts every plan and feature of src. Existing records are updated in
// place; created_at is only written on insert.
func (s *MongoSource) Seed(ctx context.Context, src Source, now time.Time) (int, error) {
	plans, features, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := NewSnapshot(plans, features, now); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	upsert := options.UpdateOne().SetUpsert(true)
	for _, p := range plans {
		_, err := s.plans.UpdateOne(ctx,
			bson.M{"_id": p.ID},
			bson.M{
				"$set": bson.M{
					"name":        p.Name,
					"description": p.Description,
					"price":       p.Price,
					"months":      p.BillingMonths(),
					"hidden":      p.Hidden,
					"is_active":   true,
				},
				"$setOnInsert": bson.M{"created_at": now},
			},
			upsert,
		)
		if err != nil {
			return 0, fmt.Errorf("catalog/mongo: upsert plan %s: %w", p.ID, err)
		}
	}
	for _, f := range features {
		_, err := s.features.UpdateOne(ctx,
			bson.M{"plan_id": f.PlanID, "name": f.Name},
			bson.M{
				"$set": bson.M{
					"value":            f.Value,
					"additional_price": f.AdditionalPrice,
					"allow_additional": f.AllowAdditional,
					"is_active":        true,
				},
				"$setOnInsert": bson.M{"_id": f.ID},
			},
			upsert,
		)
		if err != nil {
			return 0, fmt.Errorf("catalog/mongo: upsert feature %s/%s: %w", f.PlanID, f.Name, err)
		}
	}
	return len(plans), nil
}
