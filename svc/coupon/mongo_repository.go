package coupon

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
)

const collection = "coupons"

// MongoRepository stores coupons in the "coupons" collection.
type MongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepository(db *mongo.Database, timeout time.Duration) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collection), timeout: timeout}
}

// Indexes declares the unique name index.
func Indexes() pmongo.Indexes {
	return pmongo.Indexes{
		collection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("coupon_name_unique"),
			},
		},
	}
}

func (r *MongoRepository) Create(ctx context.Context, c *Coupon) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if pmongo.IsDuplicateKey(err) {
			return ErrDuplicateCoupon
		}
		return fmt.Errorf("coupon/mongo: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Coupon, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetByName(ctx context.Context, name string) (*Coupon, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoRepository) SwapUsage(ctx context.Context, id string, prev, next int) (*Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var c Coupon
	err := r.coll.FindOneAndUpdate(ctx,
		pmongo.Active(bson.M{"_id": id, "usage_count": prev}),
		bson.M{"$set": bson.M{"usage_count": next}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if pmongo.IsNoDocuments(err) {
		// Either the coupon vanished or another writer got there first.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStaleUsage
	}
	if err != nil {
		return nil, fmt.Errorf("coupon/mongo: swap usage: %w", err)
	}
	return &c, nil
}

func (r *MongoRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, pmongo.Active(bson.M{"_id": id}), bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("coupon/mongo: soft delete: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var c Coupon
	err := r.coll.FindOne(ctx, pmongo.Active(filter)).Decode(&c)
	if pmongo.IsNoDocuments(err) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("coupon/mongo: find: %w", err)
	}
	return &c, nil
}
