package notification

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
)

const collection = "notifications"

// MongoRepository stores notifications in the "notifications" collection.
type MongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ Repository = (*MongoRepository)(nil)

func NewMongoRepository(db *mongo.Database, timeout time.Duration) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collection), timeout: timeout}
}

// Indexes declares the dedup lookup index and the per-user listing index.
func Indexes() pmongo.Indexes {
	return pmongo.Indexes{
		collection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "notification_type", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("notification_dedup"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("notification_inbox"),
			},
		},
	}
}

func (r *MongoRepository) Create(ctx context.Context, n *Notification) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("notification/mongo: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, userID, id string) (*Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n Notification
	err := r.coll.FindOne(ctx, pmongo.Active(bson.M{"_id": id, "user_id": userID})).Decode(&n)
	if pmongo.IsNoDocuments(err) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("notification/mongo: find: %w", err)
	}
	return &n, nil
}

func (r *MongoRepository) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if opts.OnlyUnread {
		filter["read"] = false
	}
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}

	cur, err := r.coll.Find(ctx, pmongo.Active(filter), find)
	if err != nil {
		return nil, fmt.Errorf("notification/mongo: list: %w", err)
	}
	out := []Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("notification/mongo: decode: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) ExistsRecent(ctx context.Context, userID, notificationType string, since time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id":           userID,
		"notification_type": notificationType,
		"created_at":        bson.M{"$gt": since},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("notification/mongo: exists recent: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) MarkRead(ctx context.Context, userID string, at time.Time, ids ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		pmongo.Active(bson.M{"_id": bson.M{"$in": ids}, "user_id": userID, "read": false}),
		bson.M{"$set": bson.M{"read": true, "read_at": at}})
	if err != nil {
		return fmt.Errorf("notification/mongo: mark read: %w", err)
	}
	return nil
}

func (r *MongoRepository) SoftDelete(ctx context.Context, userID string, ids ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "user_id": userID},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("notification/mongo: soft delete: %w", err)
	}
	return nil
}
