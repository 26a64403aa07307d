package organization

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
)

const membersCollection = "organization_users"

// MongoDirectory reads memberships from "organization_users".
type MongoDirectory struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoDirectory(db *mongo.Database, timeout time.Duration) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection(membersCollection), timeout: timeout}
}

func Indexes() pmongo.Indexes {
	return pmongo.Indexes{
		membersCollection: {
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("organization_user_unique"),
			},
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "role", Value: 1}},
				Options: options.Index().SetName("organization_role"),
			},
		},
	}
}

func (d *MongoDirectory) Owner(ctx context.Context, organizationID string) (*Member, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var m Member
	err := d.coll.FindOne(ctx,
		pmongo.Active(bson.M{"organization_id": organizationID, "role": RoleOwner}),
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}),
	).Decode(&m)
	if pmongo.IsNoDocuments(err) {
		return nil, fmt.Errorf("%w: %s", ErrOwnerNotFound, organizationID)
	}
	if err != nil {
		return nil, fmt.Errorf("organization/mongo: find owner: %w", err)
	}
	return &m, nil
}
