package order

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
	ordersCollection      = "orders"
	productsCollection    = "products"
	additionalsCollection = "product_additionals"
	itemsCollection       = "additional_items"
)

// Indexes declares the lookup indexes of orders and the product catalog.
func Indexes() pmongo.Indexes {
	return pmongo.Indexes{
		ordersCollection: {
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "order_date", Value: -1}},
				Options: options.Index().SetName("order_org_date"),
			},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "organization_id", Value: 1}}, Options: options.Index().SetName("product_org")},
		},
		additionalsCollection: {
			{
				Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "position", Value: 1}},
				Options: options.Index().SetName("additional_product_position"),
			},
		},
		itemsCollection: {
			{Keys: bson.D{{Key: "additional_id", Value: 1}}, Options: options.Index().SetName("item_additional")},
		},
	}
}

// MongoCatalog reads products and add-ons from the document store.
type MongoCatalog struct {
	products    *mongo.Collection
	additionals *mongo.Collection
	items       *mongo.Collection
	timeout     time.Duration
}

func NewMongoCatalog(db *mongo.Database, timeout time.Duration) *MongoCatalog {
	return &MongoCatalog{
		products:    db.Collection(productsCollection),
		additionals: db.Collection(additionalsCollection),
		items:       db.Collection(itemsCollection),
		timeout:     timeout,
	}
}

func (c *MongoCatalog) GetProduct(ctx context.Context, organizationID, productID string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var p Product
	err := c.products.FindOne(ctx, pmongo.Active(bson.M{"_id": productID, "organization_id": organizationID})).Decode(&p)
	if pmongo.IsNoDocuments(err) {
		return nil, ErrProductUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("order/mongo: find product: %w", err)
	}
	return &p, nil
}

func (c *MongoCatalog) ListAdditionals(ctx context.Context, productID string) ([]ProductAdditional, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cur, err := c.additionals.Find(ctx,
		pmongo.Active(bson.M{"product_id": productID}),
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("order/mongo: find additionals: %w", err)
	}
	var out []ProductAdditional
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("order/mongo: decode additionals: %w", err)
	}
	return out, nil
}

func (c *MongoCatalog) GetAdditionalItem(ctx context.Context, itemID string) (*AdditionalItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var i AdditionalItem
	err := c.items.FindOne(ctx, pmongo.Active(bson.M{"_id": itemID})).Decode(&i)
	if pmongo.IsNoDocuments(err) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order/mongo: find item: %w", err)
	}
	return &i, nil
}

// MongoRepository stores orders in the "orders" collection.
type MongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepository(db *mongo.Database, timeout time.Duration) *MongoRepository {
	return &MongoRepository{coll: db.Collection(ordersCollection), timeout: timeout}
}

func (r *MongoRepository) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("order/mongo: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, organizationID, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o Order
	err := r.coll.FindOne(ctx, pmongo.Active(bson.M{"_id": id, "organization_id": organizationID})).Decode(&o)
	if pmongo.IsNoDocuments(err) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order/mongo: find: %w", err)
	}
	return &o, nil
}

func (r *MongoRepository) List(ctx context.Context, organizationID string, filter ListFilter) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := bson.M{"organization_id": organizationID}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	date := bson.M{}
	if !filter.From.IsZero() {
		date["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		date["$lt"] = filter.To
	}
	if len(date) > 0 {
		q["order_date"] = date
	}

	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.coll.Find(ctx, pmongo.Active(q), opts)
	if err != nil {
		return nil, fmt.Errorf("order/mongo: list: %w", err)
	}
	var out []Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("order/mongo: decode: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) SetStatus(ctx context.Context, organizationID, id string, from, to Status, at time.Time) (*Order, error) {
	filter := bson.M{"_id": id, "organization_id": organizationID, "status": from}
	o, err := r.update(ctx, filter, bson.M{"$set": bson.M{"status": to, "updated_at": at}})
	if pmongo.IsNoDocuments(err) {
		if _, getErr := r.Get(ctx, organizationID, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusChanged
	}
	return o, err
}

func (r *MongoRepository) AddPayment(ctx context.Context, organizationID, id string, p Payment, status PaymentStatus, at time.Time) (*Order, error) {
	o, err := r.update(ctx,
		bson.M{"_id": id, "organization_id": organizationID},
		bson.M{
			"$push": bson.M{"payments": p},
			"$set":  bson.M{"payment_status": status, "updated_at": at},
		})
	if pmongo.IsNoDocuments(err) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *MongoRepository) SoftDelete(ctx context.Context, organizationID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		pmongo.Active(bson.M{"_id": id, "organization_id": organizationID}),
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("order/mongo: soft delete: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *MongoRepository) update(ctx context.Context, filter, update bson.M) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var o Order
	err := r.coll.FindOneAndUpdate(ctx, pmongo.Active(filter), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&o)
	if err != nil {
		if pmongo.IsNoDocuments(err) {
			return nil, err
		}
		return nil, fmt.Errorf("order/mongo: update: %w", err)
	}
	return &o, nil
}

var (
	_ Catalog    = (*MongoCatalog)(nil)
	_ Repository = (*MongoRepository)(nil)
)
