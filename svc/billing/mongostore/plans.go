package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
	"github.com/pedidoz/backoffice/svc/billing"
)

// PlanLedger stores organization plans in "organization_plans".
type PlanLedger struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ billing.PlanLedger = (*PlanLedger)(nil)

// NewPlanLedger bounds every call by timeout.
func NewPlanLedger(db *mongo.Database, timeout time.Duration) *PlanLedger {
	return &PlanLedger{coll: db.Collection(plansCollection), timeout: timeout}
}

func (l *PlanLedger) Create(ctx context.Context, p *billing.OrganizationPlan) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if _, err := l.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("billing/mongo: insert plan: %w", err)
	}
	return nil
}

func (l *PlanLedger) Get(ctx context.Context, id string) (*billing.OrganizationPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var p billing.OrganizationPlan
	err := l.coll.FindOne(ctx, pmongo.Active(bson.M{"_id": id})).Decode(&p)
	if pmongo.IsNoDocuments(err) {
		return nil, fmt.Errorf("%w: %s", billing.ErrOrganizationPlanNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("billing/mongo: get plan: %w", err)
	}
	return &p, nil
}

// SearchActivePlan returns the plan covering at, preferring the latest start.
func (l *PlanLedger) SearchActivePlan(ctx context.Context, organizationID string, at time.Time) (*billing.OrganizationPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var p billing.OrganizationPlan
	err := l.coll.FindOne(ctx,
		pmongo.Active(bson.M{
			"organization_id": organizationID,
			"start_date":      bson.M{"$lte": at},
			"end_date":        bson.M{"$gt": at},
		}),
		options.FindOne().SetSort(bson.D{{Key: "start_date", Value: -1}}),
	).Decode(&p)
	if pmongo.IsNoDocuments(err) {
		return nil, billing.ErrNoActivePlan
	}
	if err != nil {
		return nil, fmt.Errorf("billing/mongo: search active plan: %w", err)
	}
	return &p, nil
}

// CheckIfPeriodIsAvailable returns the active plans overlapping start..end.
func (l *PlanLedger) CheckIfPeriodIsAvailable(ctx context.Context, organizationID string, start, end time.Time) ([]billing.OrganizationPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cur, err := l.coll.Find(ctx,
		pmongo.Active(bson.M{
			"organization_id": organizationID,
			"start_date":      bson.M{"$lt": end},
			"end_date":        bson.M{"$gt": start},
		}),
		options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("billing/mongo: find overlapping plans: %w", err)
	}
	var plans []billing.OrganizationPlan
	if err := cur.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("billing/mongo: decode plans: %w", err)
	}
	return plans, nil
}

// TruncateEnd only matches plans ending after end, so concurrent writers keep
// the earliest date. The pipeline deactivates a plan left with an empty interval.
func (l *PlanLedger) TruncateEnd(ctx context.Context, id string, end time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := l.coll.UpdateOne(ctx, truncateFilter(id, end), truncatePipeline(end))
	if err != nil {
		return false, fmt.Errorf("billing/mongo: truncate plan: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func truncateFilter(id string, end time.Time) bson.M {
	return pmongo.Active(bson.M{"_id": id, "end_date": bson.M{"$gt": end}})
}

// truncatePipeline runs its stages in order: is_active is computed from the
// end_date the first stage wrote.
func truncatePipeline(end time.Time) bson.A {
	return bson.A{
		bson.M{"$set": bson.M{"end_date": end, "updated_at": "$$NOW"}},
		bson.M{"$set": bson.M{"is_active": bson.M{"$gt": bson.A{"$end_date", "$start_date"}}}},
	}
}
