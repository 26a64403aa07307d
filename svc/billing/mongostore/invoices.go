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

// InvoiceLedger stores invoices in "invoices".
type InvoiceLedger struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ billing.InvoiceLedger = (*InvoiceLedger)(nil)

// NewInvoiceLedger bounds every call by timeout.
func NewInvoiceLedger(db *mongo.Database, timeout time.Duration) *InvoiceLedger {
	return &InvoiceLedger{coll: db.Collection(invoicesCollection), timeout: timeout}
}

func (l *InvoiceLedger) Create(ctx context.Context, inv *billing.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	doc := *inv
	if doc.Observations == nil {
		doc.Observations = []billing.Observation{}
	}
	if _, err := l.coll.InsertOne(ctx, &doc); err != nil {
		if pmongo.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", billing.ErrDuplicateIntegration, inv.IntegrationID)
		}
		return fmt.Errorf("billing/mongo: insert invoice: %w", err)
	}
	return nil
}

func (l *InvoiceLedger) Get(ctx context.Context, id string) (*billing.Invoice, error) {
	return l.findOne(ctx, bson.M{"_id": id}, nil, billing.ErrInvoiceNotFound)
}

func (l *InvoiceLedger) FindByIntegration(ctx context.Context, integrationType, integrationID string) (*billing.Invoice, error) {
	return l.findOne(ctx,
		bson.M{"integration_type": integrationType, "integration_id": integrationID},
		nil, billing.ErrInvoiceNotFound)
}

// LatestPaid sorts by paid_at so a late webhook cannot shadow a newer payment.
func (l *InvoiceLedger) LatestPaid(ctx context.Context, organizationPlanID string) (*billing.Invoice, error) {
	return l.findOne(ctx,
		bson.M{"organization_plan_id": organizationPlanID, "status": billing.StatusPaid},
		bson.D{{Key: "paid_at", Value: -1}},
		billing.ErrNoPaidInvoice)
}

func (l *InvoiceLedger) ListByOrganizationPlan(ctx context.Context, organizationPlanID string) ([]billing.Invoice, error) {
	return l.find(ctx, bson.M{"organization_plan_id": organizationPlanID})
}

func (l *InvoiceLedger) ListPendingOlderThan(ctx context.Context, t time.Time) ([]billing.Invoice, error) {
	return l.find(ctx, bson.M{"status": billing.StatusPending, "created_at": bson.M{"$lt": t}})
}

// CompareAndSetStatus tells a lost race (ErrStatusConflict) from a missing
// invoice by reading it back.
func (l *InvoiceLedger) CompareAndSetStatus(ctx context.Context, id string, from billing.Status, patch billing.StatusPatch) (*billing.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var inv billing.Invoice
	err := l.coll.FindOneAndUpdate(ctx,
		statusFilter(id, from),
		statusUpdate(patch),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&inv)
	if pmongo.IsNoDocuments(err) {
		if _, getErr := l.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: %s", billing.ErrStatusConflict, id)
	}
	if err != nil {
		return nil, fmt.Errorf("billing/mongo: set invoice status: %w", err)
	}
	return &inv, nil
}

// SetPreapproval overwrites any earlier agreement id.
func (l *InvoiceLedger) SetPreapproval(ctx context.Context, id, preapprovalID string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := l.coll.UpdateOne(ctx,
		pmongo.Active(bson.M{"_id": id}),
		bson.M{"$set": bson.M{"preapproval_id": preapprovalID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("billing/mongo: set preapproval: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", billing.ErrInvoiceNotFound, id)
	}
	return nil
}

// statusFilter matches the invoice only while it still holds from.
func statusFilter(id string, from billing.Status) bson.M {
	return pmongo.Active(bson.M{"_id": id, "status": from})
}

func statusUpdate(patch billing.StatusPatch) bson.M {
	update := bson.M{
		"$set": bson.M{
			"status":      patch.Status,
			"paid_at":     patch.PaidAt,
			"amount_paid": patch.AmountPaid,
			"updated_at":  patch.UpdatedAt,
		},
	}
	if patch.Observe != nil {
		update["$push"] = bson.M{"observations": patch.Observe}
	}
	return update
}

func (l *InvoiceLedger) findOne(ctx context.Context, filter bson.M, sort bson.D, notFound error) (*billing.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	opts := options.FindOne()
	if sort != nil {
		opts.SetSort(sort)
	}
	var inv billing.Invoice
	err := l.coll.FindOne(ctx, pmongo.Active(filter), opts).Decode(&inv)
	if pmongo.IsNoDocuments(err) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("billing/mongo: find invoice: %w", err)
	}
	return &inv, nil
}

func (l *InvoiceLedger) find(ctx context.Context, filter bson.M) ([]billing.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cur, err := l.coll.Find(ctx, pmongo.Active(filter),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("billing/mongo: find invoices: %w", err)
	}
	var out []billing.Invoice
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("billing/mongo: decode invoices: %w", err)
	}
	return out, nil
}
