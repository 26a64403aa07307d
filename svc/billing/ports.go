package billing

import (
	"context"
	"time"

	"github.com/pedidoz/backoffice/svc/catalog"
	"github.com/pedidoz/backoffice/svc/organization"
)

// PlanLedger stores the organization plan timeline. Reads skip inactive records.
type PlanLedger interface {
	Create(ctx context.Context, p *OrganizationPlan) error
	Get(ctx context.Context, id string) (*OrganizationPlan, error)

	// SearchActivePlan returns the plan with start <= at < end. When several
	// match, the latest start wins. Returns ErrNoActivePlan when none does.
	SearchActivePlan(ctx context.Context, organizationID string, at time.Time) (*OrganizationPlan, error)

	// CheckIfPeriodIsAvailable returns every plan overlapping [start, end),
	// ordered by start date.
	CheckIfPeriodIsAvailable(ctx context.Context, organizationID string, start, end time.Time) ([]OrganizationPlan, error)

	// TruncateEnd sets end_date to min(end_date, end). A plan left with an empty
	// interval is deactivated. Reports whether the record changed.
	TruncateEnd(ctx context.Context, id string, end time.Time) (bool, error)
}

// InvoiceLedger stores invoices. (integration_type, integration_id) is unique.
type InvoiceLedger interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	FindByIntegration(ctx context.Context, integrationType, integrationID string) (*Invoice, error)
	ListByOrganizationPlan(ctx context.Context, organizationPlanID string) ([]Invoice, error)

	// LatestPaid returns the most recently paid invoice of a plan or ErrNoPaidInvoice.
	LatestPaid(ctx context.Context, organizationPlanID string) (*Invoice, error)

	// CompareAndSetStatus applies patch when the stored status equals from.
	// Returns ErrStatusConflict otherwise.
	CompareAndSetStatus(ctx context.Context, id string, from Status, patch StatusPatch) (*Invoice, error)

	// ListPendingOlderThan returns PENDING invoices created before t.
	ListPendingOlderThan(ctx context.Context, t time.Time) ([]Invoice, error)

	// SetPreapproval records the recurring agreement that pays the invoice.
	SetPreapproval(ctx context.Context, id, preapprovalID string) error
}

// UserInfo identifies the payer on the checkout page.
type UserInfo struct {
	Email   string
	Name    string
	BackURL string
}

// PreferenceRequest is a one-off checkout for Price less Discount.
type PreferenceRequest struct {
	Reason   string
	Price    float64
	Discount float64
	User     UserInfo
}

// Preference is a checkout created on the gateway.
type Preference struct {
	ID                string
	ExternalReference string
	InitPoint         string
}

// Payment is a gateway payment as reported by its webhook.
type Payment struct {
	ID                string
	Status            string
	ExternalReference string
}

// AuthorizedPayment is a recurring charge of a gateway pre-approval.
// AuthorizedPayment is one charge of a recurring agreement. PreapprovalID is
// the agreement CancelSubscription stops.
type AuthorizedPayment struct {
	ID            string
	PreferenceID  string
	PreapprovalID string
	Payment       PaymentSummary
}

type PaymentSummary struct {
	ID     string
	Status string
}

// Gateway is the outbound payment provider.
type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPreference(ctx context.Context, id string) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	GetAuthorizedPayment(ctx context.Context, id string) (*AuthorizedPayment, error)
	CancelSubscription(ctx context.Context, preapprovalID string) error
}

// PlanCatalog looks plans up. *catalog.Catalog implements it.
type PlanCatalog interface {
	Plan(ctx context.Context, id string) (catalog.Plan, error)
	Features(ctx context.Context, planID string) []catalog.PlanFeature
}

// CouponRedeemer uses a coupon once and returns the discount it grants on
// price. Release undoes one Redeem.
type CouponRedeemer interface {
	Redeem(ctx context.Context, couponID string, price float64) (float64, error)
	Release(ctx context.Context, couponID string) error
}

// Membership resolves the organization owner.
type Membership interface {
	Owner(ctx context.Context, organizationID string) (*organization.Member, error)
}

// PurchaseConfirmed is the content of the confirmation email.
type PurchaseConfirmed struct {
	Owner   organization.Member
	Plan    catalog.Plan
	Invoice Invoice
}

// Mailer sends the purchase confirmation to the organization owner.
type Mailer interface {
	SendPurchaseConfirmed(ctx context.Context, msg PurchaseConfirmed) error
}

// Locker serialises subscription changes per organization. TryLock does not
// wait: acquired is false while another caller holds key.
// *redis.Locker implements it across processes.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(context.Context), acquired bool, err error)
}
