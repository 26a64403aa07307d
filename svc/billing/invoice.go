package billing

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// Terminal reports whether the orchestrator never moves an invoice out of s.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// IntegrationMercadoPago is the integration_type of invoices settled through Mercado Pago.
const IntegrationMercadoPago = "mercado-pago"

// IntegrationFree marks invoices that never reached a gateway.
const IntegrationFree = "free"

// StatusFromGateway maps a gateway payment status to an invoice status.
// Unknown values map to CANCELLED.
func StatusFromGateway(status string) Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved":
		return StatusPaid
	case "pending":
		return StatusPending
	case "rejected":
		return StatusRejected
	default:
		return StatusCancelled
	}
}

// Invoice is a billable record of one OrganizationPlan. AmountPaid and PaidAt
// are set exactly when Status is PAID.
type Invoice struct {
	ID                 string        `bson:"_id" json:"id"`
	OrganizationPlanID string        `bson:"organization_plan_id" json:"organization_plan_id"`
	OrganizationID     string        `bson:"organization_id" json:"organization_id"`
	IntegrationID      string        `bson:"integration_id" json:"integration_id"`
	IntegrationType    string        `bson:"integration_type" json:"integration_type"`
	PreferenceID       string        `bson:"preference_id,omitempty" json:"preference_id,omitempty"`
	InitPoint          string        `bson:"init_point,omitempty" json:"init_point,omitempty"`
	PreapprovalID      string        `bson:"preapproval_id,omitempty" json:"preapproval_id,omitempty"`
	Amount             float64       `bson:"amount" json:"amount"`
	AmountPaid         *float64      `bson:"amount_paid" json:"amount_paid"`
	PaidAt             *time.Time    `bson:"paid_at" json:"paid_at"`
	Status             Status        `bson:"status" json:"status"`
	Observations       []Observation `bson:"observations" json:"observations"`
	IsActive           bool          `bson:"is_active" json:"-"`
	CreatedAt          time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at" json:"updated_at"`
}

// StatusPatch is the change written by CompareAndSetStatus.
// PaidAt and AmountPaid are stored as given, nil clears them.
type StatusPatch struct {
	Status     Status
	PaidAt     *time.Time
	AmountPaid *float64
	Observe    *Observation
	UpdatedAt  time.Time
}

// Apply returns a copy of inv with the patch applied.
func (p StatusPatch) Apply(inv Invoice) Invoice {
	inv.Status = p.Status
	inv.PaidAt = p.PaidAt
	inv.AmountPaid = p.AmountPaid
	inv.UpdatedAt = p.UpdatedAt
	if p.Observe != nil {
		inv.Observations = append(append([]Observation(nil), inv.Observations...), *p.Observe)
	}
	return inv
}
