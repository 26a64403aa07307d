package billing

import "time"

// ObservationKind tags an Observation.
type ObservationKind string

const (
	ObservationDiscount ObservationKind = "discount"
	ObservationCredit   ObservationKind = "credit"
	ObservationAudit    ObservationKind = "audit"
)

// Observation is a fact recorded on an invoice. Kind selects which fields are set:
//
//	discount: Amount, CouponID
//	credit:   Amount
//	audit:    DeletedAt, DeletedBy
//
// Build values with the constructors and read them back with the accessors.
type Observation struct {
	Kind      ObservationKind `bson:"kind" json:"kind"`
	Amount    float64         `bson:"amount,omitempty" json:"amount,omitempty"`
	CouponID  string          `bson:"coupon_id,omitempty" json:"coupon_id,omitempty"`
	DeletedAt *time.Time      `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletedBy string          `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`
}

// Discount is a coupon applied to an invoice.
type Discount struct {
	Amount   float64
	CouponID string
}

// Credit is the unused share of a previous plan carried into an invoice.
type Credit struct {
	Amount float64
}

// Audit records who cancelled an invoice and when.
type Audit struct {
	DeletedAt time.Time
	DeletedBy string
}

// DiscountObservation records amount taken off by couponID.
func DiscountObservation(amount float64, couponID string) Observation {
	return Observation{Kind: ObservationDiscount, Amount: amount, CouponID: couponID}
}

func CreditObservation(amount float64) Observation {
	return Observation{Kind: ObservationCredit, Amount: amount}
}

// AuditObservation records a cancellation made by user by at time at.
func AuditObservation(at time.Time, by string) Observation {
	return Observation{Kind: ObservationAudit, DeletedAt: &at, DeletedBy: by}
}

// Discount returns the observation as a Discount when it is one.
func (o Observation) Discount() (Discount, bool) {
	if o.Kind != ObservationDiscount {
		return Discount{}, false
	}
	return Discount{Amount: o.Amount, CouponID: o.CouponID}, true
}

func (o Observation) Credit() (Credit, bool) {
	if o.Kind != ObservationCredit {
		return Credit{}, false
	}
	return Credit{Amount: o.Amount}, true
}

func (o Observation) Audit() (Audit, bool) {
	if o.Kind != ObservationAudit || o.DeletedAt == nil {
		return Audit{}, false
	}
	return Audit{DeletedAt: *o.DeletedAt, DeletedBy: o.DeletedBy}, true
}
