package coupon

import (
	"time"

	"github.com/pedidoz/backoffice/pkg/money"
)

// Coupon is a discount code. Name is stored upper-cased and is unique.
type Coupon struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Value      float64   `bson:"value" json:"value"`
	IsPercent  bool      `bson:"is_percent" json:"is_percent"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expires_at"`
	Limit      int       `bson:"limit" json:"limit"`
	UsageCount int       `bson:"usage_count" json:"usage_count"`
	IsActive   bool      `bson:"is_active" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// CalculateDiscount returns the discount granted on price. The result is never
// negative and never above price.
func (c Coupon) CalculateDiscount(price float64) float64 {
	if price == 0 {
		return 0
	}
	var discount float64
	if c.IsPercent {
		discount = money.Percent(price, c.Value)
	} else {
		discount = money.Round2(c.Value)
	}
	discount = money.NonNegative(discount)
	if discount > price {
		return money.Round2(price)
	}
	return discount
}

// Expired reports whether the coupon can no longer be used at now.
func (c Coupon) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Remaining returns how many uses are left.
func (c Coupon) Remaining() int {
	return max(c.Limit-c.UsageCount, 0)
}
