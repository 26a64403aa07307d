package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/pedidoz/backoffice/pkg/validator"
)

// Feature keys consulted by order composition.
const (
	FeatureMaxTagsPerOrder          = "max_tags_per_order"
	FeatureMaxProductsPerOrder      = "max_products_per_order"
	FeatureMaxAdditionalsPerProduct = "max_additionals_per_product"
)

// Unlimited is the feature value meaning "no limit".
const Unlimited int64 = -1

// Plan is a purchasable subscription tier. Price is per month.
type Plan struct {
	ID          string    `bson:"_id" json:"id" yaml:"id"`
	Name        string    `bson:"name" json:"name" yaml:"name"`
	Description string    `bson:"description" json:"description" yaml:"description"`
	Price       float64   `bson:"price" json:"price" yaml:"price"`
	Months      int       `bson:"months,omitempty" json:"months,omitempty" yaml:"months"`
	Hidden      bool      `bson:"hidden" json:"hidden" yaml:"hidden"`
	IsActive    bool      `bson:"is_active" json:"-" yaml:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at" yaml:"-"`
}

// BillingMonths returns the months billed per cycle, at least 1.
func (p Plan) BillingMonths() int {
	if p.Months < 1 {
		return 1
	}
	return p.Months
}

// Free reports whether the plan costs nothing.
func (p Plan) Free() bool {
	return p.Price == 0
}

// Validate checks a plan before it enters a snapshot.
func (p Plan) Validate() error {
	return validator.Apply(
		validator.Required("id", p.ID),
		validator.Required("name", p.Name),
		validator.NonNegative("price", p.Price),
		validator.NonNegative("months", p.Months),
	)
}

// PlanFeature is one key/value entitlement of a plan. Value is kept as text;
// numeric limits are read with Limit.
type PlanFeature struct {
	ID              string  `bson:"_id" json:"id" yaml:"id"`
	PlanID          string  `bson:"plan_id" json:"plan_id" yaml:"-"`
	Name            string  `bson:"name" json:"name" yaml:"name"`
	Value           string  `bson:"value" json:"value" yaml:"value"`
	AdditionalPrice float64 `bson:"additional_price" json:"additional_price" yaml:"additional_price"`
	AllowAdditional bool    `bson:"allow_additional" json:"allow_additional" yaml:"allow_additional"`
	IsActive        bool    `bson:"is_active" json:"-" yaml:"-"`
}

// Limit parses Value as an integer limit. Empty, negative or non-numeric
// values mean Unlimited.
func (f PlanFeature) Limit() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 64)
	if err != nil || n < 0 {
		return Unlimited
	}
	return n
}

func (f PlanFeature) Validate() error {
	return validator.Apply(
		validator.Required("plan_id", f.PlanID),
		validator.Required("name", f.Name),
		validator.NonNegative("additional_price", f.AdditionalPrice),
	)
}
