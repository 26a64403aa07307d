package order

import (
	"time"

	"github.com/pedidoz/backoffice/pkg/validator"
)

// SelectionType controls how the items of an add-on group are picked.
type SelectionType string

const (
	// SelectionRadio allows one item, once.
	SelectionRadio    SelectionType = "RADIO"
	SelectionCheckbox SelectionType = "CHECKBOX"
	// SelectionNumber allows any quantity of each item within the group bounds.
	SelectionNumber SelectionType = "NUMBER"
)

// Product is a catalog item an order line refers to.
type Product struct {
	ID             string    `bson:"_id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	Name           string    `bson:"name" json:"name"`
	UnitPrice      float64   `bson:"unit_price" json:"unit_price"`
	UnitCost       float64   `bson:"unit_cost" json:"unit_cost"`
	Kind           string    `bson:"kind" json:"kind"`
	Tags           []string  `bson:"tags" json:"tags"`
	IsActive       bool      `bson:"is_active" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

func (p Product) Validate() error {
	return validator.Apply(
		validator.Required("name", p.Name),
		validator.NonNegative("unit_price", p.UnitPrice),
		validator.NonNegative("unit_cost", p.UnitCost),
	)
}

// ProductAdditional is an add-on group of a product, such as "Sauce" or "Extras".
type ProductAdditional struct {
	ID             string        `bson:"_id" json:"id"`
	OrganizationID string        `bson:"organization_id" json:"organization_id"`
	ProductID      string        `bson:"product_id" json:"product_id"`
	Name           string        `bson:"name" json:"name"`
	SelectionType  SelectionType `bson:"selection_type" json:"selection_type"`
	MinQuantity    int           `bson:"min_quantity" json:"min_quantity"`
	MaxQuantity    int           `bson:"max_quantity" json:"max_quantity"`
	Position       int           `bson:"position" json:"position"`
	IsActive       bool          `bson:"is_active" json:"-"`
}

// Validate checks 0 <= min <= max and that a RADIO group allows exactly one pick.
func (g ProductAdditional) Validate() error {
	return validator.Apply(
		validator.Required("name", g.Name),
		validator.OneOf("selection_type", g.SelectionType, SelectionRadio, SelectionCheckbox, SelectionNumber),
		validator.NonNegative("min_quantity", g.MinQuantity),
		validator.LessOrEqual("min_quantity", g.MinQuantity, "max_quantity", g.MaxQuantity),
		validator.When(g.SelectionType == SelectionRadio, validator.Between("max_quantity", g.MaxQuantity, 1, 1)),
	)
}

// Accepts reports whether selected picks satisfy the group bounds.
func (g ProductAdditional) Accepts(selected int) bool {
	return selected >= g.MinQuantity && selected <= g.MaxQuantity
}

// AdditionalItem is one option of an add-on group. ProductID optionally links
// the option to a stock product.
type AdditionalItem struct {
	ID                string  `bson:"_id" json:"id"`
	AdditionalID      string  `bson:"additional_id" json:"additional_id"`
	Position          int     `bson:"position" json:"position"`
	ProductID         string  `bson:"product_id,omitempty" json:"product_id,omitempty"`
	Label             string  `bson:"label" json:"label"`
	UnitPrice         float64 `bson:"unit_price" json:"unit_price"`
	UnitCost          float64 `bson:"unit_cost" json:"unit_cost"`
	ConsumptionFactor float64 `bson:"consumption_factor" json:"consumption_factor"`
	IsActive          bool    `bson:"is_active" json:"-"`
}

func (i AdditionalItem) Validate() error {
	return validator.Apply(
		validator.Required("label", i.Label),
		validator.NonNegative("unit_price", i.UnitPrice),
		validator.NonNegative("unit_cost", i.UnitCost),
		validator.Between("consumption_factor", i.ConsumptionFactor, 0, 1),
	)
}
