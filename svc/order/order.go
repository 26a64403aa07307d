package order

import "time"

// Status is the preparation stage of an order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPreparing  Status = "PREPARING"
	StatusReady      Status = "READY"
	StatusDispatched Status = "DISPATCHED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// PaymentStatus is derived from the payments recorded against the total.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

type DeliveryKind string

const (
	DeliveryPickup   DeliveryKind = "PICKUP"
	DeliveryShipping DeliveryKind = "DELIVERY"
	DeliveryTable    DeliveryKind = "TABLE"
)

// Delivery describes how the order reaches the customer. Value is its fee.
type Delivery struct {
	Kind    DeliveryKind `bson:"kind" json:"kind" validate:"omitempty,oneof=PICKUP DELIVERY TABLE"`
	Value   float64      `bson:"value" json:"value" validate:"gte=0"`
	Address string       `bson:"address,omitempty" json:"address,omitempty" validate:"required_if=Kind DELIVERY"`
}

// RequestedAdditional selects Quantity units of an add-on item per product unit.
type RequestedAdditional struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// RequestedProduct is one order line of a RequestOrder.
type RequestedProduct struct {
	ProductID   string                `json:"product_id" validate:"required"`
	Quantity    int                   `json:"quantity" validate:"gt=0"`
	Additionals []RequestedAdditional `json:"additionals" validate:"dive"`
}

// RequestOrder is the input of order creation.
type RequestOrder struct {
	CustomerID      string             `json:"customer_id,omitempty"`
	Status          Status             `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED PREPARING READY DISPATCHED COMPLETED CANCELLED"`
	Products        []RequestedProduct `json:"products" validate:"required,min=1,dive"`
	Tags            []string           `json:"tags" validate:"dive,required"`
	Delivery        Delivery           `json:"delivery"`
	PreparationDate *time.Time         `json:"preparation_date,omitempty"`
	OrderDate       *time.Time         `json:"order_date,omitempty"`
	Additional      float64            `json:"additional" validate:"gte=0"`
	Discount        float64            `json:"discount" validate:"gte=0"`
	Tax             float64            `json:"tax" validate:"gte=0"`
	ReasonID        string             `json:"reason_id,omitempty"`
}

// StoredAdditionalItem is the priced snapshot of one selected add-on.
type StoredAdditionalItem struct {
	ItemID       string  `bson:"item_id" json:"item_id"`
	AdditionalID string  `bson:"additional_id" json:"additional_id"`
	Label        string  `bson:"label" json:"label"`
	UnitPrice    float64 `bson:"unit_price" json:"unit_price"`
	UnitCost     float64 `bson:"unit_cost" json:"unit_cost"`
	Quantity     int     `bson:"quantity" json:"quantity"`
}

// StoredProduct is a value snapshot of a product at order time. UnitPrice and
// UnitCost already include the selected add-ons.
type StoredProduct struct {
	ProductID   string                 `bson:"product_id" json:"product_id"`
	Name        string                 `bson:"name" json:"name"`
	UnitPrice   float64                `bson:"unit_price" json:"unit_price"`
	UnitCost    float64                `bson:"unit_cost" json:"unit_cost"`
	Quantity    int                    `bson:"quantity" json:"quantity"`
	Additionals []StoredAdditionalItem `bson:"additionals" json:"additionals"`
}

// Payment is an amount received against an order.
type Payment struct {
	Amount float64   `bson:"amount" json:"amount"`
	Method string    `bson:"method" json:"method"`
	PaidAt time.Time `bson:"paid_at" json:"paid_at"`
}

// Order is a priced, stored order. Products hold value snapshots, so later
// catalog edits do not change it.
type Order struct {
	ID              string          `bson:"_id" json:"id"`
	OrganizationID  string          `bson:"organization_id" json:"organization_id"`
	CustomerID      string          `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	Status          Status          `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus   `bson:"payment_status" json:"payment_status"`
	Products        []StoredProduct `bson:"products" json:"products"`
	Delivery        Delivery        `bson:"delivery" json:"delivery"`
	TotalAmount     float64         `bson:"total_amount" json:"total_amount"`
	Tags            []string        `bson:"tags" json:"tags"`
	Tax             float64         `bson:"tax" json:"tax"`
	Additional      float64         `bson:"additional" json:"additional"`
	Discount        float64         `bson:"discount" json:"discount"`
	Payments        []Payment       `bson:"payments" json:"payments"`
	ReasonID        string          `bson:"reason_id,omitempty" json:"reason_id,omitempty"`
	PreparationDate *time.Time      `bson:"preparation_date,omitempty" json:"preparation_date,omitempty"`
	OrderDate       time.Time       `bson:"order_date" json:"order_date"`
	IsActive        bool            `bson:"is_active" json:"-"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}
