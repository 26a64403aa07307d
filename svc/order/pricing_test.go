package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedidoz/backoffice/svc/order"
)

func TestTotal(t *testing.T) {
	t.Parallel()

	products := []order.StoredProduct{
		{UnitPrice: 12, Quantity: 2},
		{UnitPrice: 0.1, Quantity: 3},
		{UnitPrice: 19.99, Quantity: 1},
	}
	assert.Equal(t, 47.29, order.Total(5, 1.5, 3.5, products))
	assert.Equal(t, 0.0, order.Total(0, 0, 0, nil))
	assert.Equal(t, -2.0, order.Total(0, 0, 2, nil), "discount is not clamped")
}

func TestPaymentStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		total    float64
		payments []order.Payment
		want     order.PaymentStatus
	}{
		{"nothing paid", 30, nil, order.PaymentPending},
		{"partial", 30, []order.Payment{{Amount: 10}}, order.PaymentPartial},
		{"split exactly", 30.3, []order.Payment{{Amount: 10.1}, {Amount: 20.2}}, order.PaymentPaid},
		{"overpaid", 30, []order.Payment{{Amount: 50}}, order.PaymentPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, order.PaymentStatusFor(tt.total, tt.payments))
		})
	}
}

func TestProductAdditional_Validate(t *testing.T) {
	t.Parallel()

	valid := order.ProductAdditional{Name: "Crust", SelectionType: order.SelectionRadio, MinQuantity: 0, MaxQuantity: 1}
	assert.NoError(t, valid.Validate())

	radioMany := valid
	radioMany.MaxQuantity = 2
	assert.Error(t, radioMany.Validate())

	inverted := order.ProductAdditional{Name: "Extras", SelectionType: order.SelectionCheckbox, MinQuantity: 3, MaxQuantity: 1}
	assert.Error(t, inverted.Validate())

	negative := order.ProductAdditional{Name: "Extras", SelectionType: order.SelectionNumber, MinQuantity: -1, MaxQuantity: 1}
	assert.Error(t, negative.Validate())

	unknown := order.ProductAdditional{Name: "Extras", SelectionType: "MULTI", MaxQuantity: 1}
	assert.Error(t, unknown.Validate())
}

func TestAdditionalItem_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, order.AdditionalItem{Label: "Cheese", UnitPrice: 1, ConsumptionFactor: 0.5}.Validate())
	assert.Error(t, order.AdditionalItem{Label: "Cheese", UnitPrice: -1}.Validate())
	assert.Error(t, order.AdditionalItem{Label: "Cheese", ConsumptionFactor: 1.5}.Validate())
	assert.Error(t, order.AdditionalItem{UnitPrice: 1}.Validate())
}
