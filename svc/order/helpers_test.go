package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/svc/order"
)

const (
	orgID      = "org_pizzaria"
	otherOrgID = "org_hamburgueria"
)

// newTestCatalog builds a pizza with a RADIO crust group and a CHECKBOX extras
// group, a burger whose sauce group requires at least one pick, and a soda
// without add-ons.
func newTestCatalog(t *testing.T) *order.MemoryCatalog {
	t.Helper()
	c := order.NewMemoryCatalog()

	products := []order.Product{
		{ID: "prd_pizza", OrganizationID: orgID, Name: "Pizza", UnitPrice: 10, UnitCost: 4, IsActive: true},
		{ID: "prd_burger", OrganizationID: orgID, Name: "Burger", UnitPrice: 20, UnitCost: 8, IsActive: true},
		{ID: "prd_soda", OrganizationID: orgID, Name: "Soda", UnitPrice: 5, UnitCost: 2, IsActive: true},
		{ID: "prd_retired", OrganizationID: orgID, Name: "Calzone", UnitPrice: 30, IsActive: false},
		{ID: "prd_foreign", OrganizationID: otherOrgID, Name: "X-Salada", UnitPrice: 18, IsActive: true},
	}
	for _, p := range products {
		require.NoError(t, c.PutProduct(p))
	}

	groups := []order.ProductAdditional{
		{ID: "pad_extras", OrganizationID: orgID, ProductID: "prd_pizza", Name: "Extras", SelectionType: order.SelectionCheckbox, MinQuantity: 0, MaxQuantity: 3, Position: 2, IsActive: true},
		{ID: "pad_crust", OrganizationID: orgID, ProductID: "prd_pizza", Name: "Crust", SelectionType: order.SelectionRadio, MinQuantity: 0, MaxQuantity: 1, Position: 1, IsActive: true},
		{ID: "pad_sauce", OrganizationID: orgID, ProductID: "prd_burger", Name: "Sauce", SelectionType: order.SelectionNumber, MinQuantity: 1, MaxQuantity: 4, Position: 1, IsActive: true},
	}
	for _, g := range groups {
		require.NoError(t, c.PutAdditional(g))
	}

	items := []order.AdditionalItem{
		{ID: "adi_thin", AdditionalID: "pad_crust", Label: "Thin", UnitPrice: 2, UnitCost: 0.5, ConsumptionFactor: 1, IsActive: true},
		{ID: "adi_stuffed", AdditionalID: "pad_crust", Label: "Stuffed", UnitPrice: 6, UnitCost: 2, ConsumptionFactor: 1, IsActive: true},
		{ID: "adi_cheese", AdditionalID: "pad_extras", Label: "Cheese", UnitPrice: 1.5, UnitCost: 0.4, ConsumptionFactor: 0.5, IsActive: true},
		{ID: "adi_bacon", AdditionalID: "pad_extras", Label: "Bacon", UnitPrice: 2.25, UnitCost: 0.9, ConsumptionFactor: 0.25, IsActive: true},
		{ID: "adi_mayo", AdditionalID: "pad_sauce", Label: "Mayo", UnitPrice: 0.5, UnitCost: 0.1, ConsumptionFactor: 0.1, IsActive: true},
		{ID: "adi_gone", AdditionalID: "pad_extras", Label: "Anchovy", UnitPrice: 3, IsActive: false},
	}
	for _, i := range items {
		require.NoError(t, c.PutItem(i))
	}
	return c
}

type fakeLimits map[string]int64

func (f fakeLimits) Limit(_ context.Context, _, feature string) (int64, bool, error) {
	l, ok := f[feature]
	return l, ok, nil
}

func pizza(qty int, additionals ...order.RequestedAdditional) order.RequestedProduct {
	return order.RequestedProduct{ProductID: "prd_pizza", Quantity: qty, Additionals: additionals}
}

func pick(itemID string, qty int) order.RequestedAdditional {
	return order.RequestedAdditional{ItemID: itemID, Quantity: qty}
}
