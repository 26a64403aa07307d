package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/svc/order"
)

var now = time.Date(2025, 3, 1, 19, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*order.Service, *order.MemoryCatalog) {
	t.Helper()
	cat := newTestCatalog(t)
	svc := order.NewService(order.NewMemoryRepository(), order.NewComposer(cat), order.WithClock(clock.Fixed(now)))
	return svc, cat
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	svc, cat := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, orgID, order.RequestOrder{
		CustomerID: "cus_1",
		Products:   []order.RequestedProduct{pizza(2, pick("adi_thin", 1))},
		Delivery:   order.Delivery{Kind: order.DeliveryPickup},
		Tags:       []string{"balcao"},
		Discount:   4,
	})
	require.NoError(t, err)

	assert.True(t, ident.HasPrefix(o.ID, ident.Order))
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, order.PaymentPending, o.PaymentStatus)
	assert.Equal(t, 20.0, o.TotalAmount)
	assert.Equal(t, now, o.OrderDate)
	assert.Empty(t, o.Payments)

	// Catalog changes do not reach stored orders.
	require.NoError(t, cat.PutProduct(order.Product{ID: "prd_pizza", OrganizationID: orgID, Name: "Pizza", UnitPrice: 99, IsActive: true}))
	stored, err := svc.Get(ctx, orgID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, stored.Products[0].UnitPrice)
	assert.Equal(t, 20.0, stored.TotalAmount)
}

func TestService_CreateValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	tests := []struct {
		name string
		req  order.RequestOrder
	}{
		{"no products", order.RequestOrder{}},
		{"zero quantity", order.RequestOrder{Products: []order.RequestedProduct{pizza(0)}}},
		{"zero add-on quantity", order.RequestOrder{Products: []order.RequestedProduct{pizza(1, pick("adi_thin", 0))}}},
		{"negative discount", order.RequestOrder{Products: []order.RequestedProduct{pizza(1)}, Discount: -1}},
		{"delivery without address", order.RequestOrder{
			Products: []order.RequestedProduct{pizza(1)},
			Delivery: order.Delivery{Kind: order.DeliveryShipping, Value: 5},
		}},
		{"unknown status", order.RequestOrder{Products: []order.RequestedProduct{pizza(1)}, Status: "LOST"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Create(context.Background(), orgID, tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, orgID, order.RequestOrder{Products: []order.RequestedProduct{pizza(1)}})
	require.NoError(t, err)

	o, err = svc.UpdateStatus(ctx, orgID, o.ID, order.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, o.Status)

	same, err := svc.UpdateStatus(ctx, orgID, o.ID, order.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, same.Status)

	_, err = svc.UpdateStatus(ctx, orgID, o.ID, order.StatusConfirmed)
	require.ErrorIs(t, err, order.ErrInvalidStatus)

	o, err = svc.UpdateStatus(ctx, orgID, o.ID, order.StatusCompleted)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, orgID, o.ID, order.StatusCancelled)
	require.ErrorIs(t, err, order.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, otherOrgID, o.ID, order.StatusCancelled)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestService_AddPayment(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, orgID, order.RequestOrder{Products: []order.RequestedProduct{pizza(3)}})
	require.NoError(t, err)
	require.Equal(t, 30.0, o.TotalAmount)

	_, err = svc.AddPayment(ctx, orgID, o.ID, order.Payment{Amount: 0, Method: "pix"})
	require.ErrorIs(t, err, order.ErrInvalidPayment)

	o, err = svc.AddPayment(ctx, orgID, o.ID, order.Payment{Amount: 10, Method: "pix"})
	require.NoError(t, err)
	assert.Equal(t, order.PaymentPartial, o.PaymentStatus)
	require.Len(t, o.Payments, 1)
	assert.Equal(t, now, o.Payments[0].PaidAt)

	o, err = svc.AddPayment(ctx, orgID, o.ID, order.Payment{Amount: 20, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus)
	assert.Len(t, o.Payments, 2)
}

func TestService_ListAndDelete(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, orgID, order.RequestOrder{Products: []order.RequestedProduct{pizza(1)}})
	require.NoError(t, err)
	earlier := now.Add(-time.Hour)
	second, err := svc.Create(ctx, orgID, order.RequestOrder{Products: []order.RequestedProduct{pizza(1)}, OrderDate: &earlier})
	require.NoError(t, err)

	list, err := svc.List(ctx, orgID, order.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "newest first")

	list, err = svc.List(ctx, orgID, order.ListFilter{From: now})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, orgID, second.ID))
	_, err = svc.Get(ctx, orgID, second.ID)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
	require.ErrorIs(t, svc.Delete(ctx, orgID, second.ID), order.ErrOrderNotFound)

	list, err = svc.List(ctx, orgID, order.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
