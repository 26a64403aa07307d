package api_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pedidoz/backoffice/svc/billing"
	"github.com/pedidoz/backoffice/svc/coupon"
	"github.com/pedidoz/backoffice/svc/notification"
	"github.com/pedidoz/backoffice/svc/order"
)

type subscriptionsMock struct{ mock.Mock }

func (m *subscriptionsMock) Subscribe(ctx context.Context, in billing.SubscribeInput) (*billing.SubscriptionResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*billing.SubscriptionResult)
	return res, args.Error(1)
}

func (m *subscriptionsMock) RecreateSubscription(ctx context.Context, in billing.RecreateInput) (*billing.SubscriptionResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*billing.SubscriptionResult)
	return res, args.Error(1)
}

func (m *subscriptionsMock) Unsubscribe(ctx context.Context, organizationID string) error {
	return m.Called(ctx, organizationID).Error(0)
}

func (m *subscriptionsMock) GetActiveSubscription(ctx context.Context, organizationID string) (*billing.ActiveSubscription, error) {
	args := m.Called(ctx, organizationID)
	res, _ := args.Get(0).(*billing.ActiveSubscription)
	return res, args.Error(1)
}

func (m *subscriptionsMock) ListInvoices(ctx context.Context, organizationPlanID string) ([]billing.Invoice, error) {
	args := m.Called(ctx, organizationPlanID)
	res, _ := args.Get(0).([]billing.Invoice)
	return res, args.Error(1)
}

func (m *subscriptionsMock) Invoice(ctx context.Context, id string) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*billing.Invoice)
	return res, args.Error(1)
}

func (m *subscriptionsMock) HandleWebhook(ctx context.Context, ev billing.WebhookEvent) (*billing.Invoice, error) {
	args := m.Called(ctx, ev)
	res, _ := args.Get(0).(*billing.Invoice)
	return res, args.Error(1)
}

type ordersMock struct{ mock.Mock }

func (m *ordersMock) Create(ctx context.Context, organizationID string, req order.RequestOrder) (*order.Order, error) {
	args := m.Called(ctx, organizationID, req)
	res, _ := args.Get(0).(*order.Order)
	return res, args.Error(1)
}

func (m *ordersMock) Get(ctx context.Context, organizationID, id string) (*order.Order, error) {
	args := m.Called(ctx, organizationID, id)
	res, _ := args.Get(0).(*order.Order)
	return res, args.Error(1)
}

func (m *ordersMock) List(ctx context.Context, organizationID string, filter order.ListFilter) ([]order.Order, error) {
	args := m.Called(ctx, organizationID, filter)
	res, _ := args.Get(0).([]order.Order)
	return res, args.Error(1)
}

func (m *ordersMock) UpdateStatus(ctx context.Context, organizationID, id string, to order.Status) (*order.Order, error) {
	args := m.Called(ctx, organizationID, id, to)
	res, _ := args.Get(0).(*order.Order)
	return res, args.Error(1)
}

func (m *ordersMock) AddPayment(ctx context.Context, organizationID, id string, p order.Payment) (*order.Order, error) {
	args := m.Called(ctx, organizationID, id, p)
	res, _ := args.Get(0).(*order.Order)
	return res, args.Error(1)
}

func (m *ordersMock) Delete(ctx context.Context, organizationID, id string) error {
	return m.Called(ctx, organizationID, id).Error(0)
}

type notificationsMock struct{ mock.Mock }

func (m *notificationsMock) Create(ctx context.Context, n notification.Notification, to notification.Recipient) (*notification.Notification, error) {
	args := m.Called(ctx, n, to)
	res, _ := args.Get(0).(*notification.Notification)
	return res, args.Error(1)
}

func (m *notificationsMock) List(ctx context.Context, userID string, opts notification.ListOptions) ([]notification.Notification, error) {
	args := m.Called(ctx, userID, opts)
	res, _ := args.Get(0).([]notification.Notification)
	return res, args.Error(1)
}

func (m *notificationsMock) MarkRead(ctx context.Context, userID string, ids ...string) error {
	return m.Called(ctx, userID, ids).Error(0)
}

func (m *notificationsMock) Delete(ctx context.Context, userID string, ids ...string) error {
	return m.Called(ctx, userID, ids).Error(0)
}

type couponsMock struct{ mock.Mock }

func (m *couponsMock) Create(ctx context.Context, in coupon.CreateInput) (*coupon.Coupon, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*coupon.Coupon)
	return res, args.Error(1)
}

func (m *couponsMock) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*coupon.Coupon)
	return res, args.Error(1)
}

func (m *couponsMock) GetByName(ctx context.Context, name string) (*coupon.Coupon, error) {
	args := m.Called(ctx, name)
	res, _ := args.Get(0).(*coupon.Coupon)
	return res, args.Error(1)
}

func (m *couponsMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type catalogMock struct{ mock.Mock }

func (m *catalogMock) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
