package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/svc/billing"
	"github.com/pedidoz/backoffice/svc/catalog"
	"github.com/pedidoz/backoffice/svc/coupon"
	"github.com/pedidoz/backoffice/svc/organization"
)

// 2025-03-01 is day 0 of every plan created by these tests.
var day0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

const (
	orgID    = "org_pizzaria"
	freePlan = "pln_free"
	basic    = "pln_basic"
	pro      = "pln_pro"
	hundred  = "pln_hundred"
)

type fakeGateway struct {
	mu          sync.Mutex
	n           int
	preferences map[string]billing.Preference
	payments    map[string]billing.Payment
	authorized  map[string]billing.AuthorizedPayment
	requests    []billing.PreferenceRequest
	cancelled   []string
	failCreate  error
	gate        *gate
}

// gate parks the next CreatePreference call until release is closed.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		preferences: map[string]billing.Preference{},
		payments:    map[string]billing.Payment{},
		authorized:  map[string]billing.AuthorizedPayment{},
	}
}

func (g *fakeGateway) CreatePreference(_ context.Context, req billing.PreferenceRequest) (*billing.Preference, error) {
	g.mu.Lock()
	held := g.gate
	g.gate = nil
	g.mu.Unlock()
	if held != nil {
		close(held.entered)
		<-held.release
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreate != nil {
		return nil, g.failCreate
	}
	g.n++
	id := fmt.Sprintf("pref-%d", g.n)
	p := billing.Preference{ID: id, ExternalReference: ident.New(ident.ExternalRef), InitPoint: "https://mp.test/checkout/" + id}
	g.preferences[id] = p
	g.requests = append(g.requests, req)
	return &p, nil
}

func (g *fakeGateway) GetPreference(_ context.Context, id string) (*billing.Preference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.preferences[id]
	if !ok {
		return nil, apperr.Gateway(fmt.Errorf("preference %s not found", id))
	}
	return &p, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*billing.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[id]
	if !ok {
		return nil, apperr.Gateway(fmt.Errorf("payment %s not found", id))
	}
	return &p, nil
}

func (g *fakeGateway) GetAuthorizedPayment(_ context.Context, id string) (*billing.AuthorizedPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.authorized[id]
	if !ok {
		return nil, apperr.Gateway(fmt.Errorf("authorized payment %s not found", id))
	}
	return &p, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = append(g.cancelled, id)
	return nil
}

// pay registers a gateway payment for the invoice's external reference.
func (g *fakeGateway) pay(paymentID, externalRef, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payments[paymentID] = billing.Payment{ID: paymentID, Status: status, ExternalReference: externalRef}
}

func (g *fakeGateway) failCreates(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failCreate = err
}

func (g *fakeGateway) holdNextCreate() *gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gate = &gate{entered: make(chan struct{}), release: make(chan struct{})}
	return g.gate
}

func (g *fakeGateway) createCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []billing.PurchaseConfirmed
}

func (m *fakeMailer) SendPurchaseConfirmed(_ context.Context, msg billing.PurchaseConfirmed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// flakyPlans fails the next failTruncates calls to TruncateEnd.
type flakyPlans struct {
	*billing.MemoryPlanLedger
	mu            sync.Mutex
	failTruncates int
}

func (p *flakyPlans) TruncateEnd(ctx context.Context, id string, end time.Time) (bool, error) {
	p.mu.Lock()
	if p.failTruncates > 0 {
		p.failTruncates--
		p.mu.Unlock()
		return false, errStoreTimeout
	}
	p.mu.Unlock()
	return p.MemoryPlanLedger.TruncateEnd(ctx, id, end)
}

func (p *flakyPlans) failNextTruncates(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failTruncates = n
}

var errStoreTimeout = errors.New("store timeout")

type env struct {
	svc      *billing.Service
	clock    *clock.FixedClock
	flaky    *flakyPlans
	plans    *billing.MemoryPlanLedger
	invoices *billing.MemoryInvoiceLedger
	gateway  *fakeGateway
	mailer   *fakeMailer
	coupons  *coupon.Engine
	couponDB *coupon.MemoryRepository
}

func newEnv(t *testing.T, opts ...billing.Option) *env {
	t.Helper()

	cat := catalog.New(catalog.NewStaticSource([]catalog.Plan{
		{ID: freePlan, Name: "Grátis", Price: 0, IsActive: true},
		{ID: basic, Name: "Básico", Price: 30, IsActive: true},
		{ID: pro, Name: "Pro", Price: 59.9, IsActive: true},
		{ID: hundred, Name: "Cem", Price: 100, IsActive: true},
		{ID: "pln_29", Name: "Essencial", Price: 29.9, IsActive: true},
		{ID: "pln_quarter", Name: "Trimestral", Price: 25, Months: 3, IsActive: true},
	}, []catalog.PlanFeature{
		{ID: "plf_1", PlanID: pro, Name: catalog.FeatureMaxTagsPerOrder, Value: "10", IsActive: true},
	}))
	require.NoError(t, cat.Refresh(context.Background()))

	clk := clock.Fixed(day0)
	couponDB := coupon.NewMemoryRepository()
	coupons := coupon.NewEngine(couponDB, coupon.WithClock(clk))
	members := organization.NewMembership(organization.NewMemoryDirectory(
		organization.Member{UserID: "usr_owner", OrganizationID: orgID, Email: "dona@pizzaria.com", Name: "Ana", Role: organization.RoleOwner, IsActive: true},
		organization.Member{UserID: "usr_owner2", OrganizationID: "org_other", Email: "dono@lanches.com", Name: "Bruno", Role: organization.RoleOwner, IsActive: true},
	))

	e := &env{
		clock:    clk,
		plans:    billing.NewMemoryPlanLedger(),
		invoices: billing.NewMemoryInvoiceLedger(),
		gateway:  newFakeGateway(),
		mailer:   &fakeMailer{},
		coupons:  coupons,
		couponDB: couponDB,
	}
	e.flaky = &flakyPlans{MemoryPlanLedger: e.plans}
	e.svc = billing.NewService(billing.Dependencies{
		Catalog:    cat,
		Plans:      e.flaky,
		Invoices:   e.invoices,
		Gateway:    e.gateway,
		Membership: members,
		Coupons:    coupons,
		Mailer:     e.mailer,
	}, billing.Config{FrontURL: "https://app.pedidoz.test"}, append([]billing.Option{billing.WithClock(clk)}, opts...)...)
	return e
}

var owner = billing.User{ID: "usr_owner", Email: "dona@pizzaria.com", Name: "Ana"}

func (e *env) subscribe(t *testing.T, org, planID string) *billing.SubscriptionResult {
	t.Helper()
	res, err := e.svc.Subscribe(context.Background(), billing.SubscribeInput{PlanID: planID, OrganizationID: org, User: owner})
	require.NoError(t, err)
	return res
}

func (e *env) invoice(t *testing.T, id string) *billing.Invoice {
	t.Helper()
	inv, err := e.invoices.Get(context.Background(), id)
	require.NoError(t, err)
	return inv
}

// approve delivers an approved payment webhook for the invoice.
func (e *env) approve(t *testing.T, paymentID string, res *billing.SubscriptionResult) *billing.Invoice {
	t.Helper()
	e.gateway.pay(paymentID, res.IntegrationID, "approved")
	inv, err := e.svc.HandleWebhook(context.Background(), billing.WebhookEvent{Type: billing.WebhookPayment, DataID: paymentID})
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}
