package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/money"
	"github.com/pedidoz/backoffice/pkg/validator"
	"github.com/pedidoz/backoffice/svc/catalog"
)

// User is the caller starting or changing a subscription.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SubscribeInput starts a first plan. CouponID is optional.
type SubscribeInput struct {
	PlanID          string `json:"plan_id"`
	OrganizationID  string `json:"organization_id"`
	AllowAdditional bool   `json:"allow_additional"`
	CouponID        string `json:"coupon_id,omitempty"`
	User            User   `json:"-"`
}

func (in SubscribeInput) Validate() error {
	return validator.Apply(
		validator.Required("plan_id", in.PlanID),
		validator.Required("organization_id", in.OrganizationID),
		validator.Required("user.email", in.User.Email),
	)
}

// RecreateInput switches the current plan to PlanID from today.
type RecreateInput struct {
	PlanID          string `json:"plan_id"`
	OrganizationID  string `json:"organization_id"`
	AllowAdditional bool   `json:"allow_additional"`
	User            User   `json:"-"`
}

func (in RecreateInput) Validate() error {
	return validator.Apply(
		validator.Required("plan_id", in.PlanID),
		validator.Required("organization_id", in.OrganizationID),
		validator.Required("user.email", in.User.Email),
	)
}

// SubscriptionResult is returned to the caller, who is redirected to InitPoint.
type SubscriptionResult struct {
	InvoiceID     string `json:"invoice_id"`
	IntegrationID string `json:"integration_id"`
	InitPoint     string `json:"init_point"`
}

// ActiveSubscription describes the plan an organization is on right now.
// Invoice is nil when no invoice of the plan has been paid.
type ActiveSubscription struct {
	Plan             catalog.Plan          `json:"plan"`
	OrganizationPlan OrganizationPlan      `json:"organization_plan"`
	Invoice          *Invoice              `json:"invoice"`
	Features         []catalog.PlanFeature `json:"features"`
}

// Subscribe starts the first plan of an organization.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*SubscriptionResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	log := s.log.With(logger.OrganizationID(in.OrganizationID), logger.PlanID(in.PlanID))

	unlock, err := s.lockOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.clock.Now()
	if _, err := s.plans.SearchActivePlan(ctx, in.OrganizationID, now); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyActive, in.OrganizationID)
	} else if !errors.Is(err, ErrNoActivePlan) {
		return nil, err
	}

	p, err := s.catalog.Plan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	months := p.BillingMonths()
	price := money.Mul(p.Price, float64(months))

	var (
		discount float64
		observe  []Observation
	)
	if in.CouponID != "" && s.coupons != nil {
		discount, err = s.coupons.Redeem(ctx, in.CouponID, price)
		if err != nil {
			return nil, err
		}
		observe = append(observe, DiscountObservation(discount, in.CouponID))
		log.InfoContext(ctx, "coupon redeemed", logger.CouponID(in.CouponID), slog.Float64("discount", discount))
	}

	start, end := PlanPeriod(now, months)
	orgPlan := &OrganizationPlan{
		OrganizationID:  in.OrganizationID,
		PlanID:          p.ID,
		StartDate:       start,
		EndDate:         end,
		AllowAdditional: in.AllowAdditional,
	}
	res, err := s.issue(ctx, orgPlan, p, price, discount, observe, in.User)
	if err != nil {
		if in.CouponID != "" && s.coupons != nil {
			if rerr := s.coupons.Release(ctx, in.CouponID); rerr != nil {
				log.WarnContext(ctx, "coupon use not released", logger.CouponID(in.CouponID), logger.Error(rerr))
			}
		}
		return nil, err
	}
	s.metrics.Subscription("subscribe", res.InitPoint == s.cfg.FreePlanURL)
	log.InfoContext(ctx, "subscription created", logger.InvoiceID(res.InvoiceID))
	return res, nil
}

// RecreateSubscription moves an organization to another plan starting today.
// The unused share of the current plan's last payment is credited against the
// new invoice. The current plan keeps running until the new invoice is PAID.
func (s *Service) RecreateSubscription(ctx context.Context, in RecreateInput) (*SubscriptionResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	log := s.log.With(logger.OrganizationID(in.OrganizationID), logger.PlanID(in.PlanID))

	unlock, err := s.lockOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	today := clock.Today(s.clock)
	current, err := s.plans.CheckIfPeriodIsAvailable(ctx, in.OrganizationID, today, clock.EndOfDay(today))
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPlanToUpgrade, in.OrganizationID)
	}
	old := current[0]

	p, err := s.catalog.Plan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	months := p.BillingMonths()
	price := money.Mul(p.Price, float64(months))

	credits, err := s.credits(ctx, old, today)
	if err != nil {
		return nil, err
	}

	if err := s.cancelOpenInvoices(ctx, old.ID, in.User.ID); err != nil {
		return nil, err
	}

	start, end := PlanPeriod(today, months)
	orgPlan := &OrganizationPlan{
		OrganizationID:  in.OrganizationID,
		PlanID:          p.ID,
		StartDate:       start,
		EndDate:         end,
		AllowAdditional: in.AllowAdditional,
	}
	res, err := s.issue(ctx, orgPlan, p, price, credits, []Observation{CreditObservation(credits)}, in.User)
	if err != nil {
		return nil, err
	}
	s.metrics.Subscription("recreate", res.InitPoint == s.cfg.FreePlanURL)
	log.InfoContext(ctx, "subscription recreated",
		logger.InvoiceID(res.InvoiceID),
		slog.String("previous_plan", old.ID),
		slog.Float64("credits", credits),
	)
	return res, nil
}

// credits prorates the latest payment of p over the days left in it.
func (s *Service) credits(ctx context.Context, p OrganizationPlan, today time.Time) (float64, error) {
	paid, err := s.invoices.LatestPaid(ctx, p.ID)
	if errors.Is(err, ErrNoPaidInvoice) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var amount float64
	if paid.AmountPaid != nil {
		amount = *paid.AmountPaid
	}
	return money.Prorate(amount, p.RemainingDays(today), p.TotalDays()), nil
}

func (s *Service) cancelOpenInvoices(ctx context.Context, orgPlanID, userID string) error {
	invoices, err := s.invoices.ListByOrganizationPlan(ctx, orgPlanID)
	if err != nil {
		return err
	}
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status.Terminal() {
			continue
		}
		audit := AuditObservation(s.clock.Now(), userID)
		if _, _, err := s.transition(ctx, inv, StatusCancelled, &audit); err != nil && !errors.Is(err, ErrInvalidTransition) {
			return err
		}
	}
	return nil
}

// issue persists orgPlan and its first invoice. A zero amount skips the
// gateway and produces a PAID invoice pointing at the free plan landing page.
func (s *Service) issue(ctx context.Context, orgPlan *OrganizationPlan, p catalog.Plan, price, discount float64, observe []Observation, user User) (*SubscriptionResult, error) {
	amount := money.NonNegative(money.Sub(price, discount))
	now := s.clock.Now()

	inv := &Invoice{
		ID:           ident.New(ident.Invoice),
		Amount:       amount,
		Status:       StatusPending,
		Observations: observe,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if amount == 0 {
		paid := 0.0
		paidAt := now
		inv.IntegrationType = IntegrationFree
		inv.IntegrationID = ident.New(ident.FreeRef)
		inv.InitPoint = s.cfg.FreePlanURL
		inv.Status = StatusPaid
		inv.AmountPaid = &paid
		inv.PaidAt = &paidAt
	} else {
		pref, err := s.gateway.CreatePreference(ctx, PreferenceRequest{
			Reason:   "pedidoZ - " + p.Name,
			Price:    price,
			Discount: discount,
			User:     UserInfo{Email: user.Email, Name: user.Name, BackURL: s.cfg.FrontURL},
		})
		if err != nil {
			return nil, err
		}
		inv.IntegrationType = IntegrationMercadoPago
		inv.IntegrationID = pref.ExternalReference
		inv.PreferenceID = pref.ID
		inv.InitPoint = pref.InitPoint
	}

	orgPlan.ID = ident.New(ident.OrganizationPlan)
	orgPlan.IsActive = true
	orgPlan.CreatedAt = now
	orgPlan.UpdatedAt = now
	if err := orgPlan.Validate(); err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, orgPlan); err != nil {
		return nil, err
	}

	inv.OrganizationPlanID = orgPlan.ID
	inv.OrganizationID = orgPlan.OrganizationID
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	if inv.Status == StatusPaid {
		s.metrics.InvoiceTransition("", string(StatusPaid))
		if err := s.onPaid(ctx, inv); err != nil {
			return nil, err
		}
	}

	return &SubscriptionResult{
		InvoiceID:     inv.ID,
		IntegrationID: inv.IntegrationID,
		InitPoint:     inv.InitPoint,
	}, nil
}

// Unsubscribe cancels the gateway pre-approval behind the active plan. The
// plan itself runs until its end date.
func (s *Service) Unsubscribe(ctx context.Context, organizationID string) error {
	active, err := s.plans.SearchActivePlan(ctx, organizationID, s.clock.Now())
	if err != nil {
		return err
	}
	inv, err := s.invoices.LatestPaid(ctx, active.ID)
	if err != nil {
		return err
	}
	if inv.IntegrationType != IntegrationMercadoPago || inv.PreapprovalID == "" {
		return fmt.Errorf("%w: %s", ErrNoGatewaySubscription, inv.ID)
	}
	if err := s.gateway.CancelSubscription(ctx, inv.PreapprovalID); err != nil {
		return err
	}
	s.metrics.Subscription("unsubscribe", false)
	s.log.InfoContext(ctx, "subscription cancelled on gateway",
		logger.OrganizationID(organizationID),
		logger.InvoiceID(inv.ID),
		logger.IntegrationID(inv.PreapprovalID),
	)
	return nil
}

// GetActiveSubscription returns the organization's current plan with its
// catalog entry, features and latest paid invoice.
func (s *Service) GetActiveSubscription(ctx context.Context, organizationID string) (*ActiveSubscription, error) {
	active, err := s.plans.SearchActivePlan(ctx, organizationID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	p, err := s.catalog.Plan(ctx, active.PlanID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.LatestPaid(ctx, active.ID)
	if err != nil && !errors.Is(err, ErrNoPaidInvoice) {
		return nil, err
	}
	return &ActiveSubscription{
		Plan:             p,
		OrganizationPlan: *active,
		Invoice:          inv,
		Features:         s.catalog.Features(ctx, p.ID),
	}, nil
}

// ListInvoices returns the invoices of one organization plan, oldest first.
func (s *Service) ListInvoices(ctx context.Context, organizationPlanID string) ([]Invoice, error) {
	if _, err := s.plans.Get(ctx, organizationPlanID); err != nil {
		return nil, err
	}
	return s.invoices.ListByOrganizationPlan(ctx, organizationPlanID)
}

// Invoice returns one invoice by id.
func (s *Service) Invoice(ctx context.Context, id string) (*Invoice, error) {
	return s.invoices.Get(ctx, id)
}

// ActivePlanID returns the catalog plan id the organization runs on now, or
// "" when it has no active plan.
func (s *Service) ActivePlanID(ctx context.Context, organizationID string) (string, error) {
	active, err := s.plans.SearchActivePlan(ctx, organizationID, s.clock.Now())
	if errors.Is(err, ErrNoActivePlan) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return active.PlanID, nil
}
