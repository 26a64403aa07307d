package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
	"github.com/pedidoz/backoffice/pkg/statemachine"
)

// maxStatusAttempts bounds the re-read loop when an invoice status write loses a race.
const maxStatusAttempts = 3

// farFuture closes the open interval used to find plans that end after now.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Dependencies are the ports the orchestrator is built on. Coupons and Mailer are optional.
type Dependencies struct {
	Catalog    PlanCatalog
	Plans      PlanLedger
	Invoices   InvoiceLedger
	Gateway    Gateway
	Membership Membership
	Coupons    CouponRedeemer
	Mailer     Mailer
}

// Service is the subscription orchestrator.
type Service struct {
	catalog    PlanCatalog
	plans      PlanLedger
	invoices   InvoiceLedger
	gateway    Gateway
	membership Membership
	coupons    CouponRedeemer
	mailer     Mailer
	locker     Locker

	cfg     Config
	machine *statemachine.Machine[Status, Status]
	clock   clock.Clock
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the UTC system clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocker replaces the in-process lock, which only guards a single replica.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// NewService panics when a required dependency is missing.
func NewService(deps Dependencies, cfg Config, opts ...Option) *Service {
	switch {
	case deps.Catalog == nil:
		panic("billing: PlanCatalog is required")
	case deps.Plans == nil:
		panic("billing: PlanLedger is required")
	case deps.Invoices == nil:
		panic("billing: InvoiceLedger is required")
	case deps.Gateway == nil:
		panic("billing: Gateway is required")
	case deps.Membership == nil:
		panic("billing: Membership is required")
	}
	if cfg.FreePlanURL == "" {
		cfg.FreePlanURL = DefaultFreePlanURL
	}

	s := &Service{
		catalog:    deps.Catalog,
		plans:      deps.Plans,
		invoices:   deps.Invoices,
		gateway:    deps.Gateway,
		membership: deps.Membership,
		coupons:    deps.Coupons,
		mailer:     deps.Mailer,
		locker:     newLocalLocker(),
		cfg:        cfg,
		machine:    NewInvoiceMachine(),
		clock:      clock.System,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("billing"))
	return s
}

// transition moves inv to target. It returns the stored invoice and whether
// this call changed it. Losing a compare-and-set re-reads the invoice and
// tries again; an invoice already in target is left alone.
func (s *Service) transition(ctx context.Context, inv *Invoice, target Status, observe *Observation) (*Invoice, bool, error) {
	current := inv
	for range maxStatusAttempts {
		patch, ok, err := resolveTransition(ctx, s.machine, *current, target, s.clock.Now())
		if err != nil {
			return current, false, err
		}
		if !ok {
			if target == StatusPaid {
				err = s.repairPaid(ctx, current)
			}
			return current, false, err
		}
		patch.Observe = observe

		updated, err := s.invoices.CompareAndSetStatus(ctx, current.ID, current.Status, patch)
		if errors.Is(err, ErrStatusConflict) {
			if current, err = s.invoices.Get(ctx, current.ID); err != nil {
				return nil, false, err
			}
			continue
		}
		if err != nil {
			return current, false, err
		}

		s.metrics.InvoiceTransition(string(current.Status), string(target))
		s.log.InfoContext(ctx, "invoice transitioned",
			logger.InvoiceID(updated.ID),
			logger.OrganizationID(updated.OrganizationID),
			logger.Transition(string(current.Status), string(target)),
		)

		if target == StatusPaid {
			if err := s.onPaid(ctx, updated); err != nil {
				return updated, true, err
			}
		}
		return updated, true, nil
	}
	return current, false, fmt.Errorf("%w: %s", ErrStatusConflict, inv.ID)
}

// onPaid runs the effects of an invoice entering PAID: every other plan of the
// organization still running ends yesterday, then the owner is emailed.
func (s *Service) onPaid(ctx context.Context, inv *Invoice) error {
	log := s.log.With(logger.InvoiceID(inv.ID), logger.OrganizationID(inv.OrganizationID))
	if err := s.endOtherPlans(ctx, log, inv, nil); err != nil {
		return err
	}
	s.notifyPurchase(ctx, log, inv)
	return nil
}

// repairPaid re-applies the truncation of an invoice found already PAID, so a
// redelivered webhook finishes what a failed first delivery left undone. Only
// plans created before the invoice's own plan are ended; the email is not resent.
func (s *Service) repairPaid(ctx context.Context, inv *Invoice) error {
	own, err := s.plans.Get(ctx, inv.OrganizationPlanID)
	if err != nil {
		return err
	}
	log := s.log.With(logger.InvoiceID(inv.ID), logger.OrganizationID(inv.OrganizationID))
	return s.endOtherPlans(ctx, log, inv, func(p OrganizationPlan) bool {
		return p.CreatedAt.Before(own.CreatedAt)
	})
}

// endOtherPlans truncates to yesterday every running plan of the invoice's
// organization except the invoice's own. A nil eligible accepts all of them.
func (s *Service) endOtherPlans(ctx context.Context, log *slog.Logger, inv *Invoice, eligible func(OrganizationPlan) bool) error {
	now := s.clock.Now()
	others, err := s.plans.CheckIfPeriodIsAvailable(ctx, inv.OrganizationID, now, farFuture)
	if err != nil {
		log.ErrorContext(ctx, "list plans to truncate failed", logger.Error(err))
		return err
	}
	cutoff := clock.EndOfYesterday(s.clock)
	for _, p := range others {
		if p.ID == inv.OrganizationPlanID || (eligible != nil && !eligible(p)) {
			continue
		}
		changed, err := s.plans.TruncateEnd(ctx, p.ID, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "plan truncation failed", logger.PlanID(p.ID), logger.Error(err))
			return err
		}
		if changed {
			log.InfoContext(ctx, "previous plan truncated", logger.PlanID(p.ID), slog.Time("end_date", cutoff))
		}
	}
	return nil
}

// notifyPurchase emails the owner. Failures are logged only: the invoice is
// already PAID and the email is not worth failing the webhook for.
func (s *Service) notifyPurchase(ctx context.Context, log *slog.Logger, inv *Invoice) {
	if s.mailer == nil {
		return
	}
	owner, err := s.membership.Owner(ctx, inv.OrganizationID)
	if err != nil {
		log.WarnContext(ctx, "purchase email skipped: owner lookup failed", logger.Error(err))
		return
	}
	orgPlan, err := s.plans.Get(ctx, inv.OrganizationPlanID)
	if err != nil {
		log.WarnContext(ctx, "purchase email skipped: plan lookup failed", logger.Error(err))
		return
	}
	p, err := s.catalog.Plan(ctx, orgPlan.PlanID)
	if err != nil {
		log.WarnContext(ctx, "purchase email skipped: catalog lookup failed", logger.Error(err))
		return
	}
	if err := s.mailer.SendPurchaseConfirmed(ctx, PurchaseConfirmed{Owner: *owner, Plan: p, Invoice: *inv}); err != nil {
		log.WarnContext(ctx, "purchase email failed", logger.Error(err))
		return
	}
	log.InfoContext(ctx, "purchase email sent", logger.UserID(owner.UserID))
}
