package order

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
	"github.com/pedidoz/backoffice/pkg/statemachine"
	"github.com/pedidoz/backoffice/pkg/validator"
)

// Service creates orders and moves them through their lifecycle.
type Service struct {
	repo     Repository
	composer *Composer
	machine  *statemachine.Machine[Status, Status]
	clock    clock.Clock
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wires the order workflow on top of repo and composer.
func NewService(repo Repository, composer *Composer, opts ...Option) *Service {
	if repo == nil {
		panic("order: Repository is required")
	}
	if composer == nil {
		panic("order: Composer is required")
	}
	s := &Service{
		repo:     repo,
		composer: composer,
		machine:  NewStatusMachine(),
		clock:    clock.System,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("order"))
	return s
}

// Create validates req, prices it and stores the order.
func (s *Service) Create(ctx context.Context, organizationID string, req RequestOrder) (*Order, error) {
	o, err := s.create(ctx, organizationID, req)
	total := 0.0
	if o != nil {
		total = o.TotalAmount
	}
	s.metrics.Order(total, err)
	return o, err
}

func (s *Service) create(ctx context.Context, organizationID string, req RequestOrder) (*Order, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	composed, err := s.composer.Compose(ctx, organizationID, req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	orderDate := now
	if req.OrderDate != nil {
		orderDate = req.OrderDate.UTC()
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	o := &Order{
		ID:              ident.New(ident.Order),
		OrganizationID:  organizationID,
		CustomerID:      req.CustomerID,
		Status:          status,
		PaymentStatus:   PaymentStatusFor(composed.TotalAmount, nil),
		Products:        composed.Products,
		Delivery:        req.Delivery,
		TotalAmount:     composed.TotalAmount,
		Tags:            tags,
		Tax:             req.Tax,
		Additional:      req.Additional,
		Discount:        req.Discount,
		Payments:        []Payment{},
		ReasonID:        req.ReasonID,
		PreparationDate: req.PreparationDate,
		OrderDate:       orderDate,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "order created",
		logger.OrganizationID(organizationID),
		slog.String("order_id", o.ID),
		slog.Float64("total_amount", o.TotalAmount))
	return o, nil
}

// Get returns an order of the organization.
func (s *Service) Get(ctx context.Context, organizationID, id string) (*Order, error) {
	return s.repo.Get(ctx, organizationID, id)
}

// List returns the organization's orders matching filter.
func (s *Service) List(ctx context.Context, organizationID string, filter ListFilter) ([]Order, error) {
	return s.repo.List(ctx, organizationID, filter)
}

// UpdateStatus moves an order forward in its flow or cancels it. Setting the
// current status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, organizationID, id string, to Status) (*Order, error) {
	o, err := s.repo.Get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if o.Status == to {
		return o, nil
	}
	if err := checkStatus(ctx, s.machine, o.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetStatus(ctx, organizationID, id, o.Status, to, s.clock.Now())
	if errors.Is(err, ErrStatusChanged) {
		return nil, ErrInvalidStatus
	}
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "order status changed",
		slog.String("order_id", id),
		logger.Transition(string(o.Status), string(to)))
	return updated, nil
}

// AddPayment records a payment and recomputes the payment status.
func (s *Service) AddPayment(ctx context.Context, organizationID, id string, p Payment) (*Order, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidPayment
	}
	o, err := s.repo.Get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.clock.Now()
	}
	status := PaymentStatusFor(o.TotalAmount, append(o.Payments[:len(o.Payments):len(o.Payments)], p))
	return s.repo.AddPayment(ctx, organizationID, id, p, status, s.clock.Now())
}

// Delete soft-deletes an order.
func (s *Service) Delete(ctx context.Context, organizationID, id string) error {
	return s.repo.SoftDelete(ctx, organizationID, id)
}
