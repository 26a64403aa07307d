package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pedidoz/backoffice/pkg/logger"
)

// Webhook topics sent by the gateway.
const (
	WebhookPayment            = "payment"
	WebhookSubscriptionPrefix = "subscription_"
)

// WebhookEvent is one gateway notification.
type WebhookEvent struct {
	Type   string
	DataID string
	Body   []byte
}

// HandleWebhook routes a gateway notification. The returned invoice is nil
// when the event does not reference a known invoice.
func (s *Service) HandleWebhook(ctx context.Context, ev WebhookEvent) (*Invoice, error) {
	var (
		inv *Invoice
		err error
	)
	switch {
	case ev.Type == WebhookPayment:
		inv, err = s.UpdatePayment(ctx, ev.DataID)
	case strings.HasPrefix(ev.Type, WebhookSubscriptionPrefix):
		inv, err = s.UpdateSubscription(ctx, ev.DataID, ev.Body)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedWebhook, ev.Type)
	}

	switch {
	case err != nil:
		s.metrics.Webhook(ev.Type, "error")
		s.log.ErrorContext(ctx, "webhook failed",
			logger.Event(ev.Type), logger.PaymentID(ev.DataID), logger.Error(err))
	case inv == nil:
		s.metrics.Webhook(ev.Type, "ignored")
	default:
		s.metrics.Webhook(ev.Type, "applied")
	}
	return inv, err
}

// UpdatePayment applies the status of a gateway payment to its invoice.
// Payments without a matching invoice are ignored. Repeated deliveries and
// moves out of PAID leave the invoice unchanged.
func (s *Service) UpdatePayment(ctx context.Context, paymentID string) (*Invoice, error) {
	log := s.log.With(logger.PaymentID(paymentID))

	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	log = log.With(logger.IntegrationID(payment.ExternalReference))

	inv, err := s.invoices.FindByIntegration(ctx, IntegrationMercadoPago, payment.ExternalReference)
	if errors.Is(err, ErrInvoiceNotFound) {
		log.InfoContext(ctx, "payment does not reference a known invoice")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	target := StatusFromGateway(payment.Status)
	updated, changed, err := s.transition(ctx, inv, target, nil)
	if errors.Is(err, ErrInvalidTransition) {
		log.InfoContext(ctx, "payment status ignored", logger.InvoiceID(inv.ID), logger.Transition(string(inv.Status), string(target)))
		return updated, nil
	}
	if err != nil {
		return updated, err
	}
	if !changed {
		log.DebugContext(ctx, "payment status already applied", logger.InvoiceID(inv.ID))
	}
	return updated, nil
}

// UpdateSubscription resolves the invoice behind a gateway authorized payment
// and returns it. The authorized payment status is logged, not applied; the
// pre-approval it belongs to is recorded so Unsubscribe can cancel it.
func (s *Service) UpdateSubscription(ctx context.Context, subscriptionID string, _ []byte) (*Invoice, error) {
	authorized, err := s.gateway.GetAuthorizedPayment(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	pref, err := s.gateway.GetPreference(ctx, authorized.PreferenceID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoices.FindByIntegration(ctx, IntegrationMercadoPago, pref.ExternalReference)
	if errors.Is(err, ErrInvoiceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if authorized.PreapprovalID != "" && inv.PreapprovalID != authorized.PreapprovalID {
		if err := s.invoices.SetPreapproval(ctx, inv.ID, authorized.PreapprovalID); err != nil {
			return nil, err
		}
		inv.PreapprovalID = authorized.PreapprovalID
	}

	if authorized.Payment.Status != "" {
		s.log.InfoContext(ctx, "authorized payment observed",
			logger.InvoiceID(inv.ID),
			logger.IntegrationID(authorized.PreferenceID),
			logger.Transition(string(inv.Status), string(StatusFromGateway(authorized.Payment.Status))),
		)
	}
	return inv, nil
}

// MarkOverdue moves PENDING invoices created more than olderThan ago to
// OVERDUE and returns how many moved.
func (s *Service) MarkOverdue(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.clock.Now().Add(-olderThan)
	pending, err := s.invoices.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var (
		moved int
		errs  []error
	)
	for i := range pending {
		_, changed, err := s.transition(ctx, &pending[i], StatusOverdue, nil)
		if err != nil && !errors.Is(err, ErrInvalidTransition) {
			errs = append(errs, err)
			continue
		}
		if changed {
			moved++
		}
	}
	if moved > 0 {
		s.log.InfoContext(ctx, "invoices marked overdue", logger.Event("overdue_sweep"), "count", moved)
	}
	return moved, errors.Join(errs...)
}
