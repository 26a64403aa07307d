package mercadopago

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/invoice"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
	"github.com/pedidoz/backoffice/pkg/money"
	"github.com/pedidoz/backoffice/svc/billing"
)

// Gateway implements billing.Gateway on the official Mercado Pago SDK.
type Gateway struct {
	cfg          Config
	requester    *breakerRequester
	preferences  preference.Client
	payments     payment.Client
	preapprovals preapproval.Client
	invoices     invoice.Client
	log          *slog.Logger
	metrics      *metrics.Metrics
}

var _ billing.Gateway = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*options)

type options struct {
	httpClient *http.Client
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// WithHTTPClient replaces the client built from Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New builds the SDK clients on one circuit-breaking requester.
func New(cfg Config, opts ...Option) (*Gateway, error) {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.CurrencyID == "" {
		cfg.CurrencyID = "BRL"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	log := o.log.With(logger.Component("mercadopago"))

	requester := newBreakerRequester(cfg, o.httpClient, log)
	sdkCfg, err := config.New(cfg.AccessToken, config.WithHTTPClient(requester))
	if err != nil {
		return nil, fmt.Errorf("mercadopago: configure sdk: %w", err)
	}

	return &Gateway{
		cfg:          cfg,
		requester:    requester,
		preferences:  preference.NewClient(sdkCfg),
		payments:     payment.NewClient(sdkCfg),
		preapprovals: preapproval.NewClient(sdkCfg),
		invoices:     invoice.NewClient(sdkCfg),
		log:          log,
		metrics:      o.metrics,
	}, nil
}

// CreatePreference opens a checkout for price minus discount. The external
// reference is generated here and becomes the invoice integration id.
func (g *Gateway) CreatePreference(ctx context.Context, req billing.PreferenceRequest) (*billing.Preference, error) {
	externalRef := ident.New(ident.ExternalRef)
	sdkReq := g.preferenceRequest(req, externalRef)

	var resp *preference.Response
	err := g.call(ctx, "create_preference", func(ctx context.Context) (err error) {
		resp, err = g.preferences.Create(ctx, sdkReq)
		return err
	})
	if err != nil {
		return nil, err
	}
	g.log.InfoContext(ctx, "preference created", logger.IntegrationID(externalRef), slog.String("preference_id", resp.ID))
	return &billing.Preference{ID: resp.ID, ExternalReference: externalRef, InitPoint: resp.InitPoint}, nil
}

// GetPreference reads a checkout preference.
func (g *Gateway) GetPreference(ctx context.Context, id string) (*billing.Preference, error) {
	var resp *preference.Response
	err := g.call(ctx, "get_preference", func(ctx context.Context) (err error) {
		resp, err = g.preferences.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &billing.Preference{ID: resp.ID, ExternalReference: resp.ExternalReference, InitPoint: resp.InitPoint}, nil
}

// GetPayment reads a payment. Mercado Pago payment ids are numeric.
func (g *Gateway) GetPayment(ctx context.Context, paymentID string) (*billing.Payment, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid_payment_id", fmt.Errorf("payment id %q: %w", paymentID, err))
	}
	var resp *payment.Response
	err = g.call(ctx, "get_payment", func(ctx context.Context) (err error) {
		resp, err = g.payments.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &billing.Payment{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}

// GetAuthorizedPayment reads one charge of a pre-approval.
func (g *Gateway) GetAuthorizedPayment(ctx context.Context, id string) (*billing.AuthorizedPayment, error) {
	var resp *invoice.Response
	err := g.call(ctx, "get_authorized_payment", func(ctx context.Context) (err error) {
		resp, err = g.invoices.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &billing.AuthorizedPayment{
		ID:            id,
		PreferenceID:  resp.PreapprovalID,
		PreapprovalID: resp.PreapprovalID,
		Payment: billing.PaymentSummary{
			ID:     strconv.Itoa(resp.Payment.ID),
			Status: resp.Payment.Status,
		},
	}, nil
}

// CancelSubscription stops the pre-approval from charging again.
func (g *Gateway) CancelSubscription(ctx context.Context, preapprovalID string) error {
	return g.call(ctx, "cancel_subscription", func(ctx context.Context) error {
		_, err := g.preapprovals.Update(ctx, preapprovalID, preapproval.UpdateRequest{Status: "cancelled"})
		return err
	})
}

func (g *Gateway) preferenceRequest(req billing.PreferenceRequest, externalRef string) preference.Request {
	r := preference.Request{
		Items: []preference.ItemRequest{{
			Title:      req.Reason,
			Quantity:   1,
			UnitPrice:  money.NonNegative(money.Sub(req.Price, req.Discount)),
			CurrencyID: g.cfg.CurrencyID,
		}},
		Payer:             &preference.PayerRequest{Email: req.User.Email, Name: req.User.Name},
		ExternalReference: externalRef,
		NotificationURL:   g.cfg.NotificationURL,
	}
	if req.User.BackURL != "" {
		r.BackURLs = &preference.BackURLsRequest{
			Success: req.User.BackURL,
			Pending: req.User.BackURL,
			Failure: req.User.BackURL,
		}
		r.AutoReturn = "approved"
	}
	return r
}

// call runs fn under the configured timeout, records metrics and maps any
// failure to a Gateway error.
func (g *Gateway) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	g.metrics.GatewayCall(op, time.Since(start), err)
	if err != nil {
		g.log.ErrorContext(ctx, "gateway call failed", logger.Event(op), logger.Error(err))
		return apperr.Gateway(fmt.Errorf("mercadopago: %s: %w", op, err))
	}
	return nil
}
