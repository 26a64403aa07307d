package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pedidoz/backoffice/pkg/binder"
	"github.com/pedidoz/backoffice/pkg/httpserver"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
	"github.com/pedidoz/backoffice/pkg/requestid"
	"github.com/pedidoz/backoffice/svc/billing"
	"github.com/pedidoz/backoffice/svc/coupon"
	"github.com/pedidoz/backoffice/svc/notification"
	"github.com/pedidoz/backoffice/svc/order"
)

// Subscriptions is the part of billing.Service served over HTTP.
type Subscriptions interface {
	Subscribe(ctx context.Context, in billing.SubscribeInput) (*billing.SubscriptionResult, error)
	RecreateSubscription(ctx context.Context, in billing.RecreateInput) (*billing.SubscriptionResult, error)
	Unsubscribe(ctx context.Context, organizationID string) error
	GetActiveSubscription(ctx context.Context, organizationID string) (*billing.ActiveSubscription, error)
	ListInvoices(ctx context.Context, organizationPlanID string) ([]billing.Invoice, error)
	Invoice(ctx context.Context, id string) (*billing.Invoice, error)
	HandleWebhook(ctx context.Context, ev billing.WebhookEvent) (*billing.Invoice, error)
}

// Orders is the order service as seen by the HTTP layer.
type Orders interface {
	Create(ctx context.Context, organizationID string, req order.RequestOrder) (*order.Order, error)
	Get(ctx context.Context, organizationID, id string) (*order.Order, error)
	List(ctx context.Context, organizationID string, filter order.ListFilter) ([]order.Order, error)
	UpdateStatus(ctx context.Context, organizationID, id string, to order.Status) (*order.Order, error)
	AddPayment(ctx context.Context, organizationID, id string, p order.Payment) (*order.Order, error)
	Delete(ctx context.Context, organizationID, id string) error
}

// Notifications is the notification gate as seen by the HTTP layer.
type Notifications interface {
	Create(ctx context.Context, n notification.Notification, to notification.Recipient) (*notification.Notification, error)
	List(ctx context.Context, userID string, opts notification.ListOptions) ([]notification.Notification, error)
	MarkRead(ctx context.Context, userID string, ids ...string) error
	Delete(ctx context.Context, userID string, ids ...string) error
}

// Coupons is the coupon administration served under /admin.
type Coupons interface {
	Create(ctx context.Context, in coupon.CreateInput) (*coupon.Coupon, error)
	Get(ctx context.Context, id string) (*coupon.Coupon, error)
	GetByName(ctx context.Context, name string) (*coupon.Coupon, error)
	Delete(ctx context.Context, id string) error
}

// Catalog reloads the plan catalog on demand. *catalog.Catalog implements it.
type Catalog interface {
	Invalidate(ctx context.Context) error
}

// Deps wires the router. Metrics, Gatherer and Checks are optional. The admin
// routes are mounted only for the dependencies that are set.
type Deps struct {
	Subscriptions Subscriptions
	Orders        Orders
	Notifications Notifications
	Coupons       Coupons
	Catalog       Catalog
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Checks        []httpserver.Check
	Logger        *slog.Logger
	// QRCodeSize is the edge of the payment QR in pixels.
	QRCodeSize int
}

type handlers struct {
	subs    Subscriptions
	orders  Orders
	notes   Notifications
	coupons Coupons
	catalog Catalog
	log     *slog.Logger
	qrSize  int
}

var pathParams = binder.Path(chi.URLParam)

// NewRouter mounts every route whose dependency is set in d. Routes under
// the identity group reject requests without a user.
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("api"))
	if d.QRCodeSize <= 0 {
		d.QRCodeSize = 256
	}
	h := &handlers{
		subs:    d.Subscriptions,
		orders:  d.Orders,
		notes:   d.Notifications,
		coupons: d.Coupons,
		catalog: d.Catalog,
		log:     log,
		qrSize:  d.QRCodeSize,
	}

	r := chi.NewRouter()
	r.Use(recoverer(log), requestid.Middleware, d.Metrics.Middleware)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, log, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
	})

	r.Get("/health", httpserver.HealthCheckHandler(log, d.Checks...))
	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	r.Post("/webhooks/mercado-pago", h.webhook)
	r.Get("/invoices/{invoiceID}/qrcode", handle(log, h.invoiceQRCode, pathParams))

	r.Group(func(r chi.Router) {
		r.Use(identity(log))

		r.Route("/organizations/{orgID}", func(r chi.Router) {
			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/", handle(log, h.subscribe, binder.JSON(), pathParams))
				r.Put("/", handle(log, h.recreate, binder.JSON(), pathParams))
				r.Delete("/", handle(log, h.unsubscribe, pathParams))
				r.Get("/active", handle(log, h.activeSubscription, pathParams))
				r.Get("/{orgPlanID}/invoices", handle(log, h.listInvoices, pathParams))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", handle(log, h.createOrder, binder.JSON(), pathParams))
				r.Get("/", handle(log, h.listOrders, binder.Query(), pathParams))
				r.Get("/{orderID}", handle(log, h.getOrder, pathParams))
				r.Delete("/{orderID}", handle(log, h.deleteOrder, pathParams))
				r.Put("/{orderID}/status", handle(log, h.updateOrderStatus, binder.JSON(), pathParams))
				r.Post("/{orderID}/payments", handle(log, h.addOrderPayment, binder.JSON(), pathParams))
			})

			r.Post("/notifications", handle(log, h.createNotification, binder.JSON(), pathParams))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", handle(log, h.listNotifications, binder.Query()))
			r.Post("/read", handle(log, h.markNotificationsRead, binder.JSON()))
			r.Delete("/{notificationID}", handle(log, h.deleteNotification, pathParams))
		})

		r.Route("/admin", func(r chi.Router) {
			if h.coupons != nil {
				r.Post("/coupons", handle(log, h.createCoupon, binder.JSON()))
				r.Get("/coupons", handle(log, h.findCoupon, binder.Query()))
				r.Get("/coupons/{couponID}", handle(log, h.getCoupon, pathParams))
				r.Delete("/coupons/{couponID}", handle(log, h.deleteCoupon, pathParams))
			}
			if h.catalog != nil {
				r.Post("/catalog/invalidate", handle(log, h.invalidateCatalog))
			}
		})
	})

	return r
}
