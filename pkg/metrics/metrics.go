package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pedidoz"

// Metrics holds the billing and ordering collectors. Every recording method is
// safe on a nil *Metrics, so services built without metrics need no checks.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	InvoiceTransitionsTotal *prometheus.CounterVec
	SubscriptionsTotal      *prometheus.CounterVec
	WebhooksTotal           *prometheus.CounterVec
	CouponRedemptionsTotal  *prometheus.CounterVec

	GatewayRequestsTotal   *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec

	OrdersTotal        *prometheus.CounterVec
	OrderAmount        prometheus.Histogram
	NotificationsTotal *prometheus.CounterVec

	CatalogRefreshTotal *prometheus.CounterVec
	CatalogPlans        prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InvoiceTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_transitions_total",
			Help:      "Applied invoice status transitions.",
		}, []string{"from", "to"}),
		SubscriptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "Subscriptions created, by operation and whether the invoice was free.",
		}, []string{"operation", "free"}),
		WebhooksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Payment gateway webhooks by topic and outcome.",
		}, []string{"topic", "outcome"}),
		CouponRedemptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redemptions_total",
			Help:      "Coupon usage updates by outcome.",
		}, []string{"outcome"}),
		GatewayRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Payment gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		GatewayRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment gateway call latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Order composition attempts by outcome.",
		}, []string{"outcome"}),
		OrderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_amount",
			Help:      "Total amount of created orders.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification create attempts by outcome.",
		}, []string{"outcome"}),
		CatalogRefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refresh_total",
			Help:      "Plan catalog snapshot rebuilds by outcome.",
		}, []string{"outcome"}),
		CatalogPlans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_plans",
			Help:      "Plans in the installed catalog snapshot.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.InvoiceTransitionsTotal,
		m.SubscriptionsTotal,
		m.WebhooksTotal,
		m.CouponRedemptionsTotal,
		m.GatewayRequestsTotal,
		m.GatewayRequestDuration,
		m.OrdersTotal,
		m.OrderAmount,
		m.NotificationsTotal,
		m.CatalogRefreshTotal,
		m.CatalogPlans,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InvoiceTransition counts a stored invoice status change.
func (m *Metrics) InvoiceTransition(from, to string) {
	if m == nil {
		return
	}
	m.InvoiceTransitionsTotal.WithLabelValues(from, to).Inc()
}

// Subscription counts a subscription operation, split by free plans.
func (m *Metrics) Subscription(operation string, free bool) {
	if m == nil {
		return
	}
	m.SubscriptionsTotal.WithLabelValues(operation, strconv.FormatBool(free)).Inc()
}

// Webhook counts a gateway notification by topic and outcome.
func (m *Metrics) Webhook(topic, outcome string) {
	if m == nil {
		return
	}
	m.WebhooksTotal.WithLabelValues(topic, outcome).Inc()
}

func (m *Metrics) CouponRedemption(outcome string) {
	if m == nil {
		return
	}
	m.CouponRedemptionsTotal.WithLabelValues(outcome).Inc()
}

// GatewayCall records one outbound gateway request.
func (m *Metrics) GatewayCall(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.GatewayRequestsTotal.WithLabelValues(operation, outcome(err)).Inc()
	m.GatewayRequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// Order observes the total of a created order, or counts the failure.
func (m *Metrics) Order(total float64, err error) {
	if m == nil {
		return
	}
	m.OrdersTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.OrderAmount.Observe(total)
	}
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(outcome).Inc()
}

// CatalogRefresh records the plan count of a reload, or its failure.
func (m *Metrics) CatalogRefresh(plans int, err error) {
	if m == nil {
		return
	}
	m.CatalogRefreshTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.CatalogPlans.Set(float64(plans))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
