package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/api"
	"github.com/pedidoz/backoffice/pkg/httpserver"
	"github.com/pedidoz/backoffice/pkg/metrics"
	"github.com/pedidoz/backoffice/pkg/validator"
)

var testUser = struct{ ID, Email, Name string }{"usr_1", "owner@pedidoz.online", "Ana"}

type harness struct {
	subs    *subscriptionsMock
	orders  *ordersMock
	notes   *notificationsMock
	coupons *couponsMock
	catalog *catalogMock
	handler http.Handler
}

func newHarness(t *testing.T, checks ...httpserver.Check) *harness {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := &harness{
		subs:    new(subscriptionsMock),
		orders:  new(ordersMock),
		notes:   new(notificationsMock),
		coupons: new(couponsMock),
		catalog: new(catalogMock),
	}
	h.handler = api.NewRouter(api.Deps{
		Subscriptions: h.subs,
		Orders:        h.orders,
		Notifications: h.notes,
		Coupons:       h.coupons,
		Catalog:       h.catalog,
		Metrics:       metrics.New(reg),
		Gatherer:      reg,
		Checks:        checks,
		QRCodeSize:    128,
	})
	t.Cleanup(func() {
		h.subs.AssertExpectations(t)
		h.orders.AssertExpectations(t)
		h.notes.AssertExpectations(t)
		h.coupons.AssertExpectations(t)
		h.catalog.AssertExpectations(t)
	})
	return h
}

func (h *harness) request(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// do sends the request as the test user.
func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	req := h.request(method, target, body)
	req.Header.Set(api.HeaderUserID, testUser.ID)
	req.Header.Set(api.HeaderUserEmail, testUser.Email)
	req.Header.Set(api.HeaderUserName, testUser.Name)
	return h.serve(req)
}

func (h *harness) anonymous(method, target, body string) *httptest.ResponseRecorder {
	return h.serve(h.request(method, target, body))
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

type errorEnvelope struct {
	Error struct {
		Code      string                     `json:"code"`
		Message   string                     `json:"message"`
		RequestID string                     `json:"request_id"`
		Details   validator.ValidationErrors `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
