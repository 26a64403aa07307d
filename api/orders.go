package api

import (
	"net/http"
	"time"

	"github.com/pedidoz/backoffice/svc/order"
)

type createOrderRequest struct {
	OrganizationID string `path:"orgID" json:"-"`
	order.RequestOrder
}

func (h *handlers) createOrder(r *http.Request, req createOrderRequest) (Response, error) {
	o, err := h.orders.Create(r.Context(), req.OrganizationID, req.RequestOrder)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusCreated, o), nil
}

type listOrdersRequest struct {
	OrganizationID string `path:"orgID"`
	Status         string `query:"status"`
	From           string `query:"from"`
	To             string `query:"to"`
	Limit          int    `query:"limit"`
}

func (h *handlers) listOrders(r *http.Request, req listOrdersRequest) (Response, error) {
	filter := order.ListFilter{Status: order.Status(req.Status), Limit: req.Limit}
	var err error
	if filter.From, err = parseDay(req.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseDay(req.To); err != nil {
		return nil, err
	}
	orders, err := h.orders.List(r.Context(), req.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, orders), nil
}

// parseDay accepts RFC 3339 timestamps or plain dates. Empty means unset.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

type orderPath struct {
	OrganizationID string `path:"orgID"`
	OrderID        string `path:"orderID"`
}

func (h *handlers) getOrder(r *http.Request, req orderPath) (Response, error) {
	o, err := h.orders.Get(r.Context(), req.OrganizationID, req.OrderID)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, o), nil
}

func (h *handlers) deleteOrder(r *http.Request, req orderPath) (Response, error) {
	if err := h.orders.Delete(r.Context(), req.OrganizationID, req.OrderID); err != nil {
		return nil, err
	}
	return NoContent(), nil
}

type orderStatusRequest struct {
	OrganizationID string       `path:"orgID" json:"-"`
	OrderID        string       `path:"orderID" json:"-"`
	Status         order.Status `json:"status"`
}

func (h *handlers) updateOrderStatus(r *http.Request, req orderStatusRequest) (Response, error) {
	o, err := h.orders.UpdateStatus(r.Context(), req.OrganizationID, req.OrderID, req.Status)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, o), nil
}

type orderPaymentRequest struct {
	OrganizationID string `path:"orgID" json:"-"`
	OrderID        string `path:"orderID" json:"-"`
	order.Payment
}

func (h *handlers) addOrderPayment(r *http.Request, req orderPaymentRequest) (Response, error) {
	o, err := h.orders.AddPayment(r.Context(), req.OrganizationID, req.OrderID, req.Payment)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusCreated, o), nil
}
