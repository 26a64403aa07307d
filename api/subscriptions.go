package api

import (
	"net/http"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/qrcode"
	"github.com/pedidoz/backoffice/svc/billing"
)

var ErrInvoiceNotPayable = apperr.New(apperr.KindDomainRule, "invoice_not_payable", "invoice is not waiting for payment")

type subscribeRequest struct {
	OrganizationID  string `path:"orgID" json:"-"`
	PlanID          string `json:"plan_id"`
	AllowAdditional bool   `json:"allow_additional"`
	CouponID        string `json:"coupon_id,omitempty"`
}

func (h *handlers) subscribe(r *http.Request, req subscribeRequest) (Response, error) {
	res, err := h.subs.Subscribe(r.Context(), billing.SubscribeInput{
		PlanID:          req.PlanID,
		OrganizationID:  req.OrganizationID,
		AllowAdditional: req.AllowAdditional,
		CouponID:        req.CouponID,
		User:            caller(r),
	})
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusCreated, res), nil
}

type recreateRequest struct {
	OrganizationID  string `path:"orgID" json:"-"`
	PlanID          string `json:"plan_id"`
	AllowAdditional bool   `json:"allow_additional"`
}

func (h *handlers) recreate(r *http.Request, req recreateRequest) (Response, error) {
	res, err := h.subs.RecreateSubscription(r.Context(), billing.RecreateInput{
		PlanID:          req.PlanID,
		OrganizationID:  req.OrganizationID,
		AllowAdditional: req.AllowAdditional,
		User:            caller(r),
	})
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusCreated, res), nil
}

type organizationPath struct {
	OrganizationID string `path:"orgID"`
}

func (h *handlers) unsubscribe(r *http.Request, req organizationPath) (Response, error) {
	if err := h.subs.Unsubscribe(r.Context(), req.OrganizationID); err != nil {
		return nil, err
	}
	return NoContent(), nil
}

func (h *handlers) activeSubscription(r *http.Request, req organizationPath) (Response, error) {
	active, err := h.subs.GetActiveSubscription(r.Context(), req.OrganizationID)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, active), nil
}

type organizationPlanPath struct {
	OrganizationID     string `path:"orgID"`
	OrganizationPlanID string `path:"orgPlanID"`
}

func (h *handlers) listInvoices(r *http.Request, req organizationPlanPath) (Response, error) {
	invoices, err := h.subs.ListInvoices(r.Context(), req.OrganizationPlanID)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, invoices), nil
}

type invoicePath struct {
	InvoiceID string `path:"invoiceID"`
}

// invoiceQRCode renders the checkout link of a pending invoice as a PNG.
func (h *handlers) invoiceQRCode(r *http.Request, req invoicePath) (Response, error) {
	inv, err := h.subs.Invoice(r.Context(), req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != billing.StatusPending || inv.InitPoint == "" {
		return nil, ErrInvoiceNotPayable
	}
	png, err := qrcode.PaymentLink(inv.InitPoint, h.qrSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return PNG(png), nil
}
