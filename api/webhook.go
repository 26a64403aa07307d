package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/binder"
	"github.com/pedidoz/backoffice/svc/billing"
)

var (
	ErrWebhookIgnored   = apperr.New(apperr.KindDomainRule, "webhook_ignored", "notification does not reference a known invoice")
	ErrWebhookMalformed = apperr.New(apperr.KindValidation, "webhook_malformed", "notification type or resource id missing")
)

type webhookQuery struct {
	Type   string `query:"type"`
	DataID string `query:"data.id"`
	// legacy IPN parameters
	Topic string `query:"topic"`
	ID    string `query:"id"`
}

// webhookBody is the JSON the gateway posts alongside the query.
type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

type webhookApplied struct {
	InvoiceID string         `json:"invoice_id"`
	Status    billing.Status `json:"status"`
}

// webhook answers 200 only when the notification changed or confirmed an
// invoice. Everything else, including internal failures, is a 400 so the
// gateway delivers it again.
func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	ev, err := readWebhook(r)
	if err == nil {
		var inv *billing.Invoice
		inv, err = h.subs.HandleWebhook(r.Context(), ev)
		if err == nil && inv == nil {
			err = ErrWebhookIgnored
		}
		if err == nil {
			_ = JSON(http.StatusOK, webhookApplied{InvoiceID: inv.ID, Status: inv.Status}).Render(w, r)
			return
		}
	}
	writeErrorStatus(w, r, h.log, http.StatusBadRequest, err)
}

func readWebhook(r *http.Request) (billing.WebhookEvent, error) {
	var q webhookQuery
	if err := binder.Query()(r, &q); err != nil {
		return billing.WebhookEvent{}, err
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, binder.MaxJSONSize))
	if err != nil {
		return billing.WebhookEvent{}, apperr.Wrap(apperr.KindValidation, "webhook_malformed", err)
	}

	ev := billing.WebhookEvent{Type: q.Type, DataID: q.DataID, Body: body}
	if ev.Type == "" {
		ev.Type = q.Topic
	}
	if ev.DataID == "" {
		ev.DataID = q.ID
	}
	if (ev.Type == "" || ev.DataID == "") && len(body) > 0 {
		var b webhookBody
		if json.Unmarshal(body, &b) == nil {
			if ev.Type == "" {
				ev.Type = b.Type
			}
			if ev.DataID == "" {
				ev.DataID = strings.Trim(string(b.Data.ID), `"`)
			}
		}
	}
	if ev.Type == "" || ev.DataID == "" {
		return ev, ErrWebhookMalformed
	}
	return ev, nil
}
