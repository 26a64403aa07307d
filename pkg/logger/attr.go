package logger

import "log/slog"

// Error records err under "error". A nil err yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records a domain event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func RequestID(id string) slog.Attr {
	return optional("request_id", id)
}

func UserID(id string) slog.Attr {
	return optional("user_id", id)
}

// OrganizationID is the organization_id attribute.
func OrganizationID(id string) slog.Attr {
	return optional("organization_id", id)
}

// InvoiceID is the invoice_id attribute.
func InvoiceID(id string) slog.Attr {
	return optional("invoice_id", id)
}

func PlanID(id string) slog.Attr {
	return optional("plan_id", id)
}

func CouponID(id string) slog.Attr {
	return optional("coupon_id", id)
}

// IntegrationID records the payment gateway reference of an invoice.
func IntegrationID(id string) slog.Attr {
	return optional("integration_id", id)
}

func PaymentID(id string) slog.Attr {
	return optional("payment_id", id)
}

// Transition records an invoice status change as "from -> to".
func Transition(from, to string) slog.Attr {
	return slog.Group("transition", slog.String("from", from), slog.String("to", to))
}

func optional(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(key, value)
}
