// Package billing orchestrates subscriptions: the per-organization plan
// timeline, invoices and their state machine, prorated plan changes, coupon
// redemption and payment gateway webhooks.
//
// Service depends on ports only. Ledgers, the gateway, the coupon engine, the
// owner lookup and the mailer are injected, so the orchestration logic is
// tested against in-memory ledgers and fakes while production wires the
// mongostore and mercadopago subpackages.
//
// Invoice status changes go through a compare-and-set on the stored status.
// A writer that loses the race re-reads the invoice and re-evaluates; moving to
// the state an invoice already holds is a no-op, which makes webhook delivery
// idempotent. Side effects of entering PAID (truncating the organization's
// other plans, the confirmation email) run only for the writer that won.
package billing
