package billing

import "github.com/pedidoz/backoffice/pkg/apperr"

var (
	ErrAlreadyActive   = apperr.New(apperr.KindDomainRule, "already_active", "organization already has an active plan")
	ErrNoPlanToUpgrade = apperr.New(apperr.KindDomainRule, "no_plan_to_upgrade", "organization has no plan to change today")
	ErrNoActivePlan    = apperr.New(apperr.KindNotFound, "no_active_plan", "organization has no active plan")

	ErrSubscriptionInProgress = apperr.New(apperr.KindConflict, "subscription_in_progress", "another subscription change is running for this organization")

	ErrOrganizationPlanNotFound = apperr.New(apperr.KindNotFound, "organization_plan_not_found", "organization plan not found")
	ErrInvoiceNotFound          = apperr.New(apperr.KindNotFound, "invoice_not_found", "invoice not found")
	ErrNoPaidInvoice            = apperr.New(apperr.KindNotFound, "no_paid_invoice", "no paid invoice for the active plan")
	ErrNoGatewaySubscription    = apperr.New(apperr.KindDomainRule, "no_gateway_subscription", "the active plan has no recurring gateway agreement")

	ErrInvalidTransition    = apperr.New(apperr.KindDomainRule, "invalid_transition", "invoice status transition not allowed")
	ErrStatusConflict       = apperr.New(apperr.KindConflict, "invoice_status_conflict", "invoice status changed concurrently")
	ErrDuplicateIntegration = apperr.New(apperr.KindConflict, "invoice_duplicate_integration", "an invoice already references this gateway resource")

	ErrUnsupportedWebhook = apperr.New(apperr.KindDomainRule, "unsupported_webhook", "webhook type not supported")
)
