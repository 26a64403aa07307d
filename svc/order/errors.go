package order

import (
	"errors"

	"github.com/pedidoz/backoffice/pkg/apperr"
)

var (
	ErrProductUnknown            = apperr.New(apperr.KindNotFound, "product_unknown", "product not found")
	ErrItemNotFound              = apperr.New(apperr.KindNotFound, "additional_item_not_found", "additional item not found")
	ErrOrderNotFound             = apperr.New(apperr.KindNotFound, "order_not_found", "order not found")
	ErrAdditionalNotApplicable   = apperr.New(apperr.KindDomainRule, "additional_not_applicable", "additional item does not belong to the product")
	ErrAdditionalQuantityInvalid = apperr.New(apperr.KindDomainRule, "additional_quantity_invalid", "additional selection is out of the allowed range")
	ErrPlanLimitExceeded         = apperr.New(apperr.KindDomainRule, "plan_limit_exceeded", "order exceeds the organization plan limits")
	ErrInvalidStatus             = apperr.New(apperr.KindDomainRule, "invalid_transition", "order status change not allowed")
	ErrInvalidPayment            = apperr.New(apperr.KindValidation, "invalid_payment", "payment amount must be positive")
)

// ErrStatusChanged reports that the stored status no longer matches the expected one.
var ErrStatusChanged = errors.New("order status changed concurrently")
