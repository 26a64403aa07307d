package coupon

import (
	"errors"

	"github.com/pedidoz/backoffice/pkg/apperr"
)

var (
	ErrCouponNotFound  = apperr.New(apperr.KindNotFound, "coupon_not_found", "coupon not found")
	ErrCouponExpired   = apperr.New(apperr.KindDomainRule, "coupon_expired", "coupon has expired")
	ErrCouponExhausted = apperr.New(apperr.KindDomainRule, "coupon_exhausted", "coupon usage limit reached")
	ErrDuplicateCoupon = apperr.New(apperr.KindConflict, "coupon_duplicate", "a coupon with this name already exists")
	ErrConflict        = apperr.New(apperr.KindConflict, "coupon_conflict", "coupon was updated concurrently, try again")
	ErrInvalidQuantity = apperr.New(apperr.KindValidation, "coupon_invalid_quantity", "quantity must be positive")

	// ErrStaleUsage is returned by a Repository when usage_count no longer
	// holds the expected value.
	ErrStaleUsage = errors.New("coupon usage_count changed")
)
