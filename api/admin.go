package api

import (
	"net/http"

	"github.com/pedidoz/backoffice/pkg/validator"
	"github.com/pedidoz/backoffice/svc/coupon"
)

func (h *handlers) createCoupon(r *http.Request, req coupon.CreateInput) (Response, error) {
	c, err := h.coupons.Create(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusCreated, c), nil
}

type couponLookupRequest struct {
	Name string `query:"name"`
}

// findCoupon resolves a coupon code typed by a customer.
func (h *handlers) findCoupon(r *http.Request, req couponLookupRequest) (Response, error) {
	if err := validator.Apply(validator.Required("name", req.Name)); err != nil {
		return nil, err
	}
	c, err := h.coupons.GetByName(r.Context(), req.Name)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, c), nil
}

type couponPath struct {
	CouponID string `path:"couponID"`
}

func (h *handlers) getCoupon(r *http.Request, req couponPath) (Response, error) {
	c, err := h.coupons.Get(r.Context(), req.CouponID)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, c), nil
}

func (h *handlers) deleteCoupon(r *http.Request, req couponPath) (Response, error) {
	if err := h.coupons.Delete(r.Context(), req.CouponID); err != nil {
		return nil, err
	}
	return NoContent(), nil
}

// invalidateCatalog reloads plans in this process and tells the others to do the same.
func (h *handlers) invalidateCatalog(r *http.Request, _ struct{}) (Response, error) {
	if err := h.catalog.Invalidate(r.Context()); err != nil {
		return nil, err
	}
	return NoContent(), nil
}
