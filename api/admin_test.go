package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/api"
	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/svc/coupon"
)

func TestCreateCoupon(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	expires := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	in := coupon.CreateInput{Name: "natal", Value: 15, IsPercent: true, ExpiresAt: expires, Limit: 50}
	h.coupons.On("Create", mock.Anything, in).Return(&coupon.Coupon{ID: "cou_1", Name: "NATAL"}, nil).Once()
	h.coupons.On("Create", mock.Anything, in).Return(nil, coupon.ErrDuplicateCoupon).Once()

	body := `{"name":"natal","value":15,"is_percent":true,"expires_at":"2025-12-31T23:59:59Z","limit":50}`
	rec := h.do(http.MethodPost, "/admin/coupons", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "NATAL", decode[coupon.Coupon](t, rec).Name)

	rec = h.do(http.MethodPost, "/admin/coupons", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "coupon_duplicate", decodeError(t, rec).Error.Code)
}

func TestCouponLookupAndDelete(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.coupons.On("GetByName", mock.Anything, "natal").Return(&coupon.Coupon{ID: "cou_1", Name: "NATAL"}, nil)
	h.coupons.On("Get", mock.Anything, "cou_1").Return(&coupon.Coupon{ID: "cou_1"}, nil)
	h.coupons.On("Get", mock.Anything, "cou_x").Return(nil, coupon.ErrCouponNotFound)
	h.coupons.On("Delete", mock.Anything, "cou_1").Return(nil)

	rec := h.do(http.MethodGet, "/admin/coupons?name=natal", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cou_1", decode[coupon.Coupon](t, rec).ID)

	rec = h.do(http.MethodGet, "/admin/coupons", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, decodeError(t, rec).Error.Details.Has("name"))

	rec = h.do(http.MethodGet, "/admin/coupons/cou_1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/admin/coupons/cou_x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "coupon_not_found", decodeError(t, rec).Error.Code)

	rec = h.do(http.MethodDelete, "/admin/coupons/cou_1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInvalidateCatalog(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.catalog.On("Invalidate", mock.Anything).Return(nil).Once()
	h.catalog.On("Invalidate", mock.Anything).Return(apperr.Internal(errors.New("redis down"))).Once()

	rec := h.do(http.MethodPost, "/admin/catalog/invalidate", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodPost, "/admin/catalog/invalidate", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis down")

	rec = h.anonymous(http.MethodPost, "/admin/catalog/invalidate", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesNeedDependencies(t *testing.T) {
	t.Parallel()
	router := api.NewRouter(api.Deps{})
	h := &harness{handler: router}

	rec := h.do(http.MethodPost, "/admin/catalog/invalidate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
