package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("name", "PROMO10"),
			validator.Positive("value", 10.0),
			validator.Between("consumption_factor", 0.5, 0, 1),
			validator.OneOf("selection_type", "RADIO", "RADIO", "CHECKBOX", "NUMBER"),
			validator.After("expires_at", now.Add(time.Hour), now),
			validator.NotEmpty("channels", []string{"EMAIL"}),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("name", " "),
			validator.NonNegative("price", -1.0),
			validator.LessOrEqual("min_quantity", 3, "max_quantity", 1),
			validator.Min("limit", 0, 1),
		)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		ve := validator.Extract(err)
		require.Len(t, ve, 4)
		assert.True(t, ve.Has("name"))
		assert.True(t, ve.Has("min_quantity"))
		assert.False(t, ve.Has("max_quantity"))
	})

	t.Run("conditional rule", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.When(false, validator.Max("value", 150.0, 100))))
		assert.Error(t, validator.Apply(validator.When(true, validator.Max("value", 150.0, 100))))
	})
}

type couponRequest struct {
	Name  string  `json:"name" validate:"required"`
	Value float64 `json:"value" validate:"gt=0"`
	Limit int     `json:"limit" validate:"min=1"`
	Owner struct {
		Email string `json:"email" validate:"required,email"`
	} `json:"owner"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	valid := couponRequest{Name: "PROMO", Value: 10, Limit: 5}
	valid.Owner.Email = "owner@example.com"
	assert.NoError(t, validator.Struct(valid))

	err := validator.Struct(couponRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	ve := validator.Extract(err)
	assert.True(t, ve.Has("name"))
	assert.True(t, ve.Has("value"))
	assert.True(t, ve.Has("limit"))
	assert.True(t, ve.Has("owner.email"))
}
