package ident_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedidoz/backoffice/pkg/ident"
)

func TestNew(t *testing.T) {
	t.Parallel()

	id := ident.New(ident.Invoice)
	assert.True(t, strings.HasPrefix(id, "inv_"))
	assert.True(t, ident.HasPrefix(id, ident.Invoice))
	assert.False(t, ident.HasPrefix(id, ident.Order))
	assert.NotEqual(t, id, ident.New(ident.Invoice))
}

func TestHasPrefix_RejectsGarbage(t *testing.T) {
	t.Parallel()

	assert.False(t, ident.HasPrefix("inv_not-a-uuid", ident.Invoice))
	assert.False(t, ident.HasPrefix("", ident.Invoice))
}

func TestDerive_IsStable(t *testing.T) {
	t.Parallel()

	a := ident.Derive(ident.PlanFeature, "pln_basic/max_tags_per_order")
	assert.Equal(t, a, ident.Derive(ident.PlanFeature, "pln_basic/max_tags_per_order"))
	assert.NotEqual(t, a, ident.Derive(ident.PlanFeature, "pln_pro/max_tags_per_order"))
	assert.True(t, ident.HasPrefix(a, ident.PlanFeature))
}
