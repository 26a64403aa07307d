package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/binder"
)

type subscribeBody struct {
	PlanID   string `json:"plan_id"`
	CouponID string `json:"coupon_id,omitempty"`
}

func jsonRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()
	bind := binder.JSON()

	var ok subscribeBody
	require.NoError(t, bind(jsonRequest(`{"plan_id":"pln_pro"}`, "application/json; charset=utf-8"), &ok))
	assert.Equal(t, "pln_pro", ok.PlanID)

	tests := []struct {
		name        string
		body        string
		contentType string
		want        error
	}{
		{"wrong media type", `{"plan_id":"x"}`, "text/plain", binder.ErrUnsupportedMediaType},
		{"missing media type", `{"plan_id":"x"}`, "", binder.ErrUnsupportedMediaType},
		{"unknown field", `{"plan":"x"}`, "application/json", binder.ErrInvalidJSON},
		{"empty body", ``, "application/json", binder.ErrInvalidJSON},
		{"trailing data", `{"plan_id":"x"}{}`, "application/json", binder.ErrInvalidJSON},
		{"wrong type", `{"plan_id":1}`, "application/json", binder.ErrInvalidJSON},
		{"too large", `{"plan_id":"` + strings.Repeat("a", binder.MaxJSONSize) + `"}`, "application/json", binder.ErrBodyTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got subscribeBody
			err := bind(jsonRequest(tt.body, tt.contentType), &got)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

type webhookQuery struct {
	Type   string   `query:"type"`
	DataID string   `query:"data.id"`
	Limit  int      `query:"limit"`
	Unread *bool    `query:"unread"`
	IDs    []string `query:"ids"`
	Skip   string
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/?type=payment&data.id=123&limit=5&unread=true&ids=a,b&ids=c&skip=x", nil)
	var q webhookQuery
	require.NoError(t, binder.Query()(r, &q))
	assert.Equal(t, "payment", q.Type)
	assert.Equal(t, "123", q.DataID)
	assert.Equal(t, 5, q.Limit)
	require.NotNil(t, q.Unread)
	assert.True(t, *q.Unread)
	assert.Equal(t, []string{"a", "b", "c"}, q.IDs)
	assert.Empty(t, q.Skip, "untagged fields are not bound")

	r = httptest.NewRequest(http.MethodGet, "/?limit=many", nil)
	err := binder.Query()(r, &q)
	require.ErrorIs(t, err, binder.ErrInvalidQuery)
}

func TestPath(t *testing.T) {
	t.Parallel()

	params := map[string]string{"orgID": "org_1", "page": "2"}
	lookup := func(_ *http.Request, name string) string { return params[name] }

	var target struct {
		OrganizationID string `path:"orgID"`
		Page           int    `path:"page"`
	}
	require.NoError(t, binder.Path(lookup)(httptest.NewRequest(http.MethodGet, "/", nil), &target))
	assert.Equal(t, "org_1", target.OrganizationID)
	assert.Equal(t, 2, target.Page)

	params["page"] = "two"
	err := binder.Path(lookup)(httptest.NewRequest(http.MethodGet, "/", nil), &target)
	require.ErrorIs(t, err, binder.ErrInvalidPath)

	var notStruct string
	require.Error(t, binder.Path(lookup)(httptest.NewRequest(http.MethodGet, "/", nil), &notStruct))
}
