package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/svc/notification"
)

func TestCreateNotification(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	want := notification.Notification{
		OrganizationID:   "org_1",
		UserID:           "usr_2",
		Title:            "Novo pedido",
		Content:          "Pedido #12 recebido",
		Channels:         []notification.Channel{notification.ChannelApp, notification.ChannelEmail},
		NotificationType: "ORDER_CREATED",
	}
	to := notification.Recipient{Email: "cook@pedidoz.online", Name: "Cook"}
	h.notes.On("Create", mock.Anything, want, to).Return(&notification.Notification{ID: "ntf_1"}, nil).Once()
	h.notes.On("Create", mock.Anything, want, to).Return(nil, notification.ErrDuplicateNotification).Once()

	body := `{
		"user_id": "usr_2",
		"title": "Novo pedido",
		"content": "Pedido #12 recebido",
		"channels": ["APP", "EMAIL"],
		"notification_type": "ORDER_CREATED",
		"recipient": {"email": "cook@pedidoz.online", "name": "Cook"}
	}`

	rec := h.do(http.MethodPost, "/organizations/org_1/notifications", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "ntf_1", decode[notification.Notification](t, rec).ID)

	rec = h.do(http.MethodPost, "/organizations/org_1/notifications", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_notification", decodeError(t, rec).Error.Code)
}

func TestCallerInbox(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.notes.On("List", mock.Anything, testUser.ID, notification.ListOptions{OnlyUnread: true, Limit: 10}).
		Return([]notification.Notification{{ID: "ntf_1"}}, nil)
	h.notes.On("MarkRead", mock.Anything, testUser.ID, []string{"ntf_1", "ntf_2"}).Return(nil)
	h.notes.On("Delete", mock.Anything, testUser.ID, []string{"ntf_1"}).Return(nil)

	rec := h.do(http.MethodGet, "/notifications?only_unread=true&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]notification.Notification](t, rec), 1)

	rec = h.do(http.MethodPost, "/notifications/read", `{"ids":["ntf_1","ntf_2"]}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodDelete, "/notifications/ntf_1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInboxInputValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/notifications?limit=500", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, decodeError(t, rec).Error.Details.Has("limit"))

	rec = h.do(http.MethodPost, "/notifications/read", `{"ids":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
