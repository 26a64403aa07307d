package api

import (
	"net/http"

	"github.com/pedidoz/backoffice/pkg/validator"
	"github.com/pedidoz/backoffice/svc/notification"
)

type createNotificationRequest struct {
	OrganizationID   string                 `path:"orgID" json:"-"`
	UserID           string                 `json:"user_id"`
	Title            string                 `json:"title"`
	Content          string                 `json:"content"`
	Channels         []notification.Channel `json:"channels"`
	NotificationType string                 `json:"notification_type"`
	Recipient        notification.Recipient `json:"recipient"`
}

func (h *handlers) createNotification(r *http.Request, req createNotificationRequest) (Response, error) {
	n, err := h.notes.Create(r.Context(), notification.Notification{
		OrganizationID:   req.OrganizationID,
		UserID:           req.UserID,
		Title:            req.Title,
		Content:          req.Content,
		Channels:         req.Channels,
		NotificationType: req.NotificationType,
	}, req.Recipient)
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusCreated, n), nil
}

type listNotificationsRequest struct {
	OnlyUnread bool `query:"only_unread"`
	Limit      int  `query:"limit"`
	Offset     int  `query:"offset"`
}

// listNotifications returns the caller's inbox.
func (h *handlers) listNotifications(r *http.Request, req listNotificationsRequest) (Response, error) {
	if err := validator.Apply(
		validator.Between("limit", req.Limit, 0, 100),
		validator.NonNegative("offset", req.Offset),
	); err != nil {
		return nil, err
	}
	list, err := h.notes.List(r.Context(), caller(r).ID, notification.ListOptions{
		OnlyUnread: req.OnlyUnread,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	return JSON(http.StatusOK, list), nil
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

func (h *handlers) markNotificationsRead(r *http.Request, req markReadRequest) (Response, error) {
	if err := validator.Apply(validator.NotEmpty("ids", req.IDs)); err != nil {
		return nil, err
	}
	if err := h.notes.MarkRead(r.Context(), caller(r).ID, req.IDs...); err != nil {
		return nil, err
	}
	return NoContent(), nil
}

type notificationPath struct {
	NotificationID string `path:"notificationID"`
}

func (h *handlers) deleteNotification(r *http.Request, req notificationPath) (Response, error) {
	if err := h.notes.Delete(r.Context(), caller(r).ID, req.NotificationID); err != nil {
		return nil, err
	}
	return NoContent(), nil
}
