package notification

import (
	"errors"

	"github.com/pedidoz/backoffice/pkg/apperr"
)

var (
	ErrDuplicateNotification = apperr.New(apperr.KindDomainRule, "duplicate_notification", "a notification of this type was sent recently")
	ErrNotificationNotFound  = apperr.New(apperr.KindNotFound, "notification_not_found", "notification not found")

	ErrTemplateNotFound = errors.New("notification template not found")
)
