package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/svc/billing"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

var ErrUnauthenticated = apperr.New(apperr.KindUnauthorized, "unauthenticated", "missing caller identity")

type userKey struct{}

// identity requires the caller headers and stores the caller in the context.
func identity(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := billing.User{
				ID:    strings.TrimSpace(r.Header.Get(HeaderUserID)),
				Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
				Name:  strings.TrimSpace(r.Header.Get(HeaderUserName)),
			}
			if u.ID == "" || u.Email == "" {
				writeError(w, r, log, ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
		})
	}
}

// UserFromContext returns the caller set by the identity middleware.
func UserFromContext(ctx context.Context) (billing.User, bool) {
	u, ok := ctx.Value(userKey{}).(billing.User)
	return u, ok
}

// UserExtractor adds user_id to records logged with a request context.
func UserExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if u, ok := UserFromContext(ctx); ok {
			return logger.UserID(u.ID), true
		}
		return slog.Attr{}, false
	}
}

func caller(r *http.Request) billing.User {
	u, _ := UserFromContext(r.Context())
	return u
}
