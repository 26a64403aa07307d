package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/binder"
	"github.com/pedidoz/backoffice/pkg/logger"
)

// HandlerFunc serves one request already bound into R.
type HandlerFunc[R any] func(r *http.Request, req R) (Response, error)

// handle binds the request with each binder in order, runs fn and renders
// its response. Binding and handler errors go through writeError.
func handle[R any](log *slog.Logger, fn HandlerFunc[R], binders ...binder.Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req R
		for _, bind := range binders {
			if err := bind(r, &req); err != nil {
				writeError(w, r, log, err)
				return
			}
		}

		resp, err := fn(r, req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		if err := resp.Render(w, r); err != nil {
			log.ErrorContext(r.Context(), "render response", logger.Error(err))
		}
	}
}

// recoverer turns a panic into a logged 500 with the standard error body.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					log.ErrorContext(r.Context(), "panic recovered",
						slog.String("panic", fmt.Sprint(rvr)),
						slog.String("stack", string(debug.Stack())),
					)
					writeError(w, r, log, apperr.Internal(fmt.Errorf("panic: %v", rvr)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
