package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/requestid"
	"github.com/pedidoz/backoffice/pkg/validator"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON responds with v encoded as JSON.
func JSON(status int, v any) Response {
	return jsonResponse{status: status, body: v}
}

type pngResponse []byte

func (p pngResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(p)
	return err
}

// PNG writes b as image/png with status 200.
func PNG(b []byte) Response {
	return pngResponse(b)
}

type emptyResponse int

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(e))
	return nil
}

// NoContent answers 204 with an empty body.
func NoContent() Response {
	return emptyResponse(http.StatusNoContent)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string                     `json:"code"`
	Message   string                     `json:"message"`
	RequestID string                     `json:"request_id,omitempty"`
	Details   validator.ValidationErrors `json:"details,omitempty"`
}

const internalMessage = "an unexpected error occurred"

// writeError answers with the status of err's kind.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	writeErrorStatus(w, r, log, apperr.KindOf(err).HTTPStatus(), err)
}

// writeErrorStatus answers with an explicit status. Internal and gateway
// failures are logged and their text is not shown to the client.
func writeErrorStatus(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, err error) {
	kind := apperr.KindOf(err)
	detail := errorDetail{
		Code:      apperr.CodeOf(err),
		Message:   err.Error(),
		RequestID: requestid.FromContext(r.Context()),
		Details:   validator.Extract(err),
	}

	switch kind {
	case apperr.KindInternal:
		detail.Message = internalMessage
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), logger.Error(err))
	case apperr.KindGateway:
		detail.Message = "payment provider unavailable"
		log.ErrorContext(r.Context(), "gateway call failed",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), logger.Error(err))
	default:
		log.WarnContext(r.Context(), "request rejected",
			slog.String("method", r.Method), slog.String("path", r.URL.Path),
			slog.String("code", detail.Code), logger.Error(err))
	}

	if rerr := JSON(status, errorBody{Error: detail}).Render(w, r); rerr != nil {
		log.ErrorContext(r.Context(), "write error response", logger.Error(rerr))
	}
}

var (
	ErrRouteNotFound    = apperr.New(apperr.KindNotFound, "route_not_found", "route not found")
	ErrMethodNotAllowed = apperr.New(apperr.KindValidation, "method_not_allowed", "method not allowed")
)

var ErrInvalidDate = apperr.New(apperr.KindValidation, "invalid_date", "dates must be YYYY-MM-DD or RFC 3339")
