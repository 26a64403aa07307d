package binder

import "github.com/pedidoz/backoffice/pkg/apperr"

var (
	ErrUnsupportedMediaType = apperr.New(apperr.KindValidation, "unsupported_media_type", "expected application/json")
	ErrInvalidJSON          = apperr.New(apperr.KindValidation, "invalid_body", "malformed JSON body")
	ErrBodyTooLarge         = apperr.New(apperr.KindValidation, "body_too_large", "request body too large")
	ErrInvalidQuery         = apperr.New(apperr.KindValidation, "invalid_query", "malformed query parameters")
	ErrInvalidPath          = apperr.New(apperr.KindValidation, "invalid_path", "malformed path parameters")
)
