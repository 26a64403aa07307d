package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxJSONSize caps request bodies read by JSON.
const MaxJSONSize = 1 << 20

// Func binds part of a request into v.
type Func func(r *http.Request, v any) error

// JSON decodes the body into v. Unknown fields and trailing data are rejected.
func JSON() Func {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return ErrUnsupportedMediaType
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		if len(body) > MaxJSONSize {
			return ErrBodyTooLarge
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrInvalidJSON)
			}
			return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		if dec.More() {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
		}
		return nil
	}
}

// Query fills `query` tagged fields from the URL query string.
func Query() Func {
	return func(r *http.Request, v any) error {
		values := r.URL.Query()
		return bindFields(v, "query", func(name string) []string { return values[name] }, ErrInvalidQuery)
	}
}

// Path fills `path` tagged fields using the router's parameter lookup, such as chi.URLParam.
func Path(param func(r *http.Request, name string) string) Func {
	return func(r *http.Request, v any) error {
		return bindFields(v, "path", func(name string) []string {
			if s := param(r, name); s != "" {
				return []string{s}
			}
			return nil
		}, ErrInvalidPath)
	}
}
