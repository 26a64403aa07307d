package validator

import (
	"errors"
	"slices"
	"strings"

	"github.com/pedidoz/backoffice/pkg/apperr"
)

// Numeric is any type the ordering rules accept.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError is one field that failed a rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is rendered as the details of a 422 response.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for i, fe := range ve {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(fe.Field)
		b.WriteString(": ")
		b.WriteString(fe.Message)
	}
	return b.String()
}

// Has reports whether field failed any rule.
func (ve ValidationErrors) Has(field string) bool {
	return slices.ContainsFunc(ve, func(fe ValidationError) bool { return fe.Field == field })
}

// Rule pairs a check with the error reported when it returns false.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply evaluates all rules, not just up to the first failure. Failures come
// back as a KindValidation error with code validation_failed.
func Apply(rules ...Rule) error {
	var failed ValidationErrors
	for _, r := range rules {
		if r.Check() {
			continue
		}
		failed = append(failed, r.Error)
	}
	if failed == nil {
		return nil
	}
	return apperr.Wrap(apperr.KindValidation, "validation_failed", failed)
}

// Extract unwraps the field errors from err, or returns nil.
func Extract(err error) ValidationErrors {
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	return ve
}
