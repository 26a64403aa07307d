// Package validator checks domain input.
//
// Two styles are offered. Rules express checks that depend on several values
// or on domain state:
//
//	err := validator.Apply(
//		validator.Required("name", in.Name),
//		validator.Positive("value", in.Value),
//		validator.When(in.IsPercent, validator.Max("value", in.Value, 100)),
//	)
//
// Struct evaluates go-playground/validator `validate` tags on request types.
// Both return an apperr Validation error wrapping ValidationErrors, which the
// API layer renders as 422 with the failing fields.
package validator
