package validator

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Required fails on empty or blank strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// Min fails when value < min.
func Min[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

// Max fails when value > max.
func Max[T Numeric](field string, value, max T) Rule {
	return Rule{
		Check: func() bool { return value <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %v", max)},
	}
}

// Between checks min <= value <= max.
func Between[T Numeric](field string, value, min, max T) Rule {
	return Rule{
		Check: func() bool { return value >= min && value <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be between %v and %v", min, max)},
	}
}

// Positive fails when value <= 0.
func Positive[T Numeric](field string, value T) Rule {
	var zero T
	return Rule{
		Check: func() bool { return value > zero },
		Error: ValidationError{Field: field, Message: "must be greater than zero"},
	}
}

func NonNegative[T Numeric](field string, value T) Rule {
	var zero T
	return Rule{
		Check: func() bool { return value >= zero },
		Error: ValidationError{Field: field, Message: "must not be negative"},
	}
}

// LessOrEqual checks value <= other, where other is another field of the same input.
func LessOrEqual[T Numeric](field string, value T, otherField string, other T) Rule {
	return Rule{
		Check: func() bool { return value <= other },
		Error: ValidationError{Field: field, Message: "must not exceed " + otherField},
	}
}

// OneOf fails unless value is in allowed.
func OneOf[T comparable](field string, value T, allowed ...T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be one of %v", allowed)},
	}
}

// NotEmpty fails on a nil or empty slice.
func NotEmpty[T any](field string, values []T) Rule {
	return Rule{
		Check: func() bool { return len(values) > 0 },
		Error: ValidationError{Field: field, Message: "must not be empty"},
	}
}

// After fails unless value is strictly after bound.
func After(field string, value, bound time.Time) Rule {
	return Rule{
		Check: func() bool { return value.After(bound) },
		Error: ValidationError{Field: field, Message: "must be after " + bound.UTC().Format(time.RFC3339)},
	}
}

// When applies rule only if cond holds.
func When(cond bool, rule Rule) Rule {
	return Rule{
		Check: func() bool { return !cond || rule.Check() },
		Error: rule.Error,
	}
}
