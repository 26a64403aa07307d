package config

import "errors"

var (
	ErrParsingConfig   = errors.New("config: cannot parse environment")
	ErrInvalidConfig   = errors.New("config: invalid values")
	ErrConfigNotLoaded = errors.New("config: cached value has the wrong type")
	ErrNilPointer      = errors.New("config: nil target")
)
