package httpserver

import (
	"errors"
	"time"
)

const defaultShutdownTimeout = 5 * time.Second

var (
	ErrStart    = errors.New("httpserver: listen failed")
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
)
