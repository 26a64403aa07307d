// Package httpserver runs the API with graceful shutdown and exposes the
// liveness/readiness handler used by the container orchestrator.
package httpserver
