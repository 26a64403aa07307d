// Package api exposes the back office over HTTP.
//
// Success responses carry the resource as plain JSON. Failures carry
//
//	{"error": {"code": "...", "message": "...", "request_id": "..."}}
//
// with the status taken from the error's apperr.Kind. Caller identity comes
// from the X-User-ID, X-User-Email and X-User-Name headers set by the
// upstream identity layer; routes under /organizations and /notifications
// refuse requests without them.
package api
