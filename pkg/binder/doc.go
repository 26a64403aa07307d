// Package binder decodes HTTP requests into typed values.
//
// JSON reads a strict, size-limited JSON body. Query and Path fill struct
// fields tagged `query:"name"` and `path:"name"` from the URL. Every
// failure is a Validation-kind error, so handlers can return it as is.
package binder
