// Package api provides access to the platform REST API.
//
// It is the single wire↔model translation boundary: every request and
// response body is snake_case JSON, declared once in types.go and mapped to
// the internal/model representation in convert.go. Nothing outside this
// package (and the socket framing in internal/connection, which reuses
// these wire shapes through internal/feeds) touches wire field names.
package api
