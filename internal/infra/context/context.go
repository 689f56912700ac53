// Package context holds the typed request-scoped values shared by the transport
// and service layers.
package context

type contextKey string
