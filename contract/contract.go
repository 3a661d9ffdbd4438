// Package contract defines the calling convention between the gateway and an application.
//
// For every completed request the gateway builds an Environ and calls the application with it
// and a StartResponse callback. The application must call StartResponse exactly once with the
// status line and the ordered response headers before returning, and returns the response body
// as a sequence of byte chunks.
//
// The application object is shared among all the connections and is called concurrently, so it
// must not keep any per-request mutable state.
package contract

import (
	"errors"
	"iter"

	"github.com/indigo-web/gateway/kv"
)

var (
	ErrStartResponseNotCalled = errors.New("application returned without starting the response")
	ErrResponseAlreadyStarted = errors.New("response has already been started")
	ErrApplicationPanicked    = errors.New("application panicked")
)

// StartResponse records the status line (e.g. "200 OK") and the response headers. Only the first
// call has an effect, every following one returns ErrResponseAlreadyStarted.
type StartResponse func(status string, headers []kv.Pair) error

// Application is the entity the gateway hands requests off to.
type Application interface {
	Call(env *Environ, start StartResponse) (iter.Seq[[]byte], error)
}

// ApplicationFunc lets a plain function to act as an Application.
type ApplicationFunc func(env *Environ, start StartResponse) (iter.Seq[[]byte], error)

func (a ApplicationFunc) Call(env *Environ, start StartResponse) (iter.Seq[[]byte], error) {
	return a(env, start)
}

// Route is a single (method, path) pair the application serves.
type Route struct {
	Method, Path string
}

// RouteLister is implemented by applications which can enumerate their routes. Used to print
// the startup banner.
type RouteLister interface {
	Routes() []Route
}

// Body is a shorthand for a body consisting of the passed chunks.
func Body(chunks ...[]byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, chunk := range chunks {
			if !yield(chunk) {
				return
			}
		}
	}
}
