package app

import (
	"strings"

	"github.com/indigo-web/gateway/contract"
)

// Handler processes a request and returns a response. Nil response is an empty 200 OK.
type Handler func(request *Request) *Response

type routeKey struct {
	method, path string
}

// router maps (method, path) to a handler. Paths are compared exactly, after trailing
// slashes are stripped.
type router struct {
	handlers map[routeKey]Handler
	// routes preserves the registration order for the banner
	routes []contract.Route
}

func newRouter() *router {
	return &router{
		handlers: make(map[routeKey]Handler),
	}
}

func (r *router) add(method, path string, handler Handler) {
	key := routeKey{method: strings.ToUpper(method), path: normalizePath(path)}
	if _, found := r.handlers[key]; !found {
		r.routes = append(r.routes, contract.Route{Method: key.method, Path: key.path})
	}

	r.handlers[key] = handler
}

func (r *router) lookup(method, path string) (Handler, bool) {
	handler, found := r.handlers[routeKey{method: method, path: normalizePath(path)}]
	return handler, found
}

// normalizePath strips all the trailing slashes. The root stays as-is.
func normalizePath(path string) string {
	path = strings.TrimRight(path, "/")
	if len(path) == 0 {
		return "/"
	}

	return path
}
