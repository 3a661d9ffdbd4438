// Package app is a small application on top of the gateway contract: routing by method and
// path, middlewares, response wrappers and templates.
package app

import (
	"iter"
	"net/http"
	"slices"

	"github.com/indigo-web/gateway/contract"
	"github.com/indigo-web/gateway/http/status"
)

var _ interface {
	contract.Application
	contract.RouteLister
} = new(App)

// Middleware wraps the handler. It may call next zero or more times.
type Middleware func(next Handler, request *Request) *Response

type App struct {
	router      *router
	middlewares []Middleware
}

func New() *App {
	return &App{
		router: newRouter(),
	}
}

// Use appends middlewares. Each one wraps everything registered before it, so the last
// registered middleware is the outermost one and runs first.
func (a *App) Use(middlewares ...Middleware) *App {
	a.middlewares = append(a.middlewares, middlewares...)
	return a
}

// Route registers the handler for the method and path. Registering the same pair twice
// replaces the handler.
func (a *App) Route(method, path string, handler Handler) *App {
	a.router.add(method, path, handler)
	return a
}

func (a *App) Get(path string, handler Handler) *App {
	return a.Route(http.MethodGet, path, handler)
}

func (a *App) Post(path string, handler Handler) *App {
	return a.Route(http.MethodPost, path, handler)
}

func (a *App) Put(path string, handler Handler) *App {
	return a.Route(http.MethodPut, path, handler)
}

func (a *App) Delete(path string, handler Handler) *App {
	return a.Route(http.MethodDelete, path, handler)
}

// Routes returns registered routes in the order of registration.
func (a *App) Routes() []contract.Route {
	return slices.Clone(a.router.routes)
}

// Call implements contract.Application.
func (a *App) Call(env *contract.Environ, start contract.StartResponse) (iter.Seq[[]byte], error) {
	response := a.handle(env)

	if err := start(response.Status, response.finalHeaders()); err != nil {
		return nil, err
	}

	return contract.Body(response.Body), nil
}

func (a *App) handle(env *contract.Environ) *Response {
	handler, found := a.router.lookup(env.Method, env.PathInfo)
	if !found {
		return NotFound()
	}

	request, err := NewRequest(env)
	if err != nil {
		return Error(status.BadRequest, err.Error())
	}

	response := compose(handler, a.middlewares)(request)
	if response == nil {
		response = NewResponse()
	}

	return response
}

func compose(handler Handler, middlewares []Middleware) Handler {
	for _, mware := range middlewares {
		next := handler
		handler = func(request *Request) *Response {
			return mware(next, request)
		}
	}

	return handler
}
