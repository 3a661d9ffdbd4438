// Package gateway is a minimal HTTP/1.1 server handing requests off to a pluggable
// application through the calling contract defined in the contract package.
//
// Every connection carries exactly one request: the request is read, the application is
// called, the response is written and the connection is closed.
package gateway

import (
	"errors"
	"log"
	"net"

	"github.com/indigo-web/gateway/config"
	"github.com/indigo-web/gateway/contract"
	"github.com/indigo-web/gateway/internal/protocol/http1"
	"github.com/indigo-web/gateway/transport"
)

var ErrNoApplication = errors.New("no application to serve")

type Logger = http1.Logger

// App binds the address and serves an application on it.
type App struct {
	addr   string
	hooks  hooks
	cfg    *config.Config
	logger Logger
	tcp    *transport.TCP
}

// New returns a new App instance. Pass port 0 in order to get a random free one, the
// actual address is available via Addr() as soon as the server is started.
func New(addr string) *App {
	return &App{
		addr:   addr,
		cfg:    config.Default(),
		logger: log.Default(),
		tcp:    transport.NewTCP(),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger replaces the default logger, which is log.Default().
func (a *App) Logger(logger Logger) *App {
	a.logger = logger
	return a
}

// NotifyOnStart calls the callback as soon as the address is bound, right before the first
// connection is accepted.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback when the accept loop is over. Connections in progress may
// still be served at that moment, use Wait() in order to wait for them.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve binds the address and serves the application until Stop is called or accepting
// fails. Returns nil in the former case.
func (a *App) Serve(app contract.Application) error {
	if app == nil {
		return ErrNoApplication
	}

	if err := a.tcp.Bind(a.addr); err != nil {
		return err
	}

	host, port, err := net.SplitHostPort(a.tcp.Addr().String())
	if err != nil {
		a.tcp.Close()
		return err
	}

	a.cfg.Server.Name, a.cfg.Server.Port = host, port
	a.banner(app)

	callIfNotNil(a.hooks.OnStart)
	err = a.tcp.Listen(a.cfg.NET, a.newTCPCallback(app))
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop stops accepting new connections. The call isn't blocking, Serve returns at most after
// config.NET.AcceptLoopInterruptPeriod.
func (a *App) Stop() {
	a.tcp.Stop()
}

// Wait blocks until every accepted connection is served.
func (a *App) Wait() {
	a.tcp.Wait()
}

// Addr returns the bound address. Must be called only after the server is started.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

func (a *App) banner(app contract.Application) {
	a.logger.Printf("Welcome to the gateway server!")
	a.logger.Printf("Listening on %s:%s...", a.cfg.Server.Name, a.cfg.Server.Port)
	a.logger.Printf("Press Ctrl+C to quit.")

	lister, ok := app.(contract.RouteLister)
	if !ok {
		return
	}

	a.logger.Printf("Available endpoints:")
	for _, route := range lister.Routes() {
		a.logger.Printf("[%s] %s", route.Method, route.Path)
	}
}

func (a *App) newTCPCallback(app contract.Application) func(net.Conn) {
	return func(conn net.Conn) {
		if a.cfg.Log.Connections {
			a.logger.Printf("socket established: %s", conn.RemoteAddr())
		}

		client := transport.NewClient(conn, a.cfg.NET.ReadTimeout, make([]byte, a.cfg.NET.ReadBufferSize))
		http1.NewSession(a.cfg, app, client, a.logger).Serve()
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
