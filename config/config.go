package config

import "time"

type (
	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket. Every read is bounded by it.
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. Zero disables it, so a
		// silent client keeps its connection forever, which is the default behaviour.
		ReadTimeout time.Duration `test:"nullable"`
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 1 second.
		AcceptLoopInterruptPeriod time.Duration
		// WriteBufferPrealloc is the initial capacity of the buffer storing the serialized
		// response. It grows to fit the whole response.
		WriteBufferPrealloc int
	}

	Log struct {
		// Connections enables a line on every established and closed connection.
		Connections bool `test:"nullable"`
	}

	Request struct {
		// BufferPrealloc is the initial capacity of the buffer holding the yet unparsed data.
		BufferPrealloc int
		// HeadersPrealloc is the number of preallocated seats for request headers.
		HeadersPrealloc int
		// BodyPrealloc is the initial capacity of the request body.
		BodyPrealloc int
	}

	// Server holds the synthetic identity of the server, reported to the application.
	Server struct {
		// Name is reported as SERVER_NAME. Overridden by the host of the bound address.
		Name string
		// Port is reported as SERVER_PORT. Overridden by the port of the bound address.
		Port string
		// Protocol is reported as SERVER_PROTOCOL.
		Protocol string
		// URLScheme is reported as the url scheme of the gateway.
		URLScheme string
	}
)

// Config holds settings used across various parts of the gateway, mainly buffer sizes and
// the identity of the server.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET     NET
	Request Request
	Server  Server
	Log     Log
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:            1024,
			ReadTimeout:               0,
			AcceptLoopInterruptPeriod: 1 * time.Second,
			WriteBufferPrealloc:       2 * 1024,
		},
		Request: Request{
			BufferPrealloc:  2 * 1024,
			HeadersPrealloc: 10,
			BodyPrealloc:    512,
		},
		Server: Server{
			Name:      "127.0.0.1",
			Port:      "5000",
			Protocol:  "HTTP/1.1",
			URLScheme: "http",
		},
		Log: Log{
			Connections: false,
		},
	}
}
