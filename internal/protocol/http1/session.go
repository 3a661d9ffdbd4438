package http1

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/indigo-web/gateway/config"
	"github.com/indigo-web/gateway/contract"
	"github.com/indigo-web/gateway/http"
	"github.com/indigo-web/gateway/http/status"
	"github.com/indigo-web/gateway/internal/buffer"
	"github.com/indigo-web/gateway/kv"
	"github.com/indigo-web/gateway/transport"
)

// Logger is anything that can print a formatted line, *log.Logger for instance.
type Logger interface {
	Printf(format string, v ...any)
}

// Session serves exactly one request over the connection it owns: it reads the request,
// hands it off to the application, writes the response back and closes the connection.
type Session struct {
	cfg        *config.Config
	app        contract.Application
	client     transport.Client
	logger     Logger
	parser     *Parser
	serializer *serializer
	request    *http.Request
	response   *http.Response
}

func NewSession(cfg *config.Config, app contract.Application, client transport.Client, logger Logger) *Session {
	request := http.NewRequest(kv.NewPrealloc(cfg.Request.HeadersPrealloc), client.Remote())
	request.Body = make([]byte, 0, cfg.Request.BodyPrealloc)

	return &Session{
		cfg:        cfg,
		app:        app,
		client:     client,
		logger:     logger,
		parser:     NewParser(buffer.New(cfg.Request.BufferPrealloc)),
		serializer: newSerializer(make([]byte, 0, cfg.NET.WriteBufferPrealloc)),
		request:    request,
		response:   http.NewResponse(),
	}
}

// Serve runs the read loop until the response is sent or the connection fails. The
// connection is closed exactly once on return.
func (s *Session) Serve() {
	defer s.close()

	for !s.response.Sent() {
		data, err := s.client.Read()
		if len(data) > 0 {
			s.parser.Feed(data)

			if perr := s.drain(); perr != nil {
				s.logger.Printf("closing connection with %s: %s", s.remote(), perr)
				return
			}
		}

		if err != nil {
			if !s.response.Sent() && !isClosed(err) {
				s.logger.Printf("reading from %s: %s", s.remote(), err)
			}

			return
		}
	}
}

// drain applies all the events the buffered data is enough for to the request.
func (s *Session) drain() error {
	for event, err := range s.parser.Events() {
		if err != nil {
			return err
		}

		switch event.Kind {
		case RequestLine:
			s.request.Method = event.Method
			s.request.Protocol = event.Protocol
			s.request.SetTarget(event.Target)
		case Header:
			s.request.Headers.Add(event.Key, event.Value)
		case BodyChunk:
			s.request.Body = append(s.request.Body, event.Chunk...)
		case Completed:
			return s.dispatch()
		}
	}

	return nil
}

// dispatch calls the application and writes its response. Application faults are turned
// into 500 Internal Server Error.
func (s *Session) dispatch() error {
	env := contract.NewEnviron(s.request, s.cfg.Server, logWriter{s.logger})

	statusLine, headers, body, err := s.call(env)
	if err != nil {
		s.logger.Printf("application fault on %s %s: %s", s.request.Method, s.request.Path, err)
		statusLine, headers, body = errorResponse(status.ErrInternalServerError)
	}

	if err = s.response.Fill(statusLine, headers, body); err != nil {
		return err
	}

	err = s.serializer.Write(s.client, s.response)
	s.logAccess()

	return err
}

func (s *Session) call(env *contract.Environ) (statusLine string, headers []kv.Pair, body []byte, err error) {
	var started bool

	start := func(st string, hdrs []kv.Pair) error {
		if started {
			return contract.ErrResponseAlreadyStarted
		}

		started = true
		statusLine, headers = st, hdrs
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", contract.ErrApplicationPanicked, r)
		}
	}()

	chunks, err := s.app.Call(env, start)
	if err != nil {
		return "", nil, nil, err
	}

	if chunks != nil {
		for chunk := range chunks {
			body = append(body, chunk...)
		}
	}

	if !started {
		return "", nil, nil, contract.ErrStartResponseNotCalled
	}

	return statusLine, headers, body, nil
}

func (s *Session) logAccess() {
	host, port := splitAddr(s.request.Remote)
	s.logger.Printf(
		"%s %s %s %s - %s",
		s.response.Status(), s.request.Method, s.request.Path, host, port,
	)
}

func (s *Session) close() {
	if s.cfg.Log.Connections {
		s.logger.Printf("socket closed with %s", s.remote())
	}

	_ = s.client.Close()
}

func (s *Session) remote() string {
	if addr := s.client.Remote(); addr != nil {
		return addr.String()
	}

	return "<unknown>"
}

// errorResponse renders the error into a plain text response with the code it carries.
func errorResponse(err error) (string, []kv.Pair, []byte) {
	body := []byte(err.Error())
	headers := []kv.Pair{
		{Key: "Content-Type", Value: "text/plain"},
		{Key: "Content-Length", Value: strconv.Itoa(len(body))},
	}

	return status.MakeLine(status.CodeOf(err)), headers, body
}

func splitAddr(addr net.Addr) (host, port string) {
	if addr == nil {
		return "-", "-"
	}

	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), "-"
	}

	return host, port
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

// logWriter redirects the application's error stream into the logger.
type logWriter struct {
	logger Logger
}

func (l logWriter) Write(b []byte) (int, error) {
	l.logger.Printf("application: %s", b)
	return len(b), nil
}
