package app

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/indigo-web/gateway/config"
	"github.com/indigo-web/gateway/contract"
	"github.com/indigo-web/gateway/http"
	"github.com/indigo-web/gateway/http/status"
	"github.com/indigo-web/gateway/kv"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(method, target, body string, headers ...kv.Pair) *contract.Environ {
	request := http.NewRequest(kv.NewFromPairs(headers...), &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321})
	request.Method = method
	request.SetTarget(target)
	request.Protocol = "HTTP/1.1"
	request.Body = []byte(body)

	return contract.NewEnviron(request, config.Default().Server, io.Discard)
}

type started struct {
	calls   int
	status  string
	headers []kv.Pair
}

func (s *started) start(status string, headers []kv.Pair) error {
	s.calls++
	s.status, s.headers = status, headers
	return nil
}

func call(t *testing.T, a *App, env *contract.Environ) (*started, string) {
	s := new(started)
	chunks, err := a.Call(env, s.start)
	require.NoError(t, err)
	require.Equal(t, 1, s.calls)

	return s, string(bytes.Join(slices.Collect(chunks), nil))
}

func TestApp(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		a := New().Get("/", func(*Request) *Response {
			return Text("Hello, World!")
		})

		s, body := call(t, a, newEnv("GET", "/", ""))
		require.Equal(t, "200 OK", s.status)
		require.Equal(t, []kv.Pair{
			{Key: "Content-Type", Value: "text/plain"},
			{Key: "Content-Length", Value: "13"},
		}, s.headers)
		require.Equal(t, "Hello, World!", body)
	})

	t.Run("not found", func(t *testing.T) {
		a := New().Get("/", func(*Request) *Response {
			return Text("unreachable")
		})

		s, body := call(t, a, newEnv("GET", "/missing", ""))
		require.Equal(t, "404 NOT FOUND", s.status)
		require.Equal(t, "Not Found", body)
	})

	t.Run("method mismatch", func(t *testing.T) {
		a := New().Post("/submit", func(*Request) *Response {
			return Text("ok")
		})

		s, _ := call(t, a, newEnv("GET", "/submit", ""))
		require.Equal(t, "404 NOT FOUND", s.status)
	})

	t.Run("trailing slash", func(t *testing.T) {
		a := New().Get("/foo/", func(*Request) *Response {
			return Text("foo")
		})

		for _, target := range []string{"/foo", "/foo/", "/foo//"} {
			s, body := call(t, a, newEnv("GET", target, ""))
			require.Equal(t, "200 OK", s.status, target)
			require.Equal(t, "foo", body, target)
		}
	})

	t.Run("nil response", func(t *testing.T) {
		a := New().Delete("/item", func(*Request) *Response {
			return nil
		})

		s, body := call(t, a, newEnv("DELETE", "/item", ""))
		require.Equal(t, "200 OK", s.status)
		require.Equal(t, []kv.Pair{{Key: "Content-Type", Value: "text/plain"}}, s.headers)
		require.Empty(t, body)
	})

	t.Run("json", func(t *testing.T) {
		a := New().Get("/json", func(*Request) *Response {
			return JSON(map[string]string{"message": "Hello, World!"})
		})

		s, body := call(t, a, newEnv("GET", "/json", ""))
		require.Equal(t, "200 OK", s.status)
		require.Equal(t, []kv.Pair{
			{Key: "Content-Type", Value: "application/json"},
			{Key: "Content-Length", Value: "27"},
		}, s.headers)
		require.Equal(t, `{"message":"Hello, World!"}`, body)
	})

	t.Run("echo request", func(t *testing.T) {
		a := New().Put("/echo", func(request *Request) *Response {
			return Text(fmt.Sprintf("%s %s %s %s %s",
				request.Method, request.Path, request.Query["a"], request.Header("X-Custom"), request.Body,
			))
		})

		env := newEnv("PUT", "/echo?a=1", "hello", kv.Pair{Key: "X-Custom", Value: "yes"})
		_, body := call(t, a, env)
		require.Equal(t, "PUT /echo 1 yes hello", body)
	})

	t.Run("explicit headers are kept", func(t *testing.T) {
		a := New().Get("/", func(*Request) *Response {
			return Text("body").
				Code(status.Created).
				Header("content-type", "text/csv").
				Header("X-Id", "42")
		})

		s, _ := call(t, a, newEnv("GET", "/", ""))
		require.Equal(t, "201 Created", s.status)
		require.Equal(t, []kv.Pair{
			{Key: "content-type", Value: "text/csv"},
			{Key: "X-Id", Value: "42"},
			{Key: "Content-Length", Value: "4"},
		}, s.headers)
	})

	t.Run("shared response is not modified", func(t *testing.T) {
		shared := Text("Hello, World!").Header("X-Id", "1")
		shared.Headers = slices.Grow(shared.Headers, 8)
		a := New().Get("/", func(*Request) *Response {
			return shared
		})

		for range 2 {
			s, _ := call(t, a, newEnv("GET", "/", ""))
			require.Equal(t, []kv.Pair{
				{Key: "X-Id", Value: "1"},
				{Key: "Content-Type", Value: "text/plain"},
				{Key: "Content-Length", Value: "13"},
			}, s.headers)
		}

		require.Equal(t, []kv.Pair{{Key: "X-Id", Value: "1"}}, shared.Headers)
		require.Empty(t, shared.Headers[1:cap(shared.Headers)][0].Key)
	})

	t.Run("start response failure", func(t *testing.T) {
		a := New().Get("/", func(*Request) *Response {
			return Text("x")
		})

		_, err := a.Call(newEnv("GET", "/", ""), func(string, []kv.Pair) error {
			return contract.ErrResponseAlreadyStarted
		})
		require.ErrorIs(t, err, contract.ErrResponseAlreadyStarted)
	})

	t.Run("routes", func(t *testing.T) {
		a := New().
			Get("/", nil).
			Post("/form/", nil).
			Get("/json", nil).
			Get("/", nil)

		require.Equal(t, []contract.Route{
			{Method: "GET", Path: "/"},
			{Method: "POST", Path: "/form"},
			{Method: "GET", Path: "/json"},
		}, a.Routes())
	})
}

func TestMiddlewares(t *testing.T) {
	t.Run("order", func(t *testing.T) {
		var trace []string
		mark := func(name string) Middleware {
			return func(next Handler, request *Request) *Response {
				trace = append(trace, name+" in")
				response := next(request)
				trace = append(trace, name+" out")
				return response
			}
		}

		a := New().
			Use(mark("first"), mark("second")).
			Get("/", func(*Request) *Response {
				trace = append(trace, "handler")
				return nil
			})

		call(t, a, newEnv("GET", "/", ""))
		require.Equal(t, []string{"second in", "first in", "handler", "first out", "second out"}, trace)

		trace = nil
		b := New().
			Use(mark("inner")).
			Use(mark("outer")).
			Get("/", func(*Request) *Response {
				trace = append(trace, "handler")
				return nil
			})

		call(t, b, newEnv("GET", "/", ""))
		require.Equal(t, []string{"outer in", "inner in", "handler", "inner out", "outer out"}, trace)
	})

	t.Run("not applied to unknown routes", func(t *testing.T) {
		var called bool
		a := New().Use(func(next Handler, request *Request) *Response {
			called = true
			return next(request)
		})

		s, _ := call(t, a, newEnv("GET", "/", ""))
		require.Equal(t, "404 NOT FOUND", s.status)
		require.False(t, called)
	})

	t.Run("recover", func(t *testing.T) {
		a := New().Use(Recover).Get("/", func(*Request) *Response {
			panic("oops")
		})

		s, body := call(t, a, newEnv("GET", "/", ""))
		require.Equal(t, "500 Internal Server Error", s.status)
		require.Contains(t, body, "oops")
	})

	t.Run("timing", func(t *testing.T) {
		logger := new(lineLogger)
		a := New().Use(Timing(logger)).Get("/slow", func(*Request) *Response {
			return Text("ok")
		})

		call(t, a, newEnv("GET", "/slow", ""))
		require.Len(t, logger.lines, 1)
		require.True(t, strings.HasPrefix(logger.lines[0], "GET /slow took "), logger.lines[0])
	})

	t.Run("compress", func(t *testing.T) {
		text := strings.Repeat("Hello, World! ", 20)
		a := New().Use(Compress(16)).
			Get("/", func(*Request) *Response {
				return Text(text)
			}).
			Get("/short", func(*Request) *Response {
				return Text("short")
			})

		acceptGzip := kv.Pair{Key: "Accept-Encoding", Value: "deflate, gzip;q=0.9"}

		s, body := call(t, a, newEnv("GET", "/", "", acceptGzip))
		headers := kv.NewFromPairs(s.headers...)
		require.Equal(t, "gzip", headers.Value("Content-Encoding"))
		require.Equal(t, fmt.Sprint(len(body)), headers.Value("Content-Length"))

		reader, err := gzip.NewReader(strings.NewReader(body))
		require.NoError(t, err)
		plain, err := io.ReadAll(reader)
		require.NoError(t, err)
		require.Equal(t, text, string(plain))

		s, body = call(t, a, newEnv("GET", "/", ""))
		assert.False(t, kv.NewFromPairs(s.headers...).Has("Content-Encoding"))
		assert.Equal(t, text, body)

		shared := Text(text)
		b := New().Use(Compress(16)).Get("/", func(*Request) *Response {
			return shared
		})

		s, _ = call(t, b, newEnv("GET", "/", "", acceptGzip))
		require.Equal(t, "gzip", kv.NewFromPairs(s.headers...).Value("Content-Encoding"))
		s, body = call(t, b, newEnv("GET", "/", ""))
		assert.False(t, kv.NewFromPairs(s.headers...).Has("Content-Encoding"))
		assert.Equal(t, text, body)
		assert.Empty(t, shared.Headers)

		s, body = call(t, a, newEnv("GET", "/short", "", acceptGzip))
		assert.False(t, kv.NewFromPairs(s.headers...).Has("Content-Encoding"))
		assert.Equal(t, "short", body)
	})
}

type lineLogger struct {
	lines []string
}

func (l *lineLogger) Printf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestParseQuery(t *testing.T) {
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, parseQuery("a=1&b=2"))
	require.Equal(t, map[string]string{"flag": ""}, parseQuery("flag"))
	require.Equal(t, map[string]string{"a": "x=y"}, parseQuery("a=x=y"))
	require.Empty(t, parseQuery(""))
	require.Equal(t, map[string]string{"a": "1"}, parseQuery("&a=1&"))
}

func TestTemplates(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("hello.html", "<h1>Hello, {name}!</h1>")
	write("braces.txt", "{{literal}} {value} }")
	write("broken.txt", "Hello, {name")

	templates := NewTemplates(dir)

	t.Run("render", func(t *testing.T) {
		text, err := templates.Render("hello.html", map[string]string{"name": "World"})
		require.NoError(t, err)
		require.Equal(t, "<h1>Hello, World!</h1>", text)
	})

	t.Run("escapes", func(t *testing.T) {
		text, err := templates.Render("braces.txt", map[string]string{"value": "v"})
		require.NoError(t, err)
		require.Equal(t, "{literal} v }", text)
	})

	t.Run("missing template", func(t *testing.T) {
		text, err := templates.Render("nope.html", nil)
		require.NoError(t, err)
		require.Empty(t, text)
	})

	t.Run("escaping the directory", func(t *testing.T) {
		text, err := templates.Render("../../etc/passwd", nil)
		require.NoError(t, err)
		require.Empty(t, text)
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := templates.Render("hello.html", nil)
		var missing *MissingValueError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "name", missing.Name)
	})

	t.Run("unclosed placeholder", func(t *testing.T) {
		_, err := templates.Render("broken.txt", map[string]string{"name": "x"})
		require.ErrorIs(t, err, ErrUnclosedPlaceholder)
	})
}

func TestNormalizePath(t *testing.T) {
	for path, want := range map[string]string{
		"":        "/",
		"/":       "/",
		"//":      "/",
		"/foo":    "/foo",
		"/foo/":   "/foo",
		"/foo///": "/foo",
		"/a/b/":   "/a/b",
	} {
		require.Equal(t, want, normalizePath(path), path)
	}
}
