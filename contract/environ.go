package contract

import (
	"bytes"
	"io"
	"slices"
	"strings"

	"github.com/indigo-web/gateway/config"
	"github.com/indigo-web/gateway/http"
	"github.com/indigo-web/gateway/kv"
)

// HeaderPrefix prefixes keys of request headers in the environ.
const HeaderPrefix = "HTTP_"

const (
	RequestMethod  = "REQUEST_METHOD"
	PathInfo       = "PATH_INFO"
	QueryString    = "QUERY_STRING"
	ServerName     = "SERVER_NAME"
	ServerPort     = "SERVER_PORT"
	ServerProtocol = "SERVER_PROTOCOL"
	ContentType    = "CONTENT_TYPE"
	ContentLength  = "CONTENT_LENGTH"
	RemoteAddr     = "REMOTE_ADDR"
	URLScheme      = "gateway.url_scheme"
)

// Version of the calling contract.
var Version = [2]int{1, 0}

// Environ is the description of a request handed to the application.
type Environ struct {
	Method         string
	PathInfo       string
	QueryString    string
	ServerName     string
	ServerPort     string
	ServerProtocol string
	ContentType    string
	ContentLength  string
	RemoteAddr     string
	URLScheme      string
	Version        [2]int
	// Input is positioned at the beginning of the request body.
	Input io.Reader
	// Errors is where the application may report its errors to.
	Errors       io.Writer
	Multithread  bool
	Multiprocess bool
	RunOnce      bool
	// Headers holds one entry per received header name, keyed by HeaderKey. Values of
	// repeated headers are joined by a comma.
	Headers *kv.Storage
}

// NewEnviron builds an environ from a completely parsed request.
func NewEnviron(request *http.Request, server config.Server, errors io.Writer) *Environ {
	env := &Environ{
		Method:         request.Method,
		PathInfo:       request.Path,
		QueryString:    request.Query,
		ServerName:     server.Name,
		ServerPort:     server.Port,
		ServerProtocol: server.Protocol,
		ContentType:    request.Headers.Value("Content-Type"),
		ContentLength:  request.Headers.Value("Content-Length"),
		URLScheme:      server.URLScheme,
		Version:        Version,
		Input:          bytes.NewReader(request.Body),
		Errors:         errors,
		Multithread:    true,
		Multiprocess:   false,
		RunOnce:        false,
		Headers:        kv.NewPrealloc(request.Headers.Len()),
	}

	if request.Remote != nil {
		env.RemoteAddr = request.Remote.String()
	}

	for name := range request.Headers.Keys() {
		values := slices.Collect(request.Headers.Values(name))
		env.Headers.Add(HeaderKey(name), strings.Join(values, ", "))
	}

	return env
}

// Get resolves a string entry of the environ by its key. Header entries are looked up by
// their prefixed keys.
func (e *Environ) Get(key string) (value string, found bool) {
	switch key {
	case RequestMethod:
		return e.Method, true
	case PathInfo:
		return e.PathInfo, true
	case QueryString:
		return e.QueryString, true
	case ServerName:
		return e.ServerName, true
	case ServerPort:
		return e.ServerPort, true
	case ServerProtocol:
		return e.ServerProtocol, true
	case ContentType:
		return e.ContentType, true
	case ContentLength:
		return e.ContentLength, true
	case RemoteAddr:
		return e.RemoteAddr, true
	case URLScheme:
		return e.URLScheme, true
	}

	if strings.HasPrefix(key, HeaderPrefix) {
		return e.Headers.Get(key)
	}

	return "", false
}

// HeaderKey converts a header name into the environ key: the name is uppercased, dashes are
// replaced by underscores and the HeaderPrefix is prepended.
func HeaderKey(name string) string {
	key := make([]byte, len(HeaderPrefix)+len(name))
	n := copy(key, HeaderPrefix)

	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c == '-':
			key[n+i] = '_'
		case c >= 'a' && c <= 'z':
			key[n+i] = c - ('a' - 'A')
		default:
			key[n+i] = c
		}
	}

	return string(key)
}
