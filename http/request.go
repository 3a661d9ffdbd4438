package http

import (
	"net"
	"strings"

	"github.com/indigo-web/gateway/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents an HTTP request being assembled by the session. It's mutated only while
// the parser emits its artifacts and must be treated as immutable after the message is complete.
type Request struct {
	// Method is the method token exactly as received.
	Method string
	// Path is the part of the request target before the first question mark.
	Path string
	// Query is the raw query string, without the leading question mark. Empty if absent.
	Query string
	// Protocol is the protocol version token, e.g. HTTP/1.1.
	Protocol string
	// Headers holds header pairs in order of arrival and with their case preserved. Lookup
	// by key is case-insensitive.
	Headers Headers
	// Body holds the whole request body. Empty if the request had no Content-Length.
	Body []byte
	// Remote is the address of the peer.
	Remote net.Addr
}

func NewRequest(headers Headers, remote net.Addr) *Request {
	return &Request{
		Headers: headers,
		Remote:  remote,
	}
}

// SetTarget splits the request target into the path and the raw query.
func (r *Request) SetTarget(target string) {
	r.Path, r.Query, _ = strings.Cut(target, "?")
}
