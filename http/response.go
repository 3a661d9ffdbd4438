package http

import (
	"errors"

	"github.com/indigo-web/gateway/kv"
)

// ErrAlreadySent is returned on every attempt to modify or to send a response which has
// already been sent.
var ErrAlreadySent = errors.New("response has already been sent")

// Response holds what is going to be written back to the client. It can be sent only once:
// after MarkSent succeeds, every further modification is rejected.
type Response struct {
	status  string
	headers []kv.Pair
	body    []byte
	sent    bool
}

func NewResponse() *Response {
	return new(Response)
}

// Fill replaces status, headers and body at once.
func (r *Response) Fill(status string, headers []kv.Pair, body []byte) error {
	if r.sent {
		return ErrAlreadySent
	}

	r.status, r.headers, r.body = status, headers, body
	return nil
}

// MarkSent flips the one-shot flag. Only the first call succeeds.
func (r *Response) MarkSent() error {
	if r.sent {
		return ErrAlreadySent
	}

	r.sent = true
	return nil
}

func (r *Response) Sent() bool {
	return r.sent
}

func (r *Response) Status() string {
	return r.status
}

func (r *Response) Headers() []kv.Pair {
	return r.headers
}

func (r *Response) Body() []byte {
	return r.body
}
