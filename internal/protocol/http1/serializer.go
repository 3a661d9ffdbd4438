package http1

import (
	"github.com/indigo-web/gateway/http"
	"github.com/indigo-web/gateway/kv"
)

const protocol = "HTTP/1.1 "

// AppendResponse renders the status line, header fields and the body into their wire
// representation. The blank line separating headers from the body is always written, the
// body bytes are appended only if there are any.
func AppendResponse(buff []byte, status string, headers []kv.Pair, body []byte) []byte {
	buff = append(buff, protocol...)
	buff = append(buff, status...)
	buff = append(buff, crlf...)

	for _, header := range headers {
		buff = append(buff, header.Key...)
		buff = append(buff, headerSeparator...)
		buff = append(buff, header.Value...)
		buff = append(buff, crlf...)
	}

	buff = append(buff, crlf...)

	if len(body) > 0 {
		buff = append(buff, body...)
	}

	return buff
}

// Writer is the destination of serialized responses.
type Writer interface {
	Write([]byte) (int, error)
}

type serializer struct {
	buff []byte
}

func newSerializer(buff []byte) *serializer {
	return &serializer{
		buff: buff,
	}
}

// Write serializes the response and writes it at once. The response is marked sent before
// any byte goes to the wire, so a failed write can't be retried either.
func (s *serializer) Write(w Writer, response *http.Response) error {
	if err := response.MarkSent(); err != nil {
		return err
	}

	s.buff = AppendResponse(s.buff[:0], response.Status(), response.Headers(), response.Body())
	_, err := w.Write(s.buff)

	return err
}
