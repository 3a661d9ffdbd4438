package http1

import (
	"bytes"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/indigo-web/gateway/http/status"
	"github.com/indigo-web/gateway/internal/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

var (
	crlf            = []byte("\r\n")
	headerSeparator = []byte(": ")
)

// optionalWhitespace surrounding header values isn't a part of them
const optionalWhitespace = " \t"

// Parser is a stream-based HTTP/1.1 request parser. Data is fed in arbitrary pieces, parsed
// artifacts are pulled one by one via Next, strictly in the order they arrived: the request
// line, then headers, then body chunks, then the completion. The body length is taken from
// the Content-Length header and defaults to zero.
//
// The parser serves exactly one request. After Completed is emitted or an error occurred,
// it stays in that terminal state until Reset.
type Parser struct {
	buff          *buffer.Accumulator
	state         parserState
	contentLength int
	remaining     int
	err           error
}

func NewParser(buff *buffer.Accumulator) *Parser {
	return &Parser{
		buff:  buff,
		state: eStartLine,
	}
}

// Feed appends data to the parser's buffer. No parsing is done until Next is called.
func (p *Parser) Feed(data []byte) {
	p.buff.Feed(data)
}

// Next makes a single step forward. It returns an event with the Pending kind, if the
// buffered data doesn't satisfy the current state yet. A returned error is fatal and
// is returned by every subsequent call.
func (p *Parser) Next() (Event, error) {
	for {
		switch p.state {
		case eStartLine:
			line, ok := p.buff.Pop(crlf)
			if !ok {
				return Event{}, nil
			}

			// copying the line at once, because the buffer memory may be reused by next feeds
			tokens := strings.Fields(string(line))
			if len(tokens) != 3 {
				return p.fail(status.ErrBadRequestLine)
			}

			p.state = eHeaders

			return Event{
				Kind:     RequestLine,
				Method:   tokens[0],
				Target:   tokens[1],
				Protocol: tokens[2],
			}, nil
		case eHeaders:
			line, ok := p.buff.Pop(crlf)
			if !ok {
				return Event{}, nil
			}

			if len(line) == 0 {
				p.remaining = p.contentLength
				p.state = eBody
				continue
			}

			key, value, found := bytes.Cut(line, headerSeparator)
			if !found {
				return p.fail(status.ErrBadHeader)
			}

			value = bytes.Trim(value, optionalWhitespace)

			if strcomp.EqualFold(uf.B2S(key), "content-length") {
				length, err := strconv.Atoi(uf.B2S(value))
				if err != nil || length < 0 {
					return p.fail(status.ErrBadContentLength)
				}

				p.contentLength = length
			}

			return Event{
				Kind:  Header,
				Key:   string(key),
				Value: string(value),
			}, nil
		case eBody:
			if p.remaining == 0 {
				p.state = eComplete
				continue
			}

			if p.buff.Len() == 0 {
				return Event{}, nil
			}

			chunk := p.buff.Flush()
			if len(chunk) > p.remaining {
				// pipelining isn't supported, so everything behind the declared length
				// is dropped
				chunk = chunk[:p.remaining]
			}

			p.remaining -= len(chunk)
			if p.remaining == 0 {
				p.state = eComplete
			}

			return Event{
				Kind:  BodyChunk,
				Chunk: chunk,
			}, nil
		case eComplete:
			p.state = eDone
			return Event{Kind: Completed}, nil
		case eDone:
			return Event{}, nil
		case eError:
			return Event{}, p.err
		default:
			panic(fmt.Sprintf("BUG: unexpected parser state: %d", p.state))
		}
	}
}

// Events drains all the events the buffered data is enough for. The sequence stops right
// before the first Pending or after the first error.
func (p *Parser) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := p.Next()
			if err != nil {
				yield(event, err)
				return
			}

			if event.Kind == Pending || !yield(event, nil) {
				return
			}
		}
	}
}

// Done reports whether the request was completely parsed.
func (p *Parser) Done() bool {
	return p.state == eDone
}

// Reset brings the parser back to its initial state, discarding everything buffered.
func (p *Parser) Reset() {
	p.buff.Clear()
	p.state = eStartLine
	p.contentLength = 0
	p.remaining = 0
	p.err = nil
}

func (p *Parser) fail(err error) (Event, error) {
	p.state = eError
	p.err = err

	return Event{}, err
}
