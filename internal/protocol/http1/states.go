package http1

type parserState uint8

const (
	eStartLine parserState = iota + 1
	eHeaders
	eBody
	eComplete
	eDone
	eError
)

// EventKind tells which artifact of the request an Event carries.
type EventKind uint8

const (
	// Pending means that no further progress can be made until more data is fed.
	Pending EventKind = iota
	// RequestLine carries the method, the target and the protocol version.
	RequestLine
	// Header carries a single header field.
	Header
	// BodyChunk carries a piece of the body.
	BodyChunk
	// Completed is emitted exactly once, after the last body chunk.
	Completed
)

func (e EventKind) String() string {
	switch e {
	case Pending:
		return "Pending"
	case RequestLine:
		return "RequestLine"
	case Header:
		return "Header"
	case BodyChunk:
		return "BodyChunk"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Event is a single parsed artifact. Only the fields relevant to the Kind are set.
type Event struct {
	Kind EventKind
	// Method, Target and Protocol are set for RequestLine.
	Method, Target, Protocol string
	// Key and Value are set for Header.
	Key, Value string
	// Chunk is set for BodyChunk. It shares the memory with the parser's buffer, so it is
	// valid only until the next Feed.
	Chunk []byte
}
