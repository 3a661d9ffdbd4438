package app

import (
	"slices"
	"strconv"

	"github.com/indigo-web/gateway/http/status"
	"github.com/indigo-web/gateway/kv"
	json "github.com/json-iterator/go"
)

const (
	MIMEPlain = "text/plain"
	MIMEHTML  = "text/html"
	MIMEJSON  = "application/json"
)

// Response is what handlers return. Content-Type and Content-Length are added right before
// the response is started, unless set explicitly.
type Response struct {
	Status      string
	Headers     []kv.Pair
	Body        []byte
	ContentType string
}

// NewResponse returns an empty 200 OK plain text response.
func NewResponse() *Response {
	return &Response{
		Status:      status.MakeLine(status.OK),
		ContentType: MIMEPlain,
	}
}

// Text returns a plain text response.
func Text(body string) *Response {
	return NewResponse().String(body)
}

// HTML returns a text/html response.
func HTML(body string) *Response {
	return NewResponse().String(body).WithContentType(MIMEHTML)
}

// JSON serializes the model into the body. In case of failure, 500 Internal Server Error is
// returned instead.
func JSON(model any) *Response {
	body, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		return Error(status.InternalServerError, err.Error())
	}

	return NewResponse().Bytes(body).WithContentType(MIMEJSON)
}

// NotFound is returned for every request no route matches.
func NotFound() *Response {
	return Text("Not Found").WithStatus("404 NOT FOUND")
}

// Error returns a plain text response with the status line made from the code.
func Error(code status.Code, message string) *Response {
	return Text(message).WithStatus(status.MakeLine(code))
}

// WithStatus sets the status line, e.g. "201 Created".
func (r *Response) WithStatus(line string) *Response {
	r.Status = line
	return r
}

// Code sets the status line from the code.
func (r *Response) Code(code status.Code) *Response {
	return r.WithStatus(status.MakeLine(code))
}

// Header appends a header. Repeated keys aren't merged.
func (r *Response) Header(key, value string) *Response {
	r.Headers = append(r.Headers, kv.Pair{Key: key, Value: value})
	return r
}

func (r *Response) WithContentType(contentType string) *Response {
	r.ContentType = contentType
	return r
}

func (r *Response) String(body string) *Response {
	r.Body = []byte(body)
	return r
}

func (r *Response) Bytes(body []byte) *Response {
	r.Body = body
	return r
}

// HeaderValue returns the first value of the header, looked up case-insensitively.
func (r *Response) HeaderValue(key string) (string, bool) {
	return kv.NewFromPairs(r.Headers...).Get(key)
}

// Clone returns a copy of the response which can be modified without affecting the original.
func (r *Response) Clone() *Response {
	clone := *r
	clone.Headers = slices.Clone(r.Headers)

	return &clone
}

// finalHeaders returns the headers extended by Content-Type and Content-Length. The response
// itself is left untouched, as handlers may return the same instance to many requests.
func (r *Response) finalHeaders() []kv.Pair {
	headers := kv.NewFromPairs(slices.Clone(r.Headers)...)

	if !headers.Has("Content-Type") {
		contentType := r.ContentType
		if len(contentType) == 0 {
			contentType = MIMEPlain
		}

		headers.Add("Content-Type", contentType)
	}

	if len(r.Body) > 0 && !headers.Has("Content-Length") {
		headers.Add("Content-Length", strconv.Itoa(len(r.Body)))
	}

	return headers.Expose()
}
