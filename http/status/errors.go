package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequestLine      = NewError(BadRequest, "malformed request line")
	ErrBadHeader           = NewError(BadRequest, "malformed header line")
	ErrBadContentLength    = NewError(BadRequest, "invalid content length")
	ErrInternalServerError = NewError(InternalServerError, Text(InternalServerError))
)

// CodeOf returns the code the error carries. Errors of other types are considered internal.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}
