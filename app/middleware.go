package app

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/indigo-web/gateway/http/status"
	"github.com/klauspost/compress/gzip"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Timing logs how long the handler took. Defaults to log.Default() if no logger is passed.
func Timing(loggers ...Logger) Middleware {
	if len(loggers) == 0 {
		loggers = append(loggers, log.Default())
	}

	return func(next Handler, request *Request) *Response {
		begin := time.Now()
		response := next(request)
		elapsed := time.Since(begin)

		for _, logger := range loggers {
			logger.Printf("%s %s took %s", request.Method, request.Path, elapsed)
		}

		return response
	}
}

// Recover catches panics in the handler and responds with 500 Internal Server Error
// instead. Whatever the handler has already prepared is discarded.
func Recover(next Handler, request *Request) (response *Response) {
	defer func() {
		if r := recover(); r != nil {
			response = Error(status.InternalServerError, fmt.Sprint("Internal Server Error: ", r))
		}
	}()

	return next(request)
}

// Compress gzips response bodies not shorter than minLength, if the client accepts gzip
// and the response isn't encoded already. The compressed response is a copy, the one
// returned by the handler is never modified.
func Compress(minLength int) Middleware {
	return func(next Handler, request *Request) *Response {
		response := next(request)
		if response == nil || len(response.Body) < minLength || !acceptsGzip(request) {
			return response
		}

		if _, encoded := response.HeaderValue("Content-Encoding"); encoded {
			return response
		}

		var buff bytes.Buffer
		writer := gzip.NewWriter(&buff)
		if _, err := writer.Write(response.Body); err != nil {
			return response
		}

		if err := writer.Close(); err != nil {
			return response
		}

		return response.Clone().
			Bytes(buff.Bytes()).
			Header("Content-Encoding", "gzip").
			Header("Vary", "Accept-Encoding")
	}
}

func acceptsGzip(request *Request) bool {
	for _, token := range strings.Split(request.Header("Accept-Encoding"), ",") {
		coding, _, _ := strings.Cut(token, ";")
		if strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			return true
		}
	}

	return false
}
