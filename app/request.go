package app

import (
	"io"
	"strings"

	"github.com/indigo-web/gateway/contract"
	"github.com/indigo-web/gateway/kv"
)

// Request is the application-level view of a request.
type Request struct {
	Method string
	Path   string
	// Query holds the parsed query string. Values are left as-is, without URL-decoding. A query
	// without any equality sign becomes a single key with an empty value.
	Query map[string]string
	// Headers are keyed by their environ names with the HTTP_ prefix stripped,
	// e.g. CONTENT_TYPE.
	Headers *kv.Storage
	Body    []byte
	// Env is the environ the request was made from.
	Env *contract.Environ
}

func NewRequest(env *contract.Environ) (*Request, error) {
	body, err := io.ReadAll(env.Input)
	if err != nil {
		return nil, err
	}

	headers := kv.NewPrealloc(env.Headers.Len())
	for key, value := range env.Headers.Pairs() {
		headers.Add(strings.TrimPrefix(key, contract.HeaderPrefix), value)
	}

	return &Request{
		Method:  env.Method,
		Path:    env.PathInfo,
		Query:   parseQuery(env.QueryString),
		Headers: headers,
		Body:    body,
		Env:     env,
	}, nil
}

// Header returns the value of the header by its usual name, e.g. Accept-Encoding.
func (r *Request) Header(name string) string {
	return r.Headers.Value(strings.TrimPrefix(contract.HeaderKey(name), contract.HeaderPrefix))
}

func parseQuery(query string) map[string]string {
	values := make(map[string]string)
	if len(query) == 0 {
		return values
	}

	for _, entry := range strings.Split(query, "&") {
		if len(entry) == 0 {
			continue
		}

		key, value, _ := strings.Cut(entry, "=")
		values[key] = value
	}

	return values
}
