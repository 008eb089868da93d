package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with route and query helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryBool parses a boolean query value. ok is false when the key is absent
// or not a boolean.
func (req *Request) QueryBool(key string) (value, ok bool) {
	b, err := strconv.ParseBool(req.Query(key))
	if err != nil {
		return false, false
	}
	return b, true
}

// RouteParam returns a URL route parameter (chi). Use "*" for a wildcard tail.
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }
