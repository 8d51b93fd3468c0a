package hub

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/stellarbit/hubclient/internal/common"
)

// Request is an immutable description of a hub call. A fresh resty request
// is materialised from it on every send, so the same Request can be replayed
// after re-authentication.
type Request struct {
	Method string
	// Path is relative to the hub endpoint and may contain {name}
	// placeholders that are filled from PathParams.
	Path       string
	PathParams map[string]string
	Form       map[string]string
	Query      map[string]string
}

func Get(path string, params map[string]string) Request {
	return Request{Method: http.MethodGet, Path: path, PathParams: params}
}

func Post(path string, params map[string]string) Request {
	return Request{Method: http.MethodPost, Path: path, PathParams: params}
}

// WithForm returns a copy of the request carrying form-encoded fields.
func (r Request) WithForm(form map[string]string) Request {
	r.Form = form
	return r
}

// WithQuery returns a copy of the request carrying query parameters.
func (r Request) WithQuery(query map[string]string) Request {
	r.Query = query
	return r
}

// ExpandedPath returns the path with every placeholder substituted, using the
// same escaping resty applies on the wire.
func (r Request) ExpandedPath() string {
	path := r.Path
	for key, value := range r.PathParams {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(value))
	}
	return path
}

func (r Request) String() string {
	return r.Method + " " + r.ExpandedPath()
}

func (r Request) build(ctx context.Context, client *resty.Client) *resty.Request {
	builder := client.R().SetContext(ctx)

	if len(r.PathParams) > 0 {
		builder.SetPathParams(r.PathParams)
	}
	if len(r.Query) > 0 {
		builder.SetQueryParams(r.Query)
	}
	if len(r.Form) > 0 {
		builder.SetFormData(r.Form)
	}

	return builder
}

// restySender sends requests over a shared resty client whose cookie jar
// carries the session.
type restySender struct {
	client *resty.Client
}

func (s *restySender) Send(ctx context.Context, req Request) (*resty.Response, error) {
	resp, err := common.MakeRequestFromBuilder(req.build(ctx, s.client), req.Method, req.Path)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.ExpandedPath(), Err: err}
	}
	return resp, nil
}
