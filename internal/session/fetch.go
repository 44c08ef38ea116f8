package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/lildude/stravaweb/internal/weberr"
)

// Request is one site-relative request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	// XHR marks requests to endpoints that answer XMLHttpRequests only.
	XHR bool
}

// Page is a fully read response.
type Page struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Location is the absolute redirect target, empty when there is none.
	Location string
}

// OK reports a 2xx status.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// Redirected reports a 3xx status carrying a Location.
func (p *Page) Redirected() bool {
	return p.StatusCode >= 300 && p.StatusCode < 400 && p.Location != ""
}

func (s *Session) request(ctx context.Context, req Request) *resty.Request {
	r := s.http.R().SetContext(ctx)
	if req.XHR {
		r.SetHeader("X-Requested-With", "XMLHttpRequest")
		r.SetHeader("Accept", acceptJS)
	}
	if req.Query != nil {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Form != nil {
		r.SetFormDataFromValues(req.Form)
	}
	return r
}

// Fetch performs one round trip and returns the response whatever its status.
// Only transport failures are errors.
func (s *Session) Fetch(ctx context.Context, req Request) (*Page, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	path := "/" + strings.TrimLeft(req.Path, "/")

	s.log.WithField("method", method).WithField("path", path).Debug("fetching page")
	res, err := s.request(ctx, req).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	page := &Page{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.Body(),
	}
	if loc := res.Header().Get("Location"); loc != "" {
		page.Location = s.resolve(loc)
	}
	return page, nil
}

func (s *Session) resolve(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return s.base.ResolveReference(u).String()
}

// Get fetches path and fails with a RemoteError unless the status is 2xx.
func (s *Session) Get(ctx context.Context, path string, query url.Values) (*Page, error) {
	return ok("GET "+path)(s.Fetch(ctx, Request{Path: path, Query: query}))
}

// GetXHR is Get for XMLHttpRequest-only endpoints.
func (s *Session) GetXHR(ctx context.Context, path string, query url.Values) (*Page, error) {
	return ok("GET "+path)(s.Fetch(ctx, Request{Path: path, Query: query, XHR: true}))
}

// Post submits form with the CSRF pair added and returns the response as is,
// so that callers can judge a redirect with ExpectRedirect.
func (s *Session) Post(ctx context.Context, path string, form url.Values) (*Page, error) {
	return s.post(ctx, path, form, false)
}

// PostXHR submits form to an XMLHttpRequest endpoint and requires a 2xx.
func (s *Session) PostXHR(ctx context.Context, path string, form url.Values) (*Page, error) {
	return ok("POST "+path)(s.post(ctx, path, form, true))
}

func (s *Session) post(ctx context.Context, path string, form url.Values, xhr bool) (*Page, error) {
	param, token, err := s.CSRF(ctx)
	if err != nil {
		return nil, err
	}
	f := url.Values{}
	for k, v := range form {
		f[k] = append([]string(nil), v...)
	}
	f.Set(param, token)
	return s.Fetch(ctx, Request{Method: http.MethodPost, Path: path, Form: f, XHR: xhr})
}

func ok(what string) func(*Page, error) (*Page, error) {
	return func(page *Page, err error) (*Page, error) {
		if err != nil {
			return nil, err
		}
		if !page.OK() {
			return nil, weberr.Remote(page.StatusCode, what)
		}
		return page, nil
	}
}

// ExpectRedirect fails with a RemoteError described by what unless page
// redirects to a path ending in suffix.
func ExpectRedirect(page *Page, suffix, what string) error {
	if !page.Redirected() {
		return weberr.Remote(page.StatusCode, what+": no redirect")
	}
	u, err := url.Parse(page.Location)
	if err != nil || !strings.HasSuffix(u.Path, suffix) {
		return weberr.Remote(page.StatusCode, fmt.Sprintf("%s: redirected to %s", what, page.Location))
	}
	return nil
}

// Stream is an unread response body. Callers must close Body.
type Stream struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Stream fetches path without buffering the body.
func (s *Session) Stream(ctx context.Context, path string) (*Stream, error) {
	path = "/" + strings.TrimLeft(path, "/")
	s.log.WithField("path", path).Debug("streaming page")
	res, err := s.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return &Stream{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.RawBody(),
	}, nil
}
