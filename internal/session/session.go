// Package session holds an authenticated Strava website session and issues
// its requests.
package session

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lildude/stravaweb/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// BaseURL is the Strava website.
const BaseURL = "https://www.strava.com"

const (
	cookieRememberID    = "strava_remember_id"
	cookieRememberToken = "strava_remember_token"

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJS   = "text/javascript, application/javascript, application/ecmascript, application/x-ecmascript"
	userAgent  = "stravaweb/0.1"
)

// Options configures a Session.
type Options struct {
	// BaseURL defaults to BaseURL.
	BaseURL string
	// CSRF is a pre-supplied {param: token} pair. When set, the CSRF
	// bootstrap request is never made.
	CSRF map[string]string
	// HTTPClient replaces the underlying client, mostly for tests.
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Session is the cookie and CSRF state of one login. It is not safe for
// concurrent use.
type Session struct {
	http *resty.Client
	base *url.URL
	jar  http.CookieJar
	log  logrus.FieldLogger

	csrfParam string
	csrfToken string

	now func() time.Time
}

// New returns an unauthenticated session.
func New(opts Options) (*Session, error) {
	base := opts.BaseURL
	if base == "" {
		base = BaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", base, err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(u.String())
	client.SetCookieJar(jar)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", acceptHTML)
	// Every redirect is handed back to the caller: login and delete are judged
	// by where they redirect to.
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	s := &Session{
		http: client,
		base: u,
		jar:  jar,
		log:  log.WithField("component", "session"),
		now:  time.Now,
	}
	for param, token := range opts.CSRF {
		s.csrfParam, s.csrfToken = param, token
	}
	return s, nil
}

// Token returns the remember token cookie, empty before login.
func (s *Session) Token() string {
	return s.cookie(cookieRememberToken)
}

// AthleteID returns the id from the identity cookie, zero before login.
func (s *Session) AthleteID() int64 {
	id, err := strconv.ParseInt(s.cookie(cookieRememberID), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// BaseURL returns the site root the session talks to.
func (s *Session) BaseURL() *url.URL {
	u := *s.base
	return &u
}

func (s *Session) cookie(name string) string {
	for _, c := range s.jar.Cookies(s.base) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (s *Session) setCookies(values map[string]string) {
	cookies := make([]*http.Cookie, 0, len(values))
	for name, value := range values {
		cookies = append(cookies, &http.Cookie{
			Name:   name,
			Value:  value,
			Path:   "/",
			Secure: s.base.Scheme == "https",
		})
	}
	s.jar.SetCookies(s.base, cookies)
}
