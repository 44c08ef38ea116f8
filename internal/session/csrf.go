package session

import (
	"context"

	"github.com/lildude/stravaweb/internal/extract"
)

// csrfPage is small and renders the same meta tags whatever the access level.
const csrfPage = "about"

// CSRF returns the CSRF form field name and token, fetching them on first use.
func (s *Session) CSRF(ctx context.Context) (param, token string, err error) {
	if s.csrfParam != "" && s.csrfToken != "" {
		return s.csrfParam, s.csrfToken, nil
	}

	s.log.Debug("getting CSRF token")
	page, err := s.Get(ctx, csrfPage, nil)
	if err != nil {
		return "", "", err
	}
	param, token, err = extract.CSRF(page.Body)
	if err != nil {
		return "", "", err
	}
	s.csrfParam, s.csrfToken = param, token
	return param, token, nil
}

// CSRFPair returns the cached pair as {param: token}, or nil before the first
// mutating request.
func (s *Session) CSRFPair() map[string]string {
	if s.csrfParam == "" {
		return nil
	}
	return map[string]string{s.csrfParam: s.csrfToken}
}
