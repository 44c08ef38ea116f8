package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lildude/stravaweb/internal/weberr"
)

// Credentials are the two ways to log in. Token wins when both are set.
type Credentials struct {
	Token    string
	Email    string
	Password string
}

// IdentitySource reports the athlete a REST API client is authenticated as.
type IdentitySource interface {
	AthleteID(ctx context.Context) (int64, error)
}

// Authenticate logs in with creds and, when src is not nil, checks that the
// session and the REST API belong to the same athlete.
func (s *Session) Authenticate(ctx context.Context, creds Credentials, src IdentitySource) error {
	switch {
	case creds.Token != "":
		if err := s.LoginWithToken(creds.Token); err != nil {
			return err
		}
	case creds.Email != "" && creds.Password != "":
		if err := s.LoginWithPassword(ctx, creds.Email, creds.Password); err != nil {
			return err
		}
	default:
		return weberr.Invalid("credentials", "a token or both of email and password are required")
	}

	if src == nil {
		return nil
	}
	return s.VerifyIdentity(ctx, src)
}

// LoginWithToken resumes a session from a remember token. The token is a JWT
// whose payload is read without verifying its signature; only its expiry and
// subject are used. No request is made.
func (s *Session) LoginWithToken(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return weberr.Auth(weberr.ReasonMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return weberr.Auth(weberr.ReasonMalformed, errors.New("token has no expiry"))
	}
	if exp.Before(s.now()) {
		return weberr.Auth(weberr.ReasonExpired, fmt.Errorf("token expired at %s", exp.UTC()))
	}

	sub, err := subject(claims["sub"])
	if err != nil {
		return weberr.Auth(weberr.ReasonMalformed, err)
	}

	s.setCookies(map[string]string{
		cookieRememberID:    strconv.FormatInt(sub, 10),
		cookieRememberToken: token,
	})
	s.log.WithField("athlete_id", sub).Info("resumed session from token")
	return nil
}

// TokenExpiry returns the expiry of the remember token, or the zero time when
// there is no readable token.
func (s *Session) TokenExpiry() time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(s.Token(), claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Remember tokens are sometimes issued with a padded payload segment.
var tokenParser = jwt.NewParser(jwt.WithPaddingAllowed())

// subject accepts a numeric or string sub claim.
func subject(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("token subject %q is not an athlete id", t)
		}
		return id, nil
	}
	return 0, errors.New("token has no subject")
}

// LoginWithPassword logs in through the website login form.
func (s *Session) LoginWithPassword(ctx context.Context, email, password string) error {
	page, err := s.Post(ctx, "session", url.Values{
		"email":       {email},
		"password":    {password},
		"remember_me": {"on"},
	})
	if err != nil {
		return err
	}

	if !page.Redirected() {
		return weberr.Auth(weberr.ReasonInvalidCredentials, fmt.Errorf("login returned status %d", page.StatusCode))
	}
	if loc, err := url.Parse(page.Location); err != nil || strings.HasSuffix(loc.Path, "/login") {
		return weberr.Auth(weberr.ReasonInvalidCredentials, errors.New("redirected back to login"))
	}

	s.log.WithField("athlete_id", s.AthleteID()).Info("logged in with password")
	return nil
}

// VerifyIdentity fails with an account_mismatch AuthError when the session
// athlete is not the athlete src is authenticated as.
func (s *Session) VerifyIdentity(ctx context.Context, src IdentitySource) error {
	want, err := src.AthleteID(ctx)
	if err != nil {
		return fmt.Errorf("getting REST API athlete: %w", err)
	}
	if got := s.AthleteID(); got != want {
		return weberr.Auth(weberr.ReasonAccountMismatch,
			fmt.Errorf("session athlete %d is not REST API athlete %d", got, want))
	}
	return nil
}
