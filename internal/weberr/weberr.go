// Package weberr defines the failure taxonomy shared by the scraping layers.
//
// Every error returned by the session, extract, mapper and webclient packages
// wraps one of these types so callers can tell "your credentials are wrong"
// from "the site changed" from "you passed a bad argument".
package weberr

import (
	"errors"
	"fmt"
)

// Reasons carried by AuthError.
const (
	ReasonExpired            = "expired"
	ReasonMalformed          = "malformed"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonAccountMismatch    = "account_mismatch"
)

// Reasons carried by ScrapeError.
const (
	ReasonCSRFNotFound    = "csrf_not_found"
	ReasonLayoutChanged   = "layout_changed"
	ReasonNoChallengeData = "no_challenge_data"
	ReasonInvalidJSON     = "invalid_json"
	ReasonNoMatch         = "no_match"
	ReasonNotFound        = "not_found"
)

// Stages reported by Stage.
const (
	StageAuth       = "auth"
	StageRemote     = "remote"
	StageScrape     = "scrape"
	StageValidation = "validation"
)

// AuthError is returned when a session cannot be established or trusted.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches another AuthError with the same reason, or any AuthError when the
// target reason is empty.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// RemoteError is returned for an unexpected status code or a missing redirect.
type RemoteError struct {
	StatusCode int
	Context    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote: %s (status code %d)", e.Context, e.StatusCode)
}

// Is matches another RemoteError with the same status code, or any
// RemoteError when the target status code is zero.
func (e *RemoteError) Is(target error) bool {
	t, ok := target.(*RemoteError)
	return ok && (t.StatusCode == 0 || t.StatusCode == e.StatusCode)
}

// ScrapeError signals that an expected page structure was absent.
type ScrapeError struct {
	Reason string
	Detail string
	Err    error
}

func (e *ScrapeError) Error() string {
	msg := "scrape: " + e.Reason
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScrapeError) Unwrap() error { return e.Err }

func (e *ScrapeError) Is(target error) bool {
	t, ok := target.(*ScrapeError)
	return ok && (t.Reason == "" || t.Reason == e.Reason)
}

// ValidationError is returned for an invalid caller-supplied parameter. It is
// always raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && (t.Field == "" || t.Field == e.Field)
}

// Auth returns an AuthError for reason.
func Auth(reason string, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

// Remote returns a RemoteError.
func Remote(status int, context string) error {
	return &RemoteError{StatusCode: status, Context: context}
}

// Scrape returns a ScrapeError for reason.
func Scrape(reason, detail string, err error) error {
	return &ScrapeError{Reason: reason, Detail: detail, Err: err}
}

// Invalid returns a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Stage reports which stage produced err, or "" when err carries none of the
// taxonomy types.
func Stage(err error) string {
	var (
		ae *AuthError
		re *RemoteError
		se *ScrapeError
		ve *ValidationError
	)
	switch {
	case errors.As(err, &ae):
		return StageAuth
	case errors.As(err, &ve):
		return StageValidation
	case errors.As(err, &se):
		return StageScrape
	case errors.As(err, &re):
		return StageRemote
	}
	return ""
}
