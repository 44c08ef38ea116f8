package cache

import (
	"context"
	"time"
)

const artifactPrefix = "stravaweb:session:"

// Artifacts are what a session needs to be resumed without a password login.
type Artifacts struct {
	AthleteID int64  `json:"athlete_id"`
	Token     string `json:"token"`
	CSRFParam string `json:"csrf_param,omitempty"`
	CSRFToken string `json:"csrf_token,omitempty"`
	// Expires is the token expiry; the cached entry lives no longer.
	Expires time.Time `json:"expires"`
}

// CSRF returns the cached CSRF pair, or nil when none was saved.
func (a *Artifacts) CSRF() map[string]string {
	if a.CSRFParam == "" || a.CSRFToken == "" {
		return nil
	}
	return map[string]string{a.CSRFParam: a.CSRFToken}
}

// SessionStore saves and restores Artifacts keyed by login name.
type SessionStore struct {
	Cache Cache
	now   func() time.Time
}

// NewSessionStore returns a store on top of c.
func NewSessionStore(c Cache) *SessionStore {
	return &SessionStore{Cache: c, now: time.Now}
}

// Save stores a for user until the token expires. Already expired artifacts
// are not stored.
func (s *SessionStore) Save(ctx context.Context, user string, a *Artifacts) error {
	var ttl time.Duration
	if !a.Expires.IsZero() {
		ttl = a.Expires.Sub(s.now())
		if ttl <= 0 {
			return s.Cache.Delete(ctx, artifactPrefix+user)
		}
	}
	return s.Cache.SetJSON(ctx, artifactPrefix+user, a, ttl)
}

// Load returns the artifacts saved for user, or nil when there are none or
// the token has expired.
func (s *SessionStore) Load(ctx context.Context, user string) (*Artifacts, error) {
	var a Artifacts
	ok, err := s.Cache.GetJSON(ctx, artifactPrefix+user, &a)
	if err != nil || !ok {
		return nil, err
	}
	if !a.Expires.IsZero() && !a.Expires.After(s.now()) {
		return nil, nil
	}
	return &a, nil
}

// Forget drops the artifacts saved for user.
func (s *SessionStore) Forget(ctx context.Context, user string) error {
	return s.Cache.Delete(ctx, artifactPrefix+user)
}
