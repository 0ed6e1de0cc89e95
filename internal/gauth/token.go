// Package gauth holds the process-wide Google access credential shared by
// the speech recognizer and synthesizer clients. The token is cached with a
// fixed early-expiry margin and refreshed lazily; refresh is idempotent, so
// concurrent callers need no lock. A stale read only costs an extra refresh.
package gauth

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const scope = "https://www.googleapis.com/auth/cloud-platform"

// DefaultMargin is how long before actual expiry a cached token is treated
// as expired.
const DefaultMargin = 5 * time.Minute

// CachedSource is an oauth2.TokenSource that caches the latest token in an
// atomic pointer.
type CachedSource struct {
	base   oauth2.TokenSource
	margin time.Duration
	tok    atomic.Pointer[oauth2.Token]
}

// NewCachedSource wraps base with margin-aware caching.
func NewCachedSource(base oauth2.TokenSource, margin time.Duration) *CachedSource {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &CachedSource{base: base, margin: margin}
}

// Default builds a cached source from Application Default Credentials.
func Default(ctx context.Context) (*CachedSource, error) {
	creds, err := google.FindDefaultCredentials(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return NewCachedSource(creds.TokenSource, DefaultMargin), nil
}

// Token returns the cached token, refreshing it from the underlying source
// once it is within the expiry margin.
func (s *CachedSource) Token() (*oauth2.Token, error) {
	if t := s.tok.Load(); t != nil && time.Until(t.Expiry) > s.margin {
		return t, nil
	}

	t, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	s.tok.Store(t)
	return t, nil
}
