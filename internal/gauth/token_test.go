package gauth

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type fakeSource struct {
	calls  atomic.Int32
	expiry time.Time
	err    error
}

func (f *fakeSource) Token() (*oauth2.Token, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "tok", Expiry: f.expiry}, nil
}

func TestCachedSourceRefreshesOnce(t *testing.T) {
	base := &fakeSource{expiry: time.Now().Add(time.Hour)}
	src := NewCachedSource(base, 5*time.Minute)

	for range 5 {
		tok, err := src.Token()
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if tok.AccessToken != "tok" {
			t.Fatalf("unexpected token %q", tok.AccessToken)
		}
	}

	if n := base.calls.Load(); n != 1 {
		t.Fatalf("expected 1 refresh for a fresh token, got %d", n)
	}
}

func TestCachedSourceRefreshesInsideMargin(t *testing.T) {
	base := &fakeSource{expiry: time.Now().Add(time.Minute)}
	src := NewCachedSource(base, 5*time.Minute)

	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	// Expiry is within the margin, so every call refreshes.
	if n := base.calls.Load(); n != 2 {
		t.Fatalf("expected 2 refreshes inside margin, got %d", n)
	}
}

func TestCachedSourcePropagatesRefreshError(t *testing.T) {
	base := &fakeSource{err: errors.New("metadata server unreachable")}
	src := NewCachedSource(base, 5*time.Minute)

	if _, err := src.Token(); err == nil {
		t.Fatal("expected refresh error")
	}
}

func TestCachedSourceConcurrentRefreshIsSafe(t *testing.T) {
	base := &fakeSource{expiry: time.Now().Add(time.Hour)}
	src := NewCachedSource(base, 5*time.Minute)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := src.Token(); err != nil {
				t.Errorf("Token failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// Concurrent first use may refresh more than once; that is allowed,
	// subsequent calls must not.
	before := base.calls.Load()
	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if after := base.calls.Load(); after != before {
		t.Fatalf("expected cached token after settle, got %d -> %d refreshes", before, after)
	}
}
