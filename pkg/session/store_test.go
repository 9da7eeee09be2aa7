package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"apstramcp/pkg/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	err   error
	calls int
}

func (f *fakeAuthenticator) Login(ctx context.Context, creds credentials.Bundle) (http.Header, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	headers := http.Header{}
	headers.Set("AuthToken", "controller-token")
	return headers, nil
}

func newTestStore(t *testing.T, auth *fakeAuthenticator, timeout time.Duration) *Store {
	t.Helper()
	return NewStore(auth, timeout)
}

func TestAuthenticateAndValidate(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)

	ok, message, token := store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")

	require.True(t, ok)
	assert.Equal(t, "Authentication successful", message)
	assert.GreaterOrEqual(t, len(token), 32)

	creds, valid := store.Validate(token)
	require.True(t, valid)
	assert.Equal(t, "alice", creds.Username)
	assert.Equal(t, "10.0.0.1", creds.Server)
	assert.Equal(t, "443", creds.Port)
	assert.Equal(t, "pw", creds.Password)
}

func TestAuthenticateFailure(t *testing.T) {
	auth := &fakeAuthenticator{err: errors.New("controller returned 401: invalid credentials")}
	store := newTestStore(t, auth, time.Hour)

	ok, message, token := store.Authenticate(context.Background(), "alice", "bad", "10.0.0.1", "443")

	assert.False(t, ok)
	assert.Contains(t, message, "401")
	assert.Empty(t, token)
	assert.Equal(t, 0, store.Len())
}

func TestValidateUnknownToken(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)

	_, valid := store.Validate("no-such-token")
	assert.False(t, valid)

	_, valid = store.Validate("")
	assert.False(t, valid)
}

func TestLogout(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)
	_, _, token := store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")

	assert.True(t, store.Logout(token))

	// an evicted token must never validate again
	_, valid := store.Validate(token)
	assert.False(t, valid)
	assert.False(t, store.Logout(token))
}

func TestValidateExpiryEvicts(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)
	_, _, token := store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")

	now := time.Now()
	store.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, valid := store.Validate(token)
	assert.False(t, valid)
	assert.Equal(t, 0, store.Len())

	_, ok := store.Info(token)
	assert.False(t, ok)
}

func TestValidateRefreshesLastAccessed(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)
	_, _, token := store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")

	base := time.Now()
	// 40 minutes later: inside the timeout, refreshes the timestamp
	store.now = func() time.Time { return base.Add(40 * time.Minute) }
	_, valid := store.Validate(token)
	require.True(t, valid)

	// 40 more minutes: only 40 since the refresh, still valid
	store.now = func() time.Time { return base.Add(80 * time.Minute) }
	_, valid = store.Validate(token)
	assert.True(t, valid)
}

func TestSweepExpiredIdempotent(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)
	_, _, _ = store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")
	_, _, _ = store.Authenticate(context.Background(), "bob", "pw", "10.0.0.2", "443")

	now := time.Now()
	store.now = func() time.Time { return now.Add(2 * time.Hour) }

	assert.Equal(t, 2, store.SweepExpired())
	assert.Equal(t, 0, store.SweepExpired())
	assert.Equal(t, 0, store.Len())
}

func TestInfoOmitsPassword(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)
	_, _, token := store.Authenticate(context.Background(), "alice", "secret", "10.0.0.1", "443")

	info, ok := store.Info(token)

	require.True(t, ok)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "10.0.0.1", info.Server)
	assert.Equal(t, "443", info.Port)
	assert.Greater(t, info.ExpiresIn, float64(0))
	assert.False(t, info.CreatedAt.IsZero())
}

func TestTokensAreUnique(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		_, _, token := store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestConcurrentValidateAndLogout(t *testing.T) {
	store := newTestStore(t, &fakeAuthenticator{}, time.Hour)
	_, _, token := store.Authenticate(context.Background(), "alice", "pw", "10.0.0.1", "443")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Validate(token)
		}()
		go func() {
			defer wg.Done()
			store.Logout(token)
		}()
	}
	wg.Wait()

	// after any interleaving the token is gone and stays gone
	_, valid := store.Validate(token)
	assert.False(t, valid)
}
