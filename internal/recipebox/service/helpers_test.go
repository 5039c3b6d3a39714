package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/store"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store/drivers/memory"
	"github.com/aussiebroadwan/recipebox/pkg/busx"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("storage unavailable")

// flakyKV wraps a memory store and fails writes while failing is set.
type flakyKV struct {
	*memory.Store

	mu      sync.Mutex
	failing bool
}

func (f *flakyKV) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errUnavailable
	}
	return f.Store.Put(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errUnavailable
	}
	return f.Store.Delete(ctx, key)
}

var _ store.KV = (*flakyKV)(nil)

// tickingClock advances one second per call so comment ids and timestamps
// are strictly increasing.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

type fixture struct {
	kv       *flakyKV
	bus      *busx.Bus
	sessions *SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := &flakyKV{Store: memory.NewStore()}
	bus := busx.New()
	sessions, err := NewSessionStore(context.Background(), kv, bus, SessionOptions{})
	require.NoError(t, err)

	return &fixture{kv: kv, bus: bus, sessions: sessions}
}

func (f *fixture) comments(t *testing.T, contentID string, opts CommentOptions) *CommentStore {
	t.Helper()

	if opts.Now == nil {
		opts.Now = tickingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	}
	c, err := NewCommentStore(context.Background(), contentID, f.kv, f.sessions, f.bus, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// signedIn registers username and logs it in.
func (f *fixture) signedIn(t *testing.T, username string) {
	t.Helper()
	ctx := context.Background()

	if _, err := f.sessions.Register(ctx, username, username+"-pw", ""); err != nil {
		require.ErrorIs(t, err, ErrAlreadyExists)
	}
	_, err := f.sessions.Login(ctx, username, username+"-pw")
	require.NoError(t, err)
}
