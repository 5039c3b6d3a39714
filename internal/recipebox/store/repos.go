package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

// Registry persists the account registry under RegistryKey.
type Registry struct {
	KV KV
}

// Load returns the stored accounts. Absent or malformed data yields an empty
// registry; only storage failures are returned.
func (r Registry) Load(ctx context.Context) ([]domain.UserAccount, error) {
	data, err := r.KV.Get(ctx, RegistryKey)
	if errors.Is(err, ErrNotFound) {
		return []domain.UserAccount{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	accounts, err := DecodeRegistry(data)
	if err != nil {
		slogx.FromContext(ctx).Warn("ignoring malformed account registry",
			slog.String("key", RegistryKey),
			slog.Any("error", err),
		)
		return []domain.UserAccount{}, nil
	}
	return accounts, nil
}

// Save replaces the stored registry.
func (r Registry) Save(ctx context.Context, accounts []domain.UserAccount) error {
	data, err := EncodeRegistry(accounts)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := r.KV.Put(ctx, RegistryKey, data); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Sessions persists the signed-in identity under SessionKey.
type Sessions struct {
	KV KV
}

// Load returns the persisted identity, or ok=false when nobody is signed
// in. A corrupt entry is deleted and reported as signed out.
func (s Sessions) Load(ctx context.Context) (id domain.SessionIdentity, ok bool, err error) {
	data, err := s.KV.Get(ctx, SessionKey)
	if errors.Is(err, ErrNotFound) {
		return domain.SessionIdentity{}, false, nil
	}
	if err != nil {
		return domain.SessionIdentity{}, false, fmt.Errorf("load session: %w", err)
	}

	id, err = DecodeIdentity(data)
	if err != nil {
		slogx.FromContext(ctx).Warn("discarding malformed session",
			slog.String("key", SessionKey),
			slog.Any("error", err),
		)
		if err := s.KV.Delete(ctx, SessionKey); err != nil {
			return domain.SessionIdentity{}, false, fmt.Errorf("discard session: %w", err)
		}
		return domain.SessionIdentity{}, false, nil
	}
	return id, true, nil
}

// Save persists id as the signed-in identity.
func (s Sessions) Save(ctx context.Context, id domain.SessionIdentity) error {
	data, err := EncodeIdentity(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.KV.Put(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the persisted identity.
func (s Sessions) Clear(ctx context.Context) error {
	if err := s.KV.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Forests persists one comment forest per content id.
type Forests struct {
	KV KV
}

// Load returns the forest of contentID. Absent or malformed data yields an
// empty forest.
func (f Forests) Load(ctx context.Context, contentID string) ([]domain.Comment, error) {
	key := CommentsKey(contentID)

	data, err := f.KV.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []domain.Comment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load comments %q: %w", contentID, err)
	}

	forest, err := DecodeForest(data)
	if err != nil {
		slogx.FromContext(ctx).Warn("ignoring malformed comment forest",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return []domain.Comment{}, nil
	}
	return forest, nil
}

// Save replaces the forest of contentID.
func (f Forests) Save(ctx context.Context, contentID string, forest []domain.Comment) error {
	data, err := EncodeForest(forest)
	if err != nil {
		return fmt.Errorf("encode comments %q: %w", contentID, err)
	}
	if err := f.KV.Put(ctx, CommentsKey(contentID), data); err != nil {
		return fmt.Errorf("save comments %q: %w", contentID, err)
	}
	return nil
}
