package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store"
	"github.com/aussiebroadwan/recipebox/pkg/busx"
	"github.com/aussiebroadwan/recipebox/pkg/idx"
	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

var (
	ErrAlreadyExists      = errors.New("username already taken")
	ErrInvalidAccount     = errors.New("username and password are required and must be valid UTF-8")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTokenDecode        = errors.New("identity token could not be decoded")
)

type SessionOptions struct {
	// AvatarBaseURL is where placeholder pictures for local accounts live.
	// Defaults to DefaultAvatarBaseURL.
	AvatarBaseURL string

	// Now is the clock used to stamp new account ids. Defaults to time.Now.
	Now func() time.Time
}

// SessionStore owns the local account registry and the signed-in identity.
//
// Passwords are stored and compared in plaintext and external identity
// tokens are trusted without verification. Neither is acceptable anywhere
// this store guards something of value.
type SessionStore struct {
	registry store.Registry
	sessions store.Sessions
	bus      *busx.Bus
	opts     SessionOptions

	mu       sync.RWMutex
	accounts []domain.UserAccount
	current  *domain.SessionIdentity
}

// NewSessionStore loads the registry and any persisted session from kv.
// Malformed registry data counts as an empty registry; a malformed session
// is discarded and the store starts signed out.
func NewSessionStore(ctx context.Context, kv store.KV, bus *busx.Bus, opts SessionOptions) (*SessionStore, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if bus == nil {
		bus = busx.New()
	}

	s := &SessionStore{
		registry: store.Registry{KV: kv},
		sessions: store.Sessions{KV: kv},
		bus:      bus,
		opts:     opts,
	}

	accounts, err := s.registry.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.accounts = accounts

	id, ok, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		s.current = &id
		slogx.FromContext(ctx).Debug("restored session", slog.String("user_id", id.ID))
	}

	return s, nil
}

// Register adds a local account. It does not sign the new account in.
func (s *SessionStore) Register(ctx context.Context, username, password, email string) (domain.UserAccount, error) {
	log := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return domain.UserAccount{}, ErrInvalidAccount
	}
	if !utf8.ValidString(username) || !utf8.ValidString(password) || !utf8.ValidString(email) {
		return domain.UserAccount{}, ErrInvalidAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Username == username {
			log.Warn("registration for taken username", slog.String("username", username))
			return domain.UserAccount{}, ErrAlreadyExists
		}
	}

	account := domain.UserAccount{
		ID:         idx.NewAt(s.opts.Now().UTC()).String(),
		Username:   username,
		Password:   password,
		Email:      strings.TrimSpace(email),
		Name:       username,
		PictureURL: AvatarURL(s.opts.AvatarBaseURL, username),
	}

	next := append(slices.Clip(s.accounts), account)
	if err := s.registry.Save(ctx, next); err != nil {
		log.Error("failed to persist registry", slog.Any("error", err))
		return domain.UserAccount{}, err
	}
	s.accounts = next

	log.Info("account registered",
		slog.String("user_id", account.ID),
		slog.String("username", username),
	)
	return account, nil
}

// Login signs in the account matching both username and password exactly.
// Unknown usernames and wrong passwords fail the same way.
func (s *SessionStore) Login(ctx context.Context, username, password string) (domain.SessionIdentity, error) {
	s.mu.RLock()
	var match *domain.UserAccount
	for i := range s.accounts {
		if s.accounts[i].Username == username && s.accounts[i].Password == password {
			match = &s.accounts[i]
			break
		}
	}
	var id domain.SessionIdentity
	if match != nil {
		id = match.Identity()
	}
	s.mu.RUnlock()

	if match == nil {
		slogx.FromContext(ctx).Warn("login failed", slog.String("username", username))
		return domain.SessionIdentity{}, ErrInvalidCredentials
	}

	if err := s.signIn(ctx, id); err != nil {
		return domain.SessionIdentity{}, err
	}
	return id, nil
}

// LoginWithExternalToken signs in the identity carried by an external
// provider's token. The token is decoded, not verified.
func (s *SessionStore) LoginWithExternalToken(ctx context.Context, token string) (domain.SessionIdentity, error) {
	claims, err := jwtx.DecodeUnverified(token)
	if err != nil {
		slogx.FromContext(ctx).Warn("external token rejected", slog.Any("error", err))
		return domain.SessionIdentity{}, ErrTokenDecode
	}

	id := domain.SessionIdentity{
		ID:         claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		PictureURL: claims.Picture,
	}
	if err := s.signIn(ctx, id); err != nil {
		return domain.SessionIdentity{}, err
	}
	return id, nil
}

func (s *SessionStore) signIn(ctx context.Context, id domain.SessionIdentity) error {
	s.mu.Lock()
	if err := s.sessions.Save(ctx, id); err != nil {
		s.mu.Unlock()
		slogx.FromContext(ctx).Error("failed to persist session", slog.Any("error", err))
		return err
	}
	s.current = &id
	s.mu.Unlock()

	slogx.FromContext(ctx).Info("user logged in", slog.String("user_id", id.ID))
	s.bus.Publish(ctx, UserLoggedIn{Identity: id})
	return nil
}

// SignOut forgets the current identity. Signing out while signed out does
// nothing and publishes nothing.
func (s *SessionStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.sessions.Clear(ctx); err != nil {
		s.mu.Unlock()
		slogx.FromContext(ctx).Error("failed to clear session", slog.Any("error", err))
		return err
	}
	userID := s.current.ID
	s.current = nil
	s.mu.Unlock()

	slogx.FromContext(ctx).Info("user logged out", slog.String("user_id", userID))
	s.bus.Publish(ctx, UserLoggedOut{})
	return nil
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// CurrentUser returns the signed-in identity, ok is false when signed out.
func (s *SessionStore) CurrentUser() (domain.SessionIdentity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.SessionIdentity{}, false
	}
	return *s.current, true
}

// Accounts returns a copy of the registry in registration order.
func (s *SessionStore) Accounts() []domain.UserAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accounts)
}
