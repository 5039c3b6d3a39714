package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/service"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store/drivers/memory"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store/drivers/sqlite"
	"github.com/aussiebroadwan/recipebox/pkg/busx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

var ErrUnknownStorage = errors.New("unknown storage driver")

// Application holds the storage, the session and the comment stores opened
// so far, one per content id.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	bus      *busx.Bus
	sessions *service.SessionStore

	mu        sync.Mutex
	comments  map[string]*service.CommentStore
	onRefresh func(service.View)
}

// Option tweaks an Application before its stores are opened.
type Option func(*Application)

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(app *Application) {
		app.logger = slogx.New(app.loggerConfig(w))
	}
}

// New opens storage, applies migrations and restores any persisted session.
func New(cfg Config, opts ...Option) (*Application, error) {
	app := &Application{
		cfg:      cfg,
		bus:      busx.New(),
		comments: make(map[string]*service.CommentStore),
	}
	app.logger = slogx.New(app.loggerConfig(nil))
	for _, opt := range opts {
		opt(app)
	}

	if err := app.initStorage(); err != nil {
		return nil, err
	}

	sessions, err := service.NewSessionStore(app.Context(context.Background()), app.db, app.bus, service.SessionOptions{
		AvatarBaseURL: cfg.AvatarBaseURL,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	app.sessions = sessions

	return app, nil
}

func (app *Application) loggerConfig(w io.Writer) slogx.Config {
	return slogx.Config{
		Service: "recipebox",
		Version: BuildVersion,
		Env:     app.cfg.Env,
		Level:   app.cfg.LogLevel,
		Format:  app.cfg.LogFormat,
		Output:  w,
	}
}

// initStorage opens the configured driver and applies migrations.
func (app *Application) initStorage() error {
	switch app.cfg.Storage {
	case StorageMemory:
		app.db = memory.NewStore()
	case StorageSQLite, "":
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, app.cfg.Storage)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	if err := app.db.Ping(context.Background()); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("storage unreachable: %w", err)
	}

	app.logger.Debug("storage ready", slog.String("driver", app.cfg.Storage))
	return nil
}

// Context returns ctx carrying the application logger.
func (app *Application) Context(ctx context.Context) context.Context {
	return slogx.WithContext(ctx, app.logger)
}

func (app *Application) Sessions() *service.SessionStore { return app.sessions }

// OnRefresh installs fn as the receiver of refreshed comment views. It
// applies to stores opened before and after the call.
func (app *Application) OnRefresh(fn func(service.View)) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.onRefresh = fn
}

func (app *Application) refresh(v service.View) {
	app.mu.Lock()
	fn := app.onRefresh
	app.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}

// Comments returns the comment store of contentID, opening it on first use.
func (app *Application) Comments(ctx context.Context, contentID string) (*service.CommentStore, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if c, ok := app.comments[contentID]; ok {
		return c, nil
	}

	c, err := service.NewCommentStore(ctx, contentID, app.db, app.sessions, app.bus, service.CommentOptions{
		OnRefresh: app.refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open comments of %q: %w", contentID, err)
	}
	app.comments[contentID] = c
	return c, nil
}

// Close releases the comment stores and the database.
func (app *Application) Close() error {
	app.mu.Lock()
	for id, c := range app.comments {
		c.Close()
		delete(app.comments, id)
	}
	app.mu.Unlock()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slog.Any("error", err))
		return err
	}
	return nil
}
