// Package cli is the terminal front end: one cobra command per session or
// comment operation, rendering comment views with lipgloss.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/app"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/service"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
	"github.com/spf13/cobra"
)

type env struct {
	app  *app.Application
	page string
	now  func() time.Time
}

type Option func(*env)

// WithClock sets the clock relative times are rendered against.
func WithClock(now func() time.Time) Option {
	return func(e *env) { e.now = now }
}

// NewRootCommand builds the command tree around an opened application.
func NewRootCommand(application *app.Application, opts ...Option) *cobra.Command {
	e := &env{app: application, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	root := &cobra.Command{
		Use:   "recipebox",
		Short: "Accounts and threaded comments for recipe pages",
		Long: `Sign in with a local account or an identity token, then read and write
comments on a recipe page. Pick the page with --page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := application.Context(cmd.Context())
			cmd.SetContext(slogx.With(ctx, slog.String("content_id", e.contentID())))
		},
	}
	root.PersistentFlags().StringVar(&e.page, "page", "/", "Page path the comments belong to")

	root.AddCommand(
		newRegisterCommand(e),
		newLoginCommand(e),
		newLoginTokenCommand(e),
		newLogoutCommand(e),
		newWhoamiCommand(e),
		newCommentsCommand(e),
	)
	return root
}

func (e *env) contentID() string { return domain.ContentIDFromPath(e.page) }

func (e *env) comments(ctx context.Context) (*service.CommentStore, error) {
	return e.app.Comments(ctx, e.contentID())
}

// watch opens the page's comments and re-renders them to cmd's output
// whenever the signed-in user changes.
func (e *env) watch(cmd *cobra.Command) error {
	if _, err := e.comments(cmd.Context()); err != nil {
		return err
	}
	e.app.OnRefresh(func(v service.View) {
		if v.ContentID != e.contentID() {
			return
		}
		if err := RenderView(cmd.OutOrStdout(), v, e.now()); err != nil {
			slogx.FromContext(cmd.Context()).Warn("failed to render comments", slog.Any("error", err))
		}
	})
	return nil
}

func (e *env) render(cmd *cobra.Command, c *service.CommentStore) error {
	return RenderView(cmd.OutOrStdout(), c.View(), e.now())
}

// Explain turns an error from a command into a message for the terminal.
func Explain(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, service.ErrNotAuthenticated):
		return "you need to sign in first"
	default:
		return err.Error()
	}
}
