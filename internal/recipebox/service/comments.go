package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store"
	"github.com/aussiebroadwan/recipebox/pkg/busx"
	"github.com/aussiebroadwan/recipebox/pkg/idx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

var (
	ErrNotAuthenticated = errors.New("sign in to comment")
	ErrEmptyText        = errors.New("comment text is empty")
	ErrInvalidText      = errors.New("comment text is not valid UTF-8")
	ErrNotFound         = errors.New("comment not found")
	ErrNotOwner         = errors.New("only the author can delete a comment")
)

// CurrentUser is the slice of the session a comment store needs.
type CurrentUser interface {
	CurrentUser() (domain.SessionIdentity, bool)
}

type CommentOptions struct {
	// Now stamps new comments. Defaults to time.Now.
	Now func() time.Time

	// OnRefresh receives a fresh View whenever the signed-in user changes.
	OnRefresh func(View)
}

// CommentStore owns the comment forest of a single content id.
type CommentStore struct {
	contentID string
	forests   store.Forests
	session   CurrentUser
	opts      CommentOptions

	unsubscribe []func()

	mu       sync.RWMutex
	comments []domain.Comment
}

// NewCommentStore loads the forest of contentID and, when bus is non-nil,
// refreshes on login and logout until Close is called.
func NewCommentStore(
	ctx context.Context,
	contentID string,
	kv store.KV,
	session CurrentUser,
	bus *busx.Bus,
	opts CommentOptions,
) (*CommentStore, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &CommentStore{
		contentID: contentID,
		forests:   store.Forests{KV: kv},
		session:   session,
		opts:      opts,
	}

	forest, err := c.forests.Load(ctx, contentID)
	if err != nil {
		return nil, err
	}
	c.comments = forest

	if bus != nil {
		refresh := func(ctx context.Context, ev busx.Event) {
			slogx.FromContext(ctx).Debug("refreshing comments",
				slog.String("content_id", c.contentID),
				slog.String("event", ev.EventName()),
			)
			if c.opts.OnRefresh != nil {
				c.opts.OnRefresh(c.View())
			}
		}
		c.unsubscribe = []func(){
			bus.Subscribe(EventUserLoggedIn, refresh),
			bus.Subscribe(EventUserLoggedOut, refresh),
		}
	}

	return c, nil
}

// ContentID is the content this store is scoped to.
func (c *CommentStore) ContentID() string { return c.contentID }

// Close stops listening for session changes.
func (c *CommentStore) Close() {
	for _, unsub := range c.unsubscribe {
		unsub()
	}
}

// AddComment posts text as the signed-in user. An empty parentID starts a
// new thread. A parentID naming a reply is flattened onto that reply's
// thread, forests never grow past two levels.
func (c *CommentStore) AddComment(ctx context.Context, text, parentID string) (domain.Comment, error) {
	log := slogx.FromContext(ctx).With(slog.String("content_id", c.contentID))

	user, ok := c.session.CurrentUser()
	if !ok {
		return domain.Comment{}, ErrNotAuthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, ErrEmptyText
	}
	if !utf8.ValidString(text) {
		return domain.Comment{}, ErrInvalidText
	}

	now := c.opts.Now().UTC()
	comment := domain.Comment{
		ID:               idx.NewAt(now).String(),
		AuthorID:         user.ID,
		AuthorName:       user.Name,
		AuthorPictureURL: user.PictureURL,
		Text:             text,
		CreatedAt:        now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := domain.CloneForest(c.comments)
	if parentID == "" {
		next = append(next, comment)
	} else {
		thread := findThread(next, parentID)
		if thread < 0 {
			log.Warn("reply to unknown comment", slog.String("parent_id", parentID))
			return domain.Comment{}, ErrNotFound
		}
		comment.ParentID = next[thread].ID
		next[thread].Replies = append(next[thread].Replies, comment)
	}

	if err := c.forests.Save(ctx, c.contentID, next); err != nil {
		log.Error("failed to persist comments", slog.Any("error", err))
		return domain.Comment{}, err
	}
	c.comments = next

	log.Info("comment added",
		slog.String("comment_id", comment.ID),
		slog.String("parent_id", comment.ParentID),
		slog.String("user_id", user.ID),
	)
	return comment, nil
}

// findThread returns the index of the top-level comment that is id or holds
// id as a reply, or -1.
func findThread(forest []domain.Comment, id string) int {
	for i, top := range forest {
		if top.ID == id {
			return i
		}
		for _, r := range top.Replies {
			if r.ID == id {
				return i
			}
		}
	}
	return -1
}

// DeleteComment removes a comment written by the signed-in user. Removing a
// top-level comment removes its replies with it.
func (c *CommentStore) DeleteComment(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx).With(slog.String("content_id", c.contentID))

	user, ok := c.session.CurrentUser()
	if !ok {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := removeOwned(c.comments, id, user.ID)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			log.Warn("delete by non-author",
				slog.String("comment_id", id),
				slog.String("user_id", user.ID),
			)
		}
		return err
	}

	if err := c.forests.Save(ctx, c.contentID, next); err != nil {
		log.Error("failed to persist comments", slog.Any("error", err))
		return err
	}
	c.comments = next

	log.Info("comment deleted", slog.String("comment_id", id), slog.String("user_id", user.ID))
	return nil
}

// removeOwned returns a copy of forest without comment id. Top level is
// searched before replies.
func removeOwned(forest []domain.Comment, id, userID string) ([]domain.Comment, error) {
	for i, top := range forest {
		if top.ID != id {
			continue
		}
		if top.AuthorID != userID {
			return nil, ErrNotOwner
		}
		next := domain.CloneForest(forest[:i])
		return append(next, domain.CloneForest(forest[i+1:])...), nil
	}

	for i, top := range forest {
		for j, r := range top.Replies {
			if r.ID != id {
				continue
			}
			if r.AuthorID != userID {
				return nil, ErrNotOwner
			}
			next := domain.CloneForest(forest)
			replies := next[i].Replies
			next[i].Replies = append(replies[:j:j], replies[j+1:]...)
			return next, nil
		}
	}

	return nil, ErrNotFound
}

// Comments returns a copy of the forest in insertion order.
func (c *CommentStore) Comments() []domain.Comment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CloneForest(c.comments)
}
