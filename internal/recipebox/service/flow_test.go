package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
	"github.com/stretchr/testify/require"
)

func TestCommentFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sessions.Register(ctx, "alice", "secret1", "")
	require.NoError(t, err)
	_, err = f.sessions.Register(ctx, "bob", "secret2", "")
	require.NoError(t, err)

	c := f.comments(t, domain.ContentIDFromPath("/recipes/pasta.html"), CommentOptions{})
	require.Equal(t, "pasta", c.ContentID())

	_, err = f.sessions.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	aliceComment, err := c.AddComment(ctx, "Great recipe!", "")
	require.NoError(t, err)
	require.NoError(t, f.sessions.SignOut(ctx))

	_, err = f.sessions.Login(ctx, "bob", "secret2")
	require.NoError(t, err)
	require.ErrorIs(t, c.DeleteComment(ctx, aliceComment.ID), ErrNotOwner)

	_, err = c.AddComment(ctx, "Agreed", aliceComment.ID)
	require.NoError(t, err)

	forest := c.Comments()
	require.Len(t, forest, 1)
	require.Equal(t, "Great recipe!", forest[0].Text)
	require.Equal(t, "alice", forest[0].AuthorName)
	require.Len(t, forest[0].Replies, 1)
	require.Equal(t, "bob", forest[0].Replies[0].AuthorName)
}
