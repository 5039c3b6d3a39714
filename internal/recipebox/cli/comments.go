package cli

import (
	"fmt"
	"strings"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/service"
	"github.com/aussiebroadwan/recipebox/pkg/idx"
	"github.com/spf13/cobra"
)

// commentID validates an id typed on the command line. Anything that is not
// a ULID cannot name a comment.
func commentID(s string) (string, error) {
	id, err := idx.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a comment id", service.ErrNotFound, s)
	}
	return id.String(), nil
}

func newCommentsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "List the comments on the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.comments(cmd.Context())
			if err != nil {
				return err
			}
			return e.render(cmd, c)
		},
	}

	cmd.AddCommand(newCommentAddCommand(e), newCommentDeleteCommand(e))
	return cmd
}

func newCommentAddCommand(e *env) *cobra.Command {
	var replyTo string

	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Post a comment, or a reply with --reply-to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID := ""
			if replyTo != "" {
				id, err := commentID(replyTo)
				if err != nil {
					return err
				}
				parentID = id
			}

			c, err := e.comments(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := c.AddComment(cmd.Context(), strings.Join(args, " "), parentID); err != nil {
				return err
			}
			return e.render(cmd, c)
		},
	}
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "ID of the comment to reply to")
	return cmd
}

func newCommentDeleteCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your comments and its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := commentID(args[0])
			if err != nil {
				return err
			}

			c, err := e.comments(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.DeleteComment(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", id)
			return e.render(cmd, c)
		},
	}
}
