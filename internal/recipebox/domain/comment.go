package domain

import "time"

// Comment is a top-level comment or, when ParentID is set, a reply. Replies
// never carry replies of their own, so a forest is at most two levels deep.
type Comment struct {
	ID               string
	AuthorID         string
	AuthorName       string
	AuthorPictureURL string
	Text             string
	ParentID         string // empty for top-level comments
	CreatedAt        time.Time
	Replies          []Comment
}

// IsReply reports whether c hangs under another comment.
func (c Comment) IsReply() bool { return c.ParentID != "" }

// Clone returns a deep copy of c.
func (c Comment) Clone() Comment {
	out := c
	if c.Replies != nil {
		out.Replies = make([]Comment, len(c.Replies))
		for i, r := range c.Replies {
			out.Replies[i] = r.Clone()
		}
	}
	return out
}

// CloneForest deep-copies a slice of top-level comments.
func CloneForest(forest []Comment) []Comment {
	if forest == nil {
		return nil
	}
	out := make([]Comment, len(forest))
	for i, c := range forest {
		out[i] = c.Clone()
	}
	return out
}
