package service

import (
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
)

// View is what a presentation layer needs to draw one content id's comments.
type View struct {
	ContentID     string
	Authenticated bool
	Viewer        *domain.SessionIdentity
	Comments      []CommentView
}

// CommentView is a comment annotated with what the viewer may do with it.
type CommentView struct {
	ID               string
	AuthorID         string
	AuthorName       string
	AuthorPictureURL string
	Text             string
	ParentID         string
	CreatedAt        time.Time

	IsReply   bool
	CanDelete bool // viewer wrote it
	CanReply  bool // viewer is signed in and it is top level

	Replies []CommentView
}

// View projects the forest for the current viewer.
func (c *CommentStore) View() View {
	viewer, ok := c.session.CurrentUser()

	c.mu.RLock()
	defer c.mu.RUnlock()

	v := View{
		ContentID:     c.contentID,
		Authenticated: ok,
		Comments:      make([]CommentView, 0, len(c.comments)),
	}
	if ok {
		v.Viewer = &viewer
	}

	for _, top := range c.comments {
		v.Comments = append(v.Comments, project(top, v.Viewer))
	}
	return v
}

func project(c domain.Comment, viewer *domain.SessionIdentity) CommentView {
	cv := CommentView{
		ID:               c.ID,
		AuthorID:         c.AuthorID,
		AuthorName:       c.AuthorName,
		AuthorPictureURL: c.AuthorPictureURL,
		Text:             c.Text,
		ParentID:         c.ParentID,
		CreatedAt:        c.CreatedAt,
		IsReply:          c.IsReply(),
		CanDelete:        viewer != nil && viewer.ID == c.AuthorID,
		CanReply:         viewer != nil && !c.IsReply(),
	}
	for _, r := range c.Replies {
		cv.Replies = append(cv.Replies, project(r, viewer))
	}
	return cv
}
