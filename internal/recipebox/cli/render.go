package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const dateCutoff = 7 * 24 * time.Hour

// relTimeMagnitudes follow the site's comment widget: minutes, hours and
// days, singular for one.
var relTimeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: 24 * time.Hour, Format: "%d hours %s", DivBy: time.Hour},
	{D: 48 * time.Hour, Format: "1 day %s", DivBy: 1},
	{D: dateCutoff, Format: "%d days %s", DivBy: 24 * time.Hour},
}

// FormatTime renders t relative to now, or as a date once it is a week old.
func FormatTime(t, now time.Time) string {
	if !t.Before(now) {
		return "just now"
	}
	if now.Sub(t) >= dateCutoff {
		return t.Local().Format("Jan 2, 2006")
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", relTimeMagnitudes)
}

type styles struct {
	title  lipgloss.Style
	author lipgloss.Style
	meta   lipgloss.Style
	text   lipgloss.Style
	reply  lipgloss.Style
	hint   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		author: r.NewStyle().Bold(true),
		meta:   r.NewStyle().Faint(true),
		text:   r.NewStyle().PaddingLeft(2),
		reply:  r.NewStyle().PaddingLeft(4),
		hint:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFC107")),
	}
}

// RenderView writes the comments of v to w. Comment ids are only shown next
// to the actions the viewer may take on them.
func RenderView(w io.Writer, v service.View, now time.Time) error {
	st := newStyles(w)

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Comments on %s (%d)", v.ContentID, countComments(v.Comments))))
	b.WriteString("\n")

	if v.Authenticated && v.Viewer != nil {
		b.WriteString(st.meta.Render("Signed in as " + v.Viewer.Name))
	} else if v.Authenticated {
		b.WriteString(st.meta.Render("Signed in"))
	} else {
		b.WriteString(st.hint.Render("Sign in to join the discussion."))
	}
	b.WriteString("\n\n")

	if len(v.Comments) == 0 {
		b.WriteString(st.meta.Render("No comments yet."))
		b.WriteString("\n")
	}

	for _, c := range v.Comments {
		b.WriteString(renderComment(st, c, now))
		b.WriteString("\n")
		for _, r := range c.Replies {
			b.WriteString(st.reply.Render(renderComment(st, r, now)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderComment(st styles, c service.CommentView, now time.Time) string {
	header := st.author.Render(c.AuthorName) + st.meta.Render(" · "+FormatTime(c.CreatedAt, now))

	var actions []string
	if c.CanReply {
		actions = append(actions, "reply")
	}
	if c.CanDelete {
		actions = append(actions, "delete")
	}
	if len(actions) > 0 {
		header += st.meta.Render(fmt.Sprintf(" · %s [%s]", c.ID, strings.Join(actions, ", ")))
	}

	return header + "\n" + st.text.Render(c.Text)
}

func countComments(forest []service.CommentView) int {
	n := len(forest)
	for _, c := range forest {
		n += len(c.Replies)
	}
	return n
}
