package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/pribylovaa/go-burrow/internal/api"
	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/internal/thread"
)

const indent = "    "

// renderThread печатает лес ответов: отступ по глубине, счётчик голосов,
// автор, относительное время, затем текст.
func renderThread(w io.Writer, roots []*models.CommentNode, now time.Time) {
	if len(roots) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}

	_ = thread.Walk(roots, func(n *models.CommentNode, depth int) error {
		pad := strings.Repeat(indent, depth)

		fmt.Fprintf(w, "%s[%s] %+d  %s", pad, n.ID, n.Votes, n.AuthorName())
		if ago := relTime(n.CreatedAt, now); ago != "" {
			fmt.Fprintf(w, " · %s", ago)
		}
		fmt.Fprintln(w)

		for _, line := range strings.Split(n.Text, "\n") {
			fmt.Fprintf(w, "%s  %s\n", pad, line)
		}

		return nil
	})

	fmt.Fprintf(w, "\n%s\n", english.Plural(thread.Count(roots), "comment", "comments"))
}

func renderPosts(w io.Writer, posts []models.Post, now time.Time) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return
	}

	for _, p := range posts {
		fmt.Fprintf(w, "[%s] %+d  r/%s  %s\n", p.ID, p.Votes, p.Subreddit, p.Title)

		meta := "by " + p.AuthorName()
		if ago := relTime(p.CreatedAt, now); ago != "" {
			meta += " · " + ago
		}
		fmt.Fprintf(w, "%s%s\n", indent, meta)
	}
}

func renderGraph(w io.Writer, g models.Graph) {
	captions := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		captions[n.ID] = n.Caption()
	}

	fmt.Fprintf(w, "%s, %s\n",
		english.Plural(len(g.Nodes), "node", "nodes"),
		english.Plural(len(g.Links), "link", "links"),
	)

	for _, l := range g.Links {
		fmt.Fprintf(w, "%s -[%s]-> %s\n", caption(captions, l.Source), l.Label, caption(captions, l.Target))
	}
}

func caption(captions map[string]string, id string) string {
	if c, ok := captions[id]; ok {
		return c
	}

	return id
}

func relTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	return humanize.RelTime(t, now, "ago", "from now")
}

// message — текст ошибки для пользователя: для ошибок бэкенда его собственное
// сообщение, для остальных текст самой внутренней ошибки без префиксов op.
func message(err error) string {
	var ae *api.Error
	if errors.As(err, &ae) {
		return ae.Error()
	}

	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
