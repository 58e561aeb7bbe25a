package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-burrow/internal/api"
	"github.com/pribylovaa/go-burrow/internal/graph"
	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/internal/session"
	"github.com/pribylovaa/go-burrow/mocks"
)

var now = time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)

type harness struct {
	comments *mocks.MockCommentSource
	posts    *mocks.MockPostSource
	auth     *mocks.MockAuthenticator
	store    *mocks.MockTokenStore
	env      *Env
}

type staticGraph models.Graph

func (g staticGraph) Load(context.Context) (models.Graph, error) { return models.Graph(g), nil }

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	h := &harness{
		comments: mocks.NewMockCommentSource(ctrl),
		posts:    mocks.NewMockPostSource(ctrl),
		auth:     mocks.NewMockAuthenticator(ctrl),
		store:    mocks.NewMockTokenStore(ctrl),
	}

	h.env = &Env{
		Comments: h.comments,
		Posts:    h.posts,
		Session:  session.New(h.auth, h.store),
		Graph: graph.NewSources().Add(graph.SourceREST, staticGraph{
			Nodes: []models.GraphNode{{ID: "t1", Title: "Go"}, {ID: "k1", Name: "concurrency"}},
			Links: []models.GraphLink{{Source: "t1", Target: "k1", Label: "TAGGED_WITH"}},
		}),
		Now: func() time.Time { return now },
	}

	return h
}

// run выполняет команду и возвращает stdout и ошибку.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(func(context.Context, string) (*Env, error) { return h.env, nil })

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func flatThread() []models.Comment {
	return []models.Comment{
		{ID: "1", Text: "root", Votes: 5, Author: &models.Author{Username: "alice"}, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "2", ParentID: "1", Text: "reply\nsecond line", Votes: 1},
		{ID: "3", ParentID: "2", Text: "nested"},
		{ID: "4", Text: "other root", Votes: -2},
	}
}

func TestThread_Renders(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(flatThread(), nil)

	out, err := h.run(t, "", "thread", "p1")
	require.NoError(t, err)

	require.Contains(t, out, "[1] +5  alice · 3 hours ago\n  root\n")
	require.Contains(t, out, "    [2] +1  Unknown\n      reply\n      second line\n")
	require.Contains(t, out, "        [3] +0  Unknown\n")
	require.Contains(t, out, "[4] -2  Unknown\n")
	require.Contains(t, out, "4 comments")

	// Порядок обхода: 1, 2, 3, 4.
	require.Less(t, strings.Index(out, "[3]"), strings.Index(out, "[4]"))
}

func TestThread_TitleVariantAndEmpty(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPostTitle(gomock.Any(), "p1").Return([]models.Comment{}, nil)

	out, err := h.run(t, "", "thread", "p1", "--variant", "title")
	require.NoError(t, err)
	require.Contains(t, out, "No comments yet.")

	_, err = h.run(t, "", "thread", "p1", "--variant", "nope")
	require.Error(t, err)
}

func TestThread_BackendError(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").
		Return(nil, &api.Error{Kind: api.KindStatus, Status: 404, Message: "Post not found"})

	_, err := h.run(t, "", "thread", "p1")
	require.EqualError(t, err, "error: Post not found")
}

func TestVote_Applies(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(flatThread(), nil)
	h.comments.EXPECT().VoteComment(gomock.Any(), "1", models.Up).Return(nil)

	out, err := h.run(t, "", "vote", "p1", "1", "up")
	require.NoError(t, err)
	require.Contains(t, out, "[1] +6  alice")
}

// Неудачный запрос: дерево перечитывается и показывает состояние сервера.
func TestVote_FailureShowsServerState(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(flatThread(), nil).Times(2)
	h.comments.EXPECT().VoteComment(gomock.Any(), "1", models.Down).Return(errors.New("network down"))

	out, err := h.run(t, "", "vote", "p1", "1", "down")
	require.NoError(t, err)
	require.Contains(t, out, "[1] +5  alice")
}

func TestVote_InvalidDirection(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(flatThread(), nil)

	_, err := h.run(t, "", "vote", "p1", "1", "sideways")
	require.EqualError(t, err, "error: invalid vote direction")
}

func TestEdit_And_Delete(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(flatThread(), nil).Times(3)
	h.comments.EXPECT().EditComment(gomock.Any(), "4", "edited").Return(nil)
	h.comments.EXPECT().DeleteComment(gomock.Any(), "2").Return(nil)

	out, err := h.run(t, "", "edit", "p1", "4", "edited")
	require.NoError(t, err)
	require.Contains(t, out, "  edited\n")
	require.NotContains(t, out, notSaved)

	_, err = h.run(t, "", "edit", "p1", "4", "  ")
	require.EqualError(t, err, "error: comment text is empty")

	out, err = h.run(t, "", "delete", "p1", "2")
	require.NoError(t, err)
	require.NotContains(t, out, "[2]")
	require.NotContains(t, out, "[3]")
	require.Contains(t, out, "2 comments")
	require.NotContains(t, out, notSaved)
}

// Правка отклонена бэкендом: после перезагрузки текст прежний, об этом сказано.
func TestEdit_FailureReported(t *testing.T) {
	h := newHarness(t)
	h.comments.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(flatThread(), nil).Times(2)
	h.comments.EXPECT().EditComment(gomock.Any(), "4", "edited").
		Return(&api.Error{Kind: api.KindStatus, Status: 403, Message: "Forbidden"})

	out, err := h.run(t, "", "edit", "p1", "4", "edited")
	require.NoError(t, err)
	require.Contains(t, out, "  other root\n")
	require.NotContains(t, out, "  edited\n")
	require.True(t, strings.HasSuffix(out, notSaved+"\n"))
}

func TestPosts(t *testing.T) {
	h := newHarness(t)

	posts := []models.Post{
		{ID: "a", Title: "Hello", Subreddit: "golang", Votes: 3, Author: &models.Author{Username: "bob"}, CreatedAt: now.Add(-2 * 24 * time.Hour)},
	}
	h.posts.EXPECT().ListPosts(gomock.Any()).Return(posts, nil)
	h.posts.EXPECT().SearchPosts(gomock.Any(), "go").Return(nil, nil)
	h.posts.EXPECT().PostsBySubreddit(gomock.Any(), "golang").Return(posts, nil)
	h.posts.EXPECT().VotePost(gomock.Any(), "a", models.Up).Return(nil)

	out, err := h.run(t, "", "posts")
	require.NoError(t, err)
	require.Contains(t, out, "[a] +3  r/golang  Hello\n    by bob · 2 days ago\n")

	out, err = h.run(t, "", "search", "go")
	require.NoError(t, err)
	require.Contains(t, out, "No posts found.")

	_, err = h.run(t, "", "search", "   ")
	require.EqualError(t, err, "error: search query is empty")

	_, err = h.run(t, "", "subreddit", "golang")
	require.NoError(t, err)

	out, err = h.run(t, "", "vote-post", "a", "up")
	require.NoError(t, err)
	require.Contains(t, out, "Vote recorded.")

	_, err = h.run(t, "", "vote-post", "a", "meh")
	require.Error(t, err)
}

func TestGraph(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "graph")
	require.NoError(t, err)
	require.Contains(t, out, "2 nodes, 1 link")
	require.Contains(t, out, "Go -[TAGGED_WITH]-> concurrency")

	_, err = h.run(t, "", "graph", "--source", "neo4j")
	require.EqualError(t, err, "error: unknown graph source")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t)
	h.auth.EXPECT().Login(gomock.Any(), models.LoginRequest{Email: "a@b.io", Password: "s3cret"}).
		Return(models.LoginResponse{Token: "opaque"}, nil)
	h.store.EXPECT().Save(gomock.Any(), "opaque").Return(nil)

	out, err := h.run(t, "s3cret\n", "login", "--email", "a@b.io")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in.")
}

func TestLogin_NoToken(t *testing.T) {
	h := newHarness(t)
	h.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.LoginResponse{}, nil)

	_, err := h.run(t, "", "login", "--email", "a@b.io", "--password", "x")
	require.EqualError(t, err, "error: login successful, but no token received")
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	h.auth.EXPECT().Register(gomock.Any(), models.RegisterRequest{Username: "alice", Email: "a@b.io", Password: "pw"}).
		Return(models.RegisterResponse{}, nil)

	out, err := h.run(t, "alice\na@b.io\npw\npw\n", "register")
	require.NoError(t, err)
	require.Contains(t, out, session.RegisteredMessage)

	_, err = h.run(t, "", "register", "--username", "a", "--email", "a@b.io", "--password", "x", "--confirm", "y")
	require.EqualError(t, err, "error: passwords do not match")
}

func TestLogoutAndWhoami(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().Clear(gomock.Any()).Return(nil)
	h.store.EXPECT().Load(gomock.Any()).Return("opaque", nil)
	h.store.EXPECT().Load(gomock.Any()).Return("", session.ErrNoSession)

	out, err := h.run(t, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")

	out, err = h.run(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in.")

	_, err = h.run(t, "", "whoami")
	require.EqualError(t, err, "error: not logged in")
}

func TestOpenerError(t *testing.T) {
	root := NewRootCommand(func(context.Context, string) (*Env, error) {
		return nil, errors.New("config: boom")
	})
	root.SetArgs([]string{"posts"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.EqualError(t, root.Execute(), "config: boom")
}

func TestRelTime(t *testing.T) {
	require.Equal(t, "", relTime(time.Time{}, now))
	require.Equal(t, "3 hours ago", relTime(now.Add(-3*time.Hour), now))
}
