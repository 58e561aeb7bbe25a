package feed

// Тесты ветки комментариев (internal/feed/comments.go).
//
//  Проверяем:
//  - загрузку и состояние failed без частичных данных;
//  - оптимистичные vote/edit/delete и отправку запросов;
//  - откат через перезагрузку при неудаче запроса;
//  - отбрасывание устаревшего ответа перезагрузки;
//  - Close: отмена запросов в полёте.
//
// Моки: mockgen -source=./internal/feed/feed.go -destination=./mocks/feed.go -package=mocks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/internal/thread"
	"github.com/pribylovaa/go-burrow/mocks"
)

var errNetwork = errors.New("network down")

// serverThread — авторитетные данные бэкенда: 1 <- 2 <- 3 и отдельный корень 4.
func serverThread() []models.Comment {
	return []models.Comment{
		{ID: "1", Text: "root", Votes: 5},
		{ID: "2", ParentID: "1", Text: "reply", Votes: 1},
		{ID: "3", ParentID: "2", Text: "nested", Votes: 0},
		{ID: "4", Text: "other root", Votes: -2},
	}
}

// newLoadedFeed — feed на моке, уже загруженный serverThread().
func newLoadedFeed(t *testing.T, opts ...Option) (*CommentFeed, *mocks.MockCommentSource) {
	t.Helper()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockCommentSource(ctrl)

	src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(serverThread(), nil)

	f := NewCommentFeed(src, "p1", opts...)
	t.Cleanup(f.Close)

	require.NoError(t, f.Load(context.Background()))
	require.Equal(t, StateReady, f.State())

	return f, src
}

func votesOf(t *testing.T, f *CommentFeed, id string) int {
	t.Helper()

	for _, c := range f.Comments() {
		if c.ID == id {
			return c.Votes
		}
	}

	t.Fatalf("comment %q not found", id)
	return 0
}

func TestCommentFeed_Load_BuildsTree(t *testing.T) {
	t.Parallel()

	f, _ := newLoadedFeed(t)

	tree := f.Tree()
	require.Len(t, tree, 2)
	require.Equal(t, "1", tree[0].ID)
	require.Equal(t, "3", tree[0].Children[0].Children[0].ID)
	require.Equal(t, 4, thread.Count(tree))

	v := f.View()
	require.Equal(t, "p1", v.PostID)
	require.Equal(t, "ready", v.State)
	require.Equal(t, 4, v.Count)
	require.Empty(t, v.Error)
}

func TestCommentFeed_Load_TitleVariant(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockCommentSource(ctrl)
	src.EXPECT().CommentsByPostTitle(gomock.Any(), "p1").Return(nil, nil)

	f := NewCommentFeed(src, "p1", WithVariant(VariantByTitle))
	t.Cleanup(f.Close)

	require.NoError(t, f.Load(context.Background()))
	require.NotNil(t, f.Tree())
	require.Empty(t, f.Tree())
	require.Equal(t, "title", f.View().Variant)
}

// Ошибка загрузки: состояние failed, данных нет.
func TestCommentFeed_Load_Failed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockCommentSource(ctrl)
	src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(nil, errNetwork)

	f := NewCommentFeed(src, "p1", WithErrorMessage(func(error) string { return "could not reach the server" }))
	t.Cleanup(f.Close)

	err := f.Load(context.Background())
	require.ErrorIs(t, err, errNetwork)
	require.Equal(t, StateFailed, f.State())
	require.ErrorIs(t, f.Err(), errNetwork)
	require.Empty(t, f.Comments())
	require.Equal(t, "could not reach the server", f.View().Error)

	// Мутации до успешной загрузки не принимаются.
	require.ErrorIs(t, f.Vote(context.Background(), "1", models.Up), ErrNotLoaded)
}

// Перекрывающиеся загрузки объединяются в один запрос.
func TestCommentFeed_Load_Deduplicated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockCommentSource(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	src.EXPECT().CommentsByPost(gomock.Any(), "p1").DoAndReturn(func(context.Context, string) ([]models.Comment, error) {
		close(started)
		<-release
		return serverThread(), nil
	}).Times(1)

	f := NewCommentFeed(src, "p1")
	t.Cleanup(f.Close)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- f.Load(context.Background())
	}()

	<-started
	require.Equal(t, StateLoading, f.State())

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- f.Load(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, f.Comments(), 4)
}

// Голос применяется сразу, до ответа бэкенда.
func TestCommentFeed_Vote_Optimistic(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	release := make(chan struct{})
	src.EXPECT().VoteComment(gomock.Any(), "2", models.Up).DoAndReturn(func(context.Context, string, models.Direction) error {
		<-release
		return nil
	})

	require.NoError(t, f.Vote(context.Background(), "2", models.Up))
	require.Equal(t, 2, votesOf(t, f, "2"))

	close(release)
	f.Wait()
	require.Equal(t, 2, votesOf(t, f, "2"))
}

// up, затем down возвращают исходный счётчик.
func TestCommentFeed_Vote_UpThenDown(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	src.EXPECT().VoteComment(gomock.Any(), "1", models.Up).Return(nil)
	src.EXPECT().VoteComment(gomock.Any(), "1", models.Down).Return(nil)

	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	require.Equal(t, 6, votesOf(t, f, "1"))
	require.NoError(t, f.Vote(context.Background(), "1", models.Down))
	require.Equal(t, 5, votesOf(t, f, "1"))

	f.Wait()
	require.Equal(t, 5, votesOf(t, f, "1"))
}

// Неудачный голос: после перезагрузки список снова совпадает с сервером.
func TestCommentFeed_Vote_FailureRollsBack(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	f, src := newLoadedFeed(t, WithMetrics(m))

	gomock.InOrder(
		src.EXPECT().VoteComment(gomock.Any(), "4", models.Up).Return(errNetwork),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(serverThread(), nil),
	)

	var renders atomic.Int32
	cancel := f.Subscribe(func([]*models.CommentNode) { renders.Add(1) })
	defer cancel()

	require.NoError(t, f.Vote(context.Background(), "4", models.Up))
	require.Equal(t, -1, votesOf(t, f, "4"))

	f.Wait()

	require.Equal(t, serverThread(), f.Comments())
	require.Equal(t, StateReady, f.State())
	// Оптимистичное изменение и откат.
	require.GreaterOrEqual(t, renders.Load(), int32(2))

	require.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues(opVote, "failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.reconciles))
}

func TestCommentFeed_Vote_Validation(t *testing.T) {
	t.Parallel()

	f, _ := newLoadedFeed(t)

	require.ErrorIs(t, f.Vote(context.Background(), "1", models.Direction("sideways")), ErrInvalidDirection)
	require.ErrorIs(t, f.Vote(context.Background(), "missing", models.Up), ErrNotFound)
	require.ErrorIs(t, f.Vote(context.Background(), "", models.Up), ErrNotFound)
	require.Equal(t, serverThread(), f.Comments())
}

func TestCommentFeed_Edit(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	src.EXPECT().EditComment(gomock.Any(), "3", "fixed typo").Return(nil)

	require.ErrorIs(t, f.Edit(context.Background(), "3", "   \n"), ErrEmptyText)
	require.ErrorIs(t, f.Edit(context.Background(), "missing", "x"), ErrNotFound)

	require.NoError(t, f.Edit(context.Background(), "3", "fixed typo"))
	require.Equal(t, "fixed typo", thread.Find(f.Tree(), "3").Text)

	f.Wait()
}

func TestCommentFeed_Edit_FailureRollsBack(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	gomock.InOrder(
		src.EXPECT().EditComment(gomock.Any(), "1", "changed").Return(errNetwork),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(serverThread(), nil),
	)

	require.NoError(t, f.Edit(context.Background(), "1", "changed"))
	f.Wait()

	require.Equal(t, "root", thread.Find(f.Tree(), "1").Text)
}

// Удаление уносит поддерево; на бэкенд уходит только id цели.
func TestCommentFeed_Delete_RemovesSubtree(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	src.EXPECT().DeleteComment(gomock.Any(), "1").Return(nil).Times(1)

	require.NoError(t, f.Delete(context.Background(), "1"))

	got := f.Comments()
	require.Len(t, got, 1)
	require.Equal(t, "4", got[0].ID)
	require.Len(t, f.Tree(), 1)

	f.Wait()

	require.ErrorIs(t, f.Delete(context.Background(), "2"), ErrNotFound)
}

func TestCommentFeed_Delete_FailureRestores(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	gomock.InOrder(
		src.EXPECT().DeleteComment(gomock.Any(), "2").Return(errNetwork),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(serverThread(), nil),
	)

	require.NoError(t, f.Delete(context.Background(), "2"))
	require.Len(t, f.Comments(), 2)

	f.Wait()
	require.Len(t, f.Comments(), 4)
}

// Ответ перезагрузки, выпущенной до новой мутации, не затирает её:
// список перечитывается ещё раз.
func TestCommentFeed_StaleReconcileDiscarded(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	fetchStarted := make(chan struct{})
	fetchRelease := make(chan struct{})

	fresh := serverThread()
	fresh[0].Votes = 6 // голос за "1" дошёл до сервера

	gomock.InOrder(
		src.EXPECT().VoteComment(gomock.Any(), "4", models.Up).Return(errNetwork),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").DoAndReturn(func(context.Context, string) ([]models.Comment, error) {
			close(fetchStarted)
			<-fetchRelease
			return serverThread(), nil // снимок до голоса за "1"
		}),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(fresh, nil),
	)
	src.EXPECT().VoteComment(gomock.Any(), "1", models.Up).Return(nil)

	require.NoError(t, f.Vote(context.Background(), "4", models.Up))
	<-fetchStarted

	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	close(fetchRelease)

	f.Wait()

	require.Equal(t, 6, votesOf(t, f, "1"))
	require.Equal(t, -2, votesOf(t, f, "4"))
}

// Неудачная перезагрузка переводит страницу в failed.
func TestCommentFeed_ReconcileFailure(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	gomock.InOrder(
		src.EXPECT().VoteComment(gomock.Any(), "1", models.Up).Return(errNetwork),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(nil, errNetwork),
	)

	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	f.Wait()

	require.Equal(t, StateFailed, f.State())
	require.Empty(t, f.Comments())
}

// Close отменяет запрос в полёте и не запускает перезагрузку.
func TestCommentFeed_Close_CancelsInflight(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	started := make(chan struct{})
	src.EXPECT().VoteComment(gomock.Any(), "1", models.Up).DoAndReturn(func(ctx context.Context, _ string, _ models.Direction) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	<-started

	done := make(chan struct{})
	go func() {
		f.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	require.ErrorIs(t, f.Vote(context.Background(), "1", models.Up), ErrClosed)
	require.ErrorIs(t, f.Load(context.Background()), ErrClosed)
	require.True(t, IsClosed(f.Edit(context.Background(), "1", "x")))
}

// Отмена контекста вызывающего не отменяет фоновый запрос мутации.
func TestCommentFeed_CallerContextDetached(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)

	src.EXPECT().VoteComment(gomock.Any(), "1", models.Up).DoAndReturn(func(ctx context.Context, _ string, _ models.Direction) error {
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.Vote(ctx, "1", models.Up))
	cancel()

	f.Wait()
	require.Equal(t, 6, votesOf(t, f, "1"))
}

func TestCommentFeed_RequestTimeout(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t, WithRequestTimeout(20*time.Millisecond))

	gomock.InOrder(
		src.EXPECT().VoteComment(gomock.Any(), "1", models.Up).DoAndReturn(func(ctx context.Context, _ string, _ models.Direction) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		src.EXPECT().CommentsByPost(gomock.Any(), "p1").Return(serverThread(), nil),
	)

	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	f.Wait()

	require.Equal(t, 5, votesOf(t, f, "1"))
}

func TestCommentFeed_Subscribe(t *testing.T) {
	t.Parallel()

	f, src := newLoadedFeed(t)
	src.EXPECT().VoteComment(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	var (
		mu   sync.Mutex
		seen []int
	)
	cancel := f.Subscribe(func(tree []*models.CommentNode) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, tree[0].Votes)
	})

	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	cancel()
	require.NoError(t, f.Vote(context.Background(), "1", models.Up))
	f.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{6}, seen)
}

func TestParseVariant(t *testing.T) {
	t.Parallel()

	v, err := ParseVariant("")
	require.NoError(t, err)
	require.Equal(t, VariantByPost, v)

	v, err = ParseVariant("Title")
	require.NoError(t, err)
	require.Equal(t, VariantByTitle, v)

	_, err = ParseVariant("random")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
