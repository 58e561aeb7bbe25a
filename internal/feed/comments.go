package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/internal/thread"
	"github.com/pribylovaa/go-burrow/pkg/log"
)

const (
	opVote   = "vote"
	opEdit   = "edit"
	opDelete = "delete"
)

// CommentFeed — ветка комментариев одного поста.
//
// Плоский список — единственное изменяемое состояние; дерево строится из него
// заново после каждого изменения. Все методы безопасны для конкурентного вызова.
//
// Порядок ответов бэкенда не гарантирован. Чтобы устаревший ответ не затёр более
// новое оптимистичное состояние, feed считает поколения мутаций и загрузок:
// результат загрузки применяется, только если это последняя выпущенная загрузка
// и после её выпуска не было локальных мутаций. Иначе список помечается
// устаревшим и перечитывается, когда в полёте не останется запросов мутаций.
type CommentFeed struct {
	src     CommentSource
	postID  string
	variant Variant
	log     *slog.Logger
	metrics *Metrics
	timeout time.Duration
	message func(error) string

	ctx    context.Context // время жизни feed; отменяется в Close
	cancel context.CancelFunc
	loads  singleflight.Group

	delivered atomic.Uint64 // последняя версия, отданная подписчикам

	mu   sync.Mutex
	idle *sync.Cond // сигналит об изменении inflight/reconciling

	state State
	err   error
	flat  []models.Comment

	version     uint64 // растёт при каждом изменении flat/state
	tree        []*models.CommentNode
	treeVersion uint64

	mutGen      uint64 // локальные мутации
	fetchGen    uint64 // выпущенные загрузки
	inflight    int    // запросы мутаций в полёте
	stale       bool   // нужна перезагрузка
	reconciling bool
	staleCtx    context.Context // значения (токен, request id) для перезагрузки

	subs    map[uint64]func([]*models.CommentNode)
	nextSub uint64
	closed  bool
}

// NewCommentFeed создаёт feed для поста postID. Данные не загружаются до Load.
func NewCommentFeed(src CommentSource, postID string, opts ...Option) *CommentFeed {
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())

	f := &CommentFeed{
		src:     src,
		postID:  postID,
		variant: o.variant,
		log:     o.logger.With(slog.String("post_id", postID), slog.String("variant", o.variant.String())),
		metrics: o.metrics,
		timeout: o.timeout,
		message: o.message,
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[uint64]func([]*models.CommentNode)),
	}
	f.idle = sync.NewCond(&f.mu)

	return f
}

// Load загружает плоский список комментариев.
//
// Перекрывающиеся вызовы объединяются в один запрос. При ошибке feed переходит
// в StateFailed и не отдаёт частичных данных. Повторный Load — полная перезагрузка.
func (f *CommentFeed) Load(ctx context.Context) error {
	const op = "feed.CommentFeed.Load"

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	if f.state != StateReady {
		f.state = StateLoading
	}
	f.mu.Unlock()

	_, err, _ := f.loads.Do("load", func() (any, error) {
		return nil, f.fetch(ctx)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// State — состояние загрузки.
func (f *CommentFeed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Err — ошибка последней загрузки (nil вне StateFailed).
func (f *CommentFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}

// Comments — копия текущего плоского списка.
func (f *CommentFeed) Comments() []models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Comment, len(f.flat))
	copy(out, f.flat)

	return out
}

// Tree — лес ответов текущего списка. Результат разделяется между вызывающими
// и не должен изменяться.
func (f *CommentFeed) Tree() []*models.CommentNode {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.treeLocked()
}

// View — снимок страницы для отображения.
type View struct {
	PostID   string                `json:"post_id"`
	Variant  string                `json:"variant"`
	State    string                `json:"state"`
	Error    string                `json:"error,omitempty"`
	Count    int                   `json:"count"`
	Comments []*models.CommentNode `json:"comments"`
}

func (f *CommentFeed) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		PostID:   f.postID,
		Variant:  f.variant.String(),
		State:    f.state.String(),
		Count:    len(f.flat),
		Comments: f.treeLocked(),
	}
	if f.err != nil {
		v.Error = f.message(f.err)
	}

	return v
}

// Subscribe регистрирует колбэк перерисовки: он получает дерево после каждого
// изменения списка. Колбэки вызываются вне блокировок feed, возможно из разных
// горутин; устаревшие версии дерева подписчикам не отдаются.
func (f *CommentFeed) Subscribe(fn func([]*models.CommentNode)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || fn == nil {
		return func() {}
	}

	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Vote — оптимистичный голос: ±1 к счётчику и фоновый PATCH /comments/{id}/vote.
func (f *CommentFeed) Vote(ctx context.Context, id string, dir models.Direction) error {
	const op = "feed.CommentFeed.Vote"

	if !dir.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidDirection)
	}

	err := f.mutate(ctx, opVote, id,
		func(list []models.Comment, i int) []models.Comment {
			next := cloneList(list)
			next[i].Votes += dir.Delta()
			return next
		},
		func(ctx context.Context) error { return f.src.VoteComment(ctx, id, dir) },
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Edit — оптимистичная правка текста и фоновый PATCH /comments/{id}.
// Пустой (из пробелов) текст отклоняется до любых изменений.
func (f *CommentFeed) Edit(ctx context.Context, id, text string) error {
	const op = "feed.CommentFeed.Edit"

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyText)
	}

	err := f.mutate(ctx, opEdit, id,
		func(list []models.Comment, i int) []models.Comment {
			next := cloneList(list)
			next[i].Text = text
			return next
		},
		func(ctx context.Context) error { return f.src.EditComment(ctx, id, text) },
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Delete — оптимистичное удаление комментария вместе со всеми потомками.
// На бэкенд уходит DELETE только для самого комментария: каскад делает сервер.
func (f *CommentFeed) Delete(ctx context.Context, id string) error {
	const op = "feed.CommentFeed.Delete"

	err := f.mutate(ctx, opDelete, id,
		func(list []models.Comment, _ int) []models.Comment {
			return thread.Remove(list, thread.Subtree(list, id)...)
		},
		func(ctx context.Context) error { return f.src.DeleteComment(ctx, id) },
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Wait блокируется, пока не завершатся все фоновые запросы мутаций и перезагрузки.
func (f *CommentFeed) Wait() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for f.inflight > 0 || f.reconciling {
		f.idle.Wait()
	}
}

// Close отменяет запросы в полёте, дожидается их завершения и отписывает всех.
// Повторный вызов безопасен.
func (f *CommentFeed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.subs = make(map[uint64]func([]*models.CommentNode))
	f.mu.Unlock()

	f.cancel()
	f.Wait()
}

// mutate — общая двухфазная схема: синхронное изменение списка и уведомление,
// затем фоновый запрос. apply получает текущий список и индекс цели и
// возвращает новый список (исходный не меняется).
func (f *CommentFeed) mutate(
	ctx context.Context,
	kind, id string,
	apply func([]models.Comment, int) []models.Comment,
	call func(context.Context) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f.mu.Lock()

	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}

	if f.state != StateReady {
		f.mu.Unlock()
		return ErrNotLoaded
	}

	i := indexOf(f.flat, id)
	if i < 0 {
		f.mu.Unlock()
		return ErrNotFound
	}

	before := len(f.flat)
	f.flat = apply(f.flat, i)
	f.version++
	f.mutGen++
	f.inflight++

	version, tree, subs := f.version, f.treeLocked(), f.subscribersLocked()
	f.mu.Unlock()

	lg := log.From(ctx).With(
		slog.String("post_id", f.postID),
		slog.String("op", kind),
		slog.String("comment_id", id),
	)
	lg.Debug("feed_mutation_applied", slog.Int("removed", before-len(f.flat)))

	rctx, cancel := f.requestContext(log.Into(ctx, lg))
	go f.send(rctx, cancel, kind, call)

	f.notify(version, tree, subs)

	return nil
}

// send выполняет фоновый запрос мутации. Неудача не возвращается вызывающему:
// она логируется и запускает перезагрузку списка.
func (f *CommentFeed) send(ctx context.Context, cancel context.CancelFunc, kind string, call func(context.Context) error) {
	err := call(ctx)
	cancel()

	lg := log.From(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.inflight--

	switch {
	case err == nil:
		f.metrics.mutation(kind, "ok")
	case f.closed:
		f.metrics.mutation(kind, "canceled")
		lg.Debug("feed_mutation_canceled", slog.String("err", err.Error()))
	default:
		f.metrics.mutation(kind, "failed")
		lg.Warn("feed_mutation_failed", slog.String("err", err.Error()))
		f.stale = true
		f.staleCtx = ctx
	}

	f.maybeReconcileLocked()
	f.idle.Broadcast()
}

// maybeReconcileLocked запускает перезагрузку, если список устарел, запросов
// мутаций в полёте нет и перезагрузка ещё не идёт. Вызывается под f.mu.
func (f *CommentFeed) maybeReconcileLocked() {
	if !f.stale || f.reconciling || f.inflight > 0 || f.closed {
		return
	}

	f.reconciling = true

	base := f.staleCtx
	if base == nil {
		base = context.Background()
	}

	go f.reconcile(base)
}

// reconcile перечитывает список, пока он остаётся устаревшим и не появились
// новые запросы мутаций.
func (f *CommentFeed) reconcile(base context.Context) {
	defer func() {
		f.mu.Lock()
		f.reconciling = false
		// Пока шла перезагрузка, могли завершиться новые мутации.
		f.maybeReconcileLocked()
		f.idle.Broadcast()
		f.mu.Unlock()
	}()

	for {
		f.metrics.reconcile()
		log.From(base).Info("feed_reconcile_start")

		ctx, cancel := f.requestContext(base)
		err := f.fetch(ctx)
		cancel()

		if err != nil {
			log.From(base).Warn("feed_reconcile_failed", slog.String("err", err.Error()))
			return
		}

		f.mu.Lock()
		again := f.stale && f.inflight == 0 && !f.closed
		f.mu.Unlock()

		if !again {
			return
		}
	}
}

// fetch загружает список и применяет результат, если он не устарел.
func (f *CommentFeed) fetch(ctx context.Context) error {
	const op = "feed.CommentFeed.fetch"

	f.mu.Lock()
	f.fetchGen++
	gen, mut := f.fetchGen, f.mutGen
	f.mu.Unlock()

	list, err := f.get(ctx)

	f.mu.Lock()

	newest := gen == f.fetchGen

	if err != nil {
		if newest && !f.closed {
			f.state = StateFailed
			f.err = err
			f.flat = nil
			f.stale = false
			f.version++
		}

		version, tree, subs := f.version, f.treeLocked(), f.subscribersLocked()
		f.mu.Unlock()

		f.log.Warn("feed_load_failed", slog.String("op", op), slog.String("err", err.Error()))
		if newest {
			f.notify(version, tree, subs)
		}

		return err
	}

	if !newest || mut != f.mutGen {
		// Пока шёл запрос, список изменился локально или ушла более новая загрузка.
		if newest {
			f.stale = true
			f.staleCtx = ctx
			f.maybeReconcileLocked()
		}
		f.mu.Unlock()

		f.log.Debug("feed_load_discarded", slog.Uint64("fetch_gen", gen), slog.Bool("newest", newest))
		return nil
	}

	f.state = StateReady
	f.err = nil
	f.flat = list
	f.stale = false
	f.version++

	version, tree, subs := f.version, f.treeLocked(), f.subscribersLocked()
	f.mu.Unlock()

	f.log.Debug("feed_loaded", slog.Int("count", len(list)))
	f.notify(version, tree, subs)

	return nil
}

func (f *CommentFeed) get(ctx context.Context) ([]models.Comment, error) {
	var (
		list []models.Comment
		err  error
	)

	switch f.variant {
	case VariantByTitle:
		list, err = f.src.CommentsByPostTitle(ctx, f.postID)
	default:
		list, err = f.src.CommentsByPost(ctx, f.postID)
	}

	if err != nil {
		return nil, err
	}

	if list == nil {
		list = []models.Comment{}
	}

	return list, nil
}

// requestContext — контекст фонового запроса: значения (логгер, токен, request id)
// берутся из ctx, отмена — от времени жизни feed и таймаута.
func (f *CommentFeed) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	base := context.WithoutCancel(ctx)

	var (
		rctx   context.Context
		cancel context.CancelFunc
	)
	if f.timeout > 0 {
		rctx, cancel = context.WithTimeout(base, f.timeout)
	} else {
		rctx, cancel = context.WithCancel(base)
	}

	stop := context.AfterFunc(f.ctx, cancel)

	return rctx, func() {
		stop()
		cancel()
	}
}

func (f *CommentFeed) treeLocked() []*models.CommentNode {
	if f.tree == nil || f.treeVersion != f.version {
		f.tree = thread.BuildTree(f.flat)
		f.treeVersion = f.version
	}

	return f.tree
}

func (f *CommentFeed) subscribersLocked() []func([]*models.CommentNode) {
	if len(f.subs) == 0 {
		return nil
	}

	out := make([]func([]*models.CommentNode), 0, len(f.subs))
	for _, fn := range f.subs {
		out = append(out, fn)
	}

	return out
}

// notify отдаёт дерево версии version подписчикам, если более новая версия ещё
// не была отдана.
func (f *CommentFeed) notify(version uint64, tree []*models.CommentNode, subs []func([]*models.CommentNode)) {
	if len(subs) == 0 {
		return
	}

	for {
		last := f.delivered.Load()
		if version <= last {
			return
		}
		if f.delivered.CompareAndSwap(last, version) {
			break
		}
	}

	for _, fn := range subs {
		fn(tree)
	}
}

func indexOf(list []models.Comment, id string) int {
	if id == "" {
		return -1
	}

	for i := range list {
		if list[i].ID == id {
			return i
		}
	}

	return -1
}

func cloneList(list []models.Comment) []models.Comment {
	out := make([]models.Comment, len(list))
	copy(out, list)

	return out
}

// IsClosed — ошибка означает, что feed уже закрыт.
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }
