package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/pkg/log"
)

// PostFeed — список постов: вся лента, результаты поиска или сабреддит.
//
// Голос за пост оптимистичен, но без отката: при неудаче запроса локальный
// счётчик остаётся как есть, ошибка только логируется.
type PostFeed struct {
	src     PostSource
	log     *slog.Logger
	metrics *Metrics
	message func(error) string

	wg sync.WaitGroup

	mu    sync.Mutex
	gen   uint64 // выпущенные загрузки; применяется только последняя
	state State
	err   error
	query string
	posts []models.Post
}

func NewPostFeed(src PostSource, opts ...Option) *PostFeed {
	o := buildOptions(opts)

	return &PostFeed{
		src:     src,
		log:     o.logger,
		metrics: o.metrics,
		message: o.message,
	}
}

// LoadAll — GET /posts.
func (p *PostFeed) LoadAll(ctx context.Context) error {
	const op = "feed.PostFeed.LoadAll"

	return p.load(ctx, op, "", func(ctx context.Context) ([]models.Post, error) {
		return p.src.ListPosts(ctx)
	})
}

// Search — GET /search?query=. Пустой запрос отклоняется без обращения к бэкенду.
func (p *PostFeed) Search(ctx context.Context, query string) error {
	const op = "feed.PostFeed.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyQuery)
	}

	return p.load(ctx, op, query, func(ctx context.Context) ([]models.Post, error) {
		return p.src.SearchPosts(ctx, query)
	})
}

// LoadSubreddit — GET /posts/subreddit/{name}.
func (p *PostFeed) LoadSubreddit(ctx context.Context, name string) error {
	const op = "feed.PostFeed.LoadSubreddit"

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return p.load(ctx, op, "r/"+name, func(ctx context.Context) ([]models.Post, error) {
		return p.src.PostsBySubreddit(ctx, name)
	})
}

// load выполняет get и применяет результат, если за это время не была выпущена
// более новая загрузка. Иначе результат отбрасывается: запрос и список постов
// всегда соответствуют друг другу.
func (p *PostFeed) load(ctx context.Context, op, query string, get func(context.Context) ([]models.Post, error)) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = StateLoading
	p.mu.Unlock()

	posts, err := get(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		log.From(ctx).Debug("posts_load_discarded", slog.String("op", op), slog.String("query", query))

		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	p.query = query

	if err != nil {
		p.state = StateFailed
		p.err = err
		p.posts = nil

		log.From(ctx).Warn("posts_load_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return fmt.Errorf("%s: %w", op, err)
	}

	if posts == nil {
		posts = []models.Post{}
	}

	p.state = StateReady
	p.err = nil
	p.posts = posts

	return nil
}

// Posts — копия текущего списка.
func (p *PostFeed) Posts() []models.Post {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.Post, len(p.posts))
	copy(out, p.posts)

	return out
}

func (p *PostFeed) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// PostsView — снимок списка постов для отображения.
type PostsView struct {
	Query string        `json:"query,omitempty"`
	State string        `json:"state"`
	Error string        `json:"error,omitempty"`
	Posts []models.Post `json:"posts"`
}

func (p *PostFeed) View() PostsView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := PostsView{
		Query: p.query,
		State: p.state.String(),
		Posts: make([]models.Post, len(p.posts)),
	}
	copy(v.Posts, p.posts)

	if p.err != nil {
		v.Error = p.message(p.err)
	}

	return v
}

// Vote — оптимистичный голос за пост и фоновый PATCH /posts/{id}/vote.
func (p *PostFeed) Vote(ctx context.Context, postID string, dir models.Direction) error {
	const op = "feed.PostFeed.Vote"

	if !dir.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidDirection)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	i := -1
	for k := range p.posts {
		if postID != "" && p.posts[k].ID == postID {
			i = k
			break
		}
	}
	if i < 0 {
		p.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	next := make([]models.Post, len(p.posts))
	copy(next, p.posts)
	next[i].Votes += dir.Delta()
	p.posts = next

	p.wg.Add(1)
	p.mu.Unlock()

	lg := log.From(ctx).With(slog.String("post_id", postID))

	go func() {
		defer p.wg.Done()

		if err := p.src.VotePost(context.WithoutCancel(ctx), postID, dir); err != nil {
			p.metrics.mutation("post_vote", "failed")
			lg.Warn("post_vote_failed", slog.String("err", err.Error()))
			return
		}

		p.metrics.mutation("post_vote", "ok")
	}()

	return nil
}

// Wait дожидается фоновых запросов голосов.
func (p *PostFeed) Wait() { p.wg.Wait() }
