package feed

import (
	"fmt"
	"strings"
	"sync"
)

// Registry лениво создаёт по одному CommentFeed на пару (post id, вариант).
type Registry struct {
	src  CommentSource
	opts []Option

	mu     sync.Mutex
	feeds  map[registryKey]*CommentFeed
	closed bool
}

type registryKey struct {
	postID  string
	variant Variant
}

func NewRegistry(src CommentSource, opts ...Option) *Registry {
	return &Registry{
		src:   src,
		opts:  opts,
		feeds: make(map[registryKey]*CommentFeed),
	}
}

// Get возвращает feed поста (создаёт при первом обращении, без загрузки).
func (r *Registry) Get(postID string, variant Variant) (*CommentFeed, error) {
	const op = "feed.Registry.Get"

	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, fmt.Errorf("%s: empty post id: %w", op, ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("%s: %w", op, ErrClosed)
	}

	key := registryKey{postID: postID, variant: variant}
	if f, ok := r.feeds[key]; ok {
		return f, nil
	}

	opts := append(append([]Option(nil), r.opts...), WithVariant(variant))
	f := NewCommentFeed(r.src, postID, opts...)
	r.feeds[key] = f

	return f, nil
}

// Len — число созданных feed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.feeds)
}

// Close закрывает все feed; последующие Get возвращают ErrClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	feeds := r.feeds
	r.feeds = make(map[registryKey]*CommentFeed)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, f := range feeds {
		wg.Add(1)
		go func(f *CommentFeed) {
			defer wg.Done()
			f.Close()
		}(f)
	}
	wg.Wait()
}
