package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-burrow/internal/errors"
	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/models"
)

type voteRequest struct {
	Direction models.Direction `json:"direction"`
}

type editRequest struct {
	CommentText string `json:"commentText"`
}

// GetFeed — дерево комментариев поста. Первый запрос (и ?refresh=1) загружает
// список с бэкенда, дальше отдаётся локальное состояние с оптимистичными правками.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	f, err := h.feed(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	refresh := r.URL.Query().Get("refresh")
	if refresh == "1" || refresh == "true" || f.State() != feed.StateReady {
		if err := f.Load(r.Context()); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, f.View())
}

func (h *Handlers) VoteComment(w http.ResponseWriter, r *http.Request) {
	var in voteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.mutate(w, r, func(f *feed.CommentFeed, id string) error {
		return f.Vote(r.Context(), id, in.Direction)
	})
}

func (h *Handlers) EditComment(w http.ResponseWriter, r *http.Request) {
	var in editRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.mutate(w, r, func(f *feed.CommentFeed, id string) error {
		return f.Edit(r.Context(), id, in.CommentText)
	})
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(f *feed.CommentFeed, id string) error {
		return f.Delete(r.Context(), id)
	})
}

// mutate применяет мутацию к загруженному feed и отвечает 202 с оптимистичным деревом:
// запрос к бэкенду к этому моменту может быть ещё в полёте.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, apply func(f *feed.CommentFeed, id string) error) {
	f, err := h.feed(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if f.State() == feed.StateIdle {
		if err := f.Load(r.Context()); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
	}

	if err := apply(f, chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, f.View())
}

func (h *Handlers) feed(r *http.Request) (*feed.CommentFeed, error) {
	variant, err := feed.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		return nil, err
	}

	return h.Feeds.Get(chi.URLParam(r, "post_id"), variant)
}
