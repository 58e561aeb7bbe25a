package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-burrow/internal/errors"
	"github.com/pribylovaa/go-burrow/internal/models"
)

type postVoteRequest struct {
	VoteType models.Direction `json:"voteType"`
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	if err := h.Posts.LoadAll(r.Context()); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.Posts.View())
}

func (h *Handlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	if err := h.Posts.Search(r.Context(), r.URL.Query().Get("query")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.Posts.View())
}

func (h *Handlers) PostsBySubreddit(w http.ResponseWriter, r *http.Request) {
	if err := h.Posts.LoadSubreddit(r.Context(), chi.URLParam(r, "name")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.Posts.View())
}

// VotePost голосует за пост из последнего загруженного списка.
func (h *Handlers) VotePost(w http.ResponseWriter, r *http.Request) {
	var in postVoteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Posts.Vote(r.Context(), chi.URLParam(r, "id"), in.VoteType); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, h.Posts.View())
}
