// Package handlers — REST-хендлеры локального view-сервера поверх feed, session и graph.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	apierrors "github.com/pribylovaa/go-burrow/internal/errors"
	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/graph"
	"github.com/pribylovaa/go-burrow/internal/session"
)

// Handlers агрегирует зависимости страниц.
type Handlers struct {
	Feeds   *feed.Registry
	Posts   *feed.PostFeed
	Graph   *graph.Sources
	Session *session.Service
}

func New(feeds *feed.Registry, posts *feed.PostFeed, g *graph.Sources, s *session.Service) *Handlers {
	return &Handlers{Feeds: feeds, Posts: posts, Graph: g, Session: s}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: неизвестные поля запрещены.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err)
	}

	return nil
}
