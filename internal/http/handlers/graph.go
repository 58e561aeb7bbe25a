package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-burrow/internal/errors"
)

// GetGraph — граф тем из источника ?source= (по умолчанию первый сконфигурированный).
func (h *Handlers) GetGraph(w http.ResponseWriter, r *http.Request) {
	src, err := h.Graph.Get(r.URL.Query().Get("source"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	g, err := src.Load(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, g)
}
