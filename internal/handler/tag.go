package handler

import (
	"log/slog"
	"net/http"

	"github.com/sheepbooru/catalog/internal/service"
)

// TagHandler serves the tag listing.
type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, logger: logger}
}

// HandleList returns every tag with its post count, most-used first.
//
// HTTP: GET /api/tags
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
