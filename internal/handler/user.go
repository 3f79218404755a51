package handler

import (
	"log/slog"
	"net/http"

	"github.com/sheepbooru/catalog/internal/service"
)

// UserHandler serves user listings and per-user favorites.
type UserHandler struct {
	identity  *service.IdentityService
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewUserHandler(identity *service.IdentityService, favorites *service.FavoriteService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		identity:  identity,
		favorites: favorites,
		logger:    logger,
	}
}

// HandleList returns all registered users.
//
// HTTP: GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleFavorites returns the posts a user has favorited, most recently
// favorited first.
//
// HTTP: GET /api/users/{id}/favorites
func (h *UserHandler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	posts, err := h.favorites.ListByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
