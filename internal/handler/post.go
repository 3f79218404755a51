package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/auth"
	"github.com/sheepbooru/catalog/internal/repository"
	"github.com/sheepbooru/catalog/internal/service"
)

// maxUploadBytes caps the multipart form memory for image uploads.
const maxUploadBytes = 32 << 20 // 32 MB

// PostHandler serves the post catalog and the favorite toggle.
type PostHandler struct {
	posts     *service.PostService
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewPostHandler(posts *service.PostService, favorites *service.FavoriteService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:     posts,
		favorites: favorites,
		logger:    logger,
	}
}

// HandleCreate uploads a new post.
//
// HTTP: POST /api/posts (behind RequireAuth)
// Multipart fields: image (file, required), description (optional),
// tags (comma-separated names).
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "image file is required"))
		return
	}
	defer file.Close()

	tagNames := splitTags(r.FormValue("tags"))
	description := r.FormValue("description")

	post, err := h.posts.Create(r.Context(), user, header.Filename, file, description, tagNames)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleList returns posts, optionally filtered.
//
// HTTP: GET /api/posts?tag=sky&uploader_id=abc
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := repository.PostFilter{
		Tag:        r.URL.Query().Get("tag"),
		UploaderID: r.URL.Query().Get("uploader_id"),
	}

	posts, err := h.posts.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns one post's detail view. With OptionalAuth in front,
// logged-in viewers also learn whether they favorited it.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.CurrentUser(r.Context())

	detail, err := h.posts.Get(r.Context(), r.PathValue("id"), viewer)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// HandleDelete removes a post (uploader or admin only).
//
// HTTP: DELETE /api/posts/{id} (behind RequireAuth)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	if err := h.posts.Delete(r.Context(), r.PathValue("id"), user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFavorite toggles the caller's favorite on a post.
//
// HTTP: POST /api/posts/{id}/favorite (behind RequireAuth)
func (h *PostHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	status, err := h.favorites.Toggle(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// splitTags parses a comma-separated tag list, dropping empties.
// Normalization happens in the repository.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
