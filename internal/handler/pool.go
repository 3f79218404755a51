package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/auth"
	"github.com/sheepbooru/catalog/internal/service"
)

// PoolHandler serves pool CRUD and ordered membership.
type PoolHandler struct {
	pools  *service.PoolService
	logger *slog.Logger
}

func NewPoolHandler(pools *service.PoolService, logger *slog.Logger) *PoolHandler {
	return &PoolHandler{pools: pools, logger: logger}
}

type createPoolRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addPoolPostRequest struct {
	PostID string `json:"postId"`
}

type orderIndexResponse struct {
	OrderIndex int64 `json:"orderIndex"`
}

// HandleCreate makes a new pool.
//
// HTTP: POST /api/pools (behind RequireAuth)
func (h *PoolHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	var req createPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	pool, err := h.pools.Create(r.Context(), user, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pool)
}

// HandleList returns all pools with member counts.
//
// HTTP: GET /api/pools
func (h *PoolHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	pools, err := h.pools.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

// HandleGet returns a pool with its members in order.
//
// HTTP: GET /api/pools/{id}
func (h *PoolHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.pools.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleAddPost appends a post to a pool (creator or admin only) and
// returns its assigned order index.
//
// HTTP: POST /api/pools/{id}/posts (behind RequireAuth)
func (h *PoolHandler) HandleAddPost(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	var req addPoolPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	index, err := h.pools.AddMember(r.Context(), r.PathValue("id"), req.PostID, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, orderIndexResponse{OrderIndex: index})
}

// HandleRemovePost removes a post from a pool without renumbering.
//
// HTTP: DELETE /api/pools/{id}/posts/{postID} (behind RequireAuth)
func (h *PoolHandler) HandleRemovePost(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	err := h.pools.RemoveMember(r.Context(), r.PathValue("id"), r.PathValue("postID"), user)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a pool and its membership rows.
//
// HTTP: DELETE /api/pools/{id} (behind RequireAuth)
func (h *PoolHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	if err := h.pools.Delete(r.Context(), r.PathValue("id"), user); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
