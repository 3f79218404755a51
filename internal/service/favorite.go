package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

// FavoriteService manages the per-user favorite ledger.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	logger    *slog.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		logger:    logger,
	}
}

// Toggle favorites the post for the user, or unfavorites it if already
// favorited. The returned status reflects the post's counter after the
// toggle committed.
func (s *FavoriteService) Toggle(ctx context.Context, user *model.User, postID string) (*model.FavoriteStatus, error) {
	if user == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if postID == "" {
		return nil, apperror.ValidationFailed("postId", "post ID is required")
	}

	status, err := s.favorites.ToggleFavorite(ctx, user.ID, postID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("favorite toggled",
		slog.String("userID", user.ID),
		slog.String("postID", postID),
		slog.Bool("favorited", status.Favorited),
	)

	return status, nil
}

// ListByUser returns the posts a user has favorited, most recent first.
func (s *FavoriteService) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	posts, err := s.favorites.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/favorite: listing favorites: %w", err)
	}
	return posts, nil
}
