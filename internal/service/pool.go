package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
	"github.com/sheepbooru/catalog/internal/validation"
)

// PoolService manages ordered post collections. Every mutator applies
// the shared ownership predicate: creator or admin.
type PoolService struct {
	pools    repository.PoolRepository
	validate *validation.Validator
	logger   *slog.Logger
}

func NewPoolService(pools repository.PoolRepository, logger *slog.Logger) *PoolService {
	return &PoolService{
		pools:    pools,
		validate: validation.New(),
		logger:   logger,
	}
}

type createPoolInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Create makes a new, empty pool owned by the creator.
func (s *PoolService) Create(ctx context.Context, creator *model.User, name, description string) (*model.Pool, error) {
	if creator == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := s.validate.Validate(createPoolInput{Name: name, Description: description}); err != nil {
		return nil, err
	}

	pool := &model.Pool{
		Name:        name,
		Description: description,
		CreatorID:   creator.ID,
		CreatorName: creator.Username,
	}
	if err := s.pools.CreatePool(ctx, pool); err != nil {
		return nil, err
	}

	s.logger.Info("pool created",
		slog.String("poolID", pool.ID),
		slog.String("creatorID", creator.ID),
	)

	return pool, nil
}

// Get returns a pool with its members in order.
func (s *PoolService) Get(ctx context.Context, id string) (*model.PoolDetail, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "pool ID is required")
	}
	return s.pools.GetPool(ctx, id)
}

// List returns all pools, newest first.
func (s *PoolService) List(ctx context.Context) ([]model.Pool, error) {
	pools, err := s.pools.ListPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/pool: listing pools: %w", err)
	}
	return pools, nil
}

// AddMember appends a post to the pool and returns its order index.
func (s *PoolService) AddMember(ctx context.Context, poolID, postID string, requester *model.User) (int64, error) {
	if postID == "" {
		return 0, apperror.ValidationFailed("postId", "post ID is required")
	}
	if err := s.authorize(ctx, poolID, requester); err != nil {
		return 0, err
	}

	index, err := s.pools.AddPoolPost(ctx, poolID, postID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("pool member added",
		slog.String("poolID", poolID),
		slog.String("postID", postID),
		slog.Int64("orderIndex", index),
	)

	return index, nil
}

// RemoveMember removes a post from the pool. The remaining members keep
// their indices.
func (s *PoolService) RemoveMember(ctx context.Context, poolID, postID string, requester *model.User) error {
	if err := s.authorize(ctx, poolID, requester); err != nil {
		return err
	}

	if err := s.pools.RemovePoolPost(ctx, poolID, postID); err != nil {
		return err
	}

	s.logger.Info("pool member removed",
		slog.String("poolID", poolID),
		slog.String("postID", postID),
	)

	return nil
}

// Delete removes the pool and its membership rows.
func (s *PoolService) Delete(ctx context.Context, poolID string, requester *model.User) error {
	if err := s.authorize(ctx, poolID, requester); err != nil {
		return err
	}

	if err := s.pools.DeletePool(ctx, poolID); err != nil {
		return err
	}

	s.logger.Info("pool deleted",
		slog.String("poolID", poolID),
		slog.String("requesterID", requester.ID),
	)

	return nil
}

// authorize loads the pool's creator and applies the ownership
// predicate. A missing pool surfaces as NotFound before any Forbidden.
func (s *PoolService) authorize(ctx context.Context, poolID string, requester *model.User) error {
	if poolID == "" {
		return apperror.ValidationFailed("poolId", "pool ID is required")
	}

	creatorID, err := s.pools.GetPoolCreator(ctx, poolID)
	if err != nil {
		return err
	}
	if !canModify(requester, creatorID) {
		return apperror.Forbidden("only the pool creator or an admin can modify this pool")
	}

	return nil
}
