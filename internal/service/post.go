package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
	"github.com/sheepbooru/catalog/internal/storage"
)

const maxDescriptionLength = 2000

// PostService owns the post catalog: uploads, reads, and deletion with
// its cascades.
type PostService struct {
	posts  repository.PostRepository
	blobs  storage.BlobStore
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, blobs storage.BlobStore, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		blobs:  blobs,
		logger: logger,
	}
}

// Create stores the image and inserts the post with its tags. If the
// metadata insert fails, the freshly stored blob is released so no
// orphaned file remains.
func (s *PostService) Create(
	ctx context.Context,
	uploader *model.User,
	filename string,
	image io.Reader,
	description string,
	tagNames []string,
) (*model.Post, error) {
	if uploader == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if image == nil {
		return nil, apperror.ValidationFailed("image", "image file is required")
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", maxDescriptionLength))
	}

	key, err := s.blobs.Store(filename, image)
	if err != nil {
		return nil, fmt.Errorf("service/post: storing image: %w", err)
	}

	post := &model.Post{
		ImageKey:     key,
		UploaderID:   uploader.ID,
		UploaderName: uploader.Username,
		Description:  description,
	}
	if err := s.posts.CreatePost(ctx, post, tagNames); err != nil {
		if relErr := s.blobs.Release(key); relErr != nil {
			s.logger.Warn("failed to release blob after post insert failure",
				slog.String("key", key),
				slog.String("error", relErr.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("uploaderID", uploader.ID),
		slog.Int("tags", len(post.Tags)),
	)

	return post, nil
}

// Get returns the detail view for a post. viewer may be nil.
func (s *PostService) Get(ctx context.Context, id string, viewer *model.User) (*model.PostDetail, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}
	return s.posts.GetPost(ctx, id, viewerID)
}

// List returns posts matching the filter, newest first.
func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	posts, err := s.posts.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}

// Delete removes a post. Only the uploader or an admin may delete.
// Dependent rows cascade with the metadata; the image blob release is
// best effort — a failure there is logged, never surfaced, and never
// rolls back the deletion.
func (s *PostService) Delete(ctx context.Context, id string, requester *model.User) error {
	detail, err := s.posts.GetPost(ctx, id, "")
	if err != nil {
		return err
	}

	if !canModify(requester, detail.UploaderID) {
		return apperror.Forbidden("only the uploader or an admin can delete this post")
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Release(detail.ImageKey); err != nil {
		s.logger.Warn("failed to release image for deleted post",
			slog.String("postID", id),
			slog.String("key", detail.ImageKey),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("post deleted",
		slog.String("postID", id),
		slog.String("requesterID", requester.ID),
	)

	return nil
}
