package service

import (
	"context"
	"fmt"

	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

// TagService exposes the tag index's read side. Tag creation happens
// implicitly inside post creation.
type TagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// List returns all tags with usage counts, most-used first.
func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/tag: listing tags: %w", err)
	}
	return tags, nil
}
