package services

import (
	"context"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/models"
)

// categoryVideos is how many of a category's most viewed videos its page shows.
const categoryVideos = 12

type CategoryDetail struct {
	Category *models.Category `json:"category"`
	Videos   []models.Video   `json:"videos"`
}

type CategoryService struct {
	registry catalog.Registry
	engine   *catalog.Engine
}

func NewCategoryService(registry catalog.Registry, engine *catalog.Engine) *CategoryService {
	return &CategoryService{registry: registry, engine: engine}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.registry.List(ctx)
	if err != nil {
		return nil, apperr.Storage("list categories", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, slug string) (*CategoryDetail, error) {
	c, err := s.registry.Get(ctx, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.Storage("get category", err)
	}
	videos, err := s.engine.Popular(ctx, slug, categoryVideos)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: c, Videos: videos}, nil
}
