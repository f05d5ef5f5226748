package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/models"
)

type MemoryCategoryRepo struct {
	mu     sync.RWMutex
	bySlug map[string]*models.Category
}

func NewMemoryCategoryRepo() *MemoryCategoryRepo {
	return &MemoryCategoryRepo{bySlug: map[string]*models.Category{}}
}

func (r *MemoryCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	out := r.snapshot()
	slices.SortStableFunc(out, func(a, b models.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *MemoryCategoryRepo) Get(ctx context.Context, slug string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("category")
	}
	out := *c
	return &out, nil
}

// Upsert replaces the descriptive fields and keeps the stored video count.
func (r *MemoryCategoryRepo) Upsert(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if cur, ok := r.bySlug[c.Slug]; ok {
		cur.Name, cur.Icon, cur.Color = c.Name, c.Icon, c.Color
		cur.UpdatedAt = now
		return nil
	}
	stored := *c
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.bySlug[c.Slug] = &stored
	return nil
}

func (r *MemoryCategoryRepo) IncrementVideoCount(ctx context.Context, slug string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.bySlug[slug]
	if !ok {
		return apperr.NotFound("category")
	}
	c.VideoCount += delta
	if c.VideoCount < 0 {
		c.VideoCount = 0
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryCategoryRepo) SetVideoCount(ctx context.Context, slug string, n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.bySlug[slug]
	if !ok {
		return apperr.NotFound("category")
	}
	c.VideoCount = n
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryCategoryRepo) Top(ctx context.Context, n int) ([]models.Category, error) {
	out := r.snapshot()
	slices.SortStableFunc(out, func(a, b models.Category) int {
		if c := cmp.Compare(b.VideoCount, a.VideoCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func (r *MemoryCategoryRepo) snapshot() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, 0, len(r.bySlug))
	for _, c := range r.bySlug {
		out = append(out, *c)
	}
	return out
}
