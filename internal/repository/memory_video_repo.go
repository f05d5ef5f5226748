package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryVideoRepo keeps videos in process memory. Every mutation happens under
// the write lock, which makes counter increments atomic.
type MemoryVideoRepo struct {
	mu     sync.RWMutex
	videos []*models.Video
	byID   map[string]*models.Video
	seq    int64
	now    func() time.Time
}

func NewMemoryVideoRepo() *MemoryVideoRepo {
	return &MemoryVideoRepo{byID: map[string]*models.Video{}, now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryVideoRepo) Find(ctx context.Context, f catalog.Filter, order catalog.Ordering, skip, limit int) ([]models.Video, error) {
	r.mu.RLock()
	matched := make([]*models.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if f.Match(v) {
			matched = append(matched, v)
		}
	}
	slices.SortStableFunc(matched, order.Compare)

	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		skip = len(matched)
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]models.Video, len(matched))
	for i, v := range matched {
		out[i] = clone(v)
	}
	r.mu.RUnlock()
	return out, nil
}

func (r *MemoryVideoRepo) Count(ctx context.Context, f catalog.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, v := range r.videos {
		if f.Match(v) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryVideoRepo) Get(ctx context.Context, id string) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("video")
	}
	c := clone(v)
	return &c, nil
}

func (r *MemoryVideoRepo) Increment(ctx context.Context, id string, c catalog.Counter) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("video")
	}
	switch c {
	case catalog.CounterViews:
		v.Views++
	case catalog.CounterLikes:
		v.Likes++
	case catalog.CounterDownloads:
		v.Downloads++
	default:
		return nil, apperr.Invalid("counter", "unsupported counter "+string(c))
	}
	v.UpdatedAt = r.now()
	out := clone(v)
	return &out, nil
}

func (r *MemoryVideoRepo) Insert(ctx context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	if _, exists := r.byID[v.ID]; exists {
		return apperr.ErrConflict
	}
	now := r.now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	r.seq++
	v.Seq = r.seq
	v.ApplyDefaults()

	stored := clone(v)
	r.videos = append(r.videos, &stored)
	r.byID[stored.ID] = &stored
	return nil
}

func (r *MemoryVideoRepo) Delete(ctx context.Context, id string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("video")
	}
	delete(r.byID, id)
	r.videos = slices.DeleteFunc(r.videos, func(x *models.Video) bool { return x.ID == id })
	out := clone(v)
	return &out, nil
}

func (r *MemoryVideoRepo) Totals(ctx context.Context) (catalog.Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := catalog.Totals{Videos: int64(len(r.videos))}
	for _, v := range r.videos {
		t.Views += v.Views
		t.Downloads += v.Downloads
	}
	return t, nil
}

func (r *MemoryVideoRepo) CountByCategory(ctx context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]int64{}
	for _, v := range r.videos {
		out[v.Category]++
	}
	return out, nil
}

func clone(v *models.Video) models.Video {
	c := *v
	c.Tags = slices.Clone(v.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}
