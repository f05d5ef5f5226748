package catalog

import (
	"context"

	"github.com/fathima-sithara/clips-service/internal/models"
)

// Counter names an engagement counter on a video.
type Counter string

const (
	CounterViews     Counter = "views"
	CounterLikes     Counter = "likes"
	CounterDownloads Counter = "downloads"
)

// Totals are whole-collection aggregates.
type Totals struct {
	Videos    int64
	Views     int64
	Downloads int64
}

// Store persists videos. Implementations must be safe for concurrent use and
// must apply Increment as a single atomic update; a read followed by a write
// back loses increments under concurrent requests.
//
// Missing records are reported with an error wrapping apperr.ErrNotFound.
type Store interface {
	// Find returns the videos matching f in the given order. limit <= 0 means no limit.
	Find(ctx context.Context, f Filter, order Ordering, skip, limit int) ([]models.Video, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	// Increment adds one to the counter, refreshes UpdatedAt and returns the updated video.
	Increment(ctx context.Context, id string, c Counter) (*models.Video, error)
	// Insert assigns the insertion sequence and stores v.
	Insert(ctx context.Context, v *models.Video) error
	Delete(ctx context.Context, id string) (*models.Video, error)
	Totals(ctx context.Context) (Totals, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// Registry is the category taxonomy.
type Registry interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, slug string) (*models.Category, error)
	Upsert(ctx context.Context, c *models.Category) error
	IncrementVideoCount(ctx context.Context, slug string, delta int64) error
	SetVideoCount(ctx context.Context, slug string, n int64) error
	Top(ctx context.Context, n int) ([]models.Category, error)
}

// UserCounter is the part of the account store the statistics need.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}
