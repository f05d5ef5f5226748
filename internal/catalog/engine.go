package catalog

import (
	"context"
	"fmt"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/models"
)

type Options struct {
	DefaultPageSize int
	MaxPageSize     int // 0 disables the cap
	TrendingLimit   int
	RecentLimit     int
	TopCategories   int
}

func DefaultOptions() Options {
	return Options{
		DefaultPageSize: 12,
		MaxPageSize:     100,
		TrendingLimit:   10,
		RecentLimit:     12,
		TopCategories:   5,
	}
}

// Page is one slice of a filtered, sorted listing.
type Page struct {
	Videos      []models.Video `json:"videos"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Total       int64          `json:"total"`
	HasNextPage bool           `json:"hasNextPage"`
	HasPrevPage bool           `json:"hasPrevPage"`
}

type CounterResult struct {
	VideoID string
	Value   int64
	Video   *models.Video
}

type Stats struct {
	TotalVideos    int64             `json:"totalVideos"`
	TotalViews     int64             `json:"totalViews"`
	TotalDownloads int64             `json:"totalDownloads"`
	TotalUsers     int64             `json:"totalUsers"`
	TopCategories  []models.Category `json:"topCategories"`
}

// Engine answers catalog queries against a Store. It holds no state of its own
// and is safe for concurrent use as long as its collaborators are.
type Engine struct {
	store    Store
	registry Registry
	users    UserCounter
	opts     Options
}

func NewEngine(store Store, registry Registry, users UserCounter, opts Options) *Engine {
	def := DefaultOptions()
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = def.DefaultPageSize
	}
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = def.TrendingLimit
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = def.RecentLimit
	}
	if opts.TopCategories <= 0 {
		opts.TopCategories = def.TopCategories
	}
	return &Engine{store: store, registry: registry, users: users, opts: opts}
}

func (e *Engine) Options() Options { return e.opts }

// DefaultQuery is the query an empty request string resolves to.
func (e *Engine) DefaultQuery() Query {
	return Query{SortField: SortCreatedAt, SortOrder: Desc, Page: 1, PageSize: e.opts.DefaultPageSize}
}

func (e *Engine) normalize(q Query) Query {
	q.Filter = q.Filter.Normalize()
	q.SortField = ParseSortField(string(q.SortField))
	if q.SortOrder != Asc {
		q.SortOrder = Desc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	if e.opts.MaxPageSize > 0 && q.PageSize > e.opts.MaxPageSize {
		q.PageSize = e.opts.MaxPageSize
	}
	return q
}

// List filters, sorts and paginates. It never touches counters.
func (e *Engine) List(ctx context.Context, q Query) (*Page, error) {
	return e.list(ctx, q, q.Ordering())
}

// Search is List ordered by popularity, the order the search endpoint uses.
func (e *Engine) Search(ctx context.Context, q Query) (*Page, error) {
	return e.list(ctx, q, PopularOrder)
}

func (e *Engine) list(ctx context.Context, q Query, order Ordering) (*Page, error) {
	q = e.normalize(q)

	total, err := e.store.Count(ctx, q.Filter)
	if err != nil {
		return nil, wrap("count videos", err)
	}
	videos := []models.Video{}
	// pages past the end are compared by count, (page-1)*size can overflow
	if int64(q.Page-1) < pageCount(total, q.PageSize) {
		videos, err = e.store.Find(ctx, q.Filter, order, (q.Page-1)*q.PageSize, q.PageSize)
		if err != nil {
			return nil, wrap("find videos", err)
		}
	}
	return newPage(videos, total, q.Page, q.PageSize), nil
}

func newPage(videos []models.Video, total int64, page, pageSize int) *Page {
	if videos == nil {
		videos = []models.Video{}
	}
	pages := pageCount(total, pageSize)
	return &Page{
		Videos:      videos,
		TotalPages:  int(pages),
		CurrentPage: page,
		Total:       total,
		HasNextPage: int64(page) < pages,
		HasPrevPage: page > 1,
	}
}

func pageCount(total int64, pageSize int) int64 {
	size := int64(pageSize)
	return total/size + min(total%size, 1)
}

// GetByID returns the video after counting one view. The fetch and the
// increment are the same storage operation, so a failed increment fails the read.
func (e *Engine) GetByID(ctx context.Context, id string) (*models.Video, error) {
	if id == "" {
		return nil, apperr.NotFound("video")
	}
	v, err := e.store.Increment(ctx, id, CounterViews)
	if err != nil {
		return nil, wrap("view video", err)
	}
	return v, nil
}

// Peek returns a video without counting a view.
func (e *Engine) Peek(ctx context.Context, id string) (*models.Video, error) {
	if id == "" {
		return nil, apperr.NotFound("video")
	}
	v, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, wrap("get video", err)
	}
	return v, nil
}

// IncrementCounter atomically bumps likes or downloads.
func (e *Engine) IncrementCounter(ctx context.Context, id string, c Counter) (*CounterResult, error) {
	if c != CounterLikes && c != CounterDownloads {
		return nil, apperr.Invalid("counter", fmt.Sprintf("unsupported counter %q", c))
	}
	if id == "" {
		return nil, apperr.NotFound("video")
	}
	v, err := e.store.Increment(ctx, id, c)
	if err != nil {
		return nil, wrap("increment "+string(c), err)
	}
	res := &CounterResult{VideoID: v.ID, Video: v}
	if c == CounterLikes {
		res.Value = v.Likes
	} else {
		res.Value = v.Downloads
	}
	return res, nil
}

func (e *Engine) Trending(ctx context.Context, limit int) ([]models.Video, error) {
	return e.top(ctx, Filter{}, TrendingOrder, e.limit(limit, e.opts.TrendingLimit))
}

func (e *Engine) Recent(ctx context.Context, limit int) ([]models.Video, error) {
	return e.top(ctx, Filter{}, RecentOrder, e.limit(limit, e.opts.RecentLimit))
}

// Popular returns the most viewed videos of one category.
func (e *Engine) Popular(ctx context.Context, category string, limit int) ([]models.Video, error) {
	return e.top(ctx, Filter{Category: category}.Normalize(), PopularOrder, e.limit(limit, e.opts.DefaultPageSize))
}

// ByUploader lists one uploader's videos, newest first.
func (e *Engine) ByUploader(ctx context.Context, username string, page, pageSize int) (*Page, error) {
	q := Query{Filter: Filter{Uploader: username}, Page: page, PageSize: pageSize}
	return e.list(ctx, q, RecentOrder)
}

func (e *Engine) limit(n, def int) int {
	if n <= 0 {
		n = def
	}
	if e.opts.MaxPageSize > 0 && n > e.opts.MaxPageSize {
		n = e.opts.MaxPageSize
	}
	return n
}

func (e *Engine) top(ctx context.Context, f Filter, order Ordering, limit int) ([]models.Video, error) {
	videos, err := e.store.Find(ctx, f, order, 0, limit)
	if err != nil {
		return nil, wrap("find videos", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// Stats aggregates over the whole collection.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	totals, err := e.store.Totals(ctx)
	if err != nil {
		return nil, wrap("aggregate videos", err)
	}
	var users int64
	if e.users != nil {
		if users, err = e.users.CountUsers(ctx); err != nil {
			return nil, wrap("count users", err)
		}
	}
	top := []models.Category{}
	if e.registry != nil {
		if top, err = e.registry.Top(ctx, e.opts.TopCategories); err != nil {
			return nil, wrap("top categories", err)
		}
	}
	return &Stats{
		TotalVideos:    totals.Videos,
		TotalViews:     totals.Views,
		TotalDownloads: totals.Downloads,
		TotalUsers:     users,
		TopCategories:  top,
	}, nil
}

func wrap(op string, err error) error {
	if apperr.IsNotFound(err) {
		return err
	}
	return apperr.Storage(op, err)
}
