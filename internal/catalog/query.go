package catalog

import (
	"cmp"
	"strings"

	"github.com/fathima-sithara/clips-service/internal/models"
)

// AllCategories is the sentinel category value meaning "no category filter".
const AllCategories = "all"

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortViews     SortField = "views"
	SortLikes     SortField = "likes"
	SortDownloads SortField = "downloads"
	SortTitle     SortField = "title"
)

// ParseSortField maps a client supplied key to a known field. Unknown keys fall
// back to creation time.
func ParseSortField(s string) SortField {
	switch f := SortField(s); f {
	case SortCreatedAt, SortViews, SortLikes, SortDownloads, SortTitle:
		return f
	}
	return SortCreatedAt
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder returns Asc only for an explicit "asc"; everything else is Desc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

// Query is the declarative listing request. Its fields together form the
// fingerprint that identifies one result page.
type Query struct {
	Filter
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// Ordering returns the sort keys the query resolves to.
func (q Query) Ordering() Ordering {
	return Ordering{{Field: ParseSortField(string(q.SortField)), Desc: q.SortOrder != Asc}}
}

// Filter selects videos. Empty fields do not constrain the result.
type Filter struct {
	Category string
	Search   string
	Uploader string
}

// Normalize drops the "all" sentinel and surrounding whitespace of the search term.
func (f Filter) Normalize() Filter {
	if f.Category == AllCategories {
		f.Category = ""
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Match reports whether v satisfies every constraint of f. The category is an
// exact slug match; the search term is a case-insensitive substring of the
// title, the description or any single tag. f must be normalized.
func (f Filter) Match(v *models.Video) bool {
	if f.Category != "" && v.Category != f.Category {
		return false
	}
	if f.Uploader != "" && v.Uploader != f.Uploader {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	if containsFold(v.Title, term) || containsFold(v.Description, term) {
		return true
	}
	for _, tag := range v.Tags {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

type SortKey struct {
	Field SortField
	Desc  bool
}

// Ordering is a list of sort keys applied in turn. Videos equal on every key
// keep their insertion order.
type Ordering []SortKey

var (
	TrendingOrder = Ordering{{Field: SortViews, Desc: true}, {Field: SortLikes, Desc: true}}
	RecentOrder   = Ordering{{Field: SortCreatedAt, Desc: true}}
	PopularOrder  = Ordering{{Field: SortViews, Desc: true}}
)

// Compare orders a before b when it returns a negative number.
func (o Ordering) Compare(a, b *models.Video) int {
	for _, k := range o {
		c := compareField(k.Field, a, b)
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Seq, b.Seq)
}

func compareField(f SortField, a, b *models.Video) int {
	switch f {
	case SortViews:
		return cmp.Compare(a.Views, b.Views)
	case SortLikes:
		return cmp.Compare(a.Likes, b.Likes)
	case SortDownloads:
		return cmp.Compare(a.Downloads, b.Downloads)
	case SortTitle:
		return strings.Compare(a.Title, b.Title)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
