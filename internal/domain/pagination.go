package domain

import "encoding/json"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type PageQuery struct {
	Page  int
	Limit int
}

// Normalize fills in defaults and caps the limit.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	// TotalKey renames the total field on the wire, e.g. "totalEvents".
	TotalKey string `json:"-"`
}

// Named returns a copy that serializes its total under key.
func (p Pagination) Named(key string) Pagination {
	p.TotalKey = key
	return p
}

func (p Pagination) MarshalJSON() ([]byte, error) {
	key := p.TotalKey
	if key == "" {
		key = "total"
	}
	return json.Marshal(map[string]interface{}{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		key:           p.Total,
		"limit":       p.Limit,
	})
}

// NewPagination computes page counts for total rows. CurrentPage echoes the
// requested page even when it is past the end.
func NewPagination(q PageQuery, total int64) Pagination {
	q = q.Normalize()
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return Pagination{
		CurrentPage: q.Page,
		TotalPages:  pages,
		Total:       total,
		Limit:       q.Limit,
	}
}
