package orm

import "gorm.io/gorm"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination is the page metadata returned next to a list.
type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// NormalizePage clamps page to ≥1 and perPage to 1..MaxPerPage, using
// DefaultPerPage when perPage is unset.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// NewPagination computes LastPage from total; LastPage is never below 1.
func NewPagination(total int64, page, perPage int) Pagination {
	page, perPage = NormalizePage(page, perPage)
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Pagination{Total: total, PerPage: perPage, CurrentPage: page, LastPage: last}
}

// Paginate counts the matching rows, then loads one page into dest ordered
// by order with the given associations preloaded. The count query carries
// neither the ORDER BY nor the preloads.
func (q *Query) Paginate(page, perPage int, order string, dest interface{}, preloads ...string) (Pagination, error) {
	page, perPage = NormalizePage(page, perPage)

	var total int64
	if err := q.session().Count(&total); err != nil {
		return Pagination{}, err
	}

	rows := q.session()
	if order != "" {
		rows = rows.Order(order)
	}
	for _, p := range preloads {
		rows = rows.Preload(p)
	}
	if err := rows.Offset((page - 1) * perPage).Limit(perPage).Get(dest); err != nil {
		return Pagination{}, err
	}

	return NewPagination(total, page, perPage), nil
}

func (q *Query) session() *Query {
	return &Query{db: q.db.Session(&gorm.Session{})}
}
