// Package orm is a thin chainable wrapper over *gorm.DB. Repositories hold a
// *Query and never reach into gorm directly, which keeps the context, the
// cache and transaction plumbing in one place.
package orm

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Query struct {
	db *gorm.DB
}

// DB returns a query on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// New wraps an existing *gorm.DB.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare query the wrapper lacks.
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Or(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Or(query, args...)}
}

func (q *Query) Select(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Select(query, args...)}
}

func (q *Query) Joins(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(query, args...)}
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Distinct(args ...interface{}) *Query {
	return &Query{db: q.db.Distinct(args...)}
}

// ForUpdate adds a row lock on dialects that take FOR UPDATE. SQLite and SQL
// Server are left alone.
func (q *Query) ForUpdate() *Query {
	switch q.db.Dialector.Name() {
	case "sqlite", "sqlserver":
		return q
	}
	return &Query{db: q.db.Clauses(clause.Locking{Strength: "UPDATE"})}
}

// Get loads every matching row into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first row ordered by primary key. A miss returns
// ErrNotFound.
func (q *Query) First(dest interface{}, conds ...interface{}) error {
	return q.db.First(dest, conds...).Error
}

// Take is First without the implicit primary-key ordering.
func (q *Query) Take(dest interface{}, conds ...interface{}) error {
	return q.db.Take(dest, conds...).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Pluck(column string, dest interface{}) error {
	return q.db.Pluck(column, dest).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies column changes to the current Model. It returns the number
// of rows touched.
func (q *Query) Updates(values interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

func (q *Query) UpdateColumn(column string, value interface{}) (int64, error) {
	res := q.db.UpdateColumn(column, value)
	return res.RowsAffected, res.Error
}

// Delete removes rows and returns how many went.
func (q *Query) Delete(v interface{}, conds ...interface{}) (int64, error) {
	res := q.db.Delete(v, conds...)
	return res.RowsAffected, res.Error
}

// Cache serves Get from the cache when possible and fills it otherwise.
func (q *Query) Cache(ctx context.Context, key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(ctx, key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	_ = cache.Set(ctx, key, dest, ttl)
	return nil
}

// Transaction runs fn in a transaction on the query's connection.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// Transaction runs fn in a transaction on the global connection. Returning an
// error (or panicking) rolls back.
func Transaction(ctx context.Context, fn func(tx *Query) error) error {
	return DB().WithContext(ctx).Transaction(fn)
}

// ErrNotFound is what First and Take return on a miss.
var ErrNotFound = gorm.ErrRecordNotFound

// IsNotFound reports whether err is a record-not-found miss.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
