// Package repositories is the only layer that builds queries. Every method
// takes the request context, and WithTx rebinds a repository to an open
// transaction so a service can compose several calls atomically.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

// ErrNotFound is returned for a missing row. Callers never see
// gorm.ErrRecordNotFound.
var ErrNotFound = errors.New("record not found")

type base struct {
	q *orm.Query
}

func (b base) query(ctx context.Context) *orm.Query {
	if b.q != nil {
		return b.q.WithContext(ctx)
	}
	return orm.DB().WithContext(ctx)
}

// notFound maps a GORM miss to ErrNotFound and wraps everything else.
func notFound(op string, err error) error {
	if err == nil {
		return nil
	}
	if orm.IsNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
