package database

import (
	"time"

	"github.com/shashiranjanraj/pcbuilder/pkg/metrics"
	"gorm.io/gorm"
)

const startedKey = "pcbuilder:started_at"

// instrument times every create/query/update/delete/raw statement into
// metrics.DBQueryDuration.
func instrument(db *gorm.DB) error {
	cb := db.Callback()

	start := func(tx *gorm.DB) { tx.InstanceSet(startedKey, time.Now()) }
	stop := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startedKey); ok {
				if t, ok := v.(time.Time); ok {
					metrics.ObserveDBQuery(op, t)
				}
			}
		}
	}

	regs := []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", start),
		cb.Create().After("gorm:create").Register("metrics:after_create", stop("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", start),
		cb.Query().After("gorm:query").Register("metrics:after_query", stop("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", start),
		cb.Update().After("gorm:update").Register("metrics:after_update", stop("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", start),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", stop("delete")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", start),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", stop("raw")),
	}
	for _, err := range regs {
		if err != nil {
			return err
		}
	}
	return nil
}
