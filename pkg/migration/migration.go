// Package migration runs registered schema migrations and records them in
// the pcbuilder_migrations table, in batches that can be rolled back.
//
//	func init() {
//	    migration.Register("2024_01_01_000001_create_users_table", &createUsers{})
//	}
package migration

import (
	"database/sql"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"gorm.io/gorm"
)

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "pcbuilder_migrations" }

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration. Names sort lexicographically into run order,
// so prefix them with a timestamp.
func Register(name string, m Migration) {
	registry = append(registry, registered{name: name, m: m})
}

func sorted() []registered {
	out := append([]registered(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status is one row of migrate:status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New returns a runner that reports progress to out (io.Discard is fine).
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]record, len(rows))
	for _, row := range rows {
		m[row.Name] = row
	}
	return m, nil
}

// Run applies every pending migration as one batch. Each migration and its
// record commit together.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}

	done, err := r.ran()
	if err != nil {
		return 0, fmt.Errorf("migration: fetch ran: %w", err)
	}

	var pending []registered
	for _, reg := range sorted() {
		if _, ok := done[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	batch++

	for _, reg := range pending {
		fmt.Fprintf(r.out, "Migrating: %s\n", reg.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: reg.name, Batch: batch}).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		fmt.Fprintf(r.out, "Migrated:  %s\n", reg.name)
	}

	logger.Info("migrations applied", "count", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverts the most recent batch, newest first.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&rows).Error; err != nil {
		return 0, err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return 0, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}

		fmt.Fprintf(r.out, "Rolling back: %s\n", row.Name)
		row := row
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&row).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
	}

	logger.Info("migrations rolled back", "count", len(rows), "batch", batch)
	return len(rows), nil
}

// Status lists every registered migration with whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, reg := range sorted() {
		rec, ok := done[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max sql.NullInt64
	if err := r.db.Model(&record{}).Select("MAX(batch)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return int(max.Int64), nil
}
