// Package store is the sole owner of SQL in this service (C2). Every
// write is an idempotent upsert keyed by MBID; every DAO follows the
// teacher's internal/repositories/*.repository.go shape — an explicit
// *gorm.DB transaction parameter, gorm.G[T] generics for reads, and
// clause.OnConflict for batch/idempotent writes.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"waugzee/internal/logger"
)

// Store aggregates every typed DAO behind one constructor, mirroring the
// teacher's repositories.Repository composite.
type Store struct {
	db *gorm.DB
	log logger.Logger

	Artist       *ArtistStore
	ReleaseGroup *ReleaseGroupStore
	Release      *ReleaseStore
	Link         *LinkStore
	Image        *ImageStore
	BulkRefresh  *BulkRefreshStore
}

// DB exposes the underlying connection for callers (e.g. the artwork-binary
// pool) that only need a single non-transactional statement and would gain
// nothing from WithTx's begin/commit overhead.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		log: logger.New("store"),

		Artist:       &ArtistStore{},
		ReleaseGroup: &ReleaseGroupStore{},
		Release:      &ReleaseStore{},
		Link:         &LinkStore{},
		Image:        &ImageStore{},
		BulkRefresh:  &BulkRefreshStore{},
	}
}

// WithTx begins a transaction, runs fn with it, and commits or rolls back
// based on fn's result. Panics roll back and re-panic rather than silently
// swallowing a partial write — the same contract as the teacher's
// TransactionService.Execute, folded from a service struct into a package
// function since no other service needed the indirection.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("store: failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("store: rollback failed after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("store: failed to commit transaction: %w", err)
	}
	return nil
}
