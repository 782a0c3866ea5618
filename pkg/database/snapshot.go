package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// SnapshotOptions is the isolation used for multi-query reads
var SnapshotOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// ReadSnapshot runs fn inside one read-only transaction so every query it
// issues observes the same snapshot. The transaction is always rolled back
// or committed before returning; a cancelled ctx aborts in-flight queries.
func ReadSnapshot(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn, SnapshotOptions)
}
