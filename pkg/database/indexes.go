package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// keysetIndexes back the bounded window and MIN/MAX queries. Every filtered
// dimension leads with the filter column and ends with the key so Postgres
// can walk the index in either direction from the cursor.
var keysetIndexes = []string{
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_records_status_id ON records(status_, id);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_records_player_id ON records(player, id);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_records_demon_id ON records(demon, id);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_records_submitter_id ON records(submitter, id) WHERE submitter IS NOT NULL;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_records_submitted_at ON records(submitted_at, id);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_players_banned_id ON players(banned, id);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_players_nationality_id ON players(nationality, id) WHERE nationality IS NOT NULL;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_demons_position ON demons(position);",
}

// KeysetIndexes creates the composite indexes used by pagination.
// Failures are logged and skipped; a missing index only costs speed.
func KeysetIndexes(db *gorm.DB, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	created := 0
	for _, stmt := range keysetIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("Failed to create index", zap.String("statement", stmt), zap.Error(err))
			continue
		}
		created++
	}

	log.Info("Keyset indexes ensured",
		zap.Int("created", created),
		zap.Int("total", len(keysetIndexes)),
	)
}
