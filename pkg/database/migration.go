package database

import (
	"github.com/Payphone-Digital/demonlist/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Member{},
		&model.Player{},
		&model.Demon{},
		&model.Submitter{},
		&model.Record{},
	)
}
