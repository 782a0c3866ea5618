package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/database"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"gorm.io/gorm"
)

type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func playerScope(f model.PlayerFilter) database.Scope {
	return func(q *gorm.DB) *gorm.DB {
		if f.Name != nil {
			q = q.Where("players.name = ?", *f.Name)
		}
		if f.Banned != nil {
			q = q.Where("players.banned = ?", *f.Banned)
		}
		if f.Nation != nil {
			q = q.Where("players.nationality = ?", strings.ToUpper(*f.Nation))
		}
		return q
	}
}

func (r *PlayerRepository) source(tx *gorm.DB, filter model.PlayerFilter) *database.KeysetSource[model.Player] {
	return &database.KeysetSource[model.Player]{
		DB:     tx,
		Column: "players.id",
		Filter: []database.Scope{playerScope(filter)},
		KeyOf:  func(p model.Player) int64 { return p.ID },
	}
}

// Paginate loads one page of players matching filter
func (r *PlayerRepository) Paginate(ctx context.Context, filter model.PlayerFilter, params pagination.Params) (*pagination.Page[model.Player], error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Paginate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var page *pagination.Page[model.Player]

	err := database.ReadSnapshot(ctx, r.db, func(tx *gorm.DB) error {
		var err error
		page, err = pagination.Paginate[model.Player](ctx, r.source(tx, filter), params)
		return err
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to paginate players").
			Stringer("cursor", params.Cursor).
			Int("limit", params.Limit).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Players page loaded").
		Int("rows", len(page.Rows)).
		Duration(duration).
		Log()

	return page, nil
}

// GetByID returns gorm.ErrRecordNotFound when the id is unknown
func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*model.Player, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var player model.Player
	if err := r.db.WithContext(ctx).Where("players.id = ?", id).First(&player).Error; err != nil {
		logger.DebugWithContext(ctx, "Player lookup failed").
			Int64("player_id", id).
			Err(err).
			Log()
		return nil, err
	}
	return &player, nil
}
