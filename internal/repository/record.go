package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/database"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"gorm.io/gorm"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// recordScope translates a filter into WHERE clauses on records
func recordScope(f model.RecordFilter) database.Scope {
	return func(q *gorm.DB) *gorm.DB {
		if f.Status != nil {
			q = q.Where("records.status_ = ?", *f.Status)
		}
		if f.PlayerID != nil {
			q = q.Where("records.player = ?", *f.PlayerID)
		}
		if f.DemonName != nil {
			q = q.Where("records.demon = ?", *f.DemonName)
		}
		if f.SubmitterID != nil {
			q = q.Where("records.submitter = ?", *f.SubmitterID)
		}
		if f.Progress != nil {
			q = q.Where("records.progress = ?", *f.Progress)
		}
		if f.ProgressLT != nil {
			q = q.Where("records.progress < ?", *f.ProgressLT)
		}
		if f.ProgressGT != nil {
			q = q.Where("records.progress > ?", *f.ProgressGT)
		}
		if f.Video != nil {
			q = q.Where("records.video = ?", *f.Video)
		}
		if f.SubmittedAfter != nil {
			q = q.Where("records.submitted_at > ?", *f.SubmittedAfter)
		}
		if f.SubmittedBefore != nil {
			q = q.Where("records.submitted_at < ?", *f.SubmittedBefore)
		}

		if f.ConstrainsDemonPosition() {
			demons := q.Session(&gorm.Session{NewDB: true}).
				Model(&model.Demon{}).
				Select("demons.name")
			if f.DemonPosition != nil {
				demons = demons.Where("demons.position = ?", *f.DemonPosition)
			}
			if f.DemonPositionLT != nil {
				demons = demons.Where("demons.position < ?", *f.DemonPositionLT)
			}
			if f.DemonPositionGT != nil {
				demons = demons.Where("demons.position > ?", *f.DemonPositionGT)
			}
			q = q.Where("records.demon IN (?)", demons)
		}

		return q
	}
}

func preloadRecordRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Player").Preload("Demon")
}

func (r *RecordRepository) source(tx *gorm.DB, filter model.RecordFilter) *database.KeysetSource[model.Record] {
	return &database.KeysetSource[model.Record]{
		DB:      tx,
		Column:  "records.id",
		Filter:  []database.Scope{recordScope(filter)},
		Preload: []database.Scope{preloadRecordRelations},
		KeyOf:   func(rec model.Record) int64 { return rec.ID },
	}
}

// Paginate loads one page of records matching filter. The window and the
// extremal lookup share one read-only snapshot.
func (r *RecordRepository) Paginate(ctx context.Context, filter model.RecordFilter, params pagination.Params) (*pagination.Page[model.Record], error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Paginate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Paginating records").
		Stringer("cursor", params.Cursor).
		Int("limit", params.Limit).
		Stringer("order", params.Order).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var page *pagination.Page[model.Record]

	err := database.ReadSnapshot(ctx, r.db, func(tx *gorm.DB) error {
		var err error
		page, err = pagination.Paginate[model.Record](ctx, r.source(tx, filter), params)
		return err
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to paginate records").
			Stringer("cursor", params.Cursor).
			Int("limit", params.Limit).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Records page loaded").
		Int("rows", len(page.Rows)).
		Duration(duration).
		Log()

	return page, nil
}

// GetByID loads a record and its player and demon.
// Returns gorm.ErrRecordNotFound when the id is unknown.
func (r *RecordRepository) GetByID(ctx context.Context, id int64) (*model.Record, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var record model.Record

	result := r.db.WithContext(ctx).
		Scopes(preloadRecordRelations).
		Where("records.id = ?", id).
		First(&record)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Record lookup failed").
			Int64("record_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Record retrieved successfully").
		Int64("record_id", id).
		Duration(duration).
		Log()

	return &record, nil
}
