package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var member model.Member
	if err := r.db.WithContext(ctx).Where("member_id = ?", id).First(&member).Error; err != nil {
		logger.DebugWithContext(ctx, "Member lookup failed").
			Int64("member_id", id).
			Err(err).
			Log()
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) GetByName(ctx context.Context, name string) (*model.Member, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByName")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var member model.Member
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&member).Error; err != nil {
		logger.DebugWithContext(ctx, "Member lookup failed").
			String("name", name).
			Err(err).
			Log()
		return nil, err
	}
	return &member, nil
}

// UpdateLastLogin stamps the login time
func (r *MemberRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("member_id = ?", id).
		Update("last_login", at).Error
}

// IncrementTokenVersion invalidates every token issued so far and returns
// the new version. Returns gorm.ErrRecordNotFound for unknown members.
func (r *MemberRepository) IncrementTokenVersion(ctx context.Context, id int64) (int, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "IncrementTokenVersion")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var version int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Member{}).
			Where("member_id = ?", id).
			Update("token_version", gorm.Expr("token_version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Member{}).
			Where("member_id = ?", id).
			Select("token_version").
			Scan(&version).Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to bump token version").
			Int64("member_id", id).
			Err(err).
			Log()
		return 0, err
	}
	return version, nil
}
