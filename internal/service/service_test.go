package service

import (
	"testing"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/pkg/database/dbtest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// seedRecords creates two players, one demon and records 1..6.
// Records 3 and 4 are not approved; record 3 has submitter 7.
func seedRecords(t *testing.T) *gorm.DB {
	t.Helper()

	db := dbtest.OpenMigrated(t)
	require.NoError(t, db.Create(&[]model.Player{
		{ID: 1, Name: "Zoink"},
		{ID: 2, Name: "Trick"},
	}).Error)
	require.NoError(t, db.Create(&model.Demon{
		Name: "Tidal Wave", Position: 1, Requirement: 50, VerifierID: 1, PublisherID: 1,
	}).Error)

	statuses := map[int64]model.RecordStatus{
		1: model.RecordStatusApproved,
		2: model.RecordStatusApproved,
		3: model.RecordStatusRejected,
		4: model.RecordStatusSubmitted,
		5: model.RecordStatusApproved,
		6: model.RecordStatusApproved,
	}
	for id := int64(1); id <= 6; id++ {
		rec := model.Record{
			ID:          id,
			Progress:    int16(60 + id),
			Status:      statuses[id],
			PlayerID:    1 + (id-1)%2,
			DemonName:   "Tidal Wave",
			SubmittedAt: epoch.Add(time.Duration(id) * time.Hour),
		}
		if id == 3 {
			rec.SubmitterID = ptr(int64(7))
		}
		require.NoError(t, db.Create(&rec).Error)
	}
	return db
}

// seedMember creates a member with password "correct-horse"
func seedMember(t *testing.T, db *gorm.DB, name string, perms model.Permissions) *model.Member {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	member := &model.Member{
		Name:         name,
		PasswordHash: string(hash),
		Permissions:  perms,
		TokenVersion: 1,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}
