package model

import "time"

type RecordStatus string

const (
	RecordStatusApproved           RecordStatus = "approved"
	RecordStatusRejected           RecordStatus = "rejected"
	RecordStatusSubmitted          RecordStatus = "submitted"
	RecordStatusUnderConsideration RecordStatus = "under_consideration"
)

// RecordStatuses lists every valid status, in workflow order
var RecordStatuses = []RecordStatus{
	RecordStatusSubmitted,
	RecordStatusUnderConsideration,
	RecordStatusApproved,
	RecordStatusRejected,
}

func (s RecordStatus) Valid() bool {
	for _, v := range RecordStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Record struct {
	ID          int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Progress    int16        `gorm:"column:progress;not null"`
	Video       *string      `gorm:"column:video;size:200;uniqueIndex"`
	Status      RecordStatus `gorm:"column:status_;size:32;not null;default:submitted"`
	PlayerID    int64        `gorm:"column:player;not null"`
	SubmitterID *int64       `gorm:"column:submitter"`
	DemonName   string       `gorm:"column:demon;not null"`
	SubmittedAt time.Time    `gorm:"column:submitted_at;not null;autoCreateTime"`

	Player *Player `gorm:"foreignKey:PlayerID;references:ID"`
	Demon  *Demon  `gorm:"foreignKey:DemonName;references:Name"`
}

func (Record) TableName() string { return "records" }
