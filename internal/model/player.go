package model

type Player struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string  `gorm:"column:name;not null;uniqueIndex"`
	Banned      bool    `gorm:"column:banned;not null;default:false"`
	Nationality *string `gorm:"column:nationality;size:2"`
}

func (Player) TableName() string { return "players" }

type Demon struct {
	Name        string  `gorm:"column:name;primaryKey"`
	Position    int16   `gorm:"column:position;not null"`
	Requirement int16   `gorm:"column:requirement;not null"`
	Video       *string `gorm:"column:video;size:200"`
	VerifierID  int64   `gorm:"column:verifier;not null"`
	PublisherID int64   `gorm:"column:publisher;not null"`
}

func (Demon) TableName() string { return "demons" }

type Submitter struct {
	ID        int64  `gorm:"column:submitter_id;primaryKey;autoIncrement"`
	IPAddress string `gorm:"column:ip_address;not null"`
	Banned    bool   `gorm:"column:banned;not null;default:false"`
}

func (Submitter) TableName() string { return "submitters" }
