package model

import "time"

// Permissions is the member permission bitset
type Permissions uint16

const (
	PermExtendedAccess    Permissions = 1 << 0
	PermListHelper        Permissions = 1 << 1
	PermListModerator     Permissions = 1 << 2
	PermListAdministrator Permissions = 1 << 3
	PermModerator         Permissions = 1 << 13
	PermAdministrator     Permissions = 1 << 14
)

// implies maps a permission to the one it directly grants
var implies = map[Permissions]Permissions{
	PermListHelper:        PermExtendedAccess,
	PermListModerator:     PermListHelper,
	PermListAdministrator: PermListModerator,
	PermAdministrator:     PermModerator,
}

// Implied expands p with every permission its bits grant transitively
func (p Permissions) Implied() Permissions {
	out := p
	for changed := true; changed; {
		changed = false
		for from, to := range implies {
			if out&from != 0 && out&to == 0 {
				out |= to
				changed = true
			}
		}
	}
	return out
}

// Has reports whether p grants every bit of want, counting implications
func (p Permissions) Has(want Permissions) bool {
	return p.Implied()&want == want
}

// ExtendedAccess gates visibility of non-approved records
func (p Permissions) ExtendedAccess() bool {
	return p.Has(PermExtendedAccess)
}

type Member struct {
	ID             int64       `gorm:"column:member_id;primaryKey;autoIncrement"`
	Name           string      `gorm:"column:name;not null;uniqueIndex"`
	PasswordHash   string      `gorm:"column:password_hash;not null"`
	Permissions    Permissions `gorm:"column:permissions;not null;default:0"`
	DisplayName    *string     `gorm:"column:display_name"`
	YoutubeChannel *string     `gorm:"column:youtube_channel;size:200"`
	Nationality    *string     `gorm:"column:nationality;size:2"`
	TokenVersion   int         `gorm:"column:token_version;default:1;not null"`
	LastLogin      *time.Time  `gorm:"column:last_login"`
}

func (Member) TableName() string { return "members" }
