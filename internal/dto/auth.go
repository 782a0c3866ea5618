package dto

import (
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int            `json:"expires_in"` // seconds
	Member    MemberResponse `json:"member"`
}

type MemberResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	DisplayName    *string    `json:"display_name"`
	YoutubeChannel *string    `json:"youtube_channel"`
	Nationality    *string    `json:"nationality"`
	Permissions    uint16     `json:"permissions"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

func NewMemberResponse(m model.Member) MemberResponse {
	return MemberResponse{
		ID:             m.ID,
		Name:           m.Name,
		DisplayName:    m.DisplayName,
		YoutubeChannel: m.YoutubeChannel,
		Nationality:    m.Nationality,
		Permissions:    uint16(m.Permissions),
		LastLogin:      m.LastLogin,
	}
}
