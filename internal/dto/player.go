package dto

import (
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
)

// PlayerQuery is the query string of GET /players/
type PlayerQuery struct {
	pagination.Request

	Name   *string `form:"name" binding:"omitempty,max=100"`
	Banned *bool   `form:"banned"`
	Nation *string `form:"nation" binding:"omitempty,nation"`
}

func (q PlayerQuery) Filter() model.PlayerFilter {
	return model.PlayerFilter{
		Name:   q.Name,
		Banned: q.Banned,
		Nation: q.Nation,
	}
}

type PlayerResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Banned      bool    `json:"banned"`
	Nationality *string `json:"nationality"`
}

func NewPlayerResponse(p model.Player) PlayerResponse {
	return PlayerResponse{
		ID:          p.ID,
		Name:        p.Name,
		Banned:      p.Banned,
		Nationality: p.Nationality,
	}
}
