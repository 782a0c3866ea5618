package dto

import (
	"time"

	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
)

// RecordQuery is the query string of GET /records/.
// Unknown parameters are ignored by binding.
type RecordQuery struct {
	pagination.Request

	Status    *string `form:"status" binding:"omitempty,record_status"`
	Player    *int64  `form:"player" binding:"omitempty,min=1"`
	Demon     *string `form:"demon" binding:"omitempty,max=100"`
	Submitter *int64  `form:"submitter" binding:"omitempty,min=1"`

	Progress   *int16 `form:"progress" binding:"omitempty,min=0,max=100"`
	ProgressLT *int16 `form:"progress__lt"`
	ProgressGT *int16 `form:"progress__gt"`

	DemonPosition   *int16 `form:"demon_position" binding:"omitempty,min=1"`
	DemonPositionLT *int16 `form:"demon_position__lt"`
	DemonPositionGT *int16 `form:"demon_position__gt"`

	Video *string `form:"video" binding:"omitempty,url,max=200"`

	SubmittedAfter  *time.Time `form:"submitted_after" time_format:"2006-01-02T15:04:05Z07:00"`
	SubmittedBefore *time.Time `form:"submitted_before" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Filter converts the bound query into the repository filter
func (q RecordQuery) Filter() model.RecordFilter {
	f := model.RecordFilter{
		PlayerID:        q.Player,
		DemonName:       q.Demon,
		SubmitterID:     q.Submitter,
		Progress:        q.Progress,
		ProgressLT:      q.ProgressLT,
		ProgressGT:      q.ProgressGT,
		DemonPosition:   q.DemonPosition,
		DemonPositionLT: q.DemonPositionLT,
		DemonPositionGT: q.DemonPositionGT,
		Video:           q.Video,
		SubmittedAfter:  q.SubmittedAfter,
		SubmittedBefore: q.SubmittedBefore,
	}
	if q.Status != nil {
		status := model.RecordStatus(*q.Status)
		f.Status = &status
	}
	return f
}

type EmbeddedPlayer struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Banned bool   `json:"banned"`
}

type EmbeddedDemon struct {
	Name     string `json:"name"`
	Position int16  `json:"position"`
}

type RecordResponse struct {
	ID          int64              `json:"id"`
	Progress    int16              `json:"progress"`
	Video       *string            `json:"video"`
	Status      model.RecordStatus `json:"status"`
	Player      *EmbeddedPlayer    `json:"player"`
	Demon       *EmbeddedDemon     `json:"demon"`
	SubmitterID *int64             `json:"submitter,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

// NewRecordResponse renders rec. The submitter is only exposed when
// withSubmitter is set.
func NewRecordResponse(rec model.Record, withSubmitter bool) RecordResponse {
	out := RecordResponse{
		ID:          rec.ID,
		Progress:    rec.Progress,
		Video:       rec.Video,
		Status:      rec.Status,
		SubmittedAt: rec.SubmittedAt,
	}
	if rec.Player != nil {
		out.Player = &EmbeddedPlayer{ID: rec.Player.ID, Name: rec.Player.Name, Banned: rec.Player.Banned}
	} else {
		out.Player = &EmbeddedPlayer{ID: rec.PlayerID}
	}
	if rec.Demon != nil {
		out.Demon = &EmbeddedDemon{Name: rec.Demon.Name, Position: rec.Demon.Position}
	} else {
		out.Demon = &EmbeddedDemon{Name: rec.DemonName}
	}
	if withSubmitter {
		out.SubmitterID = rec.SubmitterID
	}
	return out
}
