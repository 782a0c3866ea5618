package model

import "time"

// RecordFilter narrows the record set. A nil field does not constrain.
// Bounds suffixed LT/GT are exclusive.
type RecordFilter struct {
	Status      *RecordStatus
	PlayerID    *int64
	DemonName   *string
	SubmitterID *int64

	Progress   *int16
	ProgressLT *int16
	ProgressGT *int16

	DemonPosition   *int16
	DemonPositionLT *int16
	DemonPositionGT *int16

	Video *string

	SubmittedAfter  *time.Time
	SubmittedBefore *time.Time
}

// ConstrainsDemonPosition reports whether the filter needs the demons table
func (f RecordFilter) ConstrainsDemonPosition() bool {
	return f.DemonPosition != nil || f.DemonPositionLT != nil || f.DemonPositionGT != nil
}

// PlayerFilter narrows the player set
type PlayerFilter struct {
	Name   *string
	Banned *bool
	Nation *string
}
