package repository

import (
	"context"

	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/pkg/database"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
)

// ExplainWindow plans the statements a records page with w would run
func (r *RecordRepository) ExplainWindow(ctx context.Context, filter model.RecordFilter, w pagination.Window) ([]database.Plan, error) {
	return r.source(r.db, filter).Explain(ctx, w)
}

// ExplainWindow plans the statements a players page with w would run
func (r *PlayerRepository) ExplainWindow(ctx context.Context, filter model.PlayerFilter, w pagination.Window) ([]database.Plan, error) {
	return r.source(r.db, filter).Explain(ctx, w)
}

// PlanChecks are the page shapes public traffic hits most: approved
// records from the start, per player and backwards from a cursor, and
// unbanned players.
func PlanChecks(records *RecordRepository, players *PlayerRepository, limit int) []database.PlanCheck {
	approved := model.RecordStatusApproved
	notBanned := false
	playerID := int64(1)
	over := limit + 1

	recordCheck := func(name string, f model.RecordFilter, w pagination.Window) database.PlanCheck {
		return database.PlanCheck{Name: name, Explain: func(ctx context.Context) ([]database.Plan, error) {
			return records.ExplainWindow(ctx, f, w)
		}}
	}

	return []database.PlanCheck{
		recordCheck("records approved first page",
			model.RecordFilter{Status: &approved},
			pagination.Window{Limit: over}),
		recordCheck("records by player",
			model.RecordFilter{Status: &approved, PlayerID: &playerID},
			pagination.Window{Bound: &pagination.Bound{Key: 0}, Limit: over}),
		recordCheck("records before cursor",
			model.RecordFilter{Status: &approved},
			pagination.Window{Bound: &pagination.Bound{Key: 1 << 31, Below: true}, Descending: true, Limit: over}),
		{Name: "players not banned", Explain: func(ctx context.Context) ([]database.Plan, error) {
			return players.ExplainWindow(ctx, model.PlayerFilter{Banned: &notBanned}, pagination.Window{Limit: over})
		}},
	}
}
