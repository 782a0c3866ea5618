package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Plan is the planner output for one keyset statement
type Plan struct {
	Name  string
	SQL   string
	Lines []string
}

// FullScan reports whether the planner walks the whole table instead of
// an index. Understands Postgres EXPLAIN and SQLite EXPLAIN QUERY PLAN.
func (p Plan) FullScan() bool {
	for _, line := range p.Lines {
		l := strings.TrimSpace(line)
		if strings.Contains(l, "Seq Scan") {
			return true
		}
		if strings.HasPrefix(l, "SCAN ") && !strings.Contains(l, " USING ") {
			return true
		}
	}
	return false
}

// Explain plans the window and extremes statements a page request with w
// would run. Nothing is executed besides the EXPLAIN itself.
func (s *KeysetSource[T]) Explain(ctx context.Context, w pagination.Window) ([]Plan, error) {
	dry := s.DB.Session(&gorm.Session{DryRun: true}).WithContext(ctx)

	var rows []T
	window := s.windowQuery(dry, w).Find(&rows).Statement
	var ext []map[string]interface{}
	extremes := s.extremesQuery(dry).Find(&ext).Statement

	plans := make([]Plan, 0, 2)
	for _, stmt := range []struct {
		name string
		st   *gorm.Statement
	}{{"window", window}, {"extremes", extremes}} {
		if stmt.st.Error != nil {
			return nil, stmt.st.Error
		}
		sql := s.DB.Dialector.Explain(stmt.st.SQL.String(), stmt.st.Vars...)
		lines, err := explain(ctx, s.DB, stmt.st, sql)
		if err != nil {
			return nil, fmt.Errorf("explain %s: %w", stmt.name, err)
		}
		plans = append(plans, Plan{Name: stmt.name, SQL: sql, Lines: lines})
	}
	return plans, nil
}

// explain runs the planner over st. SQLite keeps its ? placeholders and
// bound vars since its dialector inlines strings with double quotes.
// Postgres numbers its placeholders, so it gets the inlined text.
func explain(ctx context.Context, db *gorm.DB, st *gorm.Statement, inlined string) ([]string, error) {
	q := db.WithContext(ctx)
	if db.Dialector.Name() == "sqlite" {
		q = q.Raw("EXPLAIN QUERY PLAN "+st.SQL.String(), st.Vars...)
	} else {
		q = q.Raw("EXPLAIN " + inlined)
	}

	rows, err := q.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var lines []string
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// the plan text is the last column in both dialects
		switch v := vals[len(vals)-1].(type) {
		case []byte:
			lines = append(lines, string(v))
		default:
			lines = append(lines, fmt.Sprint(v))
		}
	}
	return lines, rows.Err()
}

// PlanCheck names one page shape to explain
type PlanCheck struct {
	Name    string
	Explain func(ctx context.Context) ([]Plan, error)
}

// CheckPlans explains every check and warns about statements that fall
// back to a full table scan, typically because KeysetIndexes failed.
// It returns the number of such statements.
func CheckPlans(ctx context.Context, log *zap.Logger, checks ...PlanCheck) int {
	if log == nil {
		log = zap.NewNop()
	}

	scans := 0
	for _, check := range checks {
		plans, err := check.Explain(ctx)
		if err != nil {
			log.Warn("Failed to explain keyset query", zap.String("check", check.Name), zap.Error(err))
			continue
		}
		for _, plan := range plans {
			if plan.FullScan() {
				scans++
				log.Warn("Keyset query scans the whole table",
					zap.String("check", check.Name),
					zap.String("statement", plan.Name),
					zap.String("sql", plan.SQL),
					zap.Strings("plan", plan.Lines),
				)
				continue
			}
			log.Debug("Keyset query plan",
				zap.String("check", check.Name),
				zap.String("statement", plan.Name),
				zap.Strings("plan", plan.Lines),
			)
		}
	}

	log.Info("Keyset query plans checked",
		zap.Int("checks", len(checks)),
		zap.Int("full_scans", scans),
	)
	return scans
}
