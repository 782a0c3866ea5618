package database

import (
	"context"
	"fmt"

	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is a reusable gorm query modifier
type Scope = func(*gorm.DB) *gorm.DB

// KeysetSource adapts a gorm model table to pagination.Source.
//
// Filter scopes are applied to both the window query and the extremal
// lookup. Preload scopes only decorate the window query.
type KeysetSource[T any] struct {
	DB      *gorm.DB
	Column  string
	Filter  []Scope
	Preload []Scope
	KeyOf   func(T) int64
}

var _ pagination.Source[struct{}] = (*KeysetSource[struct{}])(nil)

func (s *KeysetSource[T]) Key(row T) int64 {
	return s.KeyOf(row)
}

// windowQuery builds the bounded range query without running it
func (s *KeysetSource[T]) windowQuery(q *gorm.DB, w pagination.Window) *gorm.DB {
	q = q.Model(new(T)).Scopes(s.Filter...)
	if w.Bound != nil {
		op := ">"
		if w.Bound.Below {
			op = "<"
		}
		q = q.Where(fmt.Sprintf("%s %s ?", s.Column, op), w.Bound.Key)
	}
	return q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column, Raw: true}, Desc: w.Descending}).
		Limit(w.Limit)
}

func (s *KeysetSource[T]) extremesQuery(q *gorm.DB) *gorm.DB {
	return q.Model(new(T)).Scopes(s.Filter...).
		Select(fmt.Sprintf("MIN(%s) AS min_key, MAX(%s) AS max_key", s.Column, s.Column))
}

// Window runs the bounded range query
func (s *KeysetSource[T]) Window(ctx context.Context, w pagination.Window) ([]T, error) {
	rows := make([]T, 0, w.Limit)
	err := s.windowQuery(s.DB.WithContext(ctx), w).Scopes(s.Preload...).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Extremes runs MIN/MAX over the filtered set in one statement
func (s *KeysetSource[T]) Extremes(ctx context.Context) (pagination.Extremes, error) {
	var row struct {
		MinKey *int64
		MaxKey *int64
	}
	err := s.extremesQuery(s.DB.WithContext(ctx)).Scan(&row).Error
	if err != nil {
		return pagination.Extremes{}, err
	}
	return pagination.Extremes{Min: row.MinKey, Max: row.MaxKey}, nil
}
