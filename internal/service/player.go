package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/demonlist/internal/dto"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/internal/repository"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"gorm.io/gorm"
)

const resourcePlayers = "players"

type PlayerService struct {
	repoPlayer *repository.PlayerRepository
	limits     pagination.Limits
	metrics    *metrics.Metrics
}

func NewPlayerService(repo *repository.PlayerRepository, limits pagination.Limits, m *metrics.Metrics) *PlayerService {
	return &PlayerService{
		repoPlayer: repo,
		limits:     limits,
		metrics:    m,
	}
}

func (s *PlayerService) Paginate(ctx context.Context, filter model.PlayerFilter, req pagination.Request) (*pagination.Page[dto.PlayerResponse], error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Paginate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	params, err := req.Params(s.limits)
	if err != nil {
		domainErr := invalidRequest(err)
		s.metrics.PageFailed(resourcePlayers, domainErr.Code)
		return nil, domainErr
	}

	page, err := s.repoPlayer.Paginate(ctx, filter, params)
	if err != nil {
		if domainErr, ok := paginationError(err); ok {
			s.metrics.PageFailed(resourcePlayers, domainErr.Code)
			return nil, domainErr
		}

		domainErr := storeError(ctx, err)
		logger.ErrorWithContext(ctx, "Failed to paginate players").
			Any("filter", filter).
			String("cursor", describeCursor(params)).
			Err(err).
			Log()
		s.metrics.PageFailed(resourcePlayers, domainErr.Code)
		return nil, domainErr
	}

	out := pagination.MapRows(page, dto.NewPlayerResponse)
	s.metrics.ObservePage(resourcePlayers, len(out.Rows), out.Links.Present()...)

	return out, nil
}

func (s *PlayerService) GetByID(ctx context.Context, id int64) (*dto.PlayerResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	player, err := s.repoPlayer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlayerNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to get player").
			Int64("player_id", id).
			Err(err).
			Log()
		return nil, storeError(ctx, err)
	}

	resp := dto.NewPlayerResponse(*player)
	return &resp, nil
}
