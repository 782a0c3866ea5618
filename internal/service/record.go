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

const resourceRecords = "records"

type RecordService struct {
	repoRecord *repository.RecordRepository
	limits     pagination.Limits
	metrics    *metrics.Metrics
}

func NewRecordService(repo *repository.RecordRepository, limits pagination.Limits, m *metrics.Metrics) *RecordService {
	return &RecordService{
		repoRecord: repo,
		limits:     limits,
		metrics:    m,
	}
}

// restrictVisibility limits callers without extended access to approved
// records. ok is false when the caller asked for a status it may not see.
func restrictVisibility(viewer Viewer, filter model.RecordFilter) (model.RecordFilter, bool) {
	if viewer.ExtendedAccess() {
		return filter, true
	}
	if filter.Status != nil && *filter.Status != model.RecordStatusApproved {
		return filter, false
	}

	approved := model.RecordStatusApproved
	filter.Status = &approved
	return filter, true
}

// Paginate returns one page of records visible to viewer.
func (s *RecordService) Paginate(ctx context.Context, viewer Viewer, filter model.RecordFilter, req pagination.Request) (*pagination.Page[dto.RecordResponse], error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Paginate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	params, err := req.Params(s.limits)
	if err != nil {
		domainErr := invalidRequest(err)
		logger.InfoWithContext(ctx, "Rejected record pagination request").
			String("code", domainErr.Code).
			Err(err).
			Log()
		s.metrics.PageFailed(resourceRecords, domainErr.Code)
		return nil, domainErr
	}

	visible, ok := restrictVisibility(viewer, filter)
	if !ok {
		logger.DebugWithContext(ctx, "Status not visible to caller, returning empty page").
			String("status", string(*filter.Status)).
			Log()
		s.metrics.ObservePage(resourceRecords, 0)
		return pagination.Empty[dto.RecordResponse](), nil
	}

	page, err := s.repoRecord.Paginate(ctx, visible, params)
	if err != nil {
		if domainErr, ok := paginationError(err); ok {
			s.metrics.PageFailed(resourceRecords, domainErr.Code)
			return nil, domainErr
		}

		domainErr := storeError(ctx, err)
		logger.ErrorWithContext(ctx, "Failed to paginate records").
			Any("filter", visible).
			String("cursor", describeCursor(params)).
			String("code", domainErr.Code).
			Err(err).
			Log()
		s.metrics.PageFailed(resourceRecords, domainErr.Code)
		return nil, domainErr
	}

	extended := viewer.ExtendedAccess()
	out := pagination.MapRows(page, func(rec model.Record) dto.RecordResponse {
		return dto.NewRecordResponse(rec, extended)
	})
	s.metrics.ObservePage(resourceRecords, len(out.Rows), out.Links.Present()...)

	return out, nil
}

// GetByID loads a single record. Records that are not approved need
// extended access: anonymous callers get ErrUnauthorized, members without
// the permission ErrForbidden.
func (s *RecordService) GetByID(ctx context.Context, viewer Viewer, id int64) (*dto.RecordResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	rec, err := s.repoRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to get record").
			Int64("record_id", id).
			Err(err).
			Log()
		return nil, storeError(ctx, err)
	}

	if rec.Status != model.RecordStatusApproved && !viewer.ExtendedAccess() {
		logger.InfoWithContext(ctx, "Denied access to unapproved record").
			Int64("record_id", id).
			Bool("authenticated", viewer.Authenticated()).
			Log()
		if !viewer.Authenticated() {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.ErrForbidden
	}

	resp := dto.NewRecordResponse(*rec, viewer.ExtendedAccess())
	return &resp, nil
}
