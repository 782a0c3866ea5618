package service

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/demonlist/internal/dto"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/internal/repository"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseIDs(rows []dto.RecordResponse) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func newRecordService(t *testing.T) *RecordService {
	t.Helper()
	db := seedRecords(t)
	return NewRecordService(repository.NewRecordRepository(db), pagination.DefaultLimits(), metrics.New())
}

func TestRestrictVisibility(t *testing.T) {
	approved := model.RecordStatusApproved
	rejected := model.RecordStatusRejected
	helper := Viewer{MemberID: 1, Permissions: model.PermListHelper}

	tests := []struct {
		name       string
		viewer     Viewer
		filter     model.RecordFilter
		wantStatus *model.RecordStatus
		wantOK     bool
	}{
		{"anonymous without status", Viewer{}, model.RecordFilter{}, &approved, true},
		{"anonymous asking approved", Viewer{}, model.RecordFilter{Status: &approved}, &approved, true},
		{"anonymous asking rejected", Viewer{}, model.RecordFilter{Status: &rejected}, &rejected, false},
		{"member without access", Viewer{MemberID: 2}, model.RecordFilter{}, &approved, true},
		{"helper without status", helper, model.RecordFilter{}, nil, true},
		{"helper asking rejected", helper, model.RecordFilter{Status: &rejected}, &rejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := restrictVisibility(tt.viewer, tt.filter)
			if ok != tt.wantOK {
				t.Errorf("Expected ok %v, got %v", tt.wantOK, ok)
			}
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestRecordService_PaginateVisibility(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()

	page, err := svc.Paginate(ctx, Viewer{}, model.RecordFilter{}, pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5, 6}, responseIDs(page.Rows))
	for _, row := range page.Rows {
		assert.Nil(t, row.SubmitterID)
	}

	helper := Viewer{MemberID: 1, Permissions: model.PermListHelper}
	page, err = svc.Paginate(ctx, helper, model.RecordFilter{}, pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, responseIDs(page.Rows))
	require.NotNil(t, page.Rows[2].SubmitterID)
	assert.Equal(t, int64(7), *page.Rows[2].SubmitterID)
}

func TestRecordService_PaginateHiddenStatusIsEmpty(t *testing.T) {
	svc := newRecordService(t)
	rejected := model.RecordStatusRejected

	page, err := svc.Paginate(context.Background(), Viewer{MemberID: 3}, model.RecordFilter{Status: &rejected}, pagination.Request{})
	require.NoError(t, err)
	assert.NotNil(t, page.Rows)
	assert.Empty(t, page.Rows)
	assert.Equal(t, pagination.Links{}, page.Links)
}

func TestRecordService_PaginateLinks(t *testing.T) {
	svc := newRecordService(t)

	page, err := svc.Paginate(context.Background(), Viewer{}, model.RecordFilter{}, pagination.Request{
		After: ptr(int64(1)),
		Limit: ptr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, responseIDs(page.Rows))
	assert.Equal(t, pagination.Links{
		First: pagination.After(0),
		Prev:  pagination.Before(2),
		Next:  pagination.After(5),
		Last:  pagination.Before(7),
	}, page.Links)
}

func TestRecordService_PaginateRejectsBadRequests(t *testing.T) {
	svc := newRecordService(t)

	tests := []struct {
		name     string
		req      pagination.Request
		wantCode string
	}{
		{"both cursors", pagination.Request{Before: ptr(int64(5)), After: ptr(int64(1))}, apperrors.ErrAmbiguousCursor.Code},
		{"zero limit", pagination.Request{Limit: ptr(0)}, apperrors.ErrInvalidLimit.Code},
		{"limit over max", pagination.Request{Limit: ptr(101)}, apperrors.ErrInvalidLimit.Code},
		{"bad order", pagination.Request{Order: "sideways"}, apperrors.ErrInvalidInput.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Paginate(context.Background(), Viewer{}, model.RecordFilter{}, tt.req)
			require.Error(t, err)
			if got := apperrors.GetErrorCode(err); got != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, got)
			}
		})
	}
}

func TestRecordService_GetByID(t *testing.T) {
	svc := newRecordService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   Viewer
		id       int64
		wantCode string
	}{
		{"approved anonymous", Viewer{}, 1, ""},
		{"rejected anonymous", Viewer{}, 3, apperrors.ErrUnauthorized.Code},
		{"rejected member", Viewer{MemberID: 9}, 3, apperrors.ErrForbidden.Code},
		{"rejected helper", Viewer{MemberID: 9, Permissions: model.PermListModerator}, 3, ""},
		{"unknown", Viewer{}, 404, apperrors.ErrRecordNotFound.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.GetByID(ctx, tt.viewer, tt.id)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.id, rec.ID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetErrorCode(err))
		})
	}
}
