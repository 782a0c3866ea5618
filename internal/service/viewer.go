package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
)

// Viewer is the caller a read is performed for. The zero value is an
// anonymous caller.
type Viewer struct {
	MemberID    int64
	Permissions model.Permissions
}

func (v Viewer) Authenticated() bool {
	return v.MemberID != 0
}

// ExtendedAccess allows reading records that are not approved
func (v Viewer) ExtendedAccess() bool {
	return v.Permissions.ExtendedAccess()
}

// paginationError maps pagination validation failures onto domain errors.
// ok is false when err is not a validation failure.
func paginationError(err error) (domainErr *apperrors.DomainError, ok bool) {
	var ve *pagination.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}

	switch {
	case errors.Is(err, pagination.ErrAmbiguousCursor):
		return apperrors.WrapError(apperrors.ErrAmbiguousCursor, err), true
	case errors.Is(err, pagination.ErrInvalidLimit):
		return apperrors.WithMessage(apperrors.ErrInvalidLimit, ve.Reason, err), true
	case errors.Is(err, pagination.ErrInvalidOrder):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, ve.Reason, err), true
	default:
		return apperrors.WrapError(apperrors.ErrInvalidInput, err), true
	}
}

// invalidRequest is paginationError for errors known to come from request validation
func invalidRequest(err error) *apperrors.DomainError {
	if domainErr, ok := paginationError(err); ok {
		return domainErr
	}
	return apperrors.WrapError(apperrors.ErrInvalidInput, err)
}

// storeError classifies a failed read. Deadline expiry surfaces as
// unavailability; everything else is a database error.
func storeError(ctx context.Context, err error) *apperrors.DomainError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	return apperrors.WrapError(apperrors.ErrDatabase, err)
}

func describeCursor(p pagination.Params) string {
	return fmt.Sprintf("%s limit=%d order=%s", p.Cursor, p.Limit, p.Order)
}
