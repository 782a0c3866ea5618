package middleware

import (
	"github.com/Payphone-Digital/demonlist/internal/constants"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/gin-gonic/gin"
)

// abortWithError writes the error envelope for err and stops the chain
func abortWithError(c *gin.Context, err error, details any) {
	if details == nil {
		details = apperrors.GetErrorMessage(err)
	}
	c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err), constants.BuildCodedErrorResponse(
		apperrors.GetErrorMessage(err),
		apperrors.GetErrorCode(err),
		details,
	))
}
