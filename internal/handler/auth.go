package handler

import (
	"net/http"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/internal/dto"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/internal/middleware"
	"github.com/Payphone-Digital/demonlist/internal/service"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles member authentication. The body has already been decoded
// and validated by the validation middleware.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	req, ok := c.MustGet(constants.GinKeyRequestBody).(*dto.LoginRequest)
	if !ok {
		logger.ErrorWithContext(ctx, "Login body missing from context").Log()
		respondError(c, "Authentication failed", apperrors.ErrInternal)
		return
	}

	logger.InfoWithContext(ctx, "Member login attempt").
		String("name", req.Name).
		Log()

	response, err := h.authService.Login(ctx, req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("name", req.Name).
			Err(err).
			Log()
		respondError(c, "Authentication failed", err)
		return
	}

	logger.InfoWithContext(ctx, "Member logged in successfully").
		String("name", req.Name).
		Int64("member_id", response.Member.ID).
		Log()

	c.JSON(http.StatusOK, response)
}

// Me returns the authenticated member
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		respondError(c, "Unauthorized", apperrors.ErrUnauthorized)
		return
	}

	member, err := h.authService.Me(ctx, memberID)
	if err != nil {
		respondError(c, "Failed to load member", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(member))
}

// Logout invalidates every token of the authenticated member
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		logger.WarnWithContext(ctx, "Member not found in context during logout").Log()
		respondError(c, "Unauthorized", apperrors.ErrUnauthorized)
		return
	}

	if err := h.authService.Logout(ctx, memberID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to logout member").
			Int64("member_id", memberID).
			Err(err).
			Log()
		respondError(c, "Logout failed", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLogout))
}
