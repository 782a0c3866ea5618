package middleware

import (
	"strings"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/internal/service"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	authService *service.AuthService
}

func NewJWTMiddleware(authService *service.AuthService) *JWTMiddleware {
	return &JWTMiddleware{authService: authService}
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
// present reports whether any Authorization header was sent.
func bearerToken(c *gin.Context) (token string, present bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

// authenticate resolves the bearer token and stores the member on c.
// It writes the 401 itself and returns false on failure.
func (m *JWTMiddleware) authenticate(c *gin.Context, token string) bool {
	if token == "" {
		logger.GetLogger().Warn("Invalid Authorization header format",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
		abortWithError(c, apperrors.ErrInvalidToken, nil)
		return false
	}

	viewer, member, err := m.authService.Authenticate(c.Request.Context(), token)
	if err != nil {
		logger.GetLogger().Warn("Rejected bearer token",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("code", apperrors.GetErrorCode(err)),
			zap.Error(err))
		abortWithError(c, err, nil)
		return false
	}

	c.Set(constants.GinKeyMemberID, viewer.MemberID)
	c.Set(constants.GinKeyMemberName, member.Name)
	c.Set(constants.GinKeyPermissions, viewer.Permissions)
	c.Request = c.Request.WithContext(ctxutil.WithMember(
		c.Request.Context(), viewer.MemberID, member.Name, uint16(viewer.Permissions),
	))

	logger.GetLogger().Debug("Member authenticated",
		zap.Int64("member_id", viewer.MemberID),
		zap.String("path", c.Request.URL.Path))
	return true
}

// RequireAuth rejects requests without a valid bearer token
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortWithError(c, apperrors.ErrUnauthorized, nil)
			return
		}
		if !m.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad
// token, so a client never silently reads as anonymous.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		if !m.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// GetViewer returns the caller stored by the auth middleware. Requests
// that carried no token yield the anonymous viewer.
func GetViewer(c *gin.Context) service.Viewer {
	id, ok := c.Get(constants.GinKeyMemberID)
	if !ok {
		return service.Viewer{}
	}
	memberID, _ := id.(int64)
	perms, _ := c.Get(constants.GinKeyPermissions)
	permissions, _ := perms.(model.Permissions)
	return service.Viewer{MemberID: memberID, Permissions: permissions}
}

// GetMemberID returns the authenticated member id, if any
func GetMemberID(c *gin.Context) (int64, bool) {
	v := GetViewer(c)
	return v.MemberID, v.Authenticated()
}
