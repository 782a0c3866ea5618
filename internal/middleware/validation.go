package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// RegisterValidators installs the custom tags on gin's binding validator,
// so query DTOs bound with ShouldBindQuery can use them.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validation.Register(v)
}

type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware validates against the same binding tags gin uses
func NewValidationMiddleware() (*ValidationMiddleware, error) {
	validate := validator.New()
	validate.SetTagName("binding")
	if err := validation.Register(validate); err != nil {
		return nil, err
	}
	return &ValidationMiddleware{validate: validate}, nil
}

// ValidateRequestBody decodes the JSON body into factory() and validates
// it. The decoded value is stored under constants.GinKeyRequestBody and the
// body is restored for later readers.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
			if err != nil {
				logger.GetLogger().Error("Failed to read request body",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				abortWithError(c, apperrors.ErrInvalidInput, "failed to read request body")
				return
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()
		if err := json.Unmarshal(bodyBytes, request); err != nil {
			logger.GetLogger().Debug("JSON unmarshaling failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Int("body_size", len(bodyBytes)),
				zap.Error(err),
			)
			abortWithError(c, apperrors.ErrInvalidInput, "invalid JSON body")
			return
		}

		if err := m.validate.Struct(request); err != nil {
			messages := validation.Messages(err)
			if messages == nil {
				messages = []string{err.Error()}
			}

			logger.GetLogger().Warn("Request validation failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", messages),
				zap.Int("error_count", len(messages)),
			)
			abortWithError(c, apperrors.ErrInvalidInput, messages)
			return
		}

		c.Set(constants.GinKeyRequestBody, request)
		c.Next()
	}
}
