package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"github.com/Payphone-Digital/demonlist/pkg/validation"
	"github.com/gin-gonic/gin"
)

// respondError writes the coded error envelope for err
func respondError(c *gin.Context, message string, err error) {
	c.JSON(apperrors.ToHTTPStatus(err), constants.BuildCodedErrorResponse(
		message,
		apperrors.GetErrorCode(err),
		apperrors.GetErrorMessage(err),
	))
}

// respondBindError reports a query string that could not be bound.
// Validator failures list one message per field.
func respondBindError(ctx context.Context, c *gin.Context, err error) {
	logger.InfoWithContext(ctx, "Invalid query string").
		String("query", c.Request.URL.RawQuery).
		Err(err).
		Log()

	var details any = err.Error()
	if messages := validation.Messages(err); messages != nil {
		details = messages
	}
	c.JSON(http.StatusBadRequest, constants.BuildCodedErrorResponse(
		apperrors.ErrInvalidFilter.Message,
		apperrors.ErrInvalidFilter.Code,
		details,
	))
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, constants.BuildCodedErrorResponse(
			constants.MsgBadRequest,
			apperrors.ErrInvalidInput.Code,
			"id must be a positive integer",
		))
		return 0, false
	}
	return id, true
}

// Links resolves page links against the public base URL, keeping the
// request's own query so filters and limit carry over.
type Links struct {
	base *url.URL
}

// NewLinks uses baseURL as scheme and host for rendered links. An empty
// baseURL renders links relative to the request host.
func NewLinks(baseURL string) (*Links, error) {
	if baseURL == "" {
		return &Links{}, nil
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	return &Links{base: u}, nil
}

func (l *Links) requestURL(c *gin.Context) *url.URL {
	u := &url.URL{Path: c.Request.URL.Path, RawQuery: c.Request.URL.RawQuery}
	if l != nil && l.base != nil {
		u.Scheme = l.base.Scheme
		u.Host = l.base.Host
		u.Path = l.base.Path + c.Request.URL.Path
		return u
	}

	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	u.Host = c.Request.Host
	return u
}

// writePage renders rows with links in the body and the Link header
func writePage[T any](c *gin.Context, l *Links, page *pagination.Page[T]) {
	u := l.requestURL(c)
	if header := page.Links.Header(u); header != "" {
		c.Header(constants.HeaderLink, header)
	}
	c.JSON(http.StatusOK, constants.BuildPageResponse(page.Rows, page.Links.URLs(u)))
}
