package handler

import (
	"net/http"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/internal/dto"
	"github.com/Payphone-Digital/demonlist/internal/middleware"
	"github.com/Payphone-Digital/demonlist/internal/service"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	recordService *service.RecordService
	links         *Links
}

func NewRecordHandler(recordService *service.RecordService, links *Links) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		links:         links,
	}
}

// Paginate handles GET /records/
func (h *RecordHandler) Paginate(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "PaginateRecords")

	var query dto.RecordQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	viewer := middleware.GetViewer(c)
	page, err := h.recordService.Paginate(ctx, viewer, query.Filter(), query.Request)
	if err != nil {
		respondError(c, "Failed to list records", err)
		return
	}

	logger.DebugWithContext(ctx, "Records page served").
		Int("rows", len(page.Rows)).
		Bool("extended_access", viewer.ExtendedAccess()).
		Log()

	writePage(c, h.links, page)
}

// GetByID handles GET /records/:id
func (h *RecordHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetRecord")

	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.recordService.GetByID(ctx, middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, "Failed to get record", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(record))
}
