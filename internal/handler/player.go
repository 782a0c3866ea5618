package handler

import (
	"net/http"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/internal/dto"
	"github.com/Payphone-Digital/demonlist/internal/service"
	ctxutil "github.com/Payphone-Digital/demonlist/pkg/context"
	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *service.PlayerService
	links         *Links
}

func NewPlayerHandler(playerService *service.PlayerService, links *Links) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		links:         links,
	}
}

// Paginate handles GET /players/
func (h *PlayerHandler) Paginate(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "PaginatePlayers")

	var query dto.PlayerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	page, err := h.playerService.Paginate(ctx, query.Filter(), query.Request)
	if err != nil {
		respondError(c, "Failed to list players", err)
		return
	}

	writePage(c, h.links, page)
}

// GetByID handles GET /players/:id
func (h *PlayerHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetPlayer")

	id, ok := pathID(c)
	if !ok {
		return
	}

	player, err := h.playerService.GetByID(ctx, id)
	if err != nil {
		respondError(c, "Failed to get player", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse(player))
}
