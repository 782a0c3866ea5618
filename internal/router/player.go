package router

import "github.com/gin-gonic/gin"

func (r *Router) playerRoutes(version *gin.RouterGroup) {
	players := version.Group("/players")
	{
		players.GET("/", r.playerHandler.Paginate)
		players.GET("/:id", r.playerHandler.GetByID)
	}
}
