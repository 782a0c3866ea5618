package router

import "github.com/gin-gonic/gin"

// recordRoutes are readable anonymously; a token widens what is visible
func (r *Router) recordRoutes(version *gin.RouterGroup) {
	records := version.Group("/records")
	records.Use(r.jwtMw.OptionalAuth())
	{
		records.GET("/", r.recordHandler.Paginate)
		records.GET("/:id", r.recordHandler.GetByID)
	}
}
