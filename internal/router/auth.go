package router

import (
	"github.com/Payphone-Digital/demonlist/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		login := []gin.HandlerFunc{}
		if r.loginLimit != nil {
			login = append(login, r.loginLimit.Middleware())
		}
		login = append(login,
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.LoginRequest{} }),
			r.authHandler.Login,
		)
		auth.POST("/login", login...)

		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("/me", r.authHandler.Me)
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}
