package api

import (
	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
)

// Handlers 汇总全部路由处理器。
type Handlers struct {
	Auth         *AuthHandler
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Ws           *WsHandler
}

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
// authenticate 解析 Bearer 凭证；匿名请求也会经过它。
func RegisterRoutes(router *gin.Engine, h Handlers, authenticate gin.HandlerFunc) {
	requirePrincipal := middleware.RequirePrincipal()

	v1 := router.Group("/v1")
	{
		if h.Ws != nil {
			v1.GET("/ws", h.Ws.HandleConnection)
		}

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.GET("/me", authenticate, requirePrincipal, h.Auth.Me)
		}

		jobGroup := v1.Group("/jobs")
		jobGroup.Use(authenticate)
		{
			jobGroup.GET("", h.Jobs.List)
			jobGroup.GET("/search", h.Jobs.Search)
			jobGroup.GET("/mine", requirePrincipal, h.Jobs.Mine)
			jobGroup.GET("/:id", h.Jobs.Get)
			jobGroup.POST("", requirePrincipal, h.Jobs.Create)
			jobGroup.PUT("/:id", requirePrincipal, h.Jobs.Update)
			jobGroup.DELETE("/:id", requirePrincipal, h.Jobs.Delete)
		}

		appGroup := v1.Group("/applications")
		appGroup.Use(authenticate, requirePrincipal)
		{
			appGroup.GET("", h.Applications.Mine)
			appGroup.POST("/:id", h.Applications.Apply)
			appGroup.GET("/job/:id", h.Applications.ForJob)
			appGroup.PUT("/:id/status", h.Applications.UpdateStatus)
		}
	}
}
