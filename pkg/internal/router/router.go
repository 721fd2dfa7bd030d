// Package router 管理路由配置，把处理器绑定到 gin 引擎.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/handle"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/rpc"
	"github.com/greenparkpeyzaj/greenpark/pkg/middleware"
)

// Routes 定义由应用层注入的具体请求处理器. router 包只负责将路径和处理器绑定到 gin 引擎，
// 处理器的实现由 pkg/internal/handle 提供.
type Routes interface {
	Procedures() *rpc.Router
	DirectUpload() gin.HandlerFunc
	Login() gin.HandlerFunc
	Logout() gin.HandlerFunc
	RunReconcile() gin.HandlerFunc
}

// Register 绑定全部路由：
//
//	GET|POST /api/trpc/:procedure        -> 过程路由
//	POST     /api/upload                 -> 代理上传
//	POST     /api/auth/login|logout      -> 会话 Cookie
//	GET      /api/v1/health/{db,s3,kv,mq}
//	/api/v1/admin/jobs...                -> 定时任务（管理员）
func Register(e *gin.Engine, h Routes, cfg *configs.AppConfig) {
	api := e.Group("/api")

	h.Procedures().Mount(api, "/trpc")

	RegisterUploadRoute(api, h, cfg.Upload.Direct)
	RegisterSessionRoutes(api, h)

	v1 := api.Group("/v1")
	RegisterHealthCheckRoute(v1)

	admin := v1.Group("/admin", middleware.RequireTier(auth.Admin))
	RegisterSchedulerRoutes(admin, h)

	RegisterSwaggerRoute(e, cfg.Server)
}

// RegisterUploadRoute 注册代理上传. require_auth 为 false 时允许匿名上传.
func RegisterUploadRoute(g *gin.RouterGroup, h Routes, policy configs.DirectUploadConfig) {
	upload := g.Group("/upload")

	upload.OPTIONS("", handle.DirectUploadOptions)

	if policy.RequireAuth {
		upload.POST("", middleware.RequireTier(auth.Protected), h.DirectUpload())
	} else {
		upload.POST("", h.DirectUpload())
	}
}

// RegisterSessionRoutes 注册登录与退出.
func RegisterSessionRoutes(g *gin.RouterGroup, h Routes) {
	sessions := g.Group("/auth")
	{
		sessions.POST("/login", h.Login())
		sessions.POST("/logout", h.Logout())
	}
}
