package router

import (
	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册定时任务相关路由，调用方负责权限守卫.
func RegisterSchedulerRoutes(g *gin.RouterGroup, h Routes) {
	jobs := g.Group("/jobs")
	{
		jobs.GET("", handle.SchedulerJobs)
		jobs.POST("/reconcile", h.RunReconcile())
		jobs.DELETE("/:id", handle.SchedulerRemoveJob)
	}
}
