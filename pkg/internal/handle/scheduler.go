package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/middleware"
)

// SchedulerJobs 返回所有调度器任务信息.
//
//	@Summary	定时任务列表
//	@Tags		任务
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Router		/api/v1/admin/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusOK, gin.H{"jobs": []any{}, "waiting": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos(), "waiting": sched.JobsWaitingInQueue()})
}

// SchedulerRemoveJob 根据 id 删除任务.
//
//	@Summary	删除定时任务
//	@Tags		任务
//	@Produce	json
//	@Param		id	path		string	true	"任务 ID"
//	@Success	200	{object}	map[string]string
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/admin/jobs/{id} [delete]
func SchedulerRemoveJob(c *gin.Context) {
	raw := c.Param("id")

	sched := middleware.GetScheduler(c)
	if sched == nil {
		middleware.AbortWithError(c, errs.NotFoundf(i18n.MsgJobNotFound, raw))
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		middleware.AbortWithError(c, errs.Wrap(errs.KindInvalidRequest, i18n.MsgInvalidRequest, err))
		return
	}

	if err := sched.RemoveJob(id); err != nil {
		middleware.AbortWithError(c, errs.Wrap(errs.KindNotFound, i18n.MsgJobNotFound, err, raw))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job removed"})
}

// RunReconcile 立即执行一次孤儿对象对账并返回报告.
//
//	@Summary	执行孤儿对象对账
//	@Tags		任务
//	@Produce	json
//	@Success	200	{object}	types.ReconcileReport
//	@Failure	502	{object}	map[string]string
//	@Router		/api/v1/admin/jobs/reconcile [post]
func (h *Handlers) RunReconcile() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := h.reconcile.RunWithTimeout(c.Request.Context())
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}
