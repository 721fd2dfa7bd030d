package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/scheduler"
)

type schedulerKey struct{}

// SchedulerMiddleware 将调度器注入到 request context，供任务管理接口使用.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sched != nil {
			c.Request = c.Request.WithContext(WithScheduler(c.Request.Context(), sched))
		}

		c.Next()
	}
}

// WithScheduler 把调度器写入 context.
func WithScheduler(ctx context.Context, sched *scheduler.Scheduler) context.Context {
	return context.WithValue(ctx, schedulerKey{}, sched)
}

// GetScheduler 从 context 中获取调度器，未注入时为 nil.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	if sched, ok := c.Request.Context().Value(schedulerKey{}).(*scheduler.Scheduler); ok {
		return sched
	}

	return nil
}
