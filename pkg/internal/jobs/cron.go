// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/log"
	"github.com/greenparkpeyzaj/greenpark/pkg/scheduler"
)

// RegisterCronJobs 按配置注册业务定时任务：
//   - jobs.reconcile.cron 执行孤儿对象对账（默认每天 03:30）
func RegisterCronJobs(ctx context.Context, sched *scheduler.Scheduler, deps service.Deps, cfg configs.JobsConfig) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if !cfg.Enabled {
		return nil
	}

	if cfg.Reconcile.Enabled {
		svc := service.NewReconcileService(deps)
		if err := sched.AddCron(ctx, JobReconcileObjects, cfg.Reconcile.Cron, func(ctx context.Context) error {
			return RunReconcile(ctx, svc)
		}); err != nil {
			return err
		}
	}

	return nil
}

// RunReconcile 执行一次对账，供定时任务与命令行共用. 摘要由服务记录.
func RunReconcile(ctx context.Context, svc *service.ReconcileService) error {
	if _, err := svc.RunWithTimeout(ctx); err != nil {
		l := log.Component("jobs")
		l.Error().Err(err).Str("job", JobReconcileObjects).Msg("reconcile failed")

		return err
	}

	return nil
}
