// Package scheduler 提供定时任务调度功能，使用 gocron/v2 库.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// JobStatus 表示任务的状态类型.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled" // 任务已调度
	StatusRunning   JobStatus = "running"   // 任务正在运行
	StatusError     JobStatus = "error"     // 最近一次执行失败
)

// Job 任务函数，返回的错误记录到任务状态中.
type Job func(ctx context.Context) error

// JobInfo 表示定时任务的信息，用于接口展示和监控.
type JobInfo struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	CronExpr    string        `json:"cronExpr"`
	NextRun     time.Time     `json:"nextRun"`
	LastRun     time.Time     `json:"lastRun"`
	LastSuccess time.Time     `json:"lastSuccess"`
	LastElapsed time.Duration `json:"lastElapsed"`
	Runs        int           `json:"runs"`
	Status      JobStatus     `json:"status"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Scheduler 包装 gocron 调度器并维护任务状态. 同名任务不会重叠执行.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job // 以任务名称为键
	jobInfos  map[string]*JobInfo   // 以任务名称为键
	jobIDs    map[uuid.UUID]string  // 以任务ID为键，映射到名称
	mu        sync.RWMutex
	logger    zerolog.Logger
}

// NewScheduler 创建一个新的 Scheduler 实例，loc 为 cron 表达式的时区，nil 时使用本地时区.
func NewScheduler(loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		jobs:      make(map[string]gocron.Job),
		jobInfos:  make(map[string]*JobInfo),
		jobIDs:    make(map[uuid.UUID]string),
		logger:    log.Component("scheduler"),
	}, nil
}

// AddCron 添加一个基于 cron 表达式（5 段）的定时任务. ctx 作为每次执行的基础 context.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name %s already exists", name)
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.wrap(name, job), ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	nextRun, _ := j.NextRun()

	s.jobs[name] = j
	s.jobIDs[j.ID()] = name
	s.jobInfos[name] = &JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		NextRun:   nextRun,
		Status:    StatusScheduled,
		CreatedAt: time.Now(),
	}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("Added cron job")

	return nil
}

// wrap 记录执行状态并拦截 panic.
func (s *Scheduler) wrap(name string, job Job) func(ctx context.Context) {
	return func(ctx context.Context) {
		start := time.Now()
		s.setStatus(name, func(info *JobInfo) {
			info.Status = StatusRunning
			info.LastRun = start
		})

		var err error

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in job: %v", r)
			}

			s.finish(name, start, err)
		}()

		err = job(ctx)
	}
}

func (s *Scheduler) finish(name string, start time.Time, err error) {
	s.setStatus(name, func(info *JobInfo) {
		info.Runs++
		info.LastElapsed = time.Since(start)

		if j, ok := s.jobs[name]; ok {
			if next, nerr := j.NextRun(); nerr == nil {
				info.NextRun = next
			}
		}

		if err != nil {
			info.Status = StatusError
			info.Error = err.Error()

			return
		}

		info.Status = StatusScheduled
		info.Error = ""
		info.LastSuccess = time.Now()
	})

	if err != nil {
		s.logger.Error().Err(err).Str("job", name).Msg("Job failed")
	}
}

func (s *Scheduler) setStatus(name string, fn func(info *JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.jobInfos[name]; ok {
		fn(info)
	}
}

// RunNow 立即触发一次任务，不影响原有计划.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job with name %s does not exist", name)
	}

	return job.RunNow()
}

// GetJobInfoByName 通过名称获取任务信息的副本.
func (s *Scheduler) GetJobInfoByName(name string) (JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.jobInfos[name]
	if !exists {
		return JobInfo{}, fmt.Errorf("job with name %s does not exist", name)
	}

	return *info, nil
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Starting scheduler")
	s.scheduler.Start()
}

// Stop 停止调度器并等待执行中的任务结束.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")

	return s.scheduler.Shutdown()
}

// RemoveJob removes the job with the provided id.
func (s *Scheduler) RemoveJob(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, exists := s.jobIDs[id]
	if !exists {
		return fmt.Errorf("job with id %s does not exist", id)
	}

	if err := s.scheduler.RemoveJob(id); err != nil {
		return err
	}

	delete(s.jobs, name)
	delete(s.jobInfos, name)
	delete(s.jobIDs, id)

	s.logger.Info().Str("job", name).Msg("Removed job")

	return nil
}

// JobsWaitingInQueue number of jobs waiting in Queue.
func (s *Scheduler) JobsWaitingInQueue() int {
	return s.scheduler.JobsWaitingInQueue()
}

// GetJobInfos 返回所有定时任务的信息，按名称排序.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobInfos))
	for _, info := range s.jobInfos {
		jobs = append(jobs, *info)
	}

	slices.SortFunc(jobs, func(a, b JobInfo) int { return strings.Compare(a.Name, b.Name) })

	return jobs
}
