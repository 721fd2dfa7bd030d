// Package app 提供应用程序的初始化和配置功能.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/greenparkpeyzaj/greenpark/pkg/api"
	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/jobs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage"
	"github.com/greenparkpeyzaj/greenpark/pkg/log"
	"github.com/greenparkpeyzaj/greenpark/pkg/metrics"
	"github.com/greenparkpeyzaj/greenpark/pkg/middleware"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
	"github.com/greenparkpeyzaj/greenpark/pkg/scheduler"
	"github.com/greenparkpeyzaj/greenpark/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

// Runtime 初始化完成的存储与业务依赖，HTTP 服务与命令行任务共用.
type Runtime struct {
	Config  *configs.AppConfig
	Manager *storage.Manager
	Deps    service.Deps
}

// Bootstrap 加载配置，初始化日志与存储，按配置执行表结构迁移.
func Bootstrap(ctx context.Context, configPath string) (*Runtime, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	log.Init()

	config := configs.GetConfig()

	generated, err := config.Auth.SecureSessionSecret(config.Server.Debug)
	if err != nil {
		return nil, err
	}

	switch {
	case generated:
		log.Logger().Warn().Msg("auth.session_secret is not set, using a random per-process secret; sessions end on restart")
	case config.Auth.UsesDevSecret():
		log.Logger().Warn().Msg("auth.session_secret uses the development default, do not expose this instance")
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	if config.DB.AutoMigrate {
		if err := manager.DB.AutoMigrate(model.All()...); err != nil {
			_ = manager.Close()

			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	return &Runtime{
		Config:  config,
		Manager: manager,
		Deps:    service.DepsFromContext(ctxPkg.WithStorageManager(ctx, manager)),
	}, nil
}

// App HTTP 服务及其后台组件.
type App struct {
	Engine    *gin.Engine
	runtime   *Runtime
	scheduler *scheduler.Scheduler
	config    *configs.AppConfig
}

// NewApp 初始化配置、追踪、监控、存储、定时任务与路由.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	rt, err := Bootstrap(ctx, configPath)
	if err != nil {
		return nil, err
	}

	config := rt.Config

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	sched, err := scheduler.NewScheduler(time.Local)
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if err := jobs.RegisterCronJobs(ctx, sched, rt.Deps, config.Jobs); err != nil {
		return nil, fmt.Errorf("register jobs: %w", err)
	}

	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	noGzip := []string{"/api/upload"}
	if config.Metrics.Path != "" {
		noGzip = append(noGzip, config.Metrics.Path)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = 8 << 20

	engine.Use(
		gin.Recovery(),
		middleware.TracingMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server, config.Auth),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(noGzip)),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(rt.Manager),
		middleware.SchedulerMiddleware(sched),
		middleware.LocaleMiddleware(),
		middleware.IdentityMiddleware(auth.NewResolver(config.Auth, rt.Deps.Tokens), config.Auth.SkipPaths),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
	)

	metrics.Mount(config.Metrics, engine)
	api.RegisterGroup(engine, rt.Deps, config)

	return &App{
		Engine:    engine,
		runtime:   rt,
		scheduler: sched,
		config:    config,
	}, nil
}

// Run 启动后台组件与 HTTP 服务，ctx 取消后优雅退出.
func (a *App) Run(ctx context.Context) error {
	l := log.Logger()

	if mq := a.runtime.Manager.MQ; mq != nil {
		if a.config.Events.Audit {
			queue.RegisterAudit(mq)
		}

		mq.Run(ctx)
	}

	a.scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", srv.Addr).Str("version", configs.AppVersion).Msg("http server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	var runErr error

	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http server shutdown")
	}

	if err := a.scheduler.Stop(); err != nil {
		l.Error().Err(err).Msg("scheduler shutdown")
	}

	if err := tracing.ShutdownTracer(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("tracer shutdown")
	}

	if err := a.runtime.Manager.Close(); err != nil {
		l.Error().Err(err).Msg("storage shutdown")
	}

	l.Info().Msg("server stopped")

	return runErr
}
