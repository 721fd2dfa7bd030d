// Package metrics 提供 Prometheus 指标：HTTP 请求、过程调用与上传结果.
//
// Example:
//
//	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeStored).Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 自动注册pprof端点
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

// 上传通道与结果标签.
const (
	ChannelDirect    = "direct"
	ChannelPresigned = "presigned"
	ChannelConfirm   = "confirm"

	OutcomeStored   = "stored"
	OutcomeReserved = "reserved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器，route 为路由模板.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenpark_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenpark_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ProcedureCalls 过程调用计数，code 为错误类别或 OK.
	ProcedureCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenpark_procedure_calls_total",
			Help: "Total number of procedure calls by result code",
		},
		[]string{"procedure", "code"},
	)

	// UploadCounter 上传结果计数.
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenpark_uploads_total",
			Help: "Upload attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	// OrphanObjects 最近一次对账发现的孤儿对象数.
	OrphanObjects = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "greenpark_orphan_objects",
			Help: "Orphaned objects found by the last reconcile run",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// InitMetrics 初始化Metrics，重复调用只注册一次.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	initOnce.Do(func() {
		if config.RuntimeMetrics {
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}

		registry.MustRegister(RequestCounter, RequestDuration, ProcedureCalls, UploadCounter, OrphanObjects)
	})

	return nil
}

// Mount 在 engine 上暴露 metrics 与可选的 pprof 端点.
func Mount(config configs.MetricsConfig, engine *gin.Engine) {
	if !config.Enabled {
		return
	}

	path := config.Path
	if path == "" {
		path = "/metrics"
	}

	// 同时输出 watermill 等注册到默认注册表的指标
	gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}
	engine.GET(path, gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
