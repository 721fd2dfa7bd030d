package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

const timeout = 2 * time.Second

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// probe 执行单个组件的健康检查，checker 为 nil 表示未初始化.
func probe(c *gin.Context, component string, checker healthChecker, missing bool) {
	if missing {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Component: component, Status: "unhealthy", Error: component + " client not initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := checker.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Component: component, Status: "unhealthy", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.HealthResponse{Component: component, Status: "ok"})
}

// HealthDB 数据库健康检查.
//
//	@Summary	数据库健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/db [get]
func HealthDB(c *gin.Context) {
	dbc := ctxPkg.GetDBClient(c.Request.Context())
	probe(c, "db", dbc, dbc == nil || dbc.DB == nil)
}

// HealthS3 对象存储健康检查.
//
//	@Summary	对象存储健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/s3 [get]
func HealthS3(c *gin.Context) {
	s3c := ctxPkg.GetS3Client(c.Request.Context())
	probe(c, "s3", s3c, s3c == nil)
}

// HealthKV 键值存储健康检查.
//
//	@Summary	键值存储健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/kv [get]
func HealthKV(c *gin.Context) {
	kvc := ctxPkg.GetKVClient(c.Request.Context())
	probe(c, "kv", kvc, kvc == nil)
}

// HealthMQ 消息队列健康检查. 未启用事件时没有 MQ 客户端，视为正常.
//
//	@Summary	消息队列健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/mq [get]
func HealthMQ(c *gin.Context) {
	mqc := ctxPkg.GetMQClient(c.Request.Context())
	if mqc == nil {
		c.JSON(http.StatusOK, types.HealthResponse{Component: "mq", Status: "disabled"})
		return
	}

	probe(c, "mq", mqc, false)
}
