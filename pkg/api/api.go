// Package api 组合处理器与路由，对外只暴露一个注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/handle"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/router"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
)

// RegisterGroup 用给定依赖构造处理器，并把全部路由注册到 gin 引擎.
func RegisterGroup(e *gin.Engine, deps service.Deps, cfg *configs.AppConfig) *handle.Handlers {
	h := handle.New(deps)
	router.Register(e, h, cfg)

	return h
}
