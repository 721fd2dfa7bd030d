// Package handle 提供请求处理器的实现：过程路由、代理上传、会话、健康检查与任务管理.
package handle

import (
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/rpc"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
)

// Handlers 持有业务服务，由应用层注入依赖后交给 router 绑定路径.
type Handlers struct {
	deps service.Deps

	uploads   *service.UploadService
	accounts  *service.AccountService
	reconcile *service.ReconcileService

	procedures *rpc.Router
}

// New 使用共享依赖构造全部处理器与过程路由.
func New(d service.Deps) *Handlers {
	h := &Handlers{
		deps:      d,
		uploads:   service.NewUploadService(d),
		accounts:  service.NewAccountService(d),
		reconcile: service.NewReconcileService(d),
	}
	h.procedures = h.buildProcedures()

	return h
}

// Procedures 返回已注册全部过程的路由.
func (h *Handlers) Procedures() *rpc.Router {
	return h.procedures
}
