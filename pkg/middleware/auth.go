package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
)

// IdentityMiddleware 解析调用方身份并写入 request context. 解析失败视为匿名，
// 是否放行由过程路由或 RequireTier 决定.
//   - 支持通过配置跳过某些路径（如 /metrics, /api/v1/health）
func IdentityMiddleware(res auth.Resolver, skipPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if res == nil || isSkippedPath(c.Request.URL.Path, skipPaths) {
			c.Next()
			return
		}

		if id, ok := res.Resolve(c.Request); ok {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
			c.Set(identityKey, id)
		}

		c.Next()
	}
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
