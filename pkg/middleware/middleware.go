// Package middleware 提供 gin 中间件：访问日志、CORS、追踪、监控、限流、熔断、身份与语言.
package middleware

import (
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
)

// LocaleMiddleware 按 Accept-Language 选择消息语言，未匹配时使用土耳其语.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.LocaleFromHeader(c.GetHeader("Accept-Language"))
		if q := c.Query("lang"); q != "" {
			locale = i18n.Normalize(q)
		}

		c.Request = c.Request.WithContext(ctxPkg.WithLocale(c.Request.Context(), locale))
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// requestLocale 读取已选定的语言；在 LocaleMiddleware 之前运行的中间件直接解析请求头.
func requestLocale(c *gin.Context) string {
	if l := ctxPkg.GetLocale(c.Request.Context()); l != "" {
		return l
	}

	return i18n.LocaleFromHeader(c.GetHeader("Accept-Language"))
}

// hasPathPrefix path 命中任一前缀时返回 true；prefixes 为空表示全部命中.
func hasPathPrefix(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}

	return isSkippedPath(path, prefixes)
}
