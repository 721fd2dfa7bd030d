package middleware

import (
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
)

const identityKey = "identity"

// GetIdentity 从 gin.Context 获取当前调用方，匿名时为 nil.
func GetIdentity(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok2 := v.(*auth.Identity); ok2 {
			return id
		}
	}
	// 回退到 request context
	return auth.FromContext(c.Request.Context())
}

// RequireTier 普通 HTTP 路由的权限守卫，判定交给 auth.Authorize.
// 失败时返回 {"error": 消息}，状态码由错误类别决定.
func RequireTier(tier auth.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(tier, GetIdentity(c)); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

// AbortWithError 以 {"error": 消息} 结束请求，消息按请求语言渲染.
func AbortWithError(c *gin.Context, err error) {
	e := errs.From(err)
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), gin.H{"error": e.Localize(ctxPkg.GetLocale(c.Request.Context()))})
}

// AbortWithStatus 以指定状态码和消息键结束请求.
func AbortWithStatus(c *gin.Context, status int, key string) {
	c.AbortWithStatusJSON(status, gin.H{"error": i18n.Message(requestLocale(c), key)})
}
