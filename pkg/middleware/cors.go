package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

// CORSMiddleware CORS中间件，预检请求返回 200.
func CORSMiddleware(cfg configs.ServerConfig, authCfg configs.AuthConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "Accept-Language", "If-None-Match")
	config.ExposeHeaders = []string{"ETag", "Content-Language"}
	config.OptionsResponseStatusCode = http.StatusOK

	if len(cfg.AllowOrigins) > 0 {
		config.AllowOrigins = cfg.AllowOrigins
		// 会话 Cookie 只在明确的来源下允许携带
		config.AllowCredentials = authCfg.CookieName != ""
	} else {
		config.AllowAllOrigins = true
	}

	return cors.New(config)
}
