package configs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAdminEmail = "admin@greenparkpeyzaj.com"
	DefaultCookieName = "admin-session"
	DefaultSessionTTL = 7 * 24 * time.Hour
	DefaultBcryptCost = 12
	DefaultAdminName  = "Admin"
	defaultDevSecret  = "greenpark-dev-secret"

	generatedSecretBytes = 32
)

// AuthConfig 控制调用方身份解析：会话令牌（Cookie 或 Bearer）与管理员凭据.
type AuthConfig struct {
	AdminEmail    string        `mapstructure:"admin_email"    rule:"required,email"`
	AdminPassword string        `mapstructure:"admin_password"`
	AdminName     string        `mapstructure:"admin_name"`
	SessionSecret string        `mapstructure:"session_secret" rule:"required"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"    rule:"min=4,max=31"`
	// AllowCredentialHeader 允许 "Authorization: Bearer email:password" 形式的管理员凭据
	AllowCredentialHeader bool `mapstructure:"allow_credential_header"`
	// SkipPaths 不解析身份的路径前缀
	SkipPaths []string `mapstructure:"skip_paths"`
}

// UsesDevSecret 是否仍在使用默认开发密钥.
func (c *AuthConfig) UsesDevSecret() bool {
	return c.SessionSecret == defaultDevSecret
}

// SecureSessionSecret 默认开发密钥只在调试模式下保留，其余情况换成进程内随机密钥.
// 返回是否发生了替换；替换后已签发的会话在重启时全部失效.
func (c *AuthConfig) SecureSessionSecret(debug bool) (bool, error) {
	if debug || !c.UsesDevSecret() {
		return false, nil
	}

	buf := make([]byte, generatedSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("generate session secret: %w", err)
	}

	c.SessionSecret = hex.EncodeToString(buf)

	return true, nil
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.admin_email", DefaultAdminEmail)
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.admin_name", DefaultAdminName)
	v.SetDefault("auth.session_secret", defaultDevSecret)
	v.SetDefault("auth.session_ttl", DefaultSessionTTL)
	v.SetDefault("auth.cookie_name", DefaultCookieName)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth.allow_credential_header", true)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}
