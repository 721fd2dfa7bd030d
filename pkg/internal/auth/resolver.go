package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
)

// Resolver 从请求中解析调用方身份.
type Resolver interface {
	Resolve(r *http.Request) (*Identity, bool)
}

// ResolverFunc 函数适配器.
type ResolverFunc func(r *http.Request) (*Identity, bool)

// Resolve 实现 Resolver.
func (f ResolverFunc) Resolve(r *http.Request) (*Identity, bool) {
	return f(r)
}

// ChainResolver 依次尝试，返回第一个成功的结果.
type ChainResolver []Resolver

// Resolve 实现 Resolver.
func (c ChainResolver) Resolve(r *http.Request) (*Identity, bool) {
	for _, res := range c {
		if res == nil {
			continue
		}

		if id, ok := res.Resolve(r); ok {
			return id, true
		}
	}

	return nil, false
}

// bearer 返回 Authorization 头中的 Bearer 凭据.
func bearer(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}

	return strings.TrimSpace(h[7:])
}

// SessionResolver 校验 Cookie 或 Bearer 中的会话令牌.
type SessionResolver struct {
	Tokens     *TokenIssuer
	CookieName string
}

// Resolve 实现 Resolver. Cookie 优先，其次 Bearer.
func (s *SessionResolver) Resolve(r *http.Request) (*Identity, bool) {
	if s == nil || s.Tokens == nil {
		return nil, false
	}

	if s.CookieName != "" {
		if c, err := r.Cookie(s.CookieName); err == nil && c.Value != "" {
			if id, err := s.Tokens.Parse(c.Value); err == nil {
				return id, true
			}
		}
	}

	if tok := bearer(r); tok != "" && strings.Count(tok, ".") == 2 {
		if id, err := s.Tokens.Parse(tok); err == nil {
			return id, true
		}
	}

	return nil, false
}

// CredentialResolver 接受 "Authorization: Bearer <email>:<password>" 形式的管理员凭据.
// 未配置管理员密码时始终失败.
type CredentialResolver struct {
	Email    string
	Password string
	Name     string
}

// Resolve 实现 Resolver，比较使用常量时间.
func (c *CredentialResolver) Resolve(r *http.Request) (*Identity, bool) {
	if c == nil || c.Password == "" {
		return nil, false
	}

	tok := bearer(r)
	if tok == "" {
		return nil, false
	}

	if !c.Match(tok) {
		return nil, false
	}

	return c.Identity(), true
}

// Match 比较 "<email>:<password>".
func (c *CredentialResolver) Match(credential string) bool {
	want := c.Email + ":" + c.Password

	return subtle.ConstantTimeCompare([]byte(credential), []byte(want)) == 1
}

// Check 分别比较邮箱与密码.
func (c *CredentialResolver) Check(email, password string) bool {
	if c == nil || c.Password == "" {
		return false
	}

	return c.Match(email + ":" + password)
}

// Identity 返回配置管理员的身份.
func (c *CredentialResolver) Identity() *Identity {
	name := c.Name
	if name == "" {
		name = configs.DefaultAdminName
	}

	return &Identity{ID: AdminID, Email: c.Email, Name: name, Role: model.RoleAdmin}
}

// NewCredentialResolver 按配置构造管理员凭据解析器.
func NewCredentialResolver(cfg configs.AuthConfig) *CredentialResolver {
	return &CredentialResolver{Email: cfg.AdminEmail, Password: cfg.AdminPassword, Name: cfg.AdminName}
}

// NewResolver 按配置组合会话与凭据解析器.
func NewResolver(cfg configs.AuthConfig, tokens *TokenIssuer) Resolver {
	chain := ChainResolver{&SessionResolver{Tokens: tokens, CookieName: cfg.CookieName}}
	if cfg.AllowCredentialHeader {
		chain = append(chain, NewCredentialResolver(cfg))
	}

	return chain
}
