// Package auth 解析调用方身份并按三级权限判定是否放行.
//
// 身份来源通过 Resolver 注入（会话令牌、管理员凭据或二者组合），
// 过程路由与 HTTP 中间件都只通过 Authorize 判定权限.
package auth

import (
	"context"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
)

// AdminID 配置管理员的固定身份标识，该身份在 users 表中没有对应行.
const AdminID = "admin"

// Identity 已解析的调用方.
type Identity struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
}

// IsAdmin 是否管理员.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// Tier 过程的权限级别.
type Tier int

const (
	// Public 无需身份.
	Public Tier = iota
	// Protected 需要任意已认证身份.
	Protected
	// Admin 需要管理员身份.
	Admin
)

// String 返回级别名称.
func (t Tier) String() string {
	switch t {
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// Authorize 判定身份是否满足级别. 无身份返回 UNAUTHENTICATED，角色不足返回 FORBIDDEN.
func Authorize(tier Tier, id *Identity) error {
	switch tier {
	case Public:
		return nil
	case Protected:
		if id == nil {
			return errs.New(errs.KindUnauthenticated, i18n.MsgUnauthenticated)
		}

		return nil
	default:
		if id == nil {
			return errs.New(errs.KindUnauthenticated, i18n.MsgUnauthenticated)
		}

		if !id.IsAdmin() {
			return errs.New(errs.KindForbidden, i18n.MsgForbidden)
		}

		return nil
	}
}

type identityKey struct{}

// WithIdentity 把身份写入 context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	if id == nil {
		return ctx
	}

	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext 读取身份，未认证时返回 nil.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)

	return id
}
