package service

import (
	"context"
	"strings"

	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// AccountService 注册、登录与个人资料.
type AccountService struct{ Deps }

func NewAccountService(d Deps) *AccountService { return &AccountService{d} }

func profileOf(u *model.User) types.Profile {
	return types.Profile{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Role: string(u.Role)}
}

func profileOfIdentity(id *auth.Identity) types.Profile {
	return types.Profile{ID: id.ID, Name: id.Name, Email: id.Email, Role: string(id.Role)}
}

// SignUp 创建普通用户. 邮箱已存在时返回 CONFLICT.
func (s *AccountService) SignUp(ctx context.Context, in types.SignUpInput) (types.SignUpOutput, error) {
	db := s.db(ctx)
	email := strings.TrimSpace(in.Email)

	var n int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return types.SignUpOutput{}, errs.Internal(err)
	}

	if n > 0 || strings.EqualFold(email, s.config().Auth.AdminEmail) {
		return types.SignUpOutput{}, errs.ConflictOf(i18n.MsgEmailTaken)
	}

	hash, err := auth.HashPassword(in.Password, s.config().Auth.BcryptCost)
	if err != nil {
		return types.SignUpOutput{}, errs.Internal(err)
	}

	user := model.User{Name: in.Name, Email: email, Password: hash, Role: model.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		return types.SignUpOutput{}, conflictAs(err, i18n.MsgEmailTaken, i18n.MsgUserNotFound)
	}

	return types.SignUpOutput{
		Success: true,
		Message: i18n.Message(ctxPkg.GetLocale(ctx), i18n.MsgSignedUp),
		User:    profileOf(&user),
	}, nil
}

// SignIn 先匹配配置的管理员，再校验用户表中的 bcrypt 哈希. 失败统一返回 UNAUTHENTICATED.
func (s *AccountService) SignIn(ctx context.Context, in types.SignInInput) (types.SessionOutput, error) {
	id, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return types.SessionOutput{}, err
	}

	token, exp, err := s.Tokens.Issue(id)
	if err != nil {
		return types.SessionOutput{}, errs.Internal(err)
	}

	return types.SessionOutput{Token: token, ExpiresAt: exp, User: s.profile(ctx, id)}, nil
}

// Authenticate 校验凭据并返回身份.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	admin := auth.NewCredentialResolver(s.config().Auth)
	if admin.Check(email, password) {
		return admin.Identity(), nil
	}

	var user model.User

	err := s.db(ctx).Where("email = ?", strings.TrimSpace(email)).Limit(1).Find(&user).Error
	if err != nil {
		return nil, errs.Internal(err)
	}

	if user.ID == "" || !auth.CheckPassword(user.Password, password) {
		return nil, errs.New(errs.KindUnauthenticated, i18n.MsgInvalidCredentials)
	}

	return &auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

// profile 普通用户读取最新资料，管理员使用身份本身.
func (s *AccountService) profile(ctx context.Context, id *auth.Identity) types.Profile {
	if id.ID == auth.AdminID {
		return profileOfIdentity(id)
	}

	var user model.User
	if err := s.db(ctx).Where("id = ?", id.ID).Limit(1).Find(&user).Error; err != nil || user.ID == "" {
		return profileOfIdentity(id)
	}

	return profileOf(&user)
}

// GetMe 当前调用方的资料.
func (s *AccountService) GetMe(ctx context.Context, _ struct{}) (types.Profile, error) {
	id := auth.FromContext(ctx)
	if id == nil {
		return types.Profile{}, errs.New(errs.KindUnauthenticated, i18n.MsgUnauthenticated)
	}

	if id.ID == auth.AdminID {
		return profileOfIdentity(id), nil
	}

	var user model.User
	if err := s.db(ctx).Where("id = ?", id.ID).First(&user).Error; err != nil {
		return types.Profile{}, dbErr(err, i18n.MsgUserNotFound)
	}

	return profileOf(&user), nil
}

// UpdateProfile 只更新提供的字段. 配置管理员没有用户行，返回 NOT_FOUND.
func (s *AccountService) UpdateProfile(ctx context.Context, in types.UpdateProfileInput) (types.ProfileOutput, error) {
	id := auth.FromContext(ctx)
	if id == nil {
		return types.ProfileOutput{}, errs.New(errs.KindUnauthenticated, i18n.MsgUnauthenticated)
	}

	db := s.db(ctx)

	var user model.User
	if err := db.Where("id = ?", id.ID).First(&user).Error; err != nil {
		return types.ProfileOutput{}, dbErr(err, i18n.MsgUserNotFound)
	}

	changes := map[string]any{}
	setIf(changes, "name", in.Name)
	setIf(changes, "avatar", in.Avatar)

	if len(changes) > 0 {
		if err := db.Model(&user).Updates(changes).Error; err != nil {
			return types.ProfileOutput{}, errs.Internal(err)
		}

		if err := db.Where("id = ?", id.ID).First(&user).Error; err != nil {
			return types.ProfileOutput{}, dbErr(err, i18n.MsgUserNotFound)
		}
	}

	return types.ProfileOutput{
		Success: true,
		Message: i18n.Message(ctxPkg.GetLocale(ctx), i18n.MsgProfileUpdated),
		User:    profileOf(&user),
	}, nil
}
