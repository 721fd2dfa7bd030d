package types

import "time"

// SignUpInput 注册.
type SignUpInput struct {
	Name     string `json:"name"     rule:"required,min=2" msg:"field_name_min"`
	Email    string `json:"email"    rule:"required,email" msg:"field_email_invalid"`
	Password string `json:"password" rule:"required,min=6" msg:"field_password_min"`
}

// SignInInput 登录.
type SignInInput struct {
	Email    string `json:"email"    rule:"required,email" msg:"field_email_invalid"`
	Password string `json:"password" rule:"required,min=6" msg:"field_password_min"`
}

// UpdateProfileInput 更新个人资料.
type UpdateProfileInput struct {
	Name   *string `json:"name"   rule:"omitempty,min=2" msg:"field_name_min"`
	Avatar *string `json:"avatar" rule:"omitempty,url"   msg:"field_url_invalid"`
}

// Profile 对外展示的账户信息.
type Profile struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
}

// SessionOutput 登录结果.
type SessionOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Profile   `json:"user"`
}

// SignUpOutput 注册结果.
type SignUpOutput struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

// ProfileOutput 资料更新结果.
type ProfileOutput struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	User    Profile `json:"user"`
}
