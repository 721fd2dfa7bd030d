package model

// Role 用户角色.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User 账户. 密码哈希不参与序列化.
type User struct {
	Base

	Name     string  `gorm:"size:255;not null"             json:"name"`
	Email    string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string  `gorm:"size:255;not null"             json:"-"`
	Avatar   *string `gorm:"size:1024"                     json:"avatar"`
	Role     Role    `gorm:"size:16;not null;default:USER" json:"role"`
}
