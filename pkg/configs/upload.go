package configs

import (
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultDirectMaxSize    = 5 * 1024 * 1024  // 直传通道 5MiB
	DefaultPresignedMaxSize = 10 * 1024 * 1024 // 预签名通道 10MiB
	DefaultPresignExpiry    = 24 * time.Hour
	// DefaultReservationSlack 预留记录在签名过期后继续保留的时间.
	DefaultReservationSlack = time.Hour
)

// UploadConfig 两条上传通道的策略.
type UploadConfig struct {
	Direct    DirectUploadConfig    `mapstructure:"direct"`
	Presigned PresignedUploadConfig `mapstructure:"presigned"`
}

// DirectUploadConfig 经由服务端转发的 multipart 上传.
type DirectUploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"      rule:"min=1"`
	AllowedTypes []string `mapstructure:"allowed_types" rule:"min=1"`
	RequireAuth  bool     `mapstructure:"require_auth"`
}

// PresignedUploadConfig 预签名直传对象存储的两阶段上传.
type PresignedUploadConfig struct {
	MaxSize          int64         `mapstructure:"max_size"          rule:"min=1"`
	AllowedTypes     []string      `mapstructure:"allowed_types"     rule:"min=1"`
	Expiry           time.Duration `mapstructure:"expiry"`
	ReservationSlack time.Duration `mapstructure:"reservation_slack"`
	VerifyOnConfirm  bool          `mapstructure:"verify_on_confirm"`
}

// Allows 判断 MIME 类型是否在白名单中（大小写不敏感）.
func (c *DirectUploadConfig) Allows(mime string) bool {
	return allowsType(c.AllowedTypes, mime)
}

// Allows 判断 MIME 类型是否在白名单中（大小写不敏感）.
func (c *PresignedUploadConfig) Allows(mime string) bool {
	return allowsType(c.AllowedTypes, mime)
}

// ReservationLifetime 预留记录在 KV 中的存活时间.
func (c *PresignedUploadConfig) ReservationLifetime() time.Duration {
	return c.Expiry + c.ReservationSlack
}

func allowsType(allowed []string, mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))

	return slices.ContainsFunc(allowed, func(t string) bool {
		return strings.EqualFold(t, mime)
	})
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.direct.max_size", DefaultDirectMaxSize)
	v.SetDefault("upload.direct.allowed_types", []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp",
	})
	v.SetDefault("upload.direct.require_auth", true)

	v.SetDefault("upload.presigned.max_size", DefaultPresignedMaxSize)
	v.SetDefault("upload.presigned.allowed_types", []string{
		"image/jpeg", "image/png", "image/webp", "image/gif",
	})
	v.SetDefault("upload.presigned.expiry", DefaultPresignExpiry)
	v.SetDefault("upload.presigned.reservation_slack", DefaultReservationSlack)
	v.SetDefault("upload.presigned.verify_on_confirm", false)
}
