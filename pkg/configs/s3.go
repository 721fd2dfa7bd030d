package configs

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// S3Config MinIO S3存储配置.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"          rule:"required"`
	Port            int    `mapstructure:"port"              rule:"min=0,max=65535"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"       rule:"required"`
	Region          string `mapstructure:"region"`
	// PublicBaseURL 对外访问前缀（如 CDN），为空时由 endpoint 与 port 推导
	PublicBaseURL string `mapstructure:"public_base_url"`
}

const (
	DefaultS3Endpoint        = "localhost"        // 默认S3端点
	DefaultS3Port            = 9000               // 默认S3端口
	DefaultS3AccessKeyID     = "minioadmin"       // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"       // 默认秘密访问密钥
	DefaultS3UseSSL          = false              // 默认是否使用SSL
	DefaultS3BucketName      = "greenpark-images" // 默认存储桶名称
	DefaultS3Region          = "us-east-1"        // 默认区域
)

// HostPort 返回 minio 客户端使用的 host:port.
// endpoint 已带端口或 port 为 0 时原样返回.
func (c *S3Config) HostPort() string {
	endpoint := strings.TrimSuffix(c.Endpoint, "/")
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")

	if c.Port == 0 {
		return endpoint
	}

	if _, _, err := net.SplitHostPort(endpoint); err == nil {
		return endpoint
	}

	return net.JoinHostPort(endpoint, strconv.Itoa(c.Port))
}

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.HostPort())
}

// GetPublicBaseURL 返回对象公开访问地址的前缀（不含 bucket）.
func (c *S3Config) GetPublicBaseURL() string {
	if c.PublicBaseURL != "" {
		return strings.TrimSuffix(c.PublicBaseURL, "/")
	}

	return c.GetEndpointURL()
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.port", DefaultS3Port)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.public_base_url", "")
}
