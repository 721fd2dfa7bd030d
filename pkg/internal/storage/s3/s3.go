// Package s3 处理 S3 兼容对象存储（MinIO）的操作.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/singleflight"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// ObjectStore 是业务用到的 minio 方法子集，*minio.Client 直接满足该接口.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
}

var _ ObjectStore = (*minio.Client)(nil)

// Client 包装对象存储并绑定唯一的业务 bucket.
type Client struct {
	ObjectStore

	cfg    configs.S3Config
	ensure singleflight.Group
}

// New 按全局配置创建 MinIO 客户端. bucket 在第一次上传时按需创建.
func New(_ context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3

	// 允许 endpoint 带 scheme
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		cfg.Endpoint = u.Hostname()
		if port, err := strconv.Atoi(u.Port()); err == nil {
			cfg.Port = port
		}

		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(cfg.HostPort(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo(configs.AppName, configs.AppVersion)

	nlog.Logger().Info().
		Str("endpoint", cfg.GetEndpointURL()).
		Str("bucket", cfg.BucketName).
		Msg("s3 client created")

	return NewWithStore(cli, cfg), nil
}

// NewWithStore 用任意 ObjectStore 构造客户端，测试中传入内存实现.
func NewWithStore(store ObjectStore, cfg configs.S3Config) *Client {
	return &Client{ObjectStore: store, cfg: cfg}
}

// Bucket 返回业务 bucket 名称.
func (c *Client) Bucket() string {
	return c.cfg.BucketName
}

// Config 返回客户端使用的配置副本.
func (c *Client) Config() configs.S3Config {
	return c.cfg
}

// PublicURL 构造对象的公开访问地址：<base>/<bucket>/<key>.
func (c *Client) PublicURL(key string) string {
	return c.cfg.GetPublicBaseURL() + "/" + c.cfg.BucketName + "/" + key
}

// KeyFromURL 从公开地址中还原对象键，不属于本 bucket 时返回 false.
func (c *Client) KeyFromURL(raw string) (string, bool) {
	prefix := c.cfg.GetPublicBaseURL() + "/" + c.cfg.BucketName + "/"
	if strings.HasPrefix(raw, prefix) {
		return strings.TrimPrefix(raw, prefix), true
	}

	// 公开前缀变更过的历史地址：按路径中的 /<bucket>/ 段识别
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	marker := "/" + c.cfg.BucketName + "/"
	if i := strings.Index(u.Path, marker); i >= 0 {
		key := u.Path[i+len(marker):]

		return key, key != ""
	}

	return "", false
}

// PublicReadPolicy 返回只允许匿名 GetObject 的 bucket 策略.
func PublicReadPolicy(bucket string) string {
	return `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},` +
		`"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::` + bucket + `/*"]}]}`
}

// EnsureBucket 确保业务 bucket 存在；新建时附加公开读策略.
// 并发的首次调用合并为一次请求；已存在时不再校验策略.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err, _ := c.ensure.Do(c.cfg.BucketName, func() (any, error) {
		return nil, c.ensureBucket(ctx)
	})

	return err
}

func (c *Client) ensureBucket(ctx context.Context) error {
	bucket := c.cfg.BucketName

	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}

	if exists {
		return nil
	}

	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
		// 其他实例抢先创建，视为成功
		if isBucketExistsErr(err) {
			return nil
		}

		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}

	if err := c.SetBucketPolicy(ctx, bucket, PublicReadPolicy(bucket)); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", bucket, err)
	}

	nlog.Logger().Info().Str("bucket", bucket).Msg("bucket created with public read policy")

	return nil
}

func isBucketExistsErr(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return true
	default:
		return false
	}
}

// IsNotFound 判断对象或 bucket 不存在.
func IsNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	default:
		return false
	}
}

// HealthCheck 通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)

	return err
}

// Close 接口兼容，minio 客户端无需关闭.
func (c *Client) Close() error {
	return nil
}
