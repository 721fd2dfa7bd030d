package service

import (
	"context"
	"io"

	minio "github.com/minio/minio-go/v7"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/metrics"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

// UploadFile 代理上传的单个文件.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DirectUpload 代理上传：依次校验文件存在、类型、大小，通过后写入对象存储.
// 不创建任何数据库记录，返回的地址由调用方写入内容实体.
func (s *UploadService) DirectUpload(ctx context.Context, f *UploadFile) (types.DirectUploadResult, error) {
	policy := s.config().Upload.Direct

	if f == nil || f.Body == nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeRejected).Inc()

		return types.DirectUploadResult{}, errs.Invalid(i18n.MsgNoFile)
	}

	if !policy.Allows(f.ContentType) {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeRejected).Inc()

		return types.DirectUploadResult{}, errs.New(errs.KindUnsupportedMediaType, i18n.MsgDirectInvalidType)
	}

	if f.Size > policy.MaxSize {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeRejected).Inc()

		return types.DirectUploadResult{}, errs.New(errs.KindPayloadTooLarge, i18n.MsgDirectTooLarge, megabytes(policy.MaxSize))
	}

	if err := s.S3.EnsureBucket(ctx); err != nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeFailed).Inc()

		return types.DirectUploadResult{}, errs.Storage(i18n.MsgDirectFailed, err)
	}

	key := s3.NewObjectKey(f.Name, f.ContentType, s.now())

	// 最多读取声明的字节数
	body := io.LimitReader(f.Body, f.Size)

	info, err := s.S3.PutObject(ctx, s.S3.Bucket(), key, body, f.Size, minio.PutObjectOptions{ContentType: f.ContentType})
	if err != nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeFailed).Inc()

		return types.DirectUploadResult{}, errs.Storage(i18n.MsgDirectFailed, err)
	}

	metrics.UploadCounter.WithLabelValues(metrics.ChannelDirect, metrics.OutcomeStored).Inc()

	url := s.S3.PublicURL(key)

	s.Events.ObjectStored(ctx, queue.ObjectStoredPayload{
		Object: queue.ObjectRef{
			Bucket:      s.S3.Bucket(),
			ObjectKey:   key,
			Size:        info.Size,
			ContentType: f.ContentType,
			URL:         url,
		},
		Source:   metrics.ChannelDirect,
		FileName: f.Name,
		Actor:    actor(ctx),
	})

	return types.DirectUploadResult{
		URL:      url,
		FileName: f.Name,
		Size:     f.Size,
		Type:     f.ContentType,
	}, nil
}
