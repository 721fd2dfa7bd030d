package service

import (
	"context"
	"strconv"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/cache"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
	"github.com/greenparkpeyzaj/greenpark/pkg/metrics"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

// UploadService 两条上传通道与图片元数据.
type UploadService struct{ Deps }

// NewUploadService 创建上传服务.
func NewUploadService(d Deps) *UploadService { return &UploadService{d} }

// megabytes 以 MB 表示的上限，用于错误消息.
func megabytes(n int64) string {
	return strconv.FormatInt(n/(1<<20), 10)
}

// GetUploadURL 第一阶段：校验大小与类型后签发预签名 PUT 地址. 不写入任何元数据.
func (s *UploadService) GetUploadURL(ctx context.Context, in types.GetUploadURLInput) (types.GetUploadURLOutput, error) {
	policy := s.config().Upload.Presigned

	if in.Size > policy.MaxSize {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelPresigned, metrics.OutcomeRejected).Inc()

		return types.GetUploadURLOutput{}, errs.New(errs.KindPayloadTooLarge, i18n.MsgFileTooLarge, megabytes(policy.MaxSize))
	}

	if !policy.Allows(in.MimeType) {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelPresigned, metrics.OutcomeRejected).Inc()

		return types.GetUploadURLOutput{}, errs.New(errs.KindUnsupportedMediaType, i18n.MsgUnsupportedFormat)
	}

	if err := s.S3.EnsureBucket(ctx); err != nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelPresigned, metrics.OutcomeFailed).Inc()

		return types.GetUploadURLOutput{}, errs.Storage(i18n.MsgUploadURLFailed, err)
	}

	now := s.now()
	key := s3.NewObjectKey(in.Filename, in.MimeType, now)

	u, err := s.S3.PresignedPutObject(ctx, s.S3.Bucket(), key, policy.Expiry)
	if err != nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelPresigned, metrics.OutcomeFailed).Inc()

		return types.GetUploadURLOutput{}, errs.Storage(i18n.MsgUploadURLFailed, err)
	}

	s.reserve(ctx, types.Reservation{
		Key:        key,
		Filename:   in.Filename,
		MimeType:   in.MimeType,
		Size:       in.Size,
		ReservedBy: actor(ctx),
		ReservedAt: now.UnixMilli(),
	})

	metrics.UploadCounter.WithLabelValues(metrics.ChannelPresigned, metrics.OutcomeReserved).Inc()

	return types.GetUploadURLOutput{
		UploadURL: u.String(),
		FileURL:   s.S3.PublicURL(key),
		Filename:  key,
	}, nil
}

// reserve 记录预留，失败只记日志.
func (s *UploadService) reserve(ctx context.Context, r types.Reservation) {
	c := s.reservations()
	if c == nil {
		return
	}

	ttl := s.config().Upload.Presigned.ReservationLifetime()
	if err := cache.Set(ctx, c, r.Key, r, ttl); err != nil {
		nlog.Logger().Warn().Err(err).Str("key", r.Key).Msg("record upload reservation failed")
	}
}

// release 删除预留，失败只记日志.
func (s *UploadService) release(ctx context.Context, key string) {
	c := s.reservations()
	if c == nil {
		return
	}

	if err := c.Delete(ctx, key); err != nil {
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("release upload reservation failed")
	}
}

// Reservations 返回仍在有效期内的预留记录，键为对象键.
func (s *UploadService) Reservations(ctx context.Context) (map[string]types.Reservation, error) {
	c := s.reservations()
	if c == nil {
		return map[string]types.Reservation{}, nil
	}

	return cache.Entries[types.Reservation](ctx, c, "*")
}

// ConfirmUpload 第二阶段：写入图片记录. 默认信任调用方声明的类型与大小，
// 不检查对象是否存在，也不要求对象键来自第一阶段；开启 verify_on_confirm 时先 Stat 对象.
func (s *UploadService) ConfirmUpload(ctx context.Context, in types.ConfirmUploadInput) (*model.Image, error) {
	verified, err := s.verify(ctx, in)
	if err != nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelConfirm, metrics.OutcomeRejected).Inc()

		return nil, err
	}

	db := s.db(ctx)

	if in.PostID != nil {
		var n int64
		if err := db.Model(&model.Post{}).Where("id = ?", *in.PostID).Count(&n).Error; err != nil {
			return nil, errs.Internal(err)
		}

		if n == 0 {
			return nil, errs.NotFoundf(i18n.MsgPostNotFound)
		}
	}

	img := model.Image{
		Filename:     in.Filename,
		OriginalName: in.Filename,
		MimeType:     in.MimeType,
		Size:         in.Size,
		URL:          s.S3.PublicURL(in.Filename),
		Alt:          in.Alt,
		PostID:       in.PostID,
	}

	if err := db.Create(&img).Error; err != nil {
		metrics.UploadCounter.WithLabelValues(metrics.ChannelConfirm, metrics.OutcomeFailed).Inc()

		return nil, dbErr(err, i18n.MsgImageNotFound)
	}

	s.release(ctx, in.Filename)
	metrics.UploadCounter.WithLabelValues(metrics.ChannelConfirm, metrics.OutcomeStored).Inc()

	s.Events.ImageConfirmed(ctx, queue.ImageConfirmedPayload{
		ImageID:  img.ID,
		Object:   s.objectRef(img.Filename, img.Size, img.MimeType),
		PostID:   valueOr(img.PostID, ""),
		Verified: verified,
		Actor:    actor(ctx),
	})

	return &img, nil
}

// verify 开启校验时确认对象存在且与声明一致.
func (s *UploadService) verify(ctx context.Context, in types.ConfirmUploadInput) (bool, error) {
	if !s.config().Upload.Presigned.VerifyOnConfirm {
		return false, nil
	}

	info, err := s.S3.StatObject(ctx, s.S3.Bucket(), in.Filename, minio.StatObjectOptions{})
	if err != nil {
		if s3.IsNotFound(err) {
			return false, errs.Wrap(errs.KindNotFound, i18n.MsgObjectMissing, err)
		}

		return false, errs.Storage("", err)
	}

	if info.Size != in.Size || !strings.EqualFold(info.ContentType, in.MimeType) {
		return false, errs.Invalid(i18n.MsgObjectMismatch)
	}

	return true, nil
}

// GetImages 分页列出图片，最新的在前.
func (s *UploadService) GetImages(ctx context.Context, in types.GetImagesInput) (types.ImagesPage, error) {
	page, limit := pageOf(in.Page, in.Limit, defaultImageLimit)

	q := s.db(ctx).Model(&model.Image{})
	if in.PostID != nil && *in.PostID != "" {
		q = q.Where("post_id = ?", *in.PostID)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return types.ImagesPage{}, errs.Internal(err)
	}

	images := make([]model.Image, 0, limit)
	if err := q.Order("created_at DESC, id DESC").Offset(offset(page, limit)).Limit(limit).Find(&images).Error; err != nil {
		return types.ImagesPage{}, errs.Internal(err)
	}

	return types.ImagesPage{Images: images, Pagination: types.NewPagination(page, limit, total)}, nil
}

// DeleteImage 先尽力删除对象，再无条件删除记录. 对象删除失败只记日志.
func (s *UploadService) DeleteImage(ctx context.Context, in types.IDInput) (types.SuccessOutput, error) {
	db := s.db(ctx)

	var img model.Image
	if err := db.Where("id = ?", in.ID).First(&img).Error; err != nil {
		return types.SuccessOutput{}, dbErr(err, i18n.MsgImageNotFound)
	}

	removed := s.removeObject(ctx, img.Filename)

	if err := db.Delete(&img).Error; err != nil {
		return types.SuccessOutput{}, errs.Internal(err)
	}

	s.Events.ImageDeleted(ctx, queue.ImageDeletedPayload{
		ImageID:     img.ID,
		Object:      s.objectRef(img.Filename, img.Size, img.MimeType),
		BlobRemoved: removed,
		Actor:       actor(ctx),
	})

	return types.SuccessOutput{Success: true}, nil
}

// removeObject 尽力删除对象，返回是否成功.
func (s *UploadService) removeObject(ctx context.Context, key string) bool {
	return removeObject(ctx, s.S3, key)
}

func removeObject(ctx context.Context, client *s3.Client, key string) bool {
	if client == nil || key == "" {
		return false
	}

	if err := client.RemoveObject(ctx, client.Bucket(), key, minio.RemoveObjectOptions{}); err != nil {
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("remove object failed")

		return false
	}

	return true
}

func (s *UploadService) objectRef(key string, size int64, contentType string) queue.ObjectRef {
	return queue.ObjectRef{
		Bucket:      s.S3.Bucket(),
		ObjectKey:   key,
		Size:        size,
		ContentType: contentType,
		URL:         s.S3.PublicURL(key),
	}
}
