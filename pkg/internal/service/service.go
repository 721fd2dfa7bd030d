// Package service 实现内容管理的业务逻辑：上传、可排序内容、联系信息、博客、账户与对象对账.
package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/cache"
	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

// ReservationNamespace 预签名上传预留记录在 KV 中的命名空间.
const ReservationNamespace = "upload:reservation"

// 分页默认值.
const (
	defaultPage       = 1
	defaultImageLimit = 20
	defaultPostLimit  = 10
	defaultFeatured   = 5
)

// Deps 业务服务共享的依赖. KV 与 Events 可以为空.
type Deps struct {
	DB     *gorm.DB
	S3     *s3.Client
	KV     kv.KVStore
	Events *queue.Publisher
	Config *configs.AppConfig
	Tokens *auth.TokenIssuer
	Now    func() time.Time
}

// DepsFromContext 从注入了存储管理器的 context 构造依赖.
func DepsFromContext(ctx context.Context) Deps {
	cfg := configs.GetConfig()
	d := Deps{
		Config: cfg,
		Tokens: auth.NewTokenIssuer(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL),
	}

	if c := ctxPkg.GetDBClient(ctx); c != nil {
		d.DB = c.DB
	}

	d.S3 = ctxPkg.GetS3Client(ctx)

	if c := ctxPkg.GetKVClient(ctx); c != nil {
		d.KV = c
	}

	if c := ctxPkg.GetMQClient(ctx); c != nil {
		d.Events = queue.NewPublisher(c, cfg.Events)
	}

	return d
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}

	return time.Now()
}

func (d Deps) db(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

func (d Deps) config() *configs.AppConfig {
	if d.Config != nil {
		return d.Config
	}

	return configs.GetConfig()
}

// reservations 预留记录缓存，未配置 KV 时为 nil.
func (d Deps) reservations() *cache.Cache {
	if d.KV == nil {
		return nil
	}

	return cache.New(d.KV, ReservationNamespace)
}

// actor 当前调用方 ID，匿名时为空串.
func actor(ctx context.Context) string {
	if id := auth.FromContext(ctx); id != nil {
		return id.ID
	}

	return ""
}

// isAdmin 仅用于数据可见性（草稿是否可见），不承担授权.
func isAdmin(ctx context.Context) bool {
	return auth.FromContext(ctx).IsAdmin()
}

// dbErr 把持久层错误映射为错误类别；记录不存在时使用 notFoundKey.
func dbErr(err error, notFoundKey string) error {
	if err == nil {
		return nil
	}

	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}

	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return errs.Wrap(errs.KindNotFound, notFoundKey, err)
	case errs.KindConflict:
		return errs.Wrap(errs.KindConflict, "", err)
	default:
		return errs.Internal(err)
	}
}

// pageOf 规范化分页参数.
func pageOf(page, limit, defLimit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}

	if limit < 1 {
		limit = defLimit
	}

	return page, limit
}

func offset(page, limit int) int {
	return (page - 1) * limit
}

// setIf 非 nil 时写入更新集合.
func setIf[T any](changes map[string]any, column string, v *T) {
	if v != nil {
		changes[column] = *v
	}
}

func valueOr[T any](v *T, def T) T {
	if v != nil {
		return *v
	}

	return def
}

// orderedDefaults 创建可排序内容时的默认值：order 0，立即发布.
func orderedDefaults(order *int, published *bool) model.Ordered {
	return model.Ordered{Order: valueOr(order, 0), Published: valueOr(published, true)}
}

// reorder 在单个事务内批量更新排序. 任一主键不存在时整体回滚并返回 NOT_FOUND.
func reorder[T any](ctx context.Context, db *gorm.DB, items []types.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}

		seen[it.ID] = struct{}{}
		ids = append(ids, it.ID)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Where("id IN ?", ids).Count(&n).Error; err != nil {
			return err
		}

		if int(n) != len(ids) {
			return errs.NotFoundf(i18n.MsgOrderItemsNotFound)
		}

		for _, it := range items {
			if err := tx.Model(new(T)).Where("id = ?", it.ID).Update("sort_order", it.Order).Error; err != nil {
				return err
			}
		}

		return nil
	})

	return dbErr(err, i18n.MsgOrderItemsNotFound)
}

// orderIDs 批量排序涉及的主键，用于事件负载.
func orderIDs(items []types.OrderItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	return ids
}

// changed 发布内容变更事件.
func (d Deps) changed(ctx context.Context, resource, action, id string) {
	d.Events.ContentChanged(ctx, queue.ContentChangedPayload{
		Resource: resource,
		Action:   action,
		ID:       id,
		Actor:    actor(ctx),
	})
}

func (d Deps) reordered(ctx context.Context, resource string, items []types.OrderItem) {
	d.Events.ContentChanged(ctx, queue.ContentChangedPayload{
		Resource: resource,
		Action:   queue.ActionReordered,
		IDs:      orderIDs(items),
		Actor:    actor(ctx),
	})
}
