package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

// collection 可排序、可发布内容的通用读写. T 为嵌入 model.Base 与 model.Ordered 的实体.
type collection[T any] struct {
	Deps

	resource    string
	notFoundKey string
	// preload 附加关联加载，可为空
	preload func(*gorm.DB) *gorm.DB
}

func (c collection[T]) query(ctx context.Context) *gorm.DB {
	q := c.db(ctx).Model(new(T))
	if c.preload != nil {
		q = c.preload(q)
	}

	return q
}

// listPublished 只返回已发布数据，与调用方身份无关.
func (c collection[T]) listPublished(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := c.query(ctx).Where("published = ?", true).Order(model.DisplayOrder).Find(&rows).Error; err != nil {
		return nil, errs.Internal(err)
	}

	return rows, nil
}

func (c collection[T]) listAll(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := c.query(ctx).Order(model.DisplayOrder).Find(&rows).Error; err != nil {
		return nil, errs.Internal(err)
	}

	return rows, nil
}

// get 读取单条. draftsHidden 为 true 且调用方不是管理员时，未发布数据视为不存在.
func (c collection[T]) get(ctx context.Context, id string, draftsHidden bool) (*T, error) {
	q := c.query(ctx).Where("id = ?", id)
	if draftsHidden && !isAdmin(ctx) {
		q = q.Where("published = ?", true)
	}

	row := new(T)
	if err := q.First(row).Error; err != nil {
		return nil, dbErr(err, c.notFoundKey)
	}

	return row, nil
}

func (c collection[T]) create(ctx context.Context, row *T, id func(*T) string) (*T, error) {
	if err := c.db(ctx).Create(row).Error; err != nil {
		return nil, dbErr(err, c.notFoundKey)
	}

	key := id(row)
	c.changed(ctx, c.resource, queue.ActionCreated, key)

	return c.get(ctx, key, false)
}

// update 只写入 changes 中的列，未提供的字段保持不变.
func (c collection[T]) update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	if _, err := c.get(ctx, id, false); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := c.db(ctx).Model(new(T)).Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, dbErr(err, c.notFoundKey)
		}

		c.changed(ctx, c.resource, queue.ActionUpdated, id)
	}

	return c.get(ctx, id, false)
}

// remove 删除单条；extra 在同一事务内先执行，用于删除从属数据.
func (c collection[T]) remove(ctx context.Context, id string, extra func(tx *gorm.DB) error) (types.SuccessOutput, error) {
	err := c.db(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}

		if n == 0 {
			return errs.NotFoundf(c.notFoundKey)
		}

		if extra != nil {
			if err := extra(tx); err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(new(T)).Error
	})
	if err != nil {
		return types.SuccessOutput{}, dbErr(err, c.notFoundKey)
	}

	c.changed(ctx, c.resource, queue.ActionDeleted, id)

	return types.SuccessOutput{Success: true}, nil
}

func (c collection[T]) reorder(ctx context.Context, items []types.OrderItem) (types.SuccessOutput, error) {
	if err := reorder[T](ctx, c.DB, items); err != nil {
		return types.SuccessOutput{}, err
	}

	c.reordered(ctx, c.resource, items)

	return types.SuccessOutput{Success: true}, nil
}
