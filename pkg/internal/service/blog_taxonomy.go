package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
	"github.com/greenparkpeyzaj/greenpark/pkg/slug"
)

// fallbackCategorySlug 名称不含拉丁字母或数字时使用的 slug.
const fallbackCategorySlug = "kategori"

// CategoryService 博客分类. 名称与 slug 都必须唯一.
type CategoryService struct{ Deps }

func NewCategoryService(d Deps) *CategoryService { return &CategoryService{d} }

type postCount struct {
	CategoryID string
	N          int64
}

// GetAll 按名称排序并附带文章数.
func (s *CategoryService) GetAll(ctx context.Context, _ struct{}) ([]model.Category, error) {
	db := s.db(ctx)

	categories := make([]model.Category, 0)
	if err := db.Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, errs.Internal(err)
	}

	var counts []postCount

	err := db.Model(&model.Post{}).
		Select("category_id, COUNT(*) AS n").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errs.Internal(err)
	}

	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.CategoryID] = c.N
	}

	for i := range categories {
		categories[i].PostCount = byID[categories[i].ID]
	}

	return categories, nil
}

// GetBySlug 附带已发布文章，最新的在前.
func (s *CategoryService) GetBySlug(ctx context.Context, in types.SlugInput) (*model.Category, error) {
	db := s.db(ctx)

	var category model.Category

	err := db.Preload("Posts", func(q *gorm.DB) *gorm.DB {
		return q.Where("published = ?", true).Order(postOrder).Preload("Images")
	}).Where("slug = ?", in.Slug).First(&category).Error
	if err != nil {
		return nil, dbErr(err, i18n.MsgCategoryNotFound)
	}

	if err := db.Model(&model.Post{}).Where("category_id = ?", category.ID).Count(&category.PostCount).Error; err != nil {
		return nil, errs.Internal(err)
	}

	if err := NewPostService(s.Deps).attachAuthors(ctx, category.Posts); err != nil {
		return nil, err
	}

	return &category, nil
}

// conflict 名称或 slug 已被其他分类使用时返回 CONFLICT.
func (s *CategoryService) conflict(tx *gorm.DB, name, sl, exceptID string) error {
	q := tx.Model(&model.Category{}).Where("(name = ? OR slug = ?)", name, sl)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}

	if n > 0 {
		return errs.ConflictOf(i18n.MsgCategoryNameTaken)
	}

	return nil
}

func (s *CategoryService) Create(ctx context.Context, in types.CategoryCreateInput) (*model.Category, error) {
	category := model.Category{
		Name:        in.Name,
		Slug:        slug.MakeOr(in.Name, fallbackCategorySlug),
		Description: in.Description,
		Color:       valueOr(in.Color, model.DefaultCategoryColor),
	}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.conflict(tx, category.Name, category.Slug, ""); err != nil {
			return err
		}

		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.changed(ctx, "category", queue.ActionCreated, category.ID)

	return &category, nil
}

// Update 名称变化时重新生成 slug 并检查冲突.
func (s *CategoryService) Update(ctx context.Context, in types.CategoryUpdateInput) (*model.Category, error) {
	var category model.Category

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", in.ID).First(&category).Error; err != nil {
			return err
		}

		changes := map[string]any{}
		setIf(changes, "description", in.Description)
		setIf(changes, "color", in.Color)

		if in.Name != nil {
			sl := slug.MakeOr(*in.Name, fallbackCategorySlug)
			if err := s.conflict(tx, *in.Name, sl, in.ID); err != nil {
				return err
			}

			changes["name"] = *in.Name
			changes["slug"] = sl
		}

		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&category).Updates(changes).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", in.ID).First(&category).Error
	})
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.changed(ctx, "category", queue.ActionUpdated, category.ID)

	return &category, nil
}

// Delete 仍有文章的分类不能删除.
func (s *CategoryService) Delete(ctx context.Context, in types.IDInput) (types.SuccessOutput, error) {
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.Where("id = ?", in.ID).First(&category).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.Post{}).Where("category_id = ?", in.ID).Count(&n).Error; err != nil {
			return err
		}

		if n > 0 {
			return errs.ConflictOf(i18n.MsgCategoryHasPosts)
		}

		return tx.Delete(&category).Error
	})
	if err != nil {
		return types.SuccessOutput{}, s.mapErr(err)
	}

	s.changed(ctx, "category", queue.ActionDeleted, in.ID)

	return types.SuccessOutput{Success: true}, nil
}

// mapErr 唯一索引冲突也使用名称已占用的消息.
func (s *CategoryService) mapErr(err error) error {
	return conflictAs(err, i18n.MsgCategoryNameTaken, i18n.MsgCategoryNotFound)
}

// conflictAs 把未分类的唯一索引冲突映射为 conflictKey，其余交给 dbErr.
func conflictAs(err error, conflictKey, notFoundKey string) error {
	var e *errs.Error
	if !errors.As(err, &e) && errs.KindOf(err) == errs.KindConflict {
		return errs.Wrap(errs.KindConflict, conflictKey, err)
	}

	return dbErr(err, notFoundKey)
}

// TagService 博客标签.
type TagService struct{ Deps }

func NewTagService(d Deps) *TagService { return &TagService{d} }

func (s *TagService) GetAll(ctx context.Context, _ struct{}) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	if err := s.db(ctx).Order("name ASC, id ASC").Find(&tags).Error; err != nil {
		return nil, errs.Internal(err)
	}

	return tags, nil
}

func (s *TagService) Create(ctx context.Context, in types.TagCreateInput) (*model.Tag, error) {
	tag := model.Tag{Name: in.Name, Color: valueOr(in.Color, model.DefaultTagColor)}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Tag{}).Where("name = ?", in.Name).Count(&n).Error; err != nil {
			return err
		}

		if n > 0 {
			return errs.ConflictOf(i18n.MsgTagNameTaken)
		}

		return tx.Create(&tag).Error
	})
	if err != nil {
		return nil, conflictAs(err, i18n.MsgTagNameTaken, i18n.MsgTagNotFound)
	}

	s.changed(ctx, "tag", queue.ActionCreated, tag.ID)

	return &tag, nil
}

// Delete 同时移除文章与该标签的关联.
func (s *TagService) Delete(ctx context.Context, in types.IDInput) (types.SuccessOutput, error) {
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.Where("id = ?", in.ID).First(&tag).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&tag).Error
	})
	if err != nil {
		return types.SuccessOutput{}, dbErr(err, i18n.MsgTagNotFound)
	}

	s.changed(ctx, "tag", queue.ActionDeleted, in.ID)

	return types.SuccessOutput{Success: true}, nil
}
