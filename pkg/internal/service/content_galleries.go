package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

const (
	resourceGallery      = "gallery"
	resourceGalleryImage = "galleryImage"
)

// GalleryService 图集及其图片. 图集读取总是附带按 order 排序的图片.
type GalleryService struct {
	items collection[model.Gallery]
}

func NewGalleryService(d Deps) *GalleryService {
	return &GalleryService{items: collection[model.Gallery]{
		Deps:        d,
		resource:    resourceGallery,
		notFoundKey: i18n.MsgGalleryNotFound,
		preload: func(q *gorm.DB) *gorm.DB {
			return q.Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order(model.DisplayOrder)
			})
		},
	}}
}

func (s *GalleryService) GetAll(ctx context.Context, _ types.PublishedFilter) ([]model.Gallery, error) {
	return s.items.listPublished(ctx)
}

func (s *GalleryService) GetAllAdmin(ctx context.Context, _ struct{}) ([]model.Gallery, error) {
	return s.items.listAll(ctx)
}

func (s *GalleryService) GetByID(ctx context.Context, id string) (*model.Gallery, error) {
	return s.items.get(ctx, id, true)
}

// Create 创建图集与附带图片，图片 order 缺省为其在数组中的位置.
func (s *GalleryService) Create(ctx context.Context, in types.GalleryCreateInput) (*model.Gallery, error) {
	row := &model.Gallery{
		Ordered:     orderedDefaults(in.Order, in.Published),
		Title:       in.Title,
		Description: in.Description,
		Images:      make([]model.GalleryImage, 0, len(in.Images)),
	}

	for i, img := range in.Images {
		row.Images = append(row.Images, model.GalleryImage{
			URL:   img.URL,
			Alt:   img.Alt,
			Order: valueOr(img.Order, i),
		})
	}

	return s.items.create(ctx, row, func(r *model.Gallery) string { return r.ID })
}

// Update 只修改图集本身的字段.
func (s *GalleryService) Update(ctx context.Context, in types.GalleryUpdateInput) (*model.Gallery, error) {
	changes := map[string]any{}
	setIf(changes, "title", in.Title)
	setIf(changes, "description", in.Description)
	setIf(changes, "sort_order", in.Order)
	setIf(changes, "published", in.Published)

	return s.items.update(ctx, in.ID, changes)
}

// Delete 在同一事务中删除图集的全部图片.
func (s *GalleryService) Delete(ctx context.Context, id string) (types.SuccessOutput, error) {
	return s.items.remove(ctx, id, func(tx *gorm.DB) error {
		return tx.Where("gallery_id = ?", id).Delete(&model.GalleryImage{}).Error
	})
}

func (s *GalleryService) UpdateOrder(ctx context.Context, in types.GalleryOrderInput) (types.SuccessOutput, error) {
	return s.items.reorder(ctx, in.Galleries)
}

// AddImage 向已存在的图集追加图片，order 缺省为 0.
func (s *GalleryService) AddImage(ctx context.Context, in types.AddGalleryImageInput) (*model.GalleryImage, error) {
	if _, err := s.items.get(ctx, in.GalleryID, false); err != nil {
		return nil, err
	}

	img := &model.GalleryImage{
		GalleryID: in.GalleryID,
		URL:       in.URL,
		Alt:       in.Alt,
		Order:     valueOr(in.Order, 0),
	}

	if err := s.items.db(ctx).Create(img).Error; err != nil {
		return nil, dbErr(err, i18n.MsgGalleryNotFound)
	}

	s.items.changed(ctx, resourceGalleryImage, queue.ActionCreated, img.ID)

	return img, nil
}

// RemoveImage 删除图集内的单张图片.
func (s *GalleryService) RemoveImage(ctx context.Context, id string) (types.SuccessOutput, error) {
	res := s.items.db(ctx).Where("id = ?", id).Delete(&model.GalleryImage{})
	if res.Error != nil {
		return types.SuccessOutput{}, errs.Internal(res.Error)
	}

	if res.RowsAffected == 0 {
		return types.SuccessOutput{}, errs.NotFoundf(i18n.MsgGalleryImageNotFound)
	}

	s.items.changed(ctx, resourceGalleryImage, queue.ActionDeleted, id)

	return types.SuccessOutput{Success: true}, nil
}

// UpdateImageOrder 在单个事务内重排图片，任一图片不存在时不写入.
func (s *GalleryService) UpdateImageOrder(ctx context.Context, in types.GalleryImageOrderInput) (types.SuccessOutput, error) {
	if err := reorder[model.GalleryImage](ctx, s.items.DB, in.Images); err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return types.SuccessOutput{}, errs.NotFoundf(i18n.MsgGalleryImageNotFound)
		}

		return types.SuccessOutput{}, err
	}

	s.items.reordered(ctx, resourceGalleryImage, in.Images)

	return types.SuccessOutput{Success: true}, nil
}
