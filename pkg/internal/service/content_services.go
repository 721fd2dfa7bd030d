package service

import (
	"context"

	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// CatalogService 服务项目.
type CatalogService struct {
	items collection[model.Service]
}

// NewCatalogService 创建服务项目服务.
func NewCatalogService(d Deps) *CatalogService {
	return &CatalogService{items: collection[model.Service]{
		Deps:        d,
		resource:    "service",
		notFoundKey: i18n.MsgServiceNotFound,
	}}
}

// GetAll 公开列表. 过滤参数中的 published 被忽略，始终只返回已发布项.
func (s *CatalogService) GetAll(ctx context.Context, _ types.PublishedFilter) ([]model.Service, error) {
	return s.items.listPublished(ctx)
}

// GetAllAdmin 包含未发布项.
func (s *CatalogService) GetAllAdmin(ctx context.Context, _ struct{}) ([]model.Service, error) {
	return s.items.listAll(ctx)
}

// GetByID 未发布项只对管理员可见.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	return s.items.get(ctx, id, true)
}

func (s *CatalogService) Create(ctx context.Context, in types.ServiceCreateInput) (*model.Service, error) {
	row := &model.Service{
		Ordered:     orderedDefaults(in.Order, in.Published),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Category:    in.Category,
	}

	return s.items.create(ctx, row, func(r *model.Service) string { return r.ID })
}

func (s *CatalogService) Update(ctx context.Context, in types.ServiceUpdateInput) (*model.Service, error) {
	changes := map[string]any{}
	setIf(changes, "title", in.Title)
	setIf(changes, "description", in.Description)
	setIf(changes, "image", in.Image)
	setIf(changes, "category", in.Category)
	setIf(changes, "sort_order", in.Order)
	setIf(changes, "published", in.Published)

	return s.items.update(ctx, in.ID, changes)
}

func (s *CatalogService) Delete(ctx context.Context, id string) (types.SuccessOutput, error) {
	return s.items.remove(ctx, id, nil)
}

// UpdateOrder 批量排序，任一主键不存在时不写入.
func (s *CatalogService) UpdateOrder(ctx context.Context, in types.ServiceOrderInput) (types.SuccessOutput, error) {
	return s.items.reorder(ctx, in.Services)
}
