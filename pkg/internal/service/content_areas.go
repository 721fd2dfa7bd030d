package service

import (
	"context"

	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// ServiceAreaService 服务区域. 单条读取只开放给管理员，因此不做草稿过滤.
type ServiceAreaService struct {
	items collection[model.ServiceArea]
}

func NewServiceAreaService(d Deps) *ServiceAreaService {
	return &ServiceAreaService{items: collection[model.ServiceArea]{
		Deps:        d,
		resource:    "serviceArea",
		notFoundKey: i18n.MsgServiceAreaNotFound,
	}}
}

func (s *ServiceAreaService) GetAll(ctx context.Context, _ types.PublishedFilter) ([]model.ServiceArea, error) {
	return s.items.listPublished(ctx)
}

func (s *ServiceAreaService) GetAllAdmin(ctx context.Context, _ struct{}) ([]model.ServiceArea, error) {
	return s.items.listAll(ctx)
}

func (s *ServiceAreaService) GetByID(ctx context.Context, in types.IDInput) (*model.ServiceArea, error) {
	return s.items.get(ctx, in.ID, false)
}

func (s *ServiceAreaService) Create(ctx context.Context, in types.ServiceAreaCreateInput) (*model.ServiceArea, error) {
	row := &model.ServiceArea{
		Ordered: orderedDefaults(in.Order, in.Published),
		Name:    in.Name,
		Image:   in.Image,
	}

	return s.items.create(ctx, row, func(r *model.ServiceArea) string { return r.ID })
}

func (s *ServiceAreaService) Update(ctx context.Context, in types.ServiceAreaUpdateInput) (*model.ServiceArea, error) {
	changes := map[string]any{}
	setIf(changes, "name", in.Name)
	setIf(changes, "image", in.Image)
	setIf(changes, "sort_order", in.Order)
	setIf(changes, "published", in.Published)

	return s.items.update(ctx, in.ID, changes)
}

func (s *ServiceAreaService) Delete(ctx context.Context, in types.IDInput) (types.SuccessOutput, error) {
	return s.items.remove(ctx, in.ID, nil)
}

func (s *ServiceAreaService) UpdateOrder(ctx context.Context, in types.ServiceAreaOrderInput) (types.SuccessOutput, error) {
	return s.items.reorder(ctx, in.ServiceAreas)
}
