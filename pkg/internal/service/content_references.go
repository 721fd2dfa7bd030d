package service

import (
	"context"

	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

// ReferenceService 客户参考.
type ReferenceService struct {
	items collection[model.Reference]
}

func NewReferenceService(d Deps) *ReferenceService {
	return &ReferenceService{items: collection[model.Reference]{
		Deps:        d,
		resource:    "reference",
		notFoundKey: i18n.MsgReferenceNotFound,
	}}
}

func (s *ReferenceService) GetAll(ctx context.Context, _ types.PublishedFilter) ([]model.Reference, error) {
	return s.items.listPublished(ctx)
}

func (s *ReferenceService) GetAllAdmin(ctx context.Context, _ struct{}) ([]model.Reference, error) {
	return s.items.listAll(ctx)
}

func (s *ReferenceService) GetByID(ctx context.Context, id string) (*model.Reference, error) {
	return s.items.get(ctx, id, true)
}

func (s *ReferenceService) Create(ctx context.Context, in types.ReferenceCreateInput) (*model.Reference, error) {
	row := &model.Reference{
		Ordered:     orderedDefaults(in.Order, in.Published),
		CompanyName: in.CompanyName,
		Logo:        in.Logo,
		Description: in.Description,
		Website:     in.Website,
	}

	return s.items.create(ctx, row, func(r *model.Reference) string { return r.ID })
}

func (s *ReferenceService) Update(ctx context.Context, in types.ReferenceUpdateInput) (*model.Reference, error) {
	changes := map[string]any{}
	setIf(changes, "company_name", in.CompanyName)
	setIf(changes, "logo", in.Logo)
	setIf(changes, "description", in.Description)
	setIf(changes, "website", in.Website)
	setIf(changes, "sort_order", in.Order)
	setIf(changes, "published", in.Published)

	return s.items.update(ctx, in.ID, changes)
}

func (s *ReferenceService) Delete(ctx context.Context, id string) (types.SuccessOutput, error) {
	return s.items.remove(ctx, id, nil)
}

func (s *ReferenceService) UpdateOrder(ctx context.Context, in types.ReferenceOrderInput) (types.SuccessOutput, error) {
	return s.items.reorder(ctx, in.References)
}
