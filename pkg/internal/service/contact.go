package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

const (
	mapURLPrefix = "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!"
	mapURLSuffix = "!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x0%3A0x0!2z!5e0!3m2!1str!2str!4v1700000000000!5m2!1str!2str"

	// DefaultMapURL 尚未保存联系信息时的地图地址.
	DefaultMapURL = mapURLPrefix + "1d3059.123!2d32.8157!3d39.9334" + mapURLSuffix
)

// DefaultContact 尚未保存联系信息时返回的内容，ID 为空.
func DefaultContact(now func() time.Time) model.ContactInfo {
	weekday := model.DayHours{Open: "09:00", Close: "18:00", IsOpen: true}
	t := now()

	return model.ContactInfo{
		Base:        model.Base{CreatedAt: t, UpdatedAt: t},
		CompanyName: "GreenPark Peyzaj",
		Address:     "Kızılırmak Mah. Dumlupınar Blv. Next Level Plaza 3A/11 Çankaya/Ankara",
		Phone:       "(+90) 552 355 75 06",
		Email:       "o.yesiltas@greenparkpeyzaj.com",
		Latitude:    39.9334,
		Longitude:   32.8157,
		WorkingHours: model.WorkingHours{
			Monday:    weekday,
			Tuesday:   weekday,
			Wednesday: weekday,
			Thursday:  weekday,
			Friday:    weekday,
			Saturday:  model.DayHours{Open: "09:00", Close: "16:00", IsOpen: true},
			Sunday:    model.DayHours{Open: "00:00", Close: "00:00", IsOpen: false},
		},
	}
}

// ContactService 联系信息，只使用第一行.
type ContactService struct{ Deps }

func NewContactService(d Deps) *ContactService { return &ContactService{d} }

// first 返回第一行；不存在时返回 nil.
func (s *ContactService) first(ctx context.Context) (*model.ContactInfo, error) {
	var row model.ContactInfo

	err := s.db(ctx).Order("id ASC").Limit(1).Find(&row).Error
	if err != nil {
		return nil, errs.Internal(err)
	}

	if row.ID == "" {
		return nil, nil
	}

	return &row, nil
}

// Get 没有保存过时返回默认值，不写库.
func (s *ContactService) Get(ctx context.Context, _ struct{}) (*model.ContactInfo, error) {
	row, err := s.first(ctx)
	if err != nil {
		return nil, err
	}

	if row == nil {
		def := DefaultContact(s.now)

		return &def, nil
	}

	return row, nil
}

// Update 更新第一行，不存在时创建.
func (s *ContactService) Update(ctx context.Context, in types.ContactUpdateInput) (*model.ContactInfo, error) {
	var saved model.ContactInfo

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ContactInfo
		err := tx.Order("id ASC").First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = model.ContactInfo{
				CompanyName:  in.CompanyName,
				Address:      in.Address,
				Phone:        in.Phone,
				Email:        in.Email,
				Latitude:     in.Latitude,
				Longitude:    in.Longitude,
				WorkingHours: in.WorkingHours,
			}

			return tx.Create(&saved).Error
		case err != nil:
			return err
		}

		existing.CompanyName = in.CompanyName
		existing.Address = in.Address
		existing.Phone = in.Phone
		existing.Email = in.Email
		existing.Latitude = in.Latitude
		existing.Longitude = in.Longitude
		existing.WorkingHours = in.WorkingHours

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		saved = existing

		return nil
	})
	if err != nil {
		return nil, errs.Internal(err)
	}

	s.changed(ctx, "contactInfo", queue.ActionUpdated, saved.ID)

	return &saved, nil
}

// GetMapURL 以保存的坐标生成地图嵌入地址.
func (s *ContactService) GetMapURL(ctx context.Context, _ struct{}) (string, error) {
	row, err := s.first(ctx)
	if err != nil {
		return "", err
	}

	if row == nil {
		return DefaultMapURL, nil
	}

	return MapURL(row.Latitude, row.Longitude), nil
}

// MapURL 指定坐标的地图嵌入地址.
func MapURL(lat, lng float64) string {
	return mapURLPrefix + "1d3057.5!2d" + strconv.FormatFloat(lng, 'f', -1, 64) +
		"!3d" + strconv.FormatFloat(lat, 'f', -1, 64) + mapURLSuffix
}
