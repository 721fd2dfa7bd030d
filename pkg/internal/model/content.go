package model

// Service 服务项目.
type Service struct {
	Base
	Ordered

	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"type:text"         json:"description"`
	Image       *string `gorm:"size:1024"         json:"image"`
	Category    *string `gorm:"size:255"          json:"category"`
}

// Reference 客户参考.
type Reference struct {
	Base
	Ordered

	CompanyName string  `gorm:"size:255;not null" json:"companyName"`
	Logo        *string `gorm:"size:1024"         json:"logo"`
	Description *string `gorm:"type:text"         json:"description"`
	Website     *string `gorm:"size:1024"         json:"website"`
}

// Gallery 图集，删除时级联删除其图片.
type Gallery struct {
	Base
	Ordered

	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"type:text"         json:"description"`

	Images []GalleryImage `gorm:"foreignKey:GalleryID;constraint:OnDelete:CASCADE" json:"images"`
}

// GalleryImage 图集内图片，Order 为图集内的显示位置.
type GalleryImage struct {
	Base

	GalleryID string  `gorm:"size:26;not null;index"              json:"galleryId"`
	URL       string  `gorm:"size:1024;not null"                  json:"url"`
	Alt       *string `gorm:"size:1024"                           json:"alt"`
	Order     int     `gorm:"column:sort_order;not null;index"    json:"order"`
}

// ServiceArea 服务区域，图片必填.
type ServiceArea struct {
	Base
	Ordered

	Name  string `gorm:"size:255;not null"  json:"name"`
	Image string `gorm:"size:1024;not null" json:"image"`
}
