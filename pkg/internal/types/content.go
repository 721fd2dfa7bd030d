package types

// ServiceCreateInput 创建服务.
type ServiceCreateInput struct {
	Title       string  `json:"title"       rule:"required" msg:"field_title_required"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	Order       *int    `json:"order"`
	Published   *bool   `json:"published"`
}

// ServiceUpdateInput 部分更新服务.
type ServiceUpdateInput struct {
	ID          string  `json:"id"          rule:"required"`
	Title       *string `json:"title"       rule:"omitempty,min=1" msg:"field_title_required"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	Order       *int    `json:"order"`
	Published   *bool   `json:"published"`
}

// ServiceOrderInput 服务批量排序.
type ServiceOrderInput struct {
	Services []OrderItem `json:"services" rule:"required,dive"`
}

// ReferenceCreateInput 创建参考.
type ReferenceCreateInput struct {
	CompanyName string  `json:"companyName" rule:"required"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	Order       *int    `json:"order"`
	Published   *bool   `json:"published"`
}

// ReferenceUpdateInput 部分更新参考.
type ReferenceUpdateInput struct {
	ID          string  `json:"id"          rule:"required"`
	CompanyName *string `json:"companyName" rule:"omitempty,min=1"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	Order       *int    `json:"order"`
	Published   *bool   `json:"published"`
}

// ReferenceOrderInput 参考批量排序.
type ReferenceOrderInput struct {
	References []OrderItem `json:"references" rule:"required,dive"`
}

// GalleryImageInput 创建图集时附带的图片，Order 缺省为数组下标.
type GalleryImageInput struct {
	URL   string  `json:"url"   rule:"required"`
	Alt   *string `json:"alt"`
	Order *int    `json:"order"`
}

// GalleryCreateInput 创建图集.
type GalleryCreateInput struct {
	Title       string              `json:"title"       rule:"required" msg:"field_title_required"`
	Description *string             `json:"description"`
	Order       *int                `json:"order"`
	Published   *bool               `json:"published"`
	Images      []GalleryImageInput `json:"images"      rule:"omitempty,dive"`
}

// GalleryUpdateInput 部分更新图集，不修改其图片.
type GalleryUpdateInput struct {
	ID          string  `json:"id"          rule:"required"`
	Title       *string `json:"title"       rule:"omitempty,min=1" msg:"field_title_required"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Published   *bool   `json:"published"`
}

// GalleryOrderInput 图集批量排序.
type GalleryOrderInput struct {
	Galleries []OrderItem `json:"galleries" rule:"required,dive"`
}

// AddGalleryImageInput 向图集添加图片.
type AddGalleryImageInput struct {
	GalleryID string  `json:"galleryId" rule:"required"`
	URL       string  `json:"url"       rule:"required"`
	Alt       *string `json:"alt"`
	Order     *int    `json:"order"`
}

// GalleryImageOrderInput 图集内图片批量排序.
type GalleryImageOrderInput struct {
	Images []OrderItem `json:"images" rule:"required,dive"`
}

// ServiceAreaCreateInput 创建服务区域，名称与图片均必填.
type ServiceAreaCreateInput struct {
	Name      string `json:"name"      rule:"required"`
	Image     string `json:"image"     rule:"required"`
	Order     *int   `json:"order"`
	Published *bool  `json:"published"`
}

// ServiceAreaUpdateInput 部分更新服务区域.
type ServiceAreaUpdateInput struct {
	ID        string  `json:"id"        rule:"required"`
	Name      *string `json:"name"      rule:"omitempty,min=1"`
	Image     *string `json:"image"     rule:"omitempty,min=1"`
	Order     *int    `json:"order"`
	Published *bool   `json:"published"`
}

// ServiceAreaOrderInput 服务区域批量排序.
type ServiceAreaOrderInput struct {
	ServiceAreas []OrderItem `json:"serviceAreas" rule:"required,dive"`
}
