package types

import "github.com/greenparkpeyzaj/greenpark/pkg/internal/model"

// GetUploadURLInput 申请预签名上传地址. 大小与类型的校验由上传服务按顺序执行.
type GetUploadURLInput struct {
	Filename string `json:"filename" rule:"required"`
	MimeType string `json:"mimeType" rule:"required"`
	Size     int64  `json:"size"     rule:"gte=0"`
}

// GetUploadURLOutput 预签名上传地址与最终访问地址.
type GetUploadURLOutput struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Filename  string `json:"filename"`
}

// ConfirmUploadInput 确认上传并写入图片元数据. Filename 为第一阶段返回的对象键.
type ConfirmUploadInput struct {
	Filename string  `json:"filename" rule:"required"`
	MimeType string  `json:"mimeType" rule:"required"`
	Size     int64   `json:"size"     rule:"gte=0"`
	Alt      *string `json:"alt"`
	PostID   *string `json:"postId"   rule:"omitempty,min=1"`
}

// GetImagesInput 图片分页查询.
type GetImagesInput struct {
	Page   int     `json:"page"   rule:"omitempty,min=1"`
	Limit  int     `json:"limit"  rule:"omitempty,min=1,max=50"`
	PostID *string `json:"postId"`
}

// ImagesPage 图片分页结果.
type ImagesPage struct {
	Images     []model.Image `json:"images"`
	Pagination Pagination    `json:"pagination"`
}

// DirectUploadResult 代理上传结果，FileName 为客户端提供的原始文件名.
type DirectUploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

// DirectUploadError 代理上传接口的错误体.
type DirectUploadError struct {
	Error string `json:"error"`
}

// Reservation 预签名上传的预留记录，仅用于观测与对账.
type Reservation struct {
	Key        string `json:"key"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
	ReservedBy string `json:"reservedBy"`
	ReservedAt int64  `json:"reservedAt"`
}
