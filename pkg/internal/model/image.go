package model

// Image 通过两阶段上传确认生成的图片元数据. Filename 为对象键.
type Image struct {
	Base

	Filename     string  `gorm:"size:512;not null;index" json:"filename"`
	OriginalName string  `gorm:"size:512;not null"       json:"originalName"`
	MimeType     string  `gorm:"size:128;not null"       json:"mimeType"`
	Size         int64   `gorm:"not null"                json:"size"`
	URL          string  `gorm:"size:1024;not null"      json:"url"`
	Alt          *string `gorm:"size:1024"               json:"alt"`
	PostID       *string `gorm:"size:26;index"           json:"postId"`
}
