package model

// 分类与标签的默认颜色.
const (
	DefaultCategoryColor = "#10b981"
	DefaultTagColor      = "#6366f1"
)

// Category 博客分类. PostCount 仅在列表查询时填充.
type Category struct {
	Base

	Name        string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug        string  `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description *string `gorm:"type:text"                     json:"description"`
	Color       string  `gorm:"size:16;not null"              json:"color"`

	PostCount int64  `gorm:"-"                      json:"postCount"`
	Posts     []Post `gorm:"foreignKey:CategoryID"  json:"posts,omitempty"`
}

// Tag 博客标签.
type Tag struct {
	Base

	Name  string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:16;not null"              json:"color"`
}

// Post 博客文章. slug 唯一，冲突时由服务层追加后缀.
type Post struct {
	Base

	Title       string  `gorm:"size:255;not null"             json:"title"`
	Description *string `gorm:"type:text"                     json:"description"`
	Content     *string `gorm:"type:text"                     json:"content"`
	Slug        string  `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Published   bool    `gorm:"not null;index"                json:"published"`
	Featured    bool    `gorm:"not null;index"                json:"featured"`
	AuthorID    string  `gorm:"size:26;not null;index"        json:"authorId"`
	CategoryID  *string `gorm:"size:26;index"                 json:"categoryId"`

	Category *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags     []Tag       `gorm:"many2many:post_tags"   json:"tags"`
	Images   []Image     `gorm:"foreignKey:PostID"     json:"images"`
	Author   *PostAuthor `gorm:"-"                     json:"author"`
}

// PostAuthor 文章作者摘要. 作者账户已删除时为 nil.
type PostAuthor struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}
