package types

import "github.com/greenparkpeyzaj/greenpark/pkg/internal/model"

// PostListInput 公开文章列表.
type PostListInput struct {
	Page       int     `json:"page"       rule:"omitempty,min=1"`
	Limit      int     `json:"limit"      rule:"omitempty,min=1,max=100"`
	Search     *string `json:"search"`
	CategoryID *string `json:"categoryId"`
}

// PostAdminListInput 后台文章列表.
type PostAdminListInput struct {
	Page      int     `json:"page"      rule:"omitempty,min=1"`
	Limit     int     `json:"limit"     rule:"omitempty,min=1,max=100"`
	Search    *string `json:"search"`
	Published *bool   `json:"published"`
}

// FeaturedInput 推荐文章数量.
type FeaturedInput struct {
	Limit int `json:"limit" rule:"omitempty,min=1,max=20"`
}

// PostsPage 文章分页结果.
type PostsPage struct {
	Posts      []model.Post `json:"posts"`
	Pagination Pagination   `json:"pagination"`
}

// PostCreateInput 创建文章，slug 由标题生成.
type PostCreateInput struct {
	Title       string   `json:"title"       rule:"required" msg:"field_title_required"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
	Published   *bool    `json:"published"`
	Featured    *bool    `json:"featured"`
	CategoryID  *string  `json:"categoryId"`
	TagIDs      []string `json:"tagIds"      rule:"omitempty,dive,required"`
}

// PostUpdateInput 部分更新文章. TagIDs 非 nil 时整体替换标签.
type PostUpdateInput struct {
	ID          string    `json:"id"          rule:"required"`
	Title       *string   `json:"title"       rule:"omitempty,min=1" msg:"field_title_required"`
	Description *string   `json:"description"`
	Content     *string   `json:"content"`
	Published   *bool     `json:"published"`
	Featured    *bool     `json:"featured"`
	CategoryID  *string   `json:"categoryId"`
	TagIDs      *[]string `json:"tagIds"`
}

// CategoryCreateInput 创建分类.
type CategoryCreateInput struct {
	Name        string  `json:"name"        rule:"required" msg:"field_category_name_required"`
	Description *string `json:"description"`
	Color       *string `json:"color"       rule:"omitempty,hexcolor"`
}

// CategoryUpdateInput 部分更新分类，名称变化时重新生成 slug.
type CategoryUpdateInput struct {
	ID          string  `json:"id"          rule:"required"`
	Name        *string `json:"name"        rule:"omitempty,min=1" msg:"field_category_name_required"`
	Description *string `json:"description"`
	Color       *string `json:"color"       rule:"omitempty,hexcolor"`
}

// TagCreateInput 创建标签.
type TagCreateInput struct {
	Name  string  `json:"name"  rule:"required" msg:"field_tag_name_required"`
	Color *string `json:"color" rule:"omitempty,hexcolor"`
}
