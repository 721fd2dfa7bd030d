// Package types 定义过程调用与 HTTP 接口的输入输出结构. 可选字段使用指针，
// nil 表示未提供，部分更新只写入非 nil 字段.
package types

// IDInput 以对象形式传递的主键.
type IDInput struct {
	ID string `json:"id" rule:"required"`
}

// OrderItem 批量排序中的一项.
type OrderItem struct {
	ID    string `json:"id"    rule:"required"`
	Order int    `json:"order"`
}

// SuccessOutput 无返回实体的变更结果.
type SuccessOutput struct {
	Success bool `json:"success"`
}

// Pagination 分页信息.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination 计算总页数.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// PublishedFilter 公开列表的可选过滤参数. 公开接口始终只返回已发布数据.
type PublishedFilter struct {
	Published *bool `json:"published"`
}

// SlugInput 按 slug 查询.
type SlugInput struct {
	Slug string `json:"slug" rule:"required"`
}
