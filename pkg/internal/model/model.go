// Package model 定义持久化实体. 主键为 ULID 字符串，列表排序使用 sort_order 与主键.
package model

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"
)

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID 返回按时间单调递增的小写 ULID.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String())
}

// Base 所有实体共享的主键与时间戳.
type Base struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate 未指定主键时生成 ULID.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}

	return nil
}

// Ordered 可排序、可发布内容的公共列.
type Ordered struct {
	Order     int  `gorm:"column:sort_order;not null;index" json:"order"`
	Published bool `gorm:"not null;index"                   json:"published"`
}

// DisplayOrder 列表排序子句，相同 sort_order 时按插入顺序.
const DisplayOrder = "sort_order ASC, id ASC"

// All 返回需要迁移的全部模型.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Tag{},
		&Post{},
		&Image{},
		&Service{},
		&Reference{},
		&Gallery{},
		&GalleryImage{},
		&ServiceArea{},
		&ContactInfo{},
	}
}
