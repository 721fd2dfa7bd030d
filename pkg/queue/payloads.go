package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 发布时自动填充 TraceID、OccurredAt 与 Producer，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 当前 span 的追踪 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 对象存储领域 --------------------------

// ObjectRef 标识对象存储中的对象.
type ObjectRef struct {
	Bucket      string `json:"bucket"`
	ObjectKey   string `json:"object_key"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url,omitempty"`
}

// ObjectStoredPayload 代理上传写入对象存储.
type ObjectStoredPayload struct {
	Object   ObjectRef `json:"object"`
	Source   string    `json:"source,omitempty"` // 上传通道
	FileName string    `json:"file_name,omitempty"`
	Actor    string    `json:"actor,omitempty"`
}

// -------------------------- 图片领域 --------------------------

// ImageConfirmedPayload 两阶段上传确认完成.
type ImageConfirmedPayload struct {
	ImageID  string    `json:"image_id"`
	Object   ObjectRef `json:"object"`
	PostID   string    `json:"post_id,omitempty"`
	Verified bool      `json:"verified"` // 是否经过对象存在性校验
	Actor    string    `json:"actor,omitempty"`
}

// ImageDeletedPayload 图片记录已删除.
type ImageDeletedPayload struct {
	ImageID     string    `json:"image_id"`
	Object      ObjectRef `json:"object"`
	BlobRemoved bool      `json:"blob_removed"`
	Actor       string    `json:"actor,omitempty"`
}

// -------------------------- 内容领域 --------------------------

// 内容变更动作.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionReordered = "reordered"
)

// ContentChangedPayload 内容变更. 批量排序时 IDs 为全部受影响主键.
type ContentChangedPayload struct {
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	ID       string   `json:"id,omitempty"`
	IDs      []string `json:"ids,omitempty"`
	Actor    string   `json:"actor,omitempty"`
}
