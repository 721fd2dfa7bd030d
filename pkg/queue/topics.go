// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：gp.<域>.<动作>，发布后保持稳定.
// 域：object(对象存储)、image(图片元数据)、content(可排序内容与博客).

const (
	// 对象存储领域.
	TopicObjectStored = "gp.object.stored" // 代理上传已写入对象存储

	// 图片元数据领域.
	TopicImageConfirmed = "gp.image.confirmed" // 预签名上传已确认，图片记录已写入
	TopicImageDeleted   = "gp.image.deleted"   // 图片记录已删除（对象尽力删除）

	// 内容领域.
	TopicContentChanged = "gp.content.changed" // 内容创建、更新、删除或重新排序
)

// AllTopics 全部主题，审计订阅使用.
var AllTopics = []string{
	TopicObjectStored,
	TopicImageConfirmed,
	TopicImageDeleted,
	TopicContentChanged,
}
