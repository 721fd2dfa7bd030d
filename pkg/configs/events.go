package configs

import "github.com/spf13/viper"

// EventsConfig 控制领域事件发布的开关（全局与分主题）.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	Upload  UploadEventsConfig `mapstructure:"upload"`
	Content bool               `mapstructure:"content"` // 内容变更事件
	// Audit 为 true 时在进程内订阅全部主题并写审计日志
	Audit bool `mapstructure:"audit"`
}

// UploadEventsConfig 上传相关事件开关.
type UploadEventsConfig struct {
	Stored    bool `mapstructure:"stored"`
	Confirmed bool `mapstructure:"confirmed"`
	Deleted   bool `mapstructure:"deleted"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", false)

	v.SetDefault("events.upload.stored", true)
	v.SetDefault("events.upload.confirmed", true)
	v.SetDefault("events.upload.deleted", true)

	// 内容事件量较小，但只有下游需要时才打开
	v.SetDefault("events.content", false)
	v.SetDefault("events.audit", true)
}
