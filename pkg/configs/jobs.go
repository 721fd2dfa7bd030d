package configs

import (
	"time"

	"github.com/spf13/viper"
)

// JobsConfig 后台定时任务配置.
type JobsConfig struct {
	Enabled   bool            `mapstructure:"enabled"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
}

// ReconcileConfig 孤儿对象巡检任务.
type ReconcileConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Cron    string        `mapstructure:"cron"`
	Grace   time.Duration `mapstructure:"grace"`  // 新对象的保护期
	Delete  bool          `mapstructure:"delete"` // false 时只报告不删除
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *JobsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.reconcile.enabled", true)
	v.SetDefault("jobs.reconcile.cron", "30 3 * * *")
	v.SetDefault("jobs.reconcile.grace", 25*time.Hour)
	v.SetDefault("jobs.reconcile.delete", false)
	v.SetDefault("jobs.reconcile.timeout", 10*time.Minute)
}
