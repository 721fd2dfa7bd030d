// Package configs 管理应用程序配置，包括数据库、对象存储、上传策略、认证和队列的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// Example accessing S3 config:
//
//	s3Config := configs.GetConfig().S3
//	fmt.Println("S3 Endpoint:", s3Config.GetEndpointURL())
//
// Example accessing upload policy:
//
//	direct := configs.GetConfig().Upload.Direct
//	fmt.Println(direct.MaxSize, direct.AllowedTypes)
//
// 未找到配置文件时使用默认值与环境变量（前缀 GREENPARK_，例如 GREENPARK_S3_ENDPOINT）.
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀.
const EnvPrefix = "GREENPARK"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`          // ServerConfig 服务器配置
		DB             DBConfig             `mapstructure:"db"`              // DBConfig 数据库配置
		S3             S3Config             `mapstructure:"s3"`              // S3Config 对象存储配置
		KV             KVConfig             `mapstructure:"kv"`              // KVConfig 键值存储配置
		MQ             MQConfig             `mapstructure:"mq"`              // MQConfig 消息队列配置
		Log            LogConfig            `mapstructure:"log"`             // LogConfig 日志相关配置
		Auth           AuthConfig           `mapstructure:"auth"`            // AuthConfig 身份认证配置
		Upload         UploadConfig         `mapstructure:"upload"`          // UploadConfig 上传策略
		Content        ContentConfig        `mapstructure:"content"`         // ContentConfig 内容策略
		Events         EventsConfig         `mapstructure:"events"`          // EventsConfig 事件开关
		Jobs           JobsConfig           `mapstructure:"jobs"`            // JobsConfig 定时任务
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // MetricsConfig 监控
		Tracing        TracingConfig        `mapstructure:"tracing"`         // TracingConfig 追踪
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // RateLimitConfig 限流
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // CircuitBreakerConfig 熔断
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// path 可以是文件或目录；找不到配置文件时只使用默认值和环境变量.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")

		if path != "" {
			appViper.AddConfigPath(path)
			appViper.AddConfigPath(filepath.Join(path, "configs"))

			for _, ext := range []string{"yaml", "yml", "json", "toml", "env", "dotenv"} {
				cfg := filepath.Join(path, "config."+ext)
				if _, err := os.Stat(cfg); err == nil {
					appViper.SetConfigFile(cfg)

					break
				}
			}
		}
	}

	appViper.SetEnvPrefix(EnvPrefix)
	appViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	appViper.AutomaticEnv()

	fileLoaded := true

	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fileLoaded = false
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if fileLoaded {
		reloadConfigs(appViper, globalConfig.Server.ReloadConfig)
	}

	return nil
}

// Defaults 返回只包含默认值的独立配置，不读取文件与环境变量，也不修改全局配置.
func Defaults() (*AppConfig, error) {
	v := viper.New()
	setAllDefaults(v)

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}

	return &c, nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var c AppConfig

	c.Server.setDefaults(v)
	c.DB.setDefaults(v)
	c.S3.setDefaults(v)
	c.KV.setDefaults(v)
	c.MQ.setDefaults(v)
	c.Log.setDefaults(v)
	c.Auth.setDefaults(v)
	c.Upload.setDefaults(v)
	c.Content.setDefaults(v)
	c.Events.setDefaults(v)
	c.Jobs.setDefaults(v)
	c.Metrics.setDefaults(v)
	c.Tracing.setDefaults(v)
	c.RateLimit.setDefaults(v)
	c.CircuitBreaker.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 viper 实例，未初始化时为 nil.
func GetViper() *viper.Viper {
	return appViper
}
