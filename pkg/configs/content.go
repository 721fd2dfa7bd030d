package configs

import "github.com/spf13/viper"

// PostImagePolicy 删除文章时对其图片的处理方式.
type PostImagePolicy string

const (
	// PostImagesDetach 保留图片记录与对象，仅解除关联.
	PostImagesDetach PostImagePolicy = "detach"
	// PostImagesCascade 删除图片记录并尽力删除对象.
	PostImagesCascade PostImagePolicy = "cascade"
)

// ContentConfig 内容相关策略.
type ContentConfig struct {
	PostImagesOnDelete PostImagePolicy `mapstructure:"post_images_on_delete" rule:"oneof=detach cascade"`
}

func (c *ContentConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("content.post_images_on_delete", PostImagesDetach)
}
