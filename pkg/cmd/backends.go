package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

// loadedConfig 读取配置供列表类命令标记当前后端，读取失败时返回 nil.
func loadedConfig() *configs.AppConfig {
	if err := configs.InitConfig(configPath); err != nil {
		return nil
	}

	return configs.GetConfig()
}

// printBackends 按名称排序输出已注册的后端，当前配置选用的后端以 * 标记.
func printBackends[T ~string](w io.Writer, title string, registered []T, active T) {
	sorted := slices.Clone(registered)
	slices.Sort(sorted)

	fmt.Fprintf(w, "Registered %s types:\n", title)

	for _, t := range sorted {
		mark := " "
		if t == active {
			mark = "*"
		}

		fmt.Fprintf(w, " %s %s\n", mark, t)
	}
}
