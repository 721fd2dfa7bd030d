// Package main 启动应用程序
package main

import (
	"os"

	"github.com/greenparkpeyzaj/greenpark/pkg/cmd"
)

//	@title			GreenPark Peyzaj API
//	@version		1.0
//	@description	GreenPark Peyzaj 内容管理后端：服务、参考项目、图库、服务区域、联系信息、博客与图片上传。

//	@contact.name	GreenPark Peyzaj

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
