//go:build mobile

// embed.go - 移动端配置嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// go:embed 只能引用包目录下的文件，构建前运行 go generate ./mobile 把 data/ 复制到此目录。
package mobile

import "embed"

//go:embed data/card.yaml data/lights.yaml
var dataFS embed.FS
