//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前先复制配置：
//
//	go generate ./mobile
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.legends -o build/android/legends.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Legends.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/legends/pkg/app"
	"github.com/gonewx/legends/pkg/embedded"
	"github.com/gonewx/legends/pkg/game"
	"github.com/gonewx/legends/pkg/systems"
)

var (
	viewer *app.App
	// motion 由原生传感器回调推送读数
	motion = &systems.PushMotionSource{}
)

func init() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	var err error
	viewer, err = app.NewApp(app.Config{
		Verbose: true,
		Source:  Host,
		Index:   -1,
		Motion:  motion,
	})
	if err != nil {
		log.Fatalf("查看器初始化失败: %v", err)
	}

	mobile.SetGame(viewer)
}

// Host 资源服务器地址，构建时通过 -ldflags "-X" 注入；为空时显示演示卡牌
var Host = ""

// SetRotationRate 由原生层在设备运动回调中调用（度/秒）
func SetRotationRate(alpha, beta, gamma float64) {
	motion.Push(alpha, beta, gamma)
}

// SetMotionPermission 由原生层在权限请求结束后调用
//
// state 取值 "granted"、"denied" 或 "undetermined"，其他值按 undetermined 处理。
func SetMotionPermission(state string) {
	viewer.SetMotionPermission(game.MotionPermission(state))
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
