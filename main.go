package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/app"
	"github.com/gonewx/legends/pkg/embedded"
	"github.com/gonewx/legends/pkg/systems"
)

var (
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
	manifest = flag.String("manifest", "", "资源来源：http(s) 地址或本地目录，为空时使用演示卡牌")
	index    = flag.Int("index", -1, "卡牌编号，< 0 时使用上次查看的编号")
	demo     = flag.Bool("demo", false, "使用本地生成的演示卡牌")
	width    = flag.Int("width", app.DefaultWidth, "窗口宽度")
	height   = flag.Int("height", app.DefaultHeight, "窗口高度")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Source:  *manifest,
		Index:   *index,
		Demo:    *demo,
		Width:   *width,
		Height:  *height,
		// 桌面端用手柄摇杆模拟设备旋转，不需要授权
		Motion:                &systems.GamepadMotionSource{Scale: 10},
		MotionAlwaysPermitted: true,
	})
	if err != nil {
		log.Fatalf("查看器初始化失败: %v", err)
	}
	defer viewer.Close()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Legends")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
