// meshdump 打印卡牌网格的面组表与包围盒，用于检查几何参数
//
// 用法:
//
//	go run ./cmd/meshdump
//	go run ./cmd/meshdump --config data/card.yaml --vertices
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/geometry"
)

var (
	configPath = flag.String("config", "", "卡牌配置文件，为空时使用默认尺寸")
	vertices   = flag.Bool("vertices", false, "同时打印每个顶点")
)

func main() {
	flag.Parse()

	cfg := config.DefaultCardConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadCardConfig(*configPath)
		if err != nil {
			log.Fatalf("配置加载失败: %v", err)
		}
	}

	s := cfg.Shape
	shape := geometry.NewCardShape(s.Width, s.Height, s.CornerRadius)
	mesh := geometry.BuildCardMesh(shape, s.Depth, s.CurveSegments)

	b := mesh.Bounds
	fmt.Printf("shape   %.4f x %.4f r=%.4f depth=%.4f segments=%d\n", s.Width, s.Height, s.CornerRadius, s.Depth, s.CurveSegments)
	fmt.Printf("bounds  (%.4f, %.4f) - (%.4f, %.4f)\n", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	fmt.Printf("mesh    %d vertices, %d triangles, finite=%v\n\n", len(mesh.Vertices), mesh.TriangleCount(), mesh.IsFinite())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "group\tslot\tstart\tcount\ttriangles")
	for _, g := range mesh.Groups() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", g.Role, g.Role.MaterialSlot(), g.Start, g.Count, g.Count/3)
	}
	w.Flush()

	if !*vertices {
		return
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "i\tgroup\tx\ty\tz\tnx\tny\tnz\tu\tv\t")
	for i, v := range mesh.Vertices {
		role, _ := mesh.RoleOf(i)
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n", i, role,
			v.Position.X, v.Position.Y, v.Position.Z, v.Normal.X, v.Normal.Y, v.Normal.Z, v.UV.U, v.UV.V)
	}
	w.Flush()
}
