package systems

import (
	"math"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/geometry"
	"github.com/gonewx/legends/pkg/utils"
)

// testCardMaterials 与卡牌工厂相同的材质布局
func testCardMaterials() [3]components.FaceMaterial {
	return [3]components.FaceMaterial{
		{Kind: components.MaterialComposite},
		{Kind: components.MaterialLitTint, Tint: config.LinearColor{R: 0.5, G: 0.3, B: 0.1}, NormalScale: 0.03},
		{Kind: components.MaterialFlatTint, Tint: config.MustParseLinearColor("#111111")},
	}
}

// newTestCard 创建一张只含 CPU 侧组件的卡牌实体（不创建图像）
func newTestCard(em *ecs.EntityManager, flip bool) ecs.EntityID {
	id := em.CreateEntity()

	rotY := math.Pi
	if flip {
		rotY = 0
	}
	initial := utils.V3(0, rotY, 0)

	ecs.AddComponent(em, id, &components.CardComponent{
		Mesh:      geometry.SharedCardMesh(),
		Materials: testCardMaterials(),
	})
	ecs.AddComponent(em, id, &components.OrientationComponent{Flip: flip})
	ecs.AddComponent(em, id, &components.SpringComponent{
		Rotation: utils.NewSpring3(initial),
		Position: utils.NewSpring3(utils.Vec3{}),
	})
	ecs.AddComponent(em, id, &components.TransformComponent{Transform: utils.Transform{Rotation: initial}})
	ecs.AddComponent(em, id, &components.HoverComponent{})
	ecs.AddComponent(em, id, &components.PerformanceComponent{PixelDensity: 1})
	return id
}

func testViewCamera() utils.PerspectiveCamera {
	cfg := config.DefaultCardConfig()
	return utils.PerspectiveCamera{FOV: cfg.View.FOV, Position: utils.V3(0, 0, cfg.View.CameraZ), Near: cfg.View.Near}
}
