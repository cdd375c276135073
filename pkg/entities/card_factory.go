package entities

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/game"
	"github.com/gonewx/legends/pkg/geometry"
	"github.com/gonewx/legends/pkg/utils"
)

// ErrMissingTexture 卡牌缺少必需的纹理
var ErrMissingTexture = errors.New("legend card texture missing")

// NewCompositeTarget 创建一张卡牌独占的离屏渲染目标
//
// 目标每帧整体重绘，不需要 ebiten 在上下文丢失时恢复内容。
func NewCompositeTarget(cfg *config.CompositeConfig) *ebiten.Image {
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, cfg.TargetWidth, cfg.TargetHeight),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// NewLegendCard 创建一张可交互的卡牌实体
//
// 参数:
//   - em: 实体管理器
//   - mesh: 共享的卡牌网格（只读，可被多张卡牌同时引用）
//   - assets: 已上传到 GPU 的卡牌资源
//   - cfg: 卡牌配置
//
// 缺少法线贴图或遮罩时返回错误，不使用占位纹理。
// 新卡牌背面朝向观察者，弹簧从静止状态开始。
func NewLegendCard(em *ecs.EntityManager, mesh *geometry.CardMesh, assets *game.LegendAssets, cfg *config.CardConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if mesh == nil {
		return 0, fmt.Errorf("card mesh cannot be nil")
	}
	if assets == nil {
		return 0, fmt.Errorf("legend assets cannot be nil")
	}
	switch {
	case assets.Normal == nil:
		return 0, fmt.Errorf("%w: normal map", ErrMissingTexture)
	case assets.Back == nil:
		return 0, fmt.Errorf("%w: back mask", ErrMissingTexture)
	case assets.Border == nil:
		return 0, fmt.Errorf("%w: border mask", ErrMissingTexture)
	}
	for i, l := range assets.Layers {
		if l == nil {
			return 0, fmt.Errorf("%w: layer %d", ErrMissingTexture, i)
		}
	}

	colors := config.InkColors{}
	if assets.Manifest != nil {
		c, err := assets.Manifest.InkColors()
		if err != nil {
			return 0, fmt.Errorf("invalid ink colors: %w", err)
		}
		colors = c
	}
	backTint, err := config.ParseLinearColor(cfg.Ink.BackTint)
	if err != nil {
		return 0, fmt.Errorf("invalid back tint: %w", err)
	}

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.CardComponent{
		Mesh:      mesh,
		Materials: CardMaterials(colors, backTint, cfg.Ink.EdgeNormalScale),
		Colors:    colors,
		Index:     assets.Index,
		Manifest:  assets.Manifest,
	})

	ecs.AddComponent(em, id, &components.CompositeComponent{
		Layers: assets.Layers,
		Target: NewCompositeTarget(&cfg.Composite),
	})

	ecs.AddComponent(em, id, &components.InkComponent{
		Border: components.InkDecal{
			Mask:        assets.Border,
			Z:           cfg.Ink.BorderZ,
			NormalScale: cfg.Ink.BorderNormalScale,
		},
		Back: components.InkDecal{
			Mask:        assets.Back,
			Z:           cfg.Ink.BackZ,
			NormalScale: cfg.Ink.BackNormalScale,
			BackSide:    true,
		},
		NormalMap:         assets.Normal,
		PlaneWidth:        cfg.Ink.PlaneWidth,
		PlaneHeight:       cfg.Ink.PlaneHeight,
		EmissiveIntensity: cfg.Ink.EmissiveIntensity,
		Shininess:         cfg.Ink.Shininess,
	})

	// 未翻转的卡牌背面朝向观察者
	initial := utils.V3(0, math.Pi, 0)
	ecs.AddComponent(em, id, &components.OrientationComponent{
		TargetRotation: initial,
	})
	ecs.AddComponent(em, id, &components.SpringComponent{
		Rotation: utils.NewSpring3(initial),
		Position: utils.NewSpring3(utils.Vec3{}),
	})
	ecs.AddComponent(em, id, &components.TransformComponent{
		Transform: utils.Transform{Rotation: initial},
	})
	ecs.AddComponent(em, id, &components.HoverComponent{})
	ecs.AddComponent(em, id, &components.PerformanceComponent{PixelDensity: 1})

	log.Printf("[CardFactory] 创建卡牌 #%d (entity %d): %d 个视差层, 网格 %d 个三角形",
		assets.Index, id, len(assets.Layers), mesh.TriangleCount())
	return id, nil
}

// CardMaterials 三个面组的材质：正面合成纹理、侧边油墨底色、背面暗色
func CardMaterials(colors config.InkColors, backTint config.LinearColor, edgeNormalScale float64) [3]components.FaceMaterial {
	var m [3]components.FaceMaterial
	m[geometry.FaceFront.MaterialSlot()] = components.FaceMaterial{Kind: components.MaterialComposite}
	m[geometry.FaceEdge.MaterialSlot()] = components.FaceMaterial{
		Kind:        components.MaterialLitTint,
		Tint:        colors.Base,
		NormalScale: edgeNormalScale,
	}
	m[geometry.FaceBack.MaterialSlot()] = components.FaceMaterial{Kind: components.MaterialFlatTint, Tint: backTint}
	return m
}

// DestroyLegendCard 释放卡牌独占的渲染目标并删除实体
//
// 图层与遮罩纹理属于资源集合，不在这里释放。
func DestroyLegendCard(em *ecs.EntityManager, id ecs.EntityID) {
	if comp, ok := ecs.GetComponent[*components.CompositeComponent](em, id); ok && comp.Target != nil {
		comp.Target.Deallocate()
		comp.Target = nil
	}
	em.DestroyEntity(id)
	log.Printf("[CardFactory] 销毁卡牌 entity %d", id)
}
