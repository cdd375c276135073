package components

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/geometry"
)

// MaterialKind 面材质类型
type MaterialKind int

const (
	// MaterialComposite 采样视差合成纹理
	MaterialComposite MaterialKind = iota
	// MaterialLitTint 带光照的纯色
	MaterialLitTint
	// MaterialFlatTint 只受漫反射光照的暗色
	MaterialFlatTint
)

// FaceMaterial 绑定到某个面组的材质
type FaceMaterial struct {
	Kind        MaterialKind
	Tint        config.LinearColor
	NormalScale float64 // 仅 MaterialLitTint 使用
}

// CardComponent 一张卡牌的网格与三个面材质
//
// Mesh 在所有卡牌之间共享且只读；Materials 按材质槽索引，
// 第 N 个槽对应 Mesh.Groups() 的第 N 个面组。
type CardComponent struct {
	Mesh      *geometry.CardMesh
	Materials [3]FaceMaterial

	// Colors 油墨颜色（线性空间），侧边与贴花共用
	Colors config.InkColors

	// Index 卡牌编号，用于信息面板
	Index int
	// Manifest 资源清单，用于信息面板（可为 nil）
	Manifest *config.LegendManifest
}

// Material 返回面组角色对应的材质
func (c *CardComponent) Material(role geometry.FaceRole) FaceMaterial {
	return c.Materials[role.MaterialSlot()]
}

// InkDecal 贴在卡牌一侧的油墨平面
type InkDecal struct {
	Mask        *ebiten.Image // alpha 通道为油墨遮罩
	Z           float64       // 平面在卡牌局部坐标中的 Z
	NormalScale float64
	BackSide    bool // 只在卡牌背面朝向相机时可见
}

// InkComponent 卡牌的边框与卡背油墨贴花
type InkComponent struct {
	Border InkDecal
	Back   InkDecal

	// NormalMap 与遮罩同尺寸的法线贴图
	NormalMap *ebiten.Image

	PlaneWidth        float64
	PlaneHeight       float64
	EmissiveIntensity float64
	Shininess         float64
}
