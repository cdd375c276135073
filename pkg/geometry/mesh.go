package geometry

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg"

	"github.com/gonewx/legends/pkg/utils"
)

// FaceRole 面组角色
type FaceRole int

const (
	// FaceFront 正面（法线 +Z），显示合成纹理
	FaceFront FaceRole = iota
	// FaceEdge 侧边（法线 Z≈0）
	FaceEdge
	// FaceBack 背面（法线 -Z）
	FaceBack
)

// FaceRoles 面组的固定顺序，第 N 个材质槽对应第 N 个面组
var FaceRoles = [3]FaceRole{FaceFront, FaceEdge, FaceBack}

func (r FaceRole) String() string {
	switch r {
	case FaceFront:
		return "front"
	case FaceEdge:
		return "edge"
	case FaceBack:
		return "back"
	default:
		return fmt.Sprintf("FaceRole(%d)", int(r))
	}
}

// MaterialSlot 面组对应的材质槽下标，构建网格时确定且不再改变
func (r FaceRole) MaterialSlot() int {
	return int(r)
}

// UV 纹理坐标，v 轴向上
type UV struct {
	U, V float64
}

// Vertex 非索引网格的一个顶点（每三个顶点组成一个三角形）
type Vertex struct {
	Position utils.Vec3
	Normal   utils.Vec3
	UV       UV
}

// FaceGroup 一段连续的顶点区间，整体绑定同一个材质槽
type FaceGroup struct {
	Role  FaceRole
	Start int
	Count int
}

// End 区间末尾（不含）
func (g FaceGroup) End() int {
	return g.Start + g.Count
}

// CardMesh 挤出后的卡牌网格，构造后只读，可被多张卡牌共享
type CardMesh struct {
	Shape    *CardShape
	Depth    float64
	Vertices []Vertex
	Bounds   gg.Rect

	groups [3]FaceGroup
}

// Groups 按正面、侧边、背面的固定顺序返回面组
func (m *CardMesh) Groups() [3]FaceGroup {
	return m.groups
}

// Group 返回指定角色的面组
func (m *CardMesh) Group(role FaceRole) FaceGroup {
	return m.groups[role.MaterialSlot()]
}

// RoleOf 返回顶点所在的面组角色
func (m *CardMesh) RoleOf(index int) (FaceRole, bool) {
	for _, g := range m.groups {
		if index >= g.Start && index < g.End() {
			return g.Role, true
		}
	}
	return 0, false
}

// classifyNormal 按法线 Z 分量划分面组
func classifyNormal(n utils.Vec3) FaceRole {
	switch {
	case n.Z > 0.5:
		return FaceFront
	case n.Z < -0.5:
		return FaceBack
	default:
		return FaceEdge
	}
}

// BuildCardMesh 将轮廓挤出 depth，生成带面组和 UV 的网格
//
// 顶点顺序为：背面（z=0）、正面（z=depth）、侧边。随后按法线 Z 分量逐个分类，
// 记录每组第一个顶点和数量。任何不一致（空面组、区间不连续、轮廓不闭合）
// 都是构造缺陷，直接 panic。
func BuildCardMesh(shape *CardShape, depth float64, curveSegments int) *CardMesh {
	if !(depth > 0) {
		panic(fmt.Sprintf("geometry: invalid extrude depth %v", depth))
	}

	outline, closed := shape.Outline(curveSegments)
	if !closed {
		panic("geometry: card outline is not closed")
	}
	if err := shape.CheckTangentContinuity(); err != nil {
		panic("geometry: " + err.Error())
	}

	bounds := shape.Bounds()
	uvFor := func(p gg.Point) UV {
		return UV{
			U: (p.X - bounds.Min.X) / bounds.Width(),
			V: (p.Y - bounds.Min.Y) / bounds.Height(),
		}
	}

	// 以轮廓中心做扇形三角剖分（圆角矩形总是凸多边形）
	var center gg.Point
	for _, p := range outline {
		center = center.Add(p)
	}
	center = center.Div(float64(len(outline)))

	n := len(outline)
	vertices := make([]Vertex, 0, n*3*2+n*6)

	capVertex := func(p gg.Point, z, nz float64) Vertex {
		return Vertex{
			Position: utils.V3(p.X, p.Y, z),
			Normal:   utils.V3(0, 0, nz),
			UV:       uvFor(p),
		}
	}

	// 背面：绕序反转，法线 -Z
	for i := 0; i < n; i++ {
		a, b := outline[i], outline[(i+1)%n]
		vertices = append(vertices,
			capVertex(center, 0, -1),
			capVertex(b, 0, -1),
			capVertex(a, 0, -1),
		)
	}

	// 正面：逆时针，法线 +Z
	for i := 0; i < n; i++ {
		a, b := outline[i], outline[(i+1)%n]
		vertices = append(vertices,
			capVertex(center, depth, 1),
			capVertex(a, depth, 1),
			capVertex(b, depth, 1),
		)
	}

	// 侧边：每条边一个四边形（两个三角形），法线朝外，UV 恒为 0
	for i := 0; i < n; i++ {
		a, b := outline[i], outline[(i+1)%n]
		d := b.Sub(a)
		normal := utils.V3(d.Y, -d.X, 0).Normalize()

		a0 := Vertex{Position: utils.V3(a.X, a.Y, 0), Normal: normal}
		b0 := Vertex{Position: utils.V3(b.X, b.Y, 0), Normal: normal}
		b1 := Vertex{Position: utils.V3(b.X, b.Y, depth), Normal: normal}
		a1 := Vertex{Position: utils.V3(a.X, a.Y, depth), Normal: normal}
		vertices = append(vertices, a0, b0, b1, a0, b1, a1)
	}

	mesh := &CardMesh{
		Shape:    shape,
		Depth:    depth,
		Vertices: vertices,
		Bounds:   bounds,
	}
	mesh.groups = groupVertices(vertices)
	return mesh
}

// groupVertices 按法线分类记录每组首个顶点与数量，并校验分组互不重叠且覆盖全部顶点
func groupVertices(vertices []Vertex) [3]FaceGroup {
	var groups [3]FaceGroup
	started := [3]bool{}
	for i, role := range FaceRoles {
		groups[i].Role = role
	}

	for i, v := range vertices {
		slot := classifyNormal(v.Normal).MaterialSlot()
		if !started[slot] {
			groups[slot].Start = i
			started[slot] = true
		}
		groups[slot].Count++
	}

	total := 0
	for i, g := range groups {
		if g.Count == 0 {
			panic(fmt.Sprintf("geometry: face group %s has no vertices", g.Role))
		}
		if g.Count%3 != 0 {
			panic(fmt.Sprintf("geometry: face group %s has %d vertices, not whole triangles", g.Role, g.Count))
		}
		// 区间必须连续：区间内每个顶点都属于本组
		for j := g.Start; j < g.End(); j++ {
			if classifyNormal(vertices[j].Normal) != FaceRoles[i] {
				panic(fmt.Sprintf("geometry: face group %s is not contiguous at vertex %d", g.Role, j))
			}
		}
		total += g.Count
	}
	if total != len(vertices) {
		panic(fmt.Sprintf("geometry: face groups cover %d of %d vertices", total, len(vertices)))
	}
	return groups
}

// TriangleCount 三角形数量
func (m *CardMesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// IsFinite 所有顶点坐标均为有限值
func (m *CardMesh) IsFinite() bool {
	for _, v := range m.Vertices {
		p := v.Position
		if math.IsNaN(p.X+p.Y+p.Z) || math.IsInf(p.X+p.Y+p.Z, 0) {
			return false
		}
	}
	return true
}

// MeshParams 卡牌网格的构建参数，也是共享网格缓存的键
type MeshParams struct {
	Width, Height, Radius float64
	Depth                 float64
	Segments              int
}

// StandardMeshParams 标准尺寸卡牌
var StandardMeshParams = MeshParams{
	Width:    CardWidth,
	Height:   CardHeight,
	Radius:   CardCornerRadius,
	Depth:    CardDepth,
	Segments: CardCurveSegments,
}

var (
	meshCacheMu sync.Mutex
	meshCache   = map[MeshParams]*CardMesh{}
)

// SharedCardMeshFor 返回给定参数的共享网格，同一参数只构建一次
func SharedCardMeshFor(p MeshParams) *CardMesh {
	meshCacheMu.Lock()
	defer meshCacheMu.Unlock()

	if m, ok := meshCache[p]; ok {
		return m
	}
	m := BuildCardMesh(NewCardShape(p.Width, p.Height, p.Radius), p.Depth, p.Segments)
	meshCache[p] = m
	return m
}

// SharedCardMesh 标准尺寸卡牌网格，所有卡牌共享同一实例
func SharedCardMesh() *CardMesh {
	return SharedCardMeshFor(StandardMeshParams)
}
