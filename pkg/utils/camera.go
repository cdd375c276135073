package utils

import "math"

// Ray 射线
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// IntersectPlane 求射线与平面的交点
//
// 返回交点、射线参数 t 以及是否相交（平行或在射线反方向视为不相交）
func (r Ray) IntersectPlane(point, normal Vec3) (Vec3, float64, bool) {
	denom := normal.Dot(r.Dir)
	if math.Abs(denom) < 1e-12 {
		return Vec3{}, 0, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return Vec3{}, 0, false
	}
	return r.Origin.Add(r.Dir.Scale(t)), t, true
}

// PerspectiveCamera 透视相机，固定看向 -Z 方向
type PerspectiveCamera struct {
	FOV      float64 // 垂直视角（度）
	Position Vec3
	Near     float64
}

func (c PerspectiveCamera) focal() float64 {
	return 1 / math.Tan(DegToRad(c.FOV)/2)
}

// Project 将世界坐标投影到屏幕像素坐标（y 向下）
//
// 返回值 depth 为相机空间中的正向距离；点在近平面之前时 ok 为 false。
func (c PerspectiveCamera) Project(p Vec3, width, height float64) (x, y, depth float64, ok bool) {
	rel := p.Sub(c.Position)
	depth = -rel.Z
	if depth < c.Near || height == 0 {
		return 0, 0, depth, false
	}
	f := c.focal()
	aspect := width / height
	ndcX := f / aspect * rel.X / depth
	ndcY := f * rel.Y / depth
	x = (ndcX + 1) / 2 * width
	y = (1 - ndcY) / 2 * height
	return x, y, depth, true
}

// Ray 返回穿过屏幕像素 (sx, sy) 的射线
func (c PerspectiveCamera) Ray(sx, sy, width, height float64) Ray {
	f := c.focal()
	aspect := width / height
	ndcX := sx/width*2 - 1
	ndcY := 1 - sy/height*2
	dir := Vec3{X: ndcX * aspect / f, Y: ndcY / f, Z: -1}
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// OrthoCamera 正交相机：视锥宽高固定，位置可移动，始终看向原点
type OrthoCamera struct {
	Width    float64 // 视锥宽度（世界单位）
	Height   float64 // 视锥高度（世界单位）
	Position Vec3
}

// Basis 返回 lookAt 原点之后相机的右向量和上向量
func (c OrthoCamera) Basis() (right, up Vec3) {
	forward := c.Position.Normalize() // 相机 +Z 轴（指向相机自身）
	worldUp := Vec3{Y: 1}
	right = worldUp.Cross(forward)
	if right.Length() < 1e-9 {
		right = Vec3{X: 1}
	}
	right = right.Normalize()
	up = forward.Cross(right)
	return right, up
}

// Project 将世界坐标投影为视锥内的归一化坐标，u 向右、v 向下，视锥范围为 [0,1]
func (c OrthoCamera) Project(p Vec3) (u, v float64) {
	right, up := c.Basis()
	rel := p.Sub(c.Position)
	u = rel.Dot(right)/c.Width + 0.5
	v = 0.5 - rel.Dot(up)/c.Height
	return u, v
}
