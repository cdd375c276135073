package utils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 三维向量（卡牌局部/世界坐标，单位与卡牌尺寸一致）
//
// 底层与 r3.Vec 相同，运算全部委托给 gonum 的 r3 包。
type Vec3 r3.Vec

// V3 便捷构造函数
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// R3 转为 gonum 向量
func (v Vec3) R3() r3.Vec { return r3.Vec(v) }

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3(r3.Add(r3.Vec(v), r3.Vec(o)))
}

// Sub 向量相减
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3(r3.Sub(r3.Vec(v), r3.Vec(o)))
}

// Scale 数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3(r3.Scale(s, r3.Vec(v)))
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return r3.Dot(r3.Vec(v), r3.Vec(o))
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3(r3.Cross(r3.Vec(v), r3.Vec(o)))
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return r3.Norm(r3.Vec(v))
}

// Distance 两点距离
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Normalize 单位化；零向量原样返回（r3.Unit 对零向量返回 NaN）
func (v Vec3) Normalize() Vec3 {
	if r3.Norm2(r3.Vec(v)) == 0 {
		return v
	}
	return Vec3(r3.Unit(r3.Vec(v)))
}

// Mat3 3x3 矩阵，包装 r3.Mat
type Mat3 struct {
	m *r3.Mat
}

// Identity3 单位矩阵
func Identity3() Mat3 {
	return Mat3{m: r3.Eye()}
}

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// RotationXYZ 由欧拉角（弧度，XYZ 顺序）构造旋转矩阵：R = Rx * Ry * Rz
func RotationXYZ(e Vec3) Mat3 {
	rx := r3.NewRotation(e.X, axisX).Mat()
	ry := r3.NewRotation(e.Y, axisY).Mat()
	rz := r3.NewRotation(e.Z, axisZ).Mat()

	xy := r3.NewMat(nil)
	xy.Mul(rx, ry)
	out := r3.NewMat(nil)
	out.Mul(xy, rz)
	return Mat3{m: out}
}

// At 返回第 i 行第 j 列元素
func (m Mat3) At(i, j int) float64 {
	if m.m == nil {
		return 0
	}
	return m.m.At(i, j)
}

// MulVec 矩阵乘向量
func (m Mat3) MulVec(v Vec3) Vec3 {
	if m.m == nil {
		return Vec3{}
	}
	return Vec3(m.m.MulVec(r3.Vec(v)))
}

// Transpose 转置（旋转矩阵的逆）
func (m Mat3) Transpose() Mat3 {
	t := r3.NewMat(nil)
	if m.m != nil {
		t.CloneFrom(m.m.T())
	}
	return Mat3{m: t}
}

// Transform 刚体变换：先旋转再平移
type Transform struct {
	Rotation Vec3 // 欧拉角（弧度）
	Position Vec3
}

// Matrix 返回旋转部分
func (t Transform) Matrix() Mat3 {
	return RotationXYZ(t.Rotation)
}

// Apply 将局部坐标变换到世界坐标
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Matrix().MulVec(p).Add(t.Position)
}

// Inverse 将世界坐标变换回局部坐标
func (t Transform) Inverse(p Vec3) Vec3 {
	rel := r3.Vec(p.Sub(t.Position))
	return Vec3(RotationXYZ(t.Rotation).m.MulVecTrans(rel))
}

// Clamp 将值限制在 [lo, hi]，NaN 视为 0
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// DegToRad 角度转弧度
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
