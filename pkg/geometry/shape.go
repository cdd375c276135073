// Package geometry 构建卡牌的圆角矩形轮廓和挤出网格
//
// 轮廓由四条直边和四段三次贝塞尔圆角组成，挤出后按法线 Z 分量
// 划分为正面、侧边、背面三个面组，供渲染系统按固定顺序绑定材质。
package geometry

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// 卡牌标准尺寸（卡牌局部单位）
const (
	CardWidth         = 2.75
	CardHeight        = 4.75
	CardCornerRadius  = 0.125
	CardDepth         = 0.025
	CardCurveSegments = 12
)

// CardShape 卡牌圆角矩形轮廓，构造后不可变
type CardShape struct {
	width, height, radius float64
	path                  *gg.Path
	corners               [4]gg.CubicBez
}

// NewCardShape 创建以原点为中心的圆角矩形轮廓
//
// 圆角半径超过短边一半时会被截断。宽高或半径非正属于调用方的编程错误，直接 panic。
func NewCardShape(width, height, radius float64) *CardShape {
	if !(width > 0) || !(height > 0) || !(radius > 0) {
		panic(fmt.Sprintf("geometry: invalid card shape %vx%v r=%v", width, height, radius))
	}
	if maxR := math.Min(width, height) / 2; radius > maxR {
		radius = maxR
	}

	w, h, c := width/2, height/2, radius
	s := &CardShape{width: width, height: height, radius: radius, path: gg.NewPath()}

	// 每个圆角的第一个控制点落在真实的矩形角上，后两个点都落在直边的起点，
	// 这样曲线在两端都与相邻直边相切
	s.corners = [4]gg.CubicBez{
		gg.NewCubicBez(gg.Pt(-w, h-c), gg.Pt(-w, h), gg.Pt(-w+c, h), gg.Pt(-w+c, h)),     // 左上
		gg.NewCubicBez(gg.Pt(w-c, h), gg.Pt(w, h), gg.Pt(w, h-c), gg.Pt(w, h-c)),         // 右上
		gg.NewCubicBez(gg.Pt(w, -h+c), gg.Pt(w, -h), gg.Pt(w-c, -h), gg.Pt(w-c, -h)),     // 右下
		gg.NewCubicBez(gg.Pt(-w+c, -h), gg.Pt(-w, -h), gg.Pt(-w, -h+c), gg.Pt(-w, -h+c)), // 左下
	}

	s.path.MoveTo(-w, h-c)
	for i, corner := range s.corners {
		s.path.CubicTo(corner.P1.X, corner.P1.Y, corner.P2.X, corner.P2.Y, corner.P3.X, corner.P3.Y)
		// 直边连到下一个圆角的起点
		next := s.corners[(i+1)%len(s.corners)].P0
		s.path.LineTo(next.X, next.Y)
	}
	s.path.Close()

	return s
}

// Width 轮廓宽度
func (s *CardShape) Width() float64 { return s.width }

// Height 轮廓高度
func (s *CardShape) Height() float64 { return s.height }

// Radius 实际使用的圆角半径（可能已被截断）
func (s *CardShape) Radius() float64 { return s.radius }

// Path 返回轮廓路径的副本
func (s *CardShape) Path() *gg.Path { return s.path.Clone() }

// Corners 四段圆角曲线，顺序为左上、右上、右下、左下
func (s *CardShape) Corners() [4]gg.CubicBez { return s.corners }

// Bounds 轮廓的紧致包围盒
func (s *CardShape) Bounds() gg.Rect {
	return s.path.BoundingBox()
}

// Contains 点是否位于轮廓内（卡牌局部坐标）
func (s *CardShape) Contains(x, y float64) bool {
	return s.path.Contains(gg.Pt(x, y))
}

// Outline 按每段圆角 segments 等分采样闭合轮廓
//
// 返回的点按逆时针（y 轴向上）排列且首尾不重复；closed 表示最后一个采样点
// 与起点重合，即路径确实闭合。
func (s *CardShape) Outline(segments int) (points []gg.Point, closed bool) {
	if segments < 1 {
		segments = 1
	}

	start := s.corners[0].P0
	points = append(points, start)
	for i, corner := range s.corners {
		for k := 1; k <= segments; k++ {
			points = append(points, corner.Eval(float64(k)/float64(segments)))
		}
		// 圆角半径为短边一半时直边长度为零，不重复添加
		if next := s.corners[(i+1)%len(s.corners)].P0; next.Distance(points[len(points)-1]) > 1e-12 {
			points = append(points, next)
		}
	}

	last := points[len(points)-1]
	closed = last.Distance(start) < 1e-12
	if closed {
		points = points[:len(points)-1]
	}

	// 轮廓按顺时针绘制，反转为逆时针以便正面三角形朝向 +Z
	if signedArea(points) < 0 {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}
	return points, closed
}

// signedArea 多边形有向面积，逆时针为正（y 轴向上）
func signedArea(points []gg.Point) float64 {
	var area float64
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		area += a.Cross(b)
	}
	return area / 2
}

// cornerTangents 返回圆角曲线在起点和终点的切线方向（单位向量）
//
// 控制点与端点重合时导数为零，此时退到下一个不重合的控制点求方向。
func cornerTangents(c gg.CubicBez) (start, end gg.Point) {
	start = firstNonZero(c.P1.Sub(c.P0), c.P2.Sub(c.P0), c.P3.Sub(c.P0))
	end = firstNonZero(c.P3.Sub(c.P2), c.P3.Sub(c.P1), c.P3.Sub(c.P0))
	return start, end
}

func firstNonZero(candidates ...gg.Point) gg.Point {
	for _, v := range candidates {
		if l := v.Length(); l > 1e-12 {
			return v.Div(l)
		}
	}
	return gg.Point{}
}

// CheckTangentContinuity 检查每个圆角与相邻直边是否切线连续
//
// 返回第一个不连续处的描述；全部连续时返回 nil。
func (s *CardShape) CheckTangentContinuity() error {
	n := len(s.corners)
	for i, corner := range s.corners {
		prevEnd := s.corners[(i+n-1)%n].P3
		nextStart := s.corners[(i+1)%n].P0

		startTan, endTan := cornerTangents(corner)

		// 直边长度为零时，圆角直接与相邻圆角相接，改为比较相邻圆角的切线
		inEdge := firstNonZero(corner.P0.Sub(prevEnd))
		if inEdge == (gg.Point{}) {
			_, inEdge = cornerTangents(s.corners[(i+n-1)%n])
		}
		outEdge := firstNonZero(nextStart.Sub(corner.P3))
		if outEdge == (gg.Point{}) {
			outEdge, _ = cornerTangents(s.corners[(i+1)%n])
		}

		if startTan.Sub(inEdge).Length() > 1e-9 {
			return fmt.Errorf("corner %d: start tangent %v does not follow incoming edge %v", i, startTan, inEdge)
		}
		if endTan.Sub(outEdge).Length() > 1e-9 {
			return fmt.Errorf("corner %d: end tangent %v does not follow outgoing edge %v", i, endTan, outEdge)
		}
	}
	return nil
}
