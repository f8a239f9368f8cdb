package core

import "math"

// Vec2 像素坐标/速度
type Vec2 struct {
	X, Y float64
}

// Add 向量加法
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量减法
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 数乘
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len 长度
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// CircleOverlapsCell 圆与格子矩形是否重叠（最近点距离判定，严格小于）
func CircleOverlapsCell(center Vec2, radius float64, cell GridPos, cellSize float64) bool {
	left := float64(cell.GridX) * cellSize
	top := float64(cell.GridY) * cellSize
	closestX := math.Max(left, math.Min(center.X, left+cellSize))
	closestY := math.Max(top, math.Min(center.Y, top+cellSize))
	dx := center.X - closestX
	dy := center.Y - closestY
	return dx*dx+dy*dy < radius*radius
}

// CircleOverlapsCircle 两圆是否重叠
func CircleOverlapsCircle(c1 Vec2, r1 float64, c2 Vec2, r2 float64) bool {
	dx := c1.X - c2.X
	dy := c1.Y - c2.Y
	minDist := r1 + r2
	return dx*dx+dy*dy < minDist*minDist
}

// CircleBoxesDisjoint 两个圆的外接正方形是否完全分离
func CircleBoxesDisjoint(c1 Vec2, r1 float64, c2 Vec2, r2 float64) bool {
	return c1.X+r1 <= c2.X-r2 || c2.X+r2 <= c1.X-r1 ||
		c1.Y+r1 <= c2.Y-r2 || c2.Y+r2 <= c1.Y-r1
}

// CellOf 像素坐标所在格子（未环绕）
func CellOf(p Vec2, cellSize float64) GridPos {
	return GridPos{
		GridX: int(math.Floor(p.X / cellSize)),
		GridY: int(math.Floor(p.Y / cellSize)),
	}
}

// CellCenter 格子中心像素坐标
func CellCenter(c GridPos, cellSize float64) Vec2 {
	return Vec2{
		X: (float64(c.GridX) + 0.5) * cellSize,
		Y: (float64(c.GridY) + 0.5) * cellSize,
	}
}

// wrapFloat 把坐标折回 [0, size)
func wrapFloat(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

// toroidalDelta 环形空间中 a 到 b 的最短位移分量
func toroidalDelta(a, b, size float64) float64 {
	d := b - a
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}
