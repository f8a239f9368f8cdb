package ai

import (
	"math"

	"bombarena/pkg/core"
)

// laneTolerance 拐弯前与通道中线的最大偏差（像素）
const laneTolerance = 2.0

// inputToward 朝相邻格子 next 移动的输入
// 要横向移动先对齐横向通道的中线，纵向同理，避免卡在墙角
func inputToward(sim *core.Simulation, next core.GridPos) core.Input {
	p := sim.Player
	cs := sim.Config().CellSize
	cur := p.Cell(cs)
	center := core.CellCenter(cur, cs)
	// 速度较快时一步可能越过中线，容差至少半步
	tol := math.Max(laneTolerance, p.Speed/2)

	dx := next.GridX - cur.GridX
	dy := next.GridY - cur.GridY
	var in core.Input
	switch {
	case dx != 0:
		if off := p.Pos.Y - center.Y; math.Abs(off) > tol {
			in.Up = off > 0
			in.Down = off < 0
			return in
		}
		in.Right = dx > 0
		in.Left = dx < 0
	case dy != 0:
		if off := p.Pos.X - center.X; math.Abs(off) > tol {
			in.Left = off > 0
			in.Right = off < 0
			return in
		}
		in.Down = dy > 0
		in.Up = dy < 0
	}
	return in
}

// inputDirection 朝某个方向走一格
func inputDirection(sim *core.Simulation, dir core.DirectionType) core.Input {
	return inputToward(sim, playerCell(sim).Step(dir, 1))
}
