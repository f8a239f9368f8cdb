package ai

import (
	"container/list"
	"math"

	"bombarena/pkg/core"
)

// stepDirections BFS 扩展顺序
var stepDirections = []core.DirectionType{core.DirUp, core.DirDown, core.DirLeft, core.DirRight}

type stepNode struct {
	Pos   core.GridPos
	Prev  *stepNode
	Frame int64
}

// passFunc 寻路时某个格子能否经过
type passFunc func(c core.GridPos) bool

func playerCell(sim *core.Simulation) core.GridPos {
	return sim.Player.Cell(sim.Config().CellSize)
}

// isWalkable 玩家能否走进该格：界内、不阻挡、没有落地的未爆炸弹
// 玩家不会穿越地图边缘，寻路不做环绕
func isWalkable(sim *core.Simulation, c core.GridPos) bool {
	a := sim.Arena
	if c.GridX < 0 || c.GridX >= a.Width || c.GridY < 0 || c.GridY >= a.Height {
		return false
	}
	if a.IsBlocking(c) {
		return false
	}
	for _, b := range sim.Bombs() {
		if b.IsLive() && !b.IsAirborne() && sim.BombCell(b) == c {
			return false
		}
	}
	return true
}

func walkableFunc(sim *core.Simulation) passFunc {
	return func(c core.GridPos) bool { return isWalkable(sim, c) }
}

// safeWalkableFunc 可走且不在任何炸弹的爆炸范围内
func safeWalkableFunc(sim *core.Simulation, danger *DangerField) passFunc {
	return func(c core.GridPos) bool { return isWalkable(sim, c) && !danger.InDanger(c) }
}

// nextStepToward 从 start 到 target 最短路径上的下一格
func nextStepToward(start, target core.GridPos, pass passFunc) (core.GridPos, bool) {
	if start == target {
		return start, true
	}
	queue := list.New()
	visited := map[core.GridPos]bool{start: true}
	queue.PushBack(&stepNode{Pos: start})

	var targetNode *stepNode
	for queue.Len() > 0 {
		n := queue.Remove(queue.Front()).(*stepNode)
		if n.Pos == target {
			targetNode = n
			break
		}
		for _, d := range stepDirections {
			next := n.Pos.Step(d, 1)
			if visited[next] || !pass(next) {
				continue
			}
			visited[next] = true
			queue.PushBack(&stepNode{Pos: next, Prev: n})
		}
	}
	if targetNode == nil {
		return core.GridPos{}, false
	}

	for targetNode.Prev != nil && targetNode.Prev.Pos != start {
		targetNode = targetNode.Prev
	}
	return targetNode.Pos, true
}

// findNearest 从 start（含）出发 BFS，返回第一个满足 goal 的格子
func findNearest(start core.GridPos, pass passFunc, goal func(core.GridPos) bool) (core.GridPos, bool) {
	queue := []core.GridPos{start}
	visited := map[core.GridPos]bool{start: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if goal(cur) {
			return cur, true
		}
		for _, d := range stepDirections {
			next := cur.Step(d, 1)
			if visited[next] || !pass(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return core.GridPos{}, false
}

// framesPerCell 走过一格大约需要的帧数（含对齐通道的余量）
func framesPerCell(sim *core.Simulation) int64 {
	return int64(math.Ceil(sim.Config().CellSize/sim.Player.Speed)) + 1
}

// findEscape 按时间展开的 BFS：路上每一格都要在被炸之前离开，终点不受任何炸弹威胁
// 搜索深度不超过一个完整引信
func findEscape(sim *core.Simulation, danger *DangerField, start core.GridPos) (core.GridPos, bool) {
	now := sim.Frame()
	per := framesPerCell(sim)
	queue := list.New()
	visited := map[core.GridPos]bool{start: true}
	queue.PushBack(&stepNode{Pos: start, Frame: now})

	for queue.Len() > 0 {
		n := queue.Remove(queue.Front()).(*stepNode)
		if !danger.InDanger(n.Pos) {
			return n.Pos, true
		}
		// 还要在这一格停留一格的时间才能离开
		if !danger.SafeAt(n.Pos, n.Frame+per) {
			continue
		}
		next := n.Frame + per
		if next-now > danger.fuse {
			continue
		}
		for _, d := range stepDirections {
			c := n.Pos.Step(d, 1)
			if visited[c] || !isWalkable(sim, c) {
				continue
			}
			visited[c] = true
			queue.PushBack(&stepNode{Pos: c, Frame: next})
		}
	}
	return core.GridPos{}, false
}
