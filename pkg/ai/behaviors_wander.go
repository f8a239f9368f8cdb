package ai

import (
	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

// 游荡方向持续帧数
const wanderDirectionFrames = 30 // 保持同一方向约 0.5 秒

func actWander(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	if board.RNG == nil {
		return bt.StatusFailure
	}
	sim := board.Sim
	pos := playerCell(sim)

	// 当前方向仍然可行且未超时，继续保持
	if board.WanderFrames > 0 && board.WanderDirection != core.DirNone {
		board.WanderFrames--
		if canWander(sim, board.Danger, pos, board.WanderDirection) {
			board.NextInput = inputDirection(sim, board.WanderDirection)
			return bt.StatusRunning
		}
		board.WanderDirection = core.DirNone
		board.WanderFrames = 0
	}

	dirs := wanderDirections(pos, func(c core.GridPos) bool {
		return isWalkable(sim, c) && !board.Danger.InDanger(c)
	})
	if len(dirs) == 0 {
		// 没有安全方向，站着不动
		return bt.StatusRunning
	}
	board.WanderDirection = dirs[board.RNG.Intn(len(dirs))]
	board.WanderFrames = wanderDirectionFrames
	board.NextInput = inputDirection(sim, board.WanderDirection)
	return bt.StatusRunning
}

// canWander 相邻格可走且安全
func canWander(sim *core.Simulation, danger *DangerField, pos core.GridPos, dir core.DirectionType) bool {
	next := pos.Step(dir, 1)
	return isWalkable(sim, next) && !danger.InDanger(next)
}

func wanderDirections(pos core.GridPos, pass passFunc) []core.DirectionType {
	result := make([]core.DirectionType, 0, len(stepDirections))
	for _, d := range stepDirections {
		if pass(pos.Step(d, 1)) {
			result = append(result, d)
		}
	}
	return result
}
