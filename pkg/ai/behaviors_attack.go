package ai

import (
	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

func condHasBombCapacity(bb bt.Blackboard) bool {
	board := bb.(*Blackboard)
	active := 0
	for _, b := range board.Sim.Bombs() {
		if b.IsLive() {
			active++
		}
	}
	return active < board.Player.MaxBombs
}

// actFindTarget 选一个紧挨软墙、可以安全到达的格子
// 目标在思考间隔内保持，除非旁边已经没有软墙
func actFindTarget(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	sim := board.Sim

	if board.Target != nil && board.Frame-board.TargetChosenAt < int64(board.Config.ThinkIntervalFrames) &&
		nextToBrick(sim, *board.Target) {
		return bt.StatusSuccess
	}

	target, ok := findNearest(playerCell(sim), safeWalkableFunc(sim, board.Danger), func(c core.GridPos) bool {
		_, rejected := board.Rejected[c]
		return !rejected && nextToBrick(sim, c)
	})
	if !ok {
		board.Target = nil
		return bt.StatusFailure
	}
	board.Target = &target
	board.TargetChosenAt = board.Frame
	return bt.StatusSuccess
}

// actPreCheckEscape 到达目标后，确认放下炸弹还能逃掉；逃不掉就暂时放弃该格
func actPreCheckEscape(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	if board.Target == nil {
		return bt.StatusFailure
	}
	pos := playerCell(board.Sim)
	if *board.Target != pos {
		return bt.StatusSuccess
	}

	temp := board.Danger.WithBomb(board.Sim, pos, board.Player.BombRange)
	if _, ok := findEscape(board.Sim, temp, pos); !ok {
		if board.Rejected == nil {
			board.Rejected = make(map[core.GridPos]int64)
		}
		board.Rejected[pos] = board.Frame + int64(board.Config.ThinkIntervalFrames)
		board.Target = nil
		return bt.StatusFailure
	}
	return bt.StatusSuccess
}

func actMoveToTarget(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	if board.Target == nil {
		return bt.StatusFailure
	}
	st := moveTo(board, *board.Target)
	if st == bt.StatusFailure {
		board.Target = nil
	}
	return st
}

func actPlaceBomb(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	if board.Target == nil || *board.Target != playerCell(board.Sim) {
		return bt.StatusFailure
	}
	board.NextInput = core.Input{Act: true}
	board.Target = nil
	board.EscapeTo = nil
	return bt.StatusSuccess
}

// moveTo 沿不经过危险格子的最短路径走向 target，到达时返回成功
func moveTo(board *Blackboard, target core.GridPos) bt.Status {
	pos := playerCell(board.Sim)
	if target == pos {
		return bt.StatusSuccess
	}
	step, ok := nextStepToward(pos, target, safeWalkableFunc(board.Sim, board.Danger))
	if !ok {
		return bt.StatusFailure
	}
	board.NextInput = inputToward(board.Sim, step)
	return bt.StatusRunning
}

// nextToBrick 上下左右是否有软墙
func nextToBrick(sim *core.Simulation, c core.GridPos) bool {
	a := sim.Arena
	for _, d := range stepDirections {
		n := c.Step(d, 1)
		if n.GridX < 0 || n.GridX >= a.Width || n.GridY < 0 || n.GridY >= a.Height {
			continue
		}
		if a.Tile(n) == core.TileBrick {
			return true
		}
	}
	return false
}
