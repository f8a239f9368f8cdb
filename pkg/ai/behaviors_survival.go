package ai

import (
	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

func condInDanger(bb bt.Blackboard) bool {
	board := bb.(*Blackboard)
	return board.Danger.InDanger(playerCell(board.Sim))
}

// actFindSafe 选择逃生点；已有的逃生点仍然安全且可达时保持不变
func actFindSafe(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	start := playerCell(board.Sim)

	if board.EscapeTo != nil && !board.Danger.InDanger(*board.EscapeTo) {
		if _, ok := nextStepToward(start, *board.EscapeTo, walkableFunc(board.Sim)); ok {
			return bt.StatusSuccess
		}
	}

	best, ok := findEscape(board.Sim, board.Danger, start)
	if !ok {
		// 来不及了也要跑，找最近的安全格
		best, ok = findNearest(start, walkableFunc(board.Sim), func(c core.GridPos) bool {
			return !board.Danger.InDanger(c)
		})
	}
	if !ok {
		board.EscapeTo = nil
		return bt.StatusFailure
	}
	board.EscapeTo = &best
	return bt.StatusSuccess
}

func actMoveToSafe(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	if board.EscapeTo == nil {
		return bt.StatusFailure
	}
	start := playerCell(board.Sim)
	step, ok := nextStepToward(start, *board.EscapeTo, walkableFunc(board.Sim))
	if !ok {
		board.EscapeTo = nil
		return bt.StatusFailure
	}
	if step != start {
		board.NextInput = inputToward(board.Sim, step)
	}
	return bt.StatusRunning
}
