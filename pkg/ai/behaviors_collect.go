package ai

import (
	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

func condCollectPowerups(bb bt.Blackboard) bool {
	board := bb.(*Blackboard)
	return board.Config.CollectPowerups && len(board.Sim.Arena.PowerupCells()) > 0
}

// actFindPowerup 最近的、不经过危险格子就能走到的道具
func actFindPowerup(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	a := board.Sim.Arena
	item, ok := findNearest(playerCell(board.Sim), safeWalkableFunc(board.Sim, board.Danger), func(c core.GridPos) bool {
		_, has := a.Powerup(c)
		return has
	})
	if !ok {
		return bt.StatusFailure
	}
	board.Item = &item
	return bt.StatusSuccess
}

func actMoveToItem(bb bt.Blackboard) bt.Status {
	board := bb.(*Blackboard)
	if board.Item == nil {
		return bt.StatusFailure
	}
	st := moveTo(board, *board.Item)
	if st == bt.StatusSuccess {
		// 站上去下一帧就会拾取
		return bt.StatusRunning
	}
	return st
}
