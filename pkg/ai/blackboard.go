package ai

import (
	"math/rand"

	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

type Blackboard struct {
	Sim    *core.Simulation
	Player *core.Player
	RNG    *rand.Rand
	Danger *DangerField
	Config *Config

	Frame int64

	// 炸砖目标，在思考间隔内保持
	Target         *core.GridPos
	TargetChosenAt int64
	// 放不下炸弹（逃不掉）的格子 -> 可以再次尝试的帧号
	Rejected map[core.GridPos]int64

	// 道具目标，每帧重新搜索
	Item *core.GridPos

	EscapeTo  *core.GridPos
	NextInput core.Input

	// 游荡方向
	WanderDirection core.DirectionType
	WanderFrames    int
}

// ResetFrame 每帧开始时刷新局面
// Target、EscapeTo 和游荡状态跨帧保留
func (bb *Blackboard) ResetFrame(sim *core.Simulation) {
	bb.Sim = sim
	bb.Player = sim.Player
	bb.Frame = sim.Frame()
	bb.Item = nil
	bb.NextInput = core.Input{}
	for c, until := range bb.Rejected {
		if bb.Frame >= until {
			delete(bb.Rejected, c)
		}
	}
}

// Forget 清空跨帧目标（新的一局）
func (bb *Blackboard) Forget() {
	bb.Target = nil
	bb.EscapeTo = nil
	bb.WanderDirection = core.DirNone
	bb.WanderFrames = 0
	clear(bb.Rejected)
}

func (bb *Blackboard) AsBT() bt.Blackboard {
	return bb
}
