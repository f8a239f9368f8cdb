// Package ai 自动驾驶：每帧根据局面产生玩家输入
// 危险场估计每个格子何时被炸，BFS 寻路，行为树在逃生、捡道具、炸砖、游荡之间选择
package ai

import (
	"math/rand"

	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

// Autopilot 驱动唯一的玩家；同样的种子和局面产生同样的输入序列
type Autopilot struct {
	rnd    *rand.Rand
	config Config

	blackboard Blackboard
	tree       bt.Node
	danger     DangerField
}

// NewAutopilot 创建自动驾驶
func NewAutopilot(config Config, seed int64) *Autopilot {
	rnd := rand.New(rand.NewSource(seed))
	a := &Autopilot{
		rnd:    rnd,
		config: config,
	}
	a.blackboard = Blackboard{
		RNG:    rnd,
		Danger: &a.danger,
		Config: &a.config,
	}

	a.tree = &bt.Selector{Children: []bt.Node{
		&bt.Sequence{Children: []bt.Node{
			&bt.Condition{Name: "in_danger", Check: condInDanger},
			&bt.Action{Name: "find_safe", Do: actFindSafe},
			&bt.Action{Name: "move_to_safe", Do: actMoveToSafe},
		}},
		&bt.Sequence{Children: []bt.Node{
			&bt.Condition{Name: "collect_powerups", Check: condCollectPowerups},
			&bt.Action{Name: "find_powerup", Do: actFindPowerup},
			&bt.Action{Name: "move_to_item", Do: actMoveToItem},
		}},
		&bt.Sequence{Children: []bt.Node{
			&bt.Condition{Name: "has_bomb_capacity", Check: condHasBombCapacity},
			&bt.Action{Name: "find_target", Do: actFindTarget},
			&bt.Action{Name: "pre_check_escape", Do: actPreCheckEscape},
			&bt.Action{Name: "move_to_target", Do: actMoveToTarget},
			&bt.Action{Name: "place_bomb", Do: actPlaceBomb},
		}},
		&bt.Action{Name: "wander", Do: actWander},
	}}
	return a
}

// Next 产生本帧输入；暂停、死亡、举起动画期间不操作
// 从不返回错误，签名与其他输入源保持一致
func (a *Autopilot) Next(sim *core.Simulation) (core.Input, error) {
	p := sim.Player
	if sim.Paused() || p.Dead || p.Frozen(sim.Frame()) {
		if p.Dead {
			a.blackboard.Forget()
		}
		return core.Input{}, nil
	}

	a.danger.Update(sim, a.config.FullChainRecursion)
	a.blackboard.ResetFrame(sim)
	_ = a.tree.Tick(a.blackboard.AsBT())
	in := a.blackboard.NextInput

	// 随机失误只影响移动，不会乱放炸弹
	if a.config.MistakeRate > 0 && a.rnd.Float64() < a.config.MistakeRate {
		switch a.rnd.Intn(3) {
		case 0:
			in = core.Input{}
		case 1:
			dirs := []core.Input{{Up: true}, {Down: true}, {Left: true}, {Right: true}}
			in = dirs[a.rnd.Intn(len(dirs))]
		case 2:
			// 保持原输入
		}
	}
	return in, nil
}

// Config 当前配置
func (a *Autopilot) Config() Config {
	return a.config
}

// Danger 最近一次计算的危险场
func (a *Autopilot) Danger() *DangerField {
	return &a.danger
}
