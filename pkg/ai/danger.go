package ai

import (
	"math"

	"bombarena/pkg/core"
)

// noDanger 没有任何炸弹会炸到该格
const noDanger = int64(math.MaxInt64)

// threat 一颗尚未爆炸的炸弹：落点、范围、预计爆炸帧
type threat struct {
	cell  core.GridPos
	rng   int
	at    int64
	cells []core.GridPos
}

// DangerField 每个格子最早被炸到的帧号
// 连锁会把被波及炸弹的爆炸时间提前到引爆它的那一颗
type DangerField struct {
	width, height int
	now           int64
	fuse          int64
	fullChain     bool

	threats  []threat
	earliest []int64
}

// Update 按当前局面重建危险场
// 空中的炸弹引信暂停，按落点和剩余引信估计
// 爆炸只在引爆那一帧伤人，残留火焰不计入
func (df *DangerField) Update(sim *core.Simulation, fullChain bool) {
	df.width, df.height = sim.Arena.Width, sim.Arena.Height
	df.now = sim.Frame()
	df.fuse = sim.Clock().Frames(sim.Config().FuseDuration)
	df.fullChain = fullChain

	df.threats = df.threats[:0]
	for _, b := range sim.Bombs() {
		if b.IsExploded() {
			continue
		}
		cell := sim.BombCell(b)
		if t, ok := b.State.(*core.Thrown); ok {
			cell = t.FinalTarget
		}
		df.threats = append(df.threats, threat{cell: cell, rng: b.Range, at: df.now + b.FuseRemaining(df.now)})
	}
	df.apply(sim)
}

// WithBomb 假设在 cell 放一颗新炸弹后的危险场，不修改 df
func (df *DangerField) WithBomb(sim *core.Simulation, cell core.GridPos, rng int) *DangerField {
	out := &DangerField{
		width:     df.width,
		height:    df.height,
		now:       df.now,
		fuse:      df.fuse,
		fullChain: df.fullChain,
		threats:   make([]threat, len(df.threats), len(df.threats)+1),
	}
	copy(out.threats, df.threats)
	out.threats = append(out.threats, threat{cell: sim.Arena.Wrap(cell), rng: rng, at: df.now + df.fuse})
	out.apply(sim)
	return out
}

func (df *DangerField) apply(sim *core.Simulation) {
	size := df.width * df.height
	if cap(df.earliest) < size {
		df.earliest = make([]int64, size)
	}
	df.earliest = df.earliest[:size]
	for i := range df.earliest {
		df.earliest[i] = noDanger
	}

	for i := range df.threats {
		t := &df.threats[i]
		t.cells = sim.BlastCells(t.cell, t.rng)
	}

	// 连锁：被波及的炸弹与引爆者同帧爆炸；只算一层时扫一遍即止
	for {
		changed := false
		for i := range df.threats {
			src := df.threats[i]
			for _, c := range src.cells {
				for j := range df.threats {
					if j != i && df.threats[j].cell == c && df.threats[j].at > src.at {
						df.threats[j].at = src.at
						changed = true
					}
				}
			}
		}
		if !changed || !df.fullChain {
			break
		}
	}

	for _, t := range df.threats {
		for _, c := range t.cells {
			i := df.index(c)
			if t.at < df.earliest[i] {
				df.earliest[i] = t.at
			}
		}
	}
}

func (df *DangerField) index(c core.GridPos) int {
	return c.GridY*df.width + c.GridX
}

func (df *DangerField) inBounds(c core.GridPos) bool {
	return c.GridX >= 0 && c.GridX < df.width && c.GridY >= 0 && c.GridY < df.height
}

// Earliest 格子最早被炸到的帧号，没有威胁时 ok 为 false
func (df *DangerField) Earliest(c core.GridPos) (int64, bool) {
	if !df.inBounds(c) {
		return 0, false
	}
	at := df.earliest[df.index(c)]
	return at, at != noDanger
}

// Level 危险程度 [0,1]，越接近爆炸越高
func (df *DangerField) Level(c core.GridPos) float64 {
	at, ok := df.Earliest(c)
	if !ok {
		return 0
	}
	remaining := float64(at - df.now)
	switch {
	case remaining <= 0:
		return 1
	case remaining >= float64(df.fuse):
		return 0
	}
	return 1 - remaining/float64(df.fuse)
}

// InDanger 是否有炸弹会炸到该格；越界视为危险
func (df *DangerField) InDanger(c core.GridPos) bool {
	if !df.inBounds(c) {
		return true
	}
	return df.earliest[df.index(c)] != noDanger
}

// SafeAt 在 frame 帧时该格是否还没被炸
func (df *DangerField) SafeAt(c core.GridPos, frame int64) bool {
	if !df.inBounds(c) {
		return false
	}
	return frame < df.earliest[df.index(c)]
}
