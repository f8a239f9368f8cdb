package core

import "time"

// BombView 表现层看到的炸弹
type BombView struct {
	ID            int
	Pos           Vec2
	Cell          GridPos
	Phase         Phase
	Stage         ThrowStage // 仅投掷阶段有效
	FuseRemaining time.Duration
	ArcProgress   float64 // 投掷飞行进度 0..1（按累计距离 / 到最终落点的距离）
	Cells         []GridPos
	PowerupCells  []GridPos
	ExplodedAt    time.Duration
}

// PowerupView 道具
type PowerupView struct {
	Cell GridPos
	Type PowerupType
}

// AnimView 计时动画（破碎中的软墙、道具炸毁标记）
type AnimView struct {
	Cell  GridPos
	Start time.Duration
}

// PlayerView 玩家
type PlayerView struct {
	Pos        Vec2
	Cell       GridPos
	Direction  DirectionType
	Moving     bool
	Dead       bool
	DeathTime  time.Duration
	Invincible bool
	Lifting    bool
	MaxBombs   int
	BombRange  int
	Speed      float64
	CanKick    bool
	CanCatch   bool
}

// Snapshot 只读的一帧状态，表现层据此绘制和插值动画
type Snapshot struct {
	Frame    int64
	Now      time.Duration
	Paused   bool
	Width    int
	Height   int
	CellSize float64
	Tiles    []TileType // 行优先

	Breaking []AnimView
	Burning  []AnimView
	Powerups []PowerupView
	Bombs    []BombView
	Player   PlayerView

	BreakDuration     time.Duration
	ItemBurnDuration  time.Duration
	ExplosionDuration time.Duration
}

// Tile 快照中的格子类型
func (sn *Snapshot) Tile(x, y int) TileType {
	return sn.Tiles[y*sn.Width+x]
}

// Snapshot 导出当前状态（深拷贝，不与模拟共享内存）
func (s *Simulation) Snapshot() Snapshot {
	a := s.Arena
	now := s.clock.Frame()
	sn := Snapshot{
		Frame:             now,
		Now:               s.clock.At(now),
		Paused:            s.paused,
		Width:             a.Width,
		Height:            a.Height,
		CellSize:          s.cfg.CellSize,
		Tiles:             append([]TileType(nil), a.tiles...),
		BreakDuration:     s.cfg.BreakDuration,
		ItemBurnDuration:  s.cfg.ItemBurnDelay,
		ExplosionDuration: s.cfg.ExplosionDuration,
	}
	for _, b := range a.breaking {
		sn.Breaking = append(sn.Breaking, AnimView{Cell: b.Cell, Start: s.clock.At(b.Start)})
	}
	for _, b := range a.burning {
		sn.Burning = append(sn.Burning, AnimView{Cell: b.Cell, Start: s.clock.At(b.Start)})
	}
	for _, c := range a.PowerupCells() {
		sn.Powerups = append(sn.Powerups, PowerupView{Cell: c, Type: a.powerups[c]})
	}
	for _, b := range s.bombs {
		sn.Bombs = append(sn.Bombs, s.bombView(b, now))
	}

	p := s.Player
	sn.Player = PlayerView{
		Pos:        p.Pos,
		Cell:       a.Wrap(p.Cell(s.cfg.CellSize)),
		Direction:  p.Direction,
		Moving:     p.IsMoving,
		Dead:       p.Dead,
		Invincible: p.Invincible,
		Lifting:    p.Frozen(now),
		MaxBombs:   p.MaxBombs,
		BombRange:  p.BombRange,
		Speed:      p.Speed,
		CanKick:    p.CanKick,
		CanCatch:   p.CanCatch,
	}
	if p.Dead {
		sn.Player.DeathTime = s.clock.At(p.DeathTime)
	}
	return sn
}

func (s *Simulation) bombView(b *Bomb, now int64) BombView {
	v := BombView{
		ID:            b.ID,
		Pos:           b.Pos,
		Cell:          s.BombCell(b),
		Phase:         b.Phase(),
		FuseRemaining: s.clock.At(b.FuseRemaining(now)),
	}
	switch st := b.State.(type) {
	case *Thrown:
		v.Stage = st.Stage
		if total := s.throwDistance(st); total > 0 {
			v.ArcProgress = st.Traveled / total
			if v.ArcProgress > 1 {
				v.ArcProgress = 1
			}
		}
	case *Exploding:
		v.Cells = append([]GridPos(nil), st.Cells...)
		v.PowerupCells = append([]GridPos(nil), st.PowerupCells...)
		v.ExplodedAt = s.clock.At(st.At)
		v.FuseRemaining = 0
	}
	return v
}

// throwDistance 从出手格到当前落点沿投掷方向的像素距离（含环绕）
func (s *Simulation) throwDistance(t *Thrown) float64 {
	steps := 0
	s.Arena.Walk(t.Origin, t.Dir, s.Arena.AxisLength(t.Dir)*4, func(i int, c GridPos) bool {
		steps = i
		return i == 0 || c != t.FinalTarget
	})
	// 弹跳后距离按已飞行距离 + 剩余格数估算
	if t.Traveled > float64(steps)*s.cfg.CellSize {
		return t.Traveled + s.cfg.CellSize
	}
	return float64(steps) * s.cfg.CellSize
}
