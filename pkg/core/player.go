package core

import "math"

// Player 玩家（纯逻辑，不包含渲染）
// 位置为圆心像素坐标，时间单位为帧
type Player struct {
	Pos       Vec2
	Radius    float64
	Speed     float64       // 像素/帧
	Direction DirectionType // 朝向
	IsMoving  bool
	Dead      bool
	DeathTime int64

	MaxBombs   int  // 最大同时炸弹数
	BombRange  int  // 炸弹爆炸范围
	CanKick    bool // 踢炸弹
	CanCatch   bool // 举起投掷炸弹
	Invincible bool

	FrozenUntil int64 // 举起动画期间不能移动
}

// NewPlayer 在出生格中心创建玩家
func NewPlayer(cfg Config, spawn GridPos) *Player {
	p := &Player{}
	p.reset(cfg, spawn)
	return p
}

// reset 回到初始能力，无敌开关保留
func (p *Player) reset(cfg Config, spawn GridPos) {
	invincible := p.Invincible
	*p = Player{
		Pos:        CellCenter(spawn, cfg.CellSize),
		Radius:     cfg.PlayerRadius,
		Speed:      cfg.MoveSpeed,
		Direction:  DirDown,
		MaxBombs:   cfg.BombCapacity,
		BombRange:  cfg.ExplosionRange,
		Invincible: invincible,
	}
}

// Cell 玩家所在格子
func (p *Player) Cell(cellSize float64) GridPos {
	return CellOf(p.Pos, cellSize)
}

// Frozen 是否处于举起动画中
func (p *Player) Frozen(now int64) bool {
	return now < p.FrozenUntil
}

// ApplyPowerup 道具生效（能力只增不减）
func (p *Player) ApplyPowerup(kind PowerupType, cfg Config) {
	switch kind {
	case PowerupCapacity:
		p.MaxBombs++
	case PowerupSpeed:
		p.Speed += cfg.SpeedStep
	case PowerupRange:
		p.BombRange++
	case PowerupKick:
		p.CanKick = true
	case PowerupCatch:
		p.CanCatch = true
	}
}

// Move 按轴分离移动玩家：先 X 后 Y，每轴被挡则该轴本帧不动
// 参数 dx, dy 是像素/帧的移动距离
func (p *Player) Move(dx, dy float64, s *Simulation) bool {
	if p.Dead {
		return false
	}
	standing := s.standingBombs()
	moved := false
	if dx != 0 && p.moveAxis(dx, 0, s, standing) {
		moved = true
	}
	if dy != 0 && p.moveAxis(0, dy, s, standing) {
		moved = true
	}
	p.IsMoving = moved
	return moved
}

func (p *Player) moveAxis(dx, dy float64, s *Simulation, standing map[int]bool) bool {
	next := p.Pos.Add(Vec2{X: dx, Y: dy})
	if !p.blockedAt(next, s, standing) {
		p.Pos = next
		return true
	}
	if corrected, ok := p.tryCornerCorrection(dx, dy, s, standing); ok {
		p.Pos = corrected
		return true
	}
	return false
}

// blockedAt 在 pos 处是否与地图边界、阻挡格子或炸弹相撞
func (p *Player) blockedAt(pos Vec2, s *Simulation, standing map[int]bool) bool {
	cfg := s.cfg
	w, h := cfg.WorldSize()
	if pos.X-p.Radius < 0 || pos.X+p.Radius >= w || pos.Y-p.Radius < 0 || pos.Y+p.Radius >= h {
		return true
	}

	bombRadius := cfg.BombRadius()
	for _, b := range s.bombs {
		// 爆炸中、空中、脚下的炸弹都不挡路
		if b.IsExploded() || b.IsAirborne() || standing[b.ID] {
			continue
		}
		if CircleOverlapsCircle(pos, p.Radius, b.Pos, bombRadius) {
			return true
		}
	}

	r := p.Radius + cfg.CornerTolerance
	minCell := CellOf(pos.Sub(Vec2{X: r, Y: r}), cfg.CellSize)
	maxCell := CellOf(pos.Add(Vec2{X: r, Y: r}), cfg.CellSize)
	for gy := minCell.GridY; gy <= maxCell.GridY; gy++ {
		for gx := minCell.GridX; gx <= maxCell.GridX; gx++ {
			c := GridPos{GridX: gx, GridY: gy}
			if s.Arena.IsBlocking(c) && CircleOverlapsCell(pos, r, c, cfg.CellSize) {
				return true
			}
		}
	}
	return false
}

// tryCornerCorrection 单轴被挡时，若离通道中线不远，则边前进边向中线靠拢；仍被挡则只靠拢
func (p *Player) tryCornerCorrection(dx, dy float64, s *Simulation, standing map[int]bool) (Vec2, bool) {
	if (dx == 0) == (dy == 0) {
		return Vec2{}, false
	}
	limit := s.cfg.CornerSlide

	if dx != 0 {
		offset := p.nearestLane(p.Pos.Y, s.cfg.CellSize) - p.Pos.Y
		if offset == 0 || math.Abs(offset) > limit {
			return Vec2{}, false
		}
		step := math.Copysign(math.Min(math.Abs(offset), math.Abs(dx)), offset)
		if next := (Vec2{X: p.Pos.X + dx, Y: p.Pos.Y + step}); !p.blockedAt(next, s, standing) {
			return next, true
		}
		if next := (Vec2{X: p.Pos.X, Y: p.Pos.Y + step}); !p.blockedAt(next, s, standing) {
			return next, true
		}
		return Vec2{}, false
	}

	offset := p.nearestLane(p.Pos.X, s.cfg.CellSize) - p.Pos.X
	if offset == 0 || math.Abs(offset) > limit {
		return Vec2{}, false
	}
	step := math.Copysign(math.Min(math.Abs(offset), math.Abs(dy)), offset)
	if next := (Vec2{X: p.Pos.X + step, Y: p.Pos.Y + dy}); !p.blockedAt(next, s, standing) {
		return next, true
	}
	if next := (Vec2{X: p.Pos.X + step, Y: p.Pos.Y}); !p.blockedAt(next, s, standing) {
		return next, true
	}
	return Vec2{}, false
}

// nearestLane 最近的格子中线坐标
func (p *Player) nearestLane(v, cellSize float64) float64 {
	return (math.Floor(v/cellSize) + 0.5) * cellSize
}

// applyInput 把输入转换成位移并移动，斜向归一化
func (p *Player) applyInput(in Input, s *Simulation) {
	ix, iy := in.Axis()
	if ix == 0 && iy == 0 {
		p.IsMoving = false
		return
	}
	moveX := float64(ix) * p.Speed
	moveY := float64(iy) * p.Speed
	// 斜向移动时进行归一化，避免速度变快
	if moveX != 0 && moveY != 0 {
		moveX *= 0.70710678
		moveY *= 0.70710678
	}
	p.Direction = in.Intent()
	p.Move(moveX, moveY, s)
}
