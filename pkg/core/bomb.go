package core

// Phase 炸弹生命周期阶段
type Phase int

const (
	PhaseArmed     Phase = iota // 静止，引信燃烧
	PhaseKicked                 // 被踢出后匀速滑行，引信燃烧
	PhaseThrown                 // 举起/空中，引信暂停
	PhaseExploding              // 爆炸中（终态），可见时长结束后移除
)

// String 返回阶段名
func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseKicked:
		return "kicked"
	case PhaseThrown:
		return "thrown"
	case PhaseExploding:
		return "exploding"
	}
	return "unknown"
}

// BombState 各阶段独有的数据，只有当前阶段的字段存在
type BombState interface {
	Phase() Phase
}

// Armed 静止阶段
type Armed struct{}

// Phase 实现 BombState
func (Armed) Phase() Phase { return PhaseArmed }

// Kicked 滑行阶段
type Kicked struct {
	Dir      DirectionType
	Velocity Vec2 // 像素/帧，被挡住的轴清零
}

// Phase 实现 BombState
func (*Kicked) Phase() Phase { return PhaseKicked }

// ThrowStage 投掷子阶段
type ThrowStage int

const (
	ThrowLifting    ThrowStage = iota // 举起动画，尚未出手
	ThrowArcInitial                   // 飞向固定 3 格的弧线目标，忽略障碍
	ThrowArcFinal                     // 飞向最终落点，遇障碍弹跳
)

// String 返回子阶段名
func (s ThrowStage) String() string {
	switch s {
	case ThrowLifting:
		return "lifting"
	case ThrowArcInitial:
		return "arc_initial"
	case ThrowArcFinal:
		return "arc_final"
	}
	return "unknown"
}

// Thrown 投掷阶段
type Thrown struct {
	Stage         ThrowStage
	Origin        GridPos
	Dir           DirectionType
	InitialTarget GridPos
	FinalTarget   GridPos
	Bounced       map[GridPos]bool // 本次飞行已弹过的障碍格
	Speed         float64
	Traveled      float64 // 出手后累计飞行距离（含环绕）
	LiftedAt      int64   // 引信从此帧暂停
	LaunchAt      int64
	LastCell      GridPos
	WrappedAt     int64
	Wrapped       bool
}

// Phase 实现 BombState
func (*Thrown) Phase() Phase { return PhaseThrown }

// Exploding 爆炸阶段
type Exploding struct {
	At           int64
	Cells        []GridPos
	PowerupCells []GridPos // 爆炸时带道具的格子，表现层据此隐藏火焰
}

// Phase 实现 BombState
func (*Exploding) Phase() Phase { return PhaseExploding }

// Bomb 炸弹（纯逻辑结构，不包含渲染）
// 时间戳均为帧号
type Bomb struct {
	ID        int
	Pos       Vec2 // 中心像素坐标
	FuseStart int64
	Fuse      int64 // 引信帧数
	Range     int
	State     BombState

	// 玩家完全离开炸弹后才能踢
	vacated   bool
	VacatedAt int64
}

// NewBomb 在格子中心创建新炸弹
func NewBomb(id int, cell GridPos, cellSize float64, fuse int64, bombRange int, now int64) *Bomb {
	return &Bomb{
		ID:        id,
		Pos:       CellCenter(cell, cellSize),
		FuseStart: now,
		Fuse:      fuse,
		Range:     bombRange,
		State:     Armed{},
	}
}

// Phase 当前阶段
func (b *Bomb) Phase() Phase {
	return b.State.Phase()
}

// IsExploded 是否已经爆炸
func (b *Bomb) IsExploded() bool {
	return b.Phase() == PhaseExploding
}

// IsAirborne 是否被举起或在空中
func (b *Bomb) IsAirborne() bool {
	return b.Phase() == PhaseThrown
}

// IsLive 未爆炸
func (b *Bomb) IsLive() bool {
	return !b.IsExploded()
}

// ShouldExplode 引信是否燃尽（空中时引信暂停）
func (b *Bomb) ShouldExplode(now int64) bool {
	switch b.Phase() {
	case PhaseArmed, PhaseKicked:
		return now-b.FuseStart >= b.Fuse
	}
	return false
}

// FuseRemaining 剩余引信帧数
func (b *Bomb) FuseRemaining(now int64) int64 {
	elapsed := now - b.FuseStart
	if t, ok := b.State.(*Thrown); ok {
		elapsed = t.LiftedAt - b.FuseStart
	}
	if left := b.Fuse - elapsed; left > 0 {
		return left
	}
	return 0
}

// Kickable 玩家离开超过 delay 后可踢
func (b *Bomb) Kickable(now, delay int64) bool {
	return b.Phase() == PhaseArmed && b.vacated && now-b.VacatedAt >= delay
}

// trackVacate 记录玩家与炸弹的重叠状态；重叠时清除离开计时
func (b *Bomb) trackVacate(overlapping bool, now int64) {
	if overlapping {
		b.vacated = false
		return
	}
	if !b.vacated {
		b.vacated = true
		b.VacatedAt = now
	}
}

// settle 回到静止：吸附到格子中心
func (b *Bomb) settle(cell GridPos, cellSize float64) {
	b.Pos = CellCenter(cell, cellSize)
	b.State = Armed{}
}

// shiftTimes 暂停恢复时整体后移时间戳
func (b *Bomb) shiftTimes(d int64) {
	b.FuseStart += d
	if b.vacated {
		b.VacatedAt += d
	}
	switch st := b.State.(type) {
	case *Thrown:
		st.LiftedAt += d
		st.LaunchAt += d
		if st.Wrapped {
			st.WrappedAt += d
		}
	case *Exploding:
		st.At += d
	}
}

// Expired 爆炸可见时长结束
func (b *Bomb) Expired(now, visible int64) bool {
	e, ok := b.State.(*Exploding)
	return ok && now-e.At >= visible
}
