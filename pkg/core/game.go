package core

import (
	"fmt"
	"math/rand"
)

// Simulation 模拟状态（纯逻辑，不包含渲染）
// 拥有地图、玩家和全部炸弹；各组件通过指针访问，不存在全局状态
type Simulation struct {
	cfg   Config
	clock *Clock
	rng   *rand.Rand

	Arena  *Arena
	Player *Player

	bombs      []*Bomb
	nextBombID int

	paused   bool
	pausedAt int64
	events   []Event

	// 由配置换算出的帧数
	fuse       int64
	explosion  int64
	kickDelay  int64
	wrapGrace  int64
	windup     int64
	deathReset int64
}

// NewSimulation 创建模拟并生成第一局地图
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:   cfg,
		clock: NewClock(cfg.FrameRate),
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		Arena: NewArena(cfg),
	}
	s.fuse = s.clock.Frames(cfg.FuseDuration)
	s.explosion = s.clock.Frames(cfg.ExplosionDuration)
	s.kickDelay = s.clock.Frames(cfg.KickDelay)
	s.wrapGrace = s.clock.Frames(cfg.WrapGrace)
	s.windup = s.clock.Frames(cfg.ThrowWindup)
	s.deathReset = s.clock.Frames(cfg.DeathResetWait)

	s.Player = NewPlayer(cfg, s.Arena.SpawnCells()[0])
	if err := s.layout(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config 模拟参数
func (s *Simulation) Config() Config {
	return s.cfg
}

// Clock 模拟时钟
func (s *Simulation) Clock() *Clock {
	return s.clock
}

// Frame 当前帧号
func (s *Simulation) Frame() int64 {
	return s.clock.Frame()
}

// Paused 是否暂停
func (s *Simulation) Paused() bool {
	return s.paused
}

// Bombs 当前所有炸弹（含爆炸中）
func (s *Simulation) Bombs() []*Bomb {
	return s.bombs
}

// Bomb 按 ID 查找炸弹
func (s *Simulation) Bomb(id int) *Bomb {
	for _, b := range s.bombs {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// BombCell 炸弹所在格子（环绕）
func (s *Simulation) BombCell(b *Bomb) GridPos {
	return s.Arena.Wrap(CellOf(b.Pos, s.cfg.CellSize))
}

// bombAt 占据格子的炸弹（不含空中的，含爆炸中的），忽略 except
func (s *Simulation) bombAt(c GridPos, except *Bomb) *Bomb {
	c = s.Arena.Wrap(c)
	for _, b := range s.bombs {
		if b == except || b.IsAirborne() {
			continue
		}
		if s.BombCell(b) == c {
			return b
		}
	}
	return nil
}

// armedBombAt 格子上静止的炸弹
func (s *Simulation) armedBombAt(c GridPos) *Bomb {
	b := s.bombAt(c, nil)
	if b == nil || b.Phase() != PhaseArmed {
		return nil
	}
	return b
}

// standingBombs 与玩家当前位置重叠的炸弹（玩家可以从上面走开）
func (s *Simulation) standingBombs() map[int]bool {
	standing := make(map[int]bool)
	r := s.cfg.BombRadius()
	for _, b := range s.bombs {
		if b.IsLive() && CircleOverlapsCircle(s.Player.Pos, s.Player.Radius, b.Pos, r) {
			standing[b.ID] = true
		}
	}
	return standing
}

func (s *Simulation) emit(e Event) {
	s.events = append(s.events, e)
}

// layout 铺设本局地图：有模板时按模板，并把玩家放到模板出生点；否则随机生成
func (s *Simulation) layout() error {
	if len(s.cfg.Template) == 0 {
		s.Arena.Generate(s.rng)
		return nil
	}
	if err := s.Arena.LoadTemplate(s.cfg.Template); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if spawn, ok := templateSpawn(s.cfg.Template); ok {
		s.PlacePlayer(spawn)
	}
	return nil
}

// SpawnBomb 在格子上放置一个静止炸弹，不检查容量和占用
func (s *Simulation) SpawnBomb(cell GridPos, blastRange int) *Bomb {
	s.nextBombID++
	b := NewBomb(s.nextBombID, s.Arena.Wrap(cell), s.cfg.CellSize, s.fuse, blastRange, s.clock.Frame())
	s.bombs = append(s.bombs, b)
	return b
}

// PlacePlayer 把玩家移动到格子中心
func (s *Simulation) PlacePlayer(cell GridPos) {
	s.Player.Pos = CellCenter(s.Arena.Wrap(cell), s.cfg.CellSize)
}

// PlaceBomb 玩家在脚下放置炸弹；容量已满、格子阻挡或已有炸弹时静默拒绝
func (s *Simulation) PlaceBomb(now int64) *Bomb {
	p := s.Player
	if p.Dead {
		return nil
	}
	active := 0
	for _, b := range s.bombs {
		if b.IsLive() {
			active++
		}
	}
	if active >= p.MaxBombs {
		return nil
	}
	cell := s.Arena.Wrap(p.Cell(s.cfg.CellSize))
	if s.Arena.IsBlocking(cell) {
		return nil
	}
	for _, b := range s.bombs {
		if s.BombCell(b) == cell {
			return nil
		}
	}

	b := s.SpawnBomb(cell, p.BombRange)
	s.emit(Event{Kind: EventBombPlaced, Frame: now, BombID: b.ID, Cell: cell})
	return b
}

// SetPaused 暂停 / 恢复；恢复时把所有时间戳后移暂停的帧数
func (s *Simulation) SetPaused(paused bool) {
	if paused == s.paused {
		return
	}
	now := s.clock.Frame()
	if paused {
		s.paused = true
		s.pausedAt = now
		s.emit(Event{Kind: EventPaused, Frame: now})
		return
	}
	s.paused = false
	s.shiftTimes(now - s.pausedAt)
	s.emit(Event{Kind: EventResumed, Frame: now})
}

func (s *Simulation) shiftTimes(d int64) {
	if d <= 0 {
		return
	}
	for _, b := range s.bombs {
		b.shiftTimes(d)
	}
	s.Arena.ShiftTimes(d)
	if s.Player.Dead {
		s.Player.DeathTime += d
	}
	if s.Player.FrozenUntil > s.pausedAt {
		s.Player.FrozenUntil += d
	}
}

// Reset 重开一局：清空炸弹、道具、破碎中的软墙，重新生成地图，玩家回到出生点
func (s *Simulation) Reset() {
	s.bombs = s.bombs[:0]
	s.Player.reset(s.cfg, s.Arena.SpawnCells()[0])
	// 模板在创建时已校验过
	_ = s.layout()
	s.emit(Event{Kind: EventRoundReset, Frame: s.clock.Frame()})
}

// Step 推进一帧，返回本帧发生的事件
// 帧内顺序：输入与拾取 → 踢 → 玩家移动 → 炸弹运动 → 引信与爆炸 → 清理
func (s *Simulation) Step(in Input) []Event {
	s.events = s.events[:0]
	now := s.clock.Frame()

	if in.TogglePause {
		s.SetPaused(!s.paused)
	}
	if in.ToggleInvincible {
		s.Player.Invincible = !s.Player.Invincible
		s.emit(Event{Kind: EventInvincibility, Frame: now, Flag: s.Player.Invincible})
	}
	if in.Restart {
		s.Reset()
	} else if !s.paused {
		s.tick(in, now)
	}

	s.clock.Advance()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Simulation) tick(in Input, now int64) {
	p := s.Player
	if p.Dead && s.deathReset > 0 && now-p.DeathTime >= s.deathReset {
		s.Reset()
		return
	}
	active := !p.Dead && !p.Frozen(now)

	// 1. 拾取道具、处理动作键
	if !p.Dead {
		cell := p.Cell(s.cfg.CellSize)
		if kind, ok := s.Arena.TakePowerup(cell); ok {
			p.ApplyPowerup(kind, s.cfg)
			s.emit(Event{Kind: EventItemCollected, Frame: now, Cell: s.Arena.Wrap(cell), Powerup: kind})
		}
	}
	if active && in.Act {
		s.act(now)
		active = !p.Frozen(now)
	}

	// 2. 踢炸弹
	if active {
		s.tryKick(in.Intent(), now)
	}

	// 3. 玩家移动
	if active {
		p.applyInput(in, s)
	} else {
		p.IsMoving = false
	}
	s.trackVacates(now)

	// 4. 炸弹运动
	for _, b := range s.bombs {
		switch st := b.State.(type) {
		case *Kicked:
			s.advanceKicked(b, st, now)
		case *Thrown:
			s.advanceThrown(b, st, now)
		}
	}

	// 5. 引信
	for _, b := range s.bombs {
		if b.ShouldExplode(now) {
			s.Explode(b, now)
		}
	}

	// 6. 清理爆炸结束的炸弹，推进地图动画
	kept := s.bombs[:0]
	for _, b := range s.bombs {
		if !b.Expired(now, s.explosion) {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(s.bombs); i++ {
		s.bombs[i] = nil
	}
	s.bombs = kept
	s.events = append(s.events, s.Arena.Update(now, s.rng)...)
}

// act 动作键：有手套且身边有可举起的炸弹时举起，否则放置炸弹
func (s *Simulation) act(now int64) {
	if s.Player.CanCatch {
		if b := s.liftableBomb(); b != nil {
			s.lift(b, now)
			return
		}
	}
	s.PlaceBomb(now)
}

// trackVacates 更新每个静止炸弹的“玩家已离开”计时
func (s *Simulation) trackVacates(now int64) {
	p := s.Player
	r := s.cfg.BombRadius()
	for _, b := range s.bombs {
		if b.Phase() != PhaseArmed {
			continue
		}
		overlapping := !p.Dead && !CircleBoxesDisjoint(p.Pos, p.Radius, b.Pos, r)
		b.trackVacate(overlapping, now)
	}
}

// String 调试用概要
func (s *Simulation) String() string {
	return fmt.Sprintf("frame=%d bombs=%d player=%v dead=%v paused=%v",
		s.clock.Frame(), len(s.bombs), s.Player.Cell(s.cfg.CellSize), s.Player.Dead, s.paused)
}
