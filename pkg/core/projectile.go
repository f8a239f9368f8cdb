package core

import "math"

// ---------- 踢炸弹 ----------

// tryKick 玩家朝 dir 顶住相邻格中可踢的炸弹时，把它沿 dir 踢出
// 目的格被墙、其他炸弹占据或越界时什么也不发生（也不产生事件）
func (s *Simulation) tryKick(dir DirectionType, now int64) {
	p := s.Player
	if dir == DirNone || !p.CanKick {
		return
	}
	cs := s.cfg.CellSize
	from := p.Cell(cs)
	bombCell := from.Step(dir, 1)
	b := s.armedBombAt(s.Arena.Wrap(bombCell))
	if b == nil || !b.Kickable(now, s.kickDelay) {
		return
	}
	intended := p.Pos.Add(dir.Vec().Scale(p.Speed))
	if !CircleOverlapsCircle(intended, p.Radius, b.Pos, s.cfg.BombRadius()) {
		return
	}

	dest := bombCell.Step(dir, 1)
	if s.Arena.Wrap(dest) != dest {
		return // 踢出地图
	}
	_, free := s.Arena.Find(dest, dir, 1, func(c GridPos) bool {
		return !s.Arena.IsBlocking(c) && s.bombAt(c, b) == nil
	})
	if !free {
		return
	}

	b.State = &Kicked{Dir: dir, Velocity: dir.Vec().Scale(s.cfg.KickSpeed)}
	s.emit(Event{Kind: EventKicked, Frame: now, BombID: b.ID, Cell: s.Arena.Wrap(bombCell), Dir: dir})
}

// advanceKicked 被踢的炸弹按轴分离滑行：先 X 后 Y，被挡住的轴速度清零，两轴都停则吸附回格子中心
func (s *Simulation) advanceKicked(b *Bomb, k *Kicked, now int64) {
	if k.Velocity.X != 0 {
		next := Vec2{X: b.Pos.X + k.Velocity.X, Y: b.Pos.Y}
		if s.kickedBlocked(b, next) {
			k.Velocity.X = 0
		} else {
			b.Pos = next
		}
	}
	if k.Velocity.Y != 0 {
		next := Vec2{X: b.Pos.X, Y: b.Pos.Y + k.Velocity.Y}
		if s.kickedBlocked(b, next) {
			k.Velocity.Y = 0
		} else {
			b.Pos = next
		}
	}

	cell := s.BombCell(b)
	// 滚过的道具被碾碎
	if s.Arena.BurnPowerup(cell, now) {
		s.emit(Event{Kind: EventItemBurned, Frame: now, BombID: b.ID, Cell: cell})
	}

	if k.Velocity.X == 0 && k.Velocity.Y == 0 {
		b.settle(cell, s.cfg.CellSize)
		s.emit(Event{Kind: EventStopped, Frame: now, BombID: b.ID, Cell: cell})
	}
}

// kickedBlocked 滑行中的炸弹在 pos 处是否被边界、阻挡格子、其他炸弹或玩家挡住
func (s *Simulation) kickedBlocked(b *Bomb, pos Vec2) bool {
	cfg := s.cfg
	r := cfg.BombRadius()
	w, h := cfg.WorldSize()
	if pos.X-r < 0 || pos.X+r > w || pos.Y-r < 0 || pos.Y+r > h {
		return true
	}

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

	for _, o := range s.bombs {
		if o == b || o.IsExploded() || o.IsAirborne() {
			continue
		}
		if CircleOverlapsCircle(pos, r, o.Pos, r) {
			return true
		}
	}

	p := s.Player
	if !p.Dead && p.Cell(cfg.CellSize) != s.BombCell(b) && CircleOverlapsCircle(pos, r, p.Pos, p.Radius) {
		return true
	}
	return false
}

// ---------- 举起与投掷 ----------

// liftableBomb 可举起的炸弹：优先脚下，其次朝向前方一格
func (s *Simulation) liftableBomb() *Bomb {
	p := s.Player
	cell := p.Cell(s.cfg.CellSize)
	if b := s.armedBombAt(cell); b != nil {
		return b
	}
	return s.armedBombAt(s.Arena.Wrap(cell.Step(p.Direction, 1)))
}

// lift 举起炸弹：引信暂停，玩家在举起动画期间不能移动，动画过半时出手
// 没有可落地的格子时拒绝投掷
func (s *Simulation) lift(b *Bomb, now int64) bool {
	p := s.Player
	dir := p.Direction
	if dir == DirNone {
		return false
	}
	origin := p.Cell(s.cfg.CellSize)
	initial := s.Arena.Wrap(origin.Step(dir, s.cfg.ThrowArcCells))
	final, ok := s.findLanding(initial, dir, b)
	if !ok {
		return false
	}

	b.State = &Thrown{
		Stage:         ThrowLifting,
		Origin:        origin,
		Dir:           dir,
		InitialTarget: initial,
		FinalTarget:   final,
		Bounced:       make(map[GridPos]bool),
		Speed:         s.cfg.ThrowSpeed,
		LiftedAt:      now,
		LaunchAt:      now + s.windup/2,
		LastCell:      origin,
	}
	p.FrozenUntil = now + s.windup
	s.emit(Event{Kind: EventLifted, Frame: now, BombID: b.ID, Cell: origin, Dir: dir})
	return true
}

// findLanding 从 start（含）沿 dir 找第一个可落地的格子，最多绕一圈
func (s *Simulation) findLanding(start GridPos, dir DirectionType, self *Bomb) (GridPos, bool) {
	return s.Arena.Find(start, dir, s.Arena.AxisLength(dir), func(c GridPos) bool {
		return s.landable(c, self)
	})
}

// landable 可落地：非外圈、非阻挡、无道具、无其他炸弹
func (s *Simulation) landable(c GridPos, self *Bomb) bool {
	return !s.Arena.IsPerimeter(c) && !s.throwObstacle(c, self)
}

// throwObstacle 飞行中的炸弹视为障碍的格子：阻挡格子、道具、其他落地炸弹
func (s *Simulation) throwObstacle(c GridPos, self *Bomb) bool {
	if s.Arena.IsBlocking(c) {
		return true
	}
	if _, ok := s.Arena.Powerup(c); ok {
		return true
	}
	return s.bombAt(c, self) != nil
}

// advanceThrown 推进投掷中的炸弹
func (s *Simulation) advanceThrown(b *Bomb, t *Thrown, now int64) {
	cs := s.cfg.CellSize
	switch t.Stage {
	case ThrowLifting:
		if now < t.LaunchAt {
			return
		}
		b.Pos = CellCenter(t.Origin, cs)
		t.Stage = ThrowArcInitial
		t.LastCell = t.Origin
		s.emit(Event{Kind: EventThrown, Frame: now, BombID: b.ID, Cell: t.Origin, Dir: t.Dir})

	case ThrowArcInitial:
		s.integrateThrow(b, t, now)
		if t.Traveled < float64(s.cfg.ThrowArcCells)*cs {
			return
		}
		// 到达固定弧线目标后才开始按常规规则检查障碍
		b.Pos = CellCenter(t.InitialTarget, cs)
		t.Stage = ThrowArcFinal
		t.LastCell = t.InitialTarget
		if s.checkThrowCell(b, t, t.InitialTarget, now) {
			s.tryLand(b, t, now)
		}

	case ThrowArcFinal:
		s.integrateThrow(b, t, now)
		cell := s.BombCell(b)
		if cell != t.LastCell {
			t.LastCell = cell
			if !s.checkThrowCell(b, t, cell, now) {
				return
			}
		}
		s.tryLand(b, t, now)
	}
}

// integrateThrow 沿投掷方向前进一帧，越过地图边缘时环绕
func (s *Simulation) integrateThrow(b *Bomb, t *Thrown, now int64) {
	w, h := s.cfg.WorldSize()
	next := b.Pos.Add(t.Dir.Vec().Scale(t.Speed))
	wrapped := next.X < 0 || next.X >= w || next.Y < 0 || next.Y >= h
	next.X = wrapFloat(next.X, w)
	next.Y = wrapFloat(next.Y, h)
	b.Pos = next
	t.Traveled += t.Speed
	if wrapped {
		t.Wrapped = true
		t.WrappedAt = now
		s.emit(Event{Kind: EventWrapped, Frame: now, BombID: b.ID, Cell: s.BombCell(b), Dir: t.Dir})
	}
}

// checkThrowCell 炸弹进入新格子时重新检查障碍：
//   - 进入内部障碍格且该格本次飞行未弹过、且不在环绕宽限期内：弹跳，减速并重新寻找更远的落点
//   - 当前落点被占：重新寻找落点（宽限期外或首次遇到该格时计为弹跳）
//
// 找不到任何落点时炸弹在空中引爆，返回 false
func (s *Simulation) checkThrowCell(b *Bomb, t *Thrown, cell GridPos, now int64) bool {
	isTarget := cell == t.FinalTarget
	var obstructed bool
	if isTarget {
		obstructed = !s.landable(cell, b)
	} else {
		obstructed = !s.Arena.IsPerimeter(cell) && s.throwObstacle(cell, b)
	}
	if !obstructed {
		return true
	}

	inGrace := t.Wrapped && now-t.WrappedAt < s.wrapGrace
	bounce := !inGrace && !t.Bounced[cell]
	if !bounce && !isTarget {
		return true
	}

	if bounce {
		t.Bounced[cell] = true
		t.Speed = s.cfg.BounceSpeed
	}
	next, ok := s.findLanding(cell.Step(t.Dir, 1), t.Dir, b)
	if !ok {
		s.Explode(b, now)
		return false
	}
	t.FinalTarget = next
	if bounce {
		s.emit(Event{Kind: EventBounced, Frame: now, BombID: b.ID, Cell: cell, Dir: t.Dir})
	}
	return true
}

// tryLand 落地条件：在目标格内、距目标中心小于阈值（或已越过中心）、目标格无障碍
// 已进入目标格后目标才被占时立即改找落点，不等下一次进入
// 落地后吸附到格子中心，引信从当前帧继续（补上空中经过的帧数）
func (s *Simulation) tryLand(b *Bomb, t *Thrown, now int64) {
	cell := s.BombCell(b)
	if cell != t.FinalTarget {
		return
	}
	if !s.landable(cell, b) {
		s.checkThrowCell(b, t, cell, now)
		return
	}
	w, h := s.cfg.WorldSize()
	center := CellCenter(cell, s.cfg.CellSize)
	dx := toroidalDelta(center.X, b.Pos.X, w)
	dy := toroidalDelta(center.Y, b.Pos.Y, h)
	passed := dx*t.Dir.Vec().X+dy*t.Dir.Vec().Y >= 0
	if math.Hypot(dx, dy) >= s.cfg.LandingThreshold && !passed {
		return
	}

	b.FuseStart += now - t.LiftedAt
	b.settle(cell, s.cfg.CellSize)
	b.vacated = false
	s.emit(Event{Kind: EventLanded, Frame: now, BombID: b.ID, Cell: cell, Dir: t.Dir})
}
