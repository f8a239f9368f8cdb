package core

// blastDirections 爆炸扩散方向
var blastDirections = []DirectionType{DirUp, DirDown, DirLeft, DirRight}

// BlastCells 计算爆炸影响的所有格子
// 中心 + 四个方向各最多 blastRange 格：永久墙挡住且不计入；软墙、破碎中的软墙、道具计入后停止
func (s *Simulation) BlastCells(center GridPos, blastRange int) []GridPos {
	a := s.Arena
	center = a.Wrap(center)
	cells := []GridPos{center}
	seen := map[GridPos]bool{center: true}

	for _, dir := range blastDirections {
		a.Walk(center.Step(dir, 1), dir, blastRange, func(_ int, c GridPos) bool {
			if a.IsWall(c) {
				return false
			}
			if !seen[c] {
				seen[c] = true
				cells = append(cells, c)
			}
			if a.IsBlocking(c) {
				return false
			}
			_, hasPowerup := a.Powerup(c)
			return !hasPowerup
		})
	}
	return cells
}

// Explode 引爆炸弹并处理连锁，返回本次实际爆炸的炸弹（按爆炸顺序）
// 每个炸弹只能爆炸一次，对已爆炸的炸弹再次调用不产生任何变化
// 连锁用显式队列处理，爆炸数不会超过存活炸弹数
func (s *Simulation) Explode(b *Bomb, now int64) []*Bomb {
	if b == nil || b.IsExploded() {
		return nil
	}
	var order []*Bomb
	queue := []*Bomb{b}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.IsExploded() {
			continue
		}
		order = append(order, cur)
		queue = append(queue, s.detonate(cur, now)...)
	}
	return order
}

// detonate 单个炸弹爆炸，返回被波及、需要连锁的炸弹
func (s *Simulation) detonate(b *Bomb, now int64) []*Bomb {
	a := s.Arena
	cell := s.BombCell(b)
	cells := s.BlastCells(cell, b.Range)
	inBlast := make(map[GridPos]bool, len(cells))
	var powerupCells []GridPos
	for _, c := range cells {
		inBlast[c] = true
		if _, ok := a.Powerup(c); ok {
			powerupCells = append(powerupCells, c)
		}
	}

	b.Pos = CellCenter(cell, s.cfg.CellSize)
	b.State = &Exploding{At: now, Cells: cells, PowerupCells: powerupCells}
	s.emit(Event{Kind: EventExploded, Frame: now, BombID: b.ID, Cell: cell})

	// 检查玩家是否被炸到
	p := s.Player
	if !p.Dead && !p.Invincible && inBlast[a.Wrap(p.Cell(s.cfg.CellSize))] {
		p.Dead = true
		p.IsMoving = false
		p.DeathTime = now
		s.emit(Event{Kind: EventPlayerDied, Frame: now, BombID: b.ID, Cell: p.Cell(s.cfg.CellSize)})
	}

	// 炸毁软墙
	for _, c := range cells {
		if a.BreakWall(c, now) {
			s.emit(Event{Kind: EventWallBroken, Frame: now, BombID: b.ID, Cell: c})
		}
	}

	// 炸毁道具
	for _, c := range powerupCells {
		if a.BurnPowerup(c, now) {
			s.emit(Event{Kind: EventItemBurned, Frame: now, BombID: b.ID, Cell: c})
		}
	}

	var chained []*Bomb
	for _, o := range s.bombs {
		if o == b || o.IsExploded() {
			continue
		}
		if inBlast[s.BombCell(o)] {
			chained = append(chained, o)
		}
	}
	return chained
}
