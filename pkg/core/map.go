package core

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// TileType 格子类型
type TileType int

const (
	TileEmpty    TileType = iota // 空地
	TileWall                     // 永久墙
	TileBrick                    // 软墙（可炸毁）
	TileBreaking                 // 正在破碎的软墙，仍然阻挡
)

// String 返回格子类型名
func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileWall:
		return "wall"
	case TileBrick:
		return "brick"
	case TileBreaking:
		return "breaking"
	}
	return "unknown"
}

// GridPos 格子坐标（通用类型）
type GridPos struct {
	GridX, GridY int
}

// Step 沿方向移动 n 格（不环绕）
func (p GridPos) Step(d DirectionType, n int) GridPos {
	dx, dy := d.Delta()
	return GridPos{GridX: p.GridX + dx*n, GridY: p.GridY + dy*n}
}

// String 格式化为 (x,y)
func (p GridPos) String() string {
	return fmt.Sprintf("(%d,%d)", p.GridX, p.GridY)
}

// TimedCell 带起始时间的格子（破碎动画、道具炸毁标记）
type TimedCell struct {
	Cell  GridPos
	Start int64 // 帧号
}

// Arena 地图（核心逻辑，不包含渲染）
// 地图是环形的：越界坐标一律折回
type Arena struct {
	Width  int
	Height int

	tiles    []TileType
	powerups map[GridPos]PowerupType
	breaking []TimedCell
	burning  []TimedCell

	openRows    map[int]bool
	pruneRatio  float64
	breakFrames int64
	burnFrames  int64
}

// NewArena 创建全空地图
func NewArena(cfg Config) *Arena {
	a := &Arena{
		Width:       cfg.ArenaWidth,
		Height:      cfg.ArenaHeight,
		tiles:       make([]TileType, cfg.ArenaWidth*cfg.ArenaHeight),
		powerups:    make(map[GridPos]PowerupType),
		openRows:    make(map[int]bool, len(cfg.OpenRows)),
		pruneRatio:  cfg.PruneRatio,
		breakFrames: DurationToFrames(cfg.BreakDuration, cfg.FrameRate),
		burnFrames:  DurationToFrames(cfg.ItemBurnDelay, cfg.FrameRate),
	}
	for _, row := range cfg.OpenRows {
		a.openRows[row] = true
	}
	return a
}

// SpawnCells 四个角落的出生点，顺序为左上、右下、右上、左下
func (a *Arena) SpawnCells() []GridPos {
	return []GridPos{
		{GridX: 1, GridY: 1},
		{GridX: a.Width - 2, GridY: a.Height - 2},
		{GridX: a.Width - 2, GridY: 1},
		{GridX: 1, GridY: a.Height - 2},
	}
}

// Generate 按规则生成地图：外圈永久墙 + 棋盘墙，其余铺软墙，清空出生角，再随机移除一部分软墙
func (a *Arena) Generate(rng *rand.Rand) {
	a.clear()

	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			if x == 0 || y == 0 || x == a.Width-1 || y == a.Height-1 {
				a.tiles[a.index(x, y)] = TileWall
			}
		}
	}
	for x := 2; x < a.Width-2; x++ {
		for y := 2; y < a.Height-2; y++ {
			if a.openRows[y] {
				continue
			}
			if (x+y)%2 == 0 {
				a.tiles[a.index(x, y)] = TileWall
			}
		}
	}

	spawns := make(map[GridPos]bool, 4)
	for _, c := range a.SpawnCells() {
		spawns[c] = true
	}
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			if a.tiles[a.index(x, y)] == TileWall || spawns[GridPos{GridX: x, GridY: y}] {
				continue
			}
			a.tiles[a.index(x, y)] = TileBrick
		}
	}

	// 每个角落清出两行的第一块软墙，保证出生点能走出去
	for _, y := range []int{1, 2, a.Height - 2, a.Height - 3} {
		a.clearFirstBrick(y, true)
		a.clearFirstBrick(y, false)
	}

	a.prune(rng)
}

func (a *Arena) clearFirstBrick(y int, fromLeft bool) {
	for i := 0; i < a.Width; i++ {
		x := i
		if !fromLeft {
			x = a.Width - 1 - i
		}
		if a.tiles[a.index(x, y)] == TileBrick {
			a.tiles[a.index(x, y)] = TileEmpty
			return
		}
	}
}

func (a *Arena) prune(rng *rand.Rand) {
	if a.pruneRatio <= 0 || rng == nil {
		return
	}
	bricks := make([]int, 0, len(a.tiles))
	for i, t := range a.tiles {
		if t == TileBrick {
			bricks = append(bricks, i)
		}
	}
	if len(bricks) == 0 {
		return
	}
	n := int(float64(len(bricks)) * a.pruneRatio)
	if n < 1 {
		n = 1
	}
	for _, i := range rng.Perm(len(bricks))[:n] {
		a.tiles[bricks[i]] = TileEmpty
	}
}

func (a *Arena) clear() {
	for i := range a.tiles {
		a.tiles[i] = TileEmpty
	}
	a.powerups = make(map[GridPos]PowerupType)
	a.breaking = a.breaking[:0]
	a.burning = a.burning[:0]
}

// checkTemplate 模板尺寸与字符是否合法
func checkTemplate(rows []string, width, height int) error {
	if len(rows) != height {
		return fmt.Errorf("template has %d rows, want %d", len(rows), height)
	}
	spawns := 0
	for y, row := range rows {
		if len(row) != width {
			return fmt.Errorf("template row %d has %d cells, want %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case 'W', 'B', '.':
			case 'P':
				spawns++
			default:
				return fmt.Errorf("template row %d: unknown cell %q", y, row[x])
			}
		}
	}
	if spawns > 1 {
		return fmt.Errorf("template has %d spawn cells", spawns)
	}
	return nil
}

// templateSpawn 模板中标记的出生点
func templateSpawn(rows []string) (GridPos, bool) {
	for y, row := range rows {
		if x := strings.IndexByte(row, 'P'); x >= 0 {
			return GridPos{GridX: x, GridY: y}, true
		}
	}
	return GridPos{}, false
}

// LoadTemplate 按模板设置地图：W=永久墙, B=软墙, .=空地, P=出生点（空地）
func (a *Arena) LoadTemplate(rows []string) error {
	if err := checkTemplate(rows, a.Width, a.Height); err != nil {
		return err
	}
	a.clear()
	for y, row := range rows {
		for x := 0; x < a.Width; x++ {
			tile := TileEmpty
			switch row[x] {
			case 'W':
				tile = TileWall
			case 'B':
				tile = TileBrick
			}
			a.tiles[a.index(x, y)] = tile
		}
	}
	return nil
}

func (a *Arena) index(x, y int) int {
	return y*a.Width + x
}

// Wrap 把任意格子坐标折回地图内
func (a *Arena) Wrap(c GridPos) GridPos {
	x := c.GridX % a.Width
	if x < 0 {
		x += a.Width
	}
	y := c.GridY % a.Height
	if y < 0 {
		y += a.Height
	}
	return GridPos{GridX: x, GridY: y}
}

// Tile 获取指定位置的地图块
func (a *Arena) Tile(c GridPos) TileType {
	c = a.Wrap(c)
	return a.tiles[a.index(c.GridX, c.GridY)]
}

// SetTile 设置指定位置的地图块
func (a *Arena) SetTile(c GridPos, t TileType) {
	c = a.Wrap(c)
	a.tiles[a.index(c.GridX, c.GridY)] = t
}

// IsWall 是否为永久墙
func (a *Arena) IsWall(c GridPos) bool {
	return a.Tile(c) == TileWall
}

// IsBlocking 是否阻挡移动和爆炸（永久墙、软墙、破碎中的软墙）
func (a *Arena) IsBlocking(c GridPos) bool {
	return a.Tile(c) != TileEmpty
}

// IsPerimeter 是否位于地图最外圈
func (a *Arena) IsPerimeter(c GridPos) bool {
	c = a.Wrap(c)
	return c.GridX == 0 || c.GridY == 0 || c.GridX == a.Width-1 || c.GridY == a.Height-1
}

// BreakWall 软墙进入破碎状态，动画结束后变为空地并生成道具
func (a *Arena) BreakWall(c GridPos, now int64) bool {
	c = a.Wrap(c)
	if a.Tile(c) != TileBrick {
		return false
	}
	a.SetTile(c, TileBreaking)
	a.breaking = append(a.breaking, TimedCell{Cell: c, Start: now})
	return true
}

// Powerup 查询格子上的道具
func (a *Arena) Powerup(c GridPos) (PowerupType, bool) {
	p, ok := a.powerups[a.Wrap(c)]
	return p, ok
}

// SetPowerup 放置道具
func (a *Arena) SetPowerup(c GridPos, p PowerupType) {
	a.powerups[a.Wrap(c)] = p
}

// TakePowerup 拾取道具（效果由调用方生效）
func (a *Arena) TakePowerup(c GridPos) (PowerupType, bool) {
	c = a.Wrap(c)
	p, ok := a.powerups[c]
	if ok {
		delete(a.powerups, c)
	}
	return p, ok
}

// BurnPowerup 道具被炸毁或被滚动的炸弹碾过，留下炸毁标记
func (a *Arena) BurnPowerup(c GridPos, now int64) bool {
	c = a.Wrap(c)
	if _, ok := a.powerups[c]; !ok {
		return false
	}
	delete(a.powerups, c)
	a.burning = append(a.burning, TimedCell{Cell: c, Start: now})
	return true
}

// PowerupCells 所有道具格子（按行优先排序，保证遍历确定）
func (a *Arena) PowerupCells() []GridPos {
	cells := make([]GridPos, 0, len(a.powerups))
	for c := range a.powerups {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].GridY != cells[j].GridY {
			return cells[i].GridY < cells[j].GridY
		}
		return cells[i].GridX < cells[j].GridX
	})
	return cells
}

// Breaking 正在破碎的软墙
func (a *Arena) Breaking() []TimedCell {
	return append([]TimedCell(nil), a.breaking...)
}

// Burning 道具炸毁标记
func (a *Arena) Burning() []TimedCell {
	return append([]TimedCell(nil), a.burning...)
}

// Update 推进地图计时：破碎结束的软墙变为空地并随机生成道具，过期的炸毁标记移除
func (a *Arena) Update(now int64, rng *rand.Rand) []Event {
	var events []Event
	kept := a.breaking[:0]
	for _, b := range a.breaking {
		if now-b.Start < a.breakFrames {
			kept = append(kept, b)
			continue
		}
		a.SetTile(b.Cell, TileEmpty)
		kind := powerupKinds[0]
		if rng != nil {
			kind = powerupKinds[rng.Intn(len(powerupKinds))]
		}
		a.powerups[b.Cell] = kind
		events = append(events, Event{Kind: EventPowerupSpawned, Frame: now, Cell: b.Cell, Powerup: kind})
	}
	a.breaking = kept

	burning := a.burning[:0]
	for _, b := range a.burning {
		if now-b.Start < a.burnFrames {
			burning = append(burning, b)
		}
	}
	a.burning = burning
	return events
}

// ShiftTimes 暂停恢复时把所有动画起始时间后移
func (a *Arena) ShiftTimes(d int64) {
	for i := range a.breaking {
		a.breaking[i].Start += d
	}
	for i := range a.burning {
		a.burning[i].Start += d
	}
}
