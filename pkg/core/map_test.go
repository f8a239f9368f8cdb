package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generated(t *testing.T, cfg Config, seed int64) *Arena {
	t.Helper()
	a := NewArena(cfg)
	a.Generate(rand.New(rand.NewSource(seed)))
	return a
}

func TestGenerate_CellsAreWallBrickOrEmpty(t *testing.T) {
	cfg := DefaultConfig()
	for seed := int64(0); seed < 25; seed++ {
		a := generated(t, cfg, seed)
		for y := 0; y < a.Height; y++ {
			for x := 0; x < a.Width; x++ {
				tile := a.Tile(GridPos{GridX: x, GridY: y})
				assert.Contains(t, []TileType{TileEmpty, TileWall, TileBrick}, tile, "seed %d cell (%d,%d)", seed, x, y)
			}
		}
	}
}

func TestGenerate_PerimeterAndCheckerboard(t *testing.T) {
	cfg := DefaultConfig()
	a := generated(t, cfg, 7)

	for x := 0; x < a.Width; x++ {
		assert.Equal(t, TileWall, a.Tile(GridPos{GridX: x, GridY: 0}))
		assert.Equal(t, TileWall, a.Tile(GridPos{GridX: x, GridY: a.Height - 1}))
	}
	for y := 0; y < a.Height; y++ {
		assert.Equal(t, TileWall, a.Tile(GridPos{GridX: 0, GridY: y}))
		assert.Equal(t, TileWall, a.Tile(GridPos{GridX: a.Width - 1, GridY: y}))
	}

	assert.Equal(t, TileWall, a.Tile(GridPos{GridX: 2, GridY: 2}))
	assert.Equal(t, TileWall, a.Tile(GridPos{GridX: 4, GridY: 2}))
	// 开放行上没有棋盘墙
	for _, row := range cfg.OpenRows {
		for x := 1; x < a.Width-1; x++ {
			assert.NotEqual(t, TileWall, a.Tile(GridPos{GridX: x, GridY: row}), "open row %d x %d", row, x)
		}
	}
}

func TestGenerate_SpawnCornersClear(t *testing.T) {
	cfg := DefaultConfig()
	w, h := cfg.ArenaWidth, cfg.ArenaHeight
	clear := []GridPos{
		{1, 1}, {2, 1}, {1, 2},
		{w - 2, 1}, {w - 3, 1}, {w - 2, 2},
		{1, h - 2}, {2, h - 2}, {1, h - 3},
		{w - 2, h - 2}, {w - 3, h - 2}, {w - 2, h - 3},
	}
	for seed := int64(0); seed < 25; seed++ {
		a := generated(t, cfg, seed)
		for _, c := range clear {
			assert.Equal(t, TileEmpty, a.Tile(c), "seed %d cell %v", seed, c)
		}
	}
}

func TestGenerate_PrunesTenPercent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PruneRatio = 0
	full := generated(t, cfg, 3)

	cfg.PruneRatio = 0.10
	pruned := generated(t, cfg, 3)

	count := func(a *Arena) int {
		n := 0
		for _, tile := range a.tiles {
			if tile == TileBrick {
				n++
			}
		}
		return n
	}
	before := count(full)
	want := int(float64(before) * 0.10)
	if want < 1 {
		want = 1
	}
	assert.Equal(t, before-want, count(pruned))
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	a := generated(t, cfg, 42)
	b := generated(t, cfg, 42)
	assert.Equal(t, a.tiles, b.tiles)
}

func TestArena_WrapsOutOfBoundsLookups(t *testing.T) {
	cfg := DefaultConfig()
	a := generated(t, cfg, 1)

	assert.Equal(t, GridPos{GridX: cfg.ArenaWidth - 1, GridY: 0}, a.Wrap(GridPos{GridX: -1, GridY: 0}))
	assert.Equal(t, GridPos{GridX: 0, GridY: 1}, a.Wrap(GridPos{GridX: cfg.ArenaWidth, GridY: 1 + cfg.ArenaHeight}))
	assert.Equal(t, a.Tile(GridPos{GridX: 3, GridY: 1}), a.Tile(GridPos{GridX: 3 + 2*cfg.ArenaWidth, GridY: 1 - cfg.ArenaHeight}))
	assert.NotPanics(t, func() { a.IsBlocking(GridPos{GridX: -100, GridY: 1000}) })
}

func TestArena_BreakWallSpawnsPowerup(t *testing.T) {
	cfg := DefaultConfig()
	a := NewArena(cfg)
	c := GridPos{GridX: 3, GridY: 3}
	a.SetTile(c, TileBrick)

	assert.False(t, a.BreakWall(GridPos{GridX: 4, GridY: 3}, 0), "empty cell cannot break")
	require.True(t, a.BreakWall(c, 10))
	assert.Equal(t, TileBreaking, a.Tile(c))
	assert.True(t, a.IsBlocking(c), "breaking cells still block")
	assert.False(t, a.BreakWall(c, 11), "already breaking")

	rng := rand.New(rand.NewSource(1))
	breakFrames := DurationToFrames(cfg.BreakDuration, cfg.FrameRate)
	assert.Empty(t, a.Update(10+breakFrames-1, rng))
	assert.Equal(t, TileBreaking, a.Tile(c))

	events := a.Update(10+breakFrames, rng)
	require.Len(t, events, 1)
	assert.Equal(t, EventPowerupSpawned, events[0].Kind)
	assert.Equal(t, TileEmpty, a.Tile(c))
	kind, ok := a.Powerup(c)
	require.True(t, ok)
	assert.Equal(t, events[0].Powerup, kind)
	assert.Empty(t, a.Breaking())
}

func TestArena_BurnMarkersExpire(t *testing.T) {
	cfg := DefaultConfig()
	a := NewArena(cfg)
	c := GridPos{GridX: 2, GridY: 2}
	a.SetPowerup(c, PowerupRange)

	require.True(t, a.BurnPowerup(c, 5))
	_, ok := a.Powerup(c)
	assert.False(t, ok)
	require.Len(t, a.Burning(), 1)

	burnFrames := DurationToFrames(cfg.ItemBurnDelay, cfg.FrameRate)
	a.Update(5+burnFrames-1, nil)
	assert.Len(t, a.Burning(), 1)
	a.Update(5+burnFrames, nil)
	assert.Empty(t, a.Burning())
}

func TestArena_LoadTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArenaWidth, cfg.ArenaHeight = 5, 5
	a := NewArena(cfg)
	require.NoError(t, a.LoadTemplate([]string{
		"WWWWW",
		"W.B.W",
		"W...W",
		"W...W",
		"WWWWW",
	}))
	assert.Equal(t, TileBrick, a.Tile(GridPos{GridX: 2, GridY: 1}))
	assert.True(t, a.IsPerimeter(GridPos{GridX: 4, GridY: 2}))
	assert.False(t, a.IsPerimeter(GridPos{GridX: 2, GridY: 2}))

	require.NoError(t, a.LoadTemplate([]string{
		"WWWWW",
		"W.B.W",
		"W.P.W",
		"W...W",
		"WWWWW",
	}))
	assert.Equal(t, TileEmpty, a.Tile(GridPos{GridX: 2, GridY: 2}), "spawn marker is open ground")

	assert.Error(t, a.LoadTemplate([]string{"WWWWW"}))
	assert.Error(t, a.LoadTemplate([]string{"WWWWW", "W.x.W", "W...W", "W...W", "WWWWW"}))
}

func TestArena_WalkWrapsAround(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArenaWidth, cfg.ArenaHeight = 5, 5
	a := NewArena(cfg)

	var visited []GridPos
	a.Walk(GridPos{GridX: 3, GridY: 1}, DirRight, 4, func(_ int, c GridPos) bool {
		visited = append(visited, c)
		return true
	})
	assert.Equal(t, []GridPos{{3, 1}, {4, 1}, {0, 1}, {1, 1}}, visited)

	found, ok := a.Find(GridPos{GridX: 1, GridY: 1}, DirUp, a.AxisLength(DirUp), func(c GridPos) bool {
		return c.GridY == 3
	})
	require.True(t, ok)
	assert.Equal(t, GridPos{GridX: 1, GridY: 3}, found)

	_, ok = a.Find(GridPos{GridX: 1, GridY: 1}, DirLeft, a.AxisLength(DirLeft), func(GridPos) bool { return false })
	assert.False(t, ok)
}
