package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openRows 9x7 的空场地
var openRows = []string{
	"WWWWWWWWW",
	"W.......W",
	"W.......W",
	"W.......W",
	"W.......W",
	"W.......W",
	"WWWWWWWWW",
}

func newTestSim(t *testing.T, rows []string, tweaks ...func(*Config)) *Simulation {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ArenaWidth = len(rows[0])
	cfg.ArenaHeight = len(rows)
	cfg.OpenRows = nil
	for _, tweak := range tweaks {
		tweak(&cfg)
	}
	s, err := NewSimulation(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Arena.LoadTemplate(rows))
	return s
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// runUntil 推进直到出现指定事件，返回事件所在帧
func runUntil(t *testing.T, s *Simulation, in Input, kind EventKind, maxFrames int) (Event, []Event) {
	t.Helper()
	var all []Event
	for i := 0; i < maxFrames; i++ {
		events := s.Step(in)
		all = append(all, events...)
		if e, ok := findEvent(events, kind); ok {
			return e, all
		}
	}
	require.FailNowf(t, "event not seen", "%v within %d frames", kind, maxFrames)
	return Event{}, nil
}

func TestNewSimulation_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
	}{
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"negative speed step", func(c *Config) { c.SpeedStep = -0.5 }},
		{"negative kick delay", func(c *Config) { c.KickDelay = -time.Millisecond }},
		{"negative wrap grace", func(c *Config) { c.WrapGrace = -time.Millisecond }},
		{"negative windup", func(c *Config) { c.ThrowWindup = -time.Millisecond }},
		{"negative break duration", func(c *Config) { c.BreakDuration = -time.Millisecond }},
		{"negative death reset", func(c *Config) { c.DeathResetWait = -time.Second }},
		{"throw skips cells", func(c *Config) { c.ThrowSpeed = c.CellSize }},
		{"bounce skips cells", func(c *Config) { c.BounceSpeed = c.CellSize + 1 }},
		{"kick skips cells", func(c *Config) { c.KickSpeed = 2 * c.CellSize }},
		{"template size mismatch", func(c *Config) { c.Template = []string{"WWWWW"} }},
		{"template with two spawns", func(c *Config) {
			c.ArenaWidth, c.ArenaHeight, c.OpenRows = 5, 5, nil
			c.Template = []string{"WWWWW", "WP.PW", "W...W", "W...W", "WWWWW"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.tweak(&cfg)
			_, err := NewSimulation(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewSimulation_AcceptsZeroDelays(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WrapGrace = 0
	cfg.KickDelay = 0
	cfg.DeathResetWait = 0
	cfg.SpeedStep = 0
	_, err := NewSimulation(cfg)
	assert.NoError(t, err)
}

func TestNewSimulation_TemplateLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArenaWidth, cfg.ArenaHeight = 7, 5
	cfg.OpenRows = nil
	cfg.Template = []string{
		"WWWWWWW",
		"W..B..W",
		"W.W.W.W",
		"W...P.W",
		"WWWWWWW",
	}
	s, err := NewSimulation(cfg)
	require.NoError(t, err)

	brick := GridPos{GridX: 3, GridY: 1}
	assert.Equal(t, TileBrick, s.Arena.Tile(brick))
	assert.Equal(t, TileWall, s.Arena.Tile(GridPos{GridX: 2, GridY: 2}))
	assert.Equal(t, TileEmpty, s.Arena.Tile(GridPos{GridX: 4, GridY: 3}))
	spawn := CellCenter(GridPos{GridX: 4, GridY: 3}, cfg.CellSize)
	assert.Equal(t, spawn, s.Player.Pos)

	// 重开后仍按模板布局
	s.Arena.SetTile(brick, TileEmpty)
	s.PlacePlayer(GridPos{GridX: 1, GridY: 1})
	events := s.Step(Input{Restart: true})
	require.Equal(t, 1, countEvents(events, EventRoundReset))
	assert.Equal(t, TileBrick, s.Arena.Tile(brick))
	assert.Equal(t, spawn, s.Player.Pos)
}

func TestFuse_ExplodesAfterTwoSeconds(t *testing.T) {
	s, err := NewSimulation(DefaultConfig())
	require.NoError(t, err)

	events := s.Step(Input{Act: true})
	placed, ok := findEvent(events, EventBombPlaced)
	require.True(t, ok)
	assert.Equal(t, int64(0), placed.Frame)
	assert.Equal(t, GridPos{GridX: 1, GridY: 1}, placed.Cell)

	exploded, _ := runUntil(t, s, Input{}, EventExploded, 200)
	assert.GreaterOrEqual(t, exploded.Frame, int64(119))
	assert.LessOrEqual(t, exploded.Frame, int64(121))
	assert.Equal(t, int64(120), exploded.Frame)

	b := s.Bomb(placed.BombID)
	require.NotNil(t, b)
	blast, ok := b.State.(*Exploding)
	require.True(t, ok)
	assert.ElementsMatch(t, []GridPos{{1, 1}, {2, 1}, {3, 1}, {1, 2}, {1, 3}}, blast.Cells)

	assert.True(t, s.Player.Dead, "player standing on the bomb dies")
	assert.Equal(t, int64(120), s.Player.DeathTime)
}

func TestFuse_InvinciblePlayerSurvives(t *testing.T) {
	s, err := NewSimulation(DefaultConfig())
	require.NoError(t, err)

	s.Step(Input{ToggleInvincible: true, Act: true})
	require.True(t, s.Player.Invincible)
	runUntil(t, s, Input{}, EventExploded, 200)
	assert.False(t, s.Player.Dead)
}

func TestDeath_AutoResetsRound(t *testing.T) {
	s, err := NewSimulation(DefaultConfig())
	require.NoError(t, err)
	s.Player.CanKick = true
	s.Player.MaxBombs = 3

	s.Step(Input{Act: true})
	died, _ := runUntil(t, s, Input{}, EventPlayerDied, 200)

	// 死亡后输入无效
	pos := s.Player.Pos
	s.Step(Input{Right: true})
	assert.Equal(t, pos, s.Player.Pos)

	reset, _ := runUntil(t, s, Input{}, EventRoundReset, 400)
	assert.Equal(t, died.Frame+s.deathReset, reset.Frame)
	assert.False(t, s.Player.Dead)
	assert.False(t, s.Player.CanKick, "capabilities reset to defaults")
	assert.Equal(t, 1, s.Player.MaxBombs)
	assert.Empty(t, s.Bombs())
	assert.Equal(t, CellCenter(GridPos{GridX: 1, GridY: 1}, s.cfg.CellSize), s.Player.Pos)
}

func TestPlaceBomb_RejectsIllegalPlacement(t *testing.T) {
	s := newTestSim(t, openRows)

	events := s.Step(Input{Act: true})
	require.Equal(t, 1, countEvents(events, EventBombPlaced))

	// 同一格已有炸弹 / 容量已满：静默拒绝
	events = s.Step(Input{Act: true})
	assert.Zero(t, countEvents(events, EventBombPlaced))
	assert.Len(t, s.Bombs(), 1)

	s.Player.MaxBombs = 2
	events = s.Step(Input{Act: true})
	assert.Zero(t, countEvents(events, EventBombPlaced), "cell still occupied")

	for i := 0; i < 15; i++ {
		s.Step(Input{Right: true})
	}
	require.Equal(t, GridPos{GridX: 2, GridY: 1}, s.Player.Cell(s.cfg.CellSize))
	events = s.Step(Input{Act: true})
	assert.Equal(t, 1, countEvents(events, EventBombPlaced))

	b := s.Bombs()[1]
	assert.Equal(t, s.cfg.ExplosionRange, b.Range)
}

func TestPlaceBomb_CapturesPlayerRange(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.BombRange = 4
	s.Step(Input{Act: true})
	require.Len(t, s.Bombs(), 1)
	assert.Equal(t, 4, s.Bombs()[0].Range)

	s.Player.BombRange = 6
	assert.Equal(t, 4, s.Bombs()[0].Range)
}

func TestPlayer_WalksOffOwnBombThenIsBlocked(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Step(Input{Act: true})

	for i := 0; i < 15; i++ {
		s.Step(Input{Right: true})
	}
	assert.Equal(t, GridPos{GridX: 2, GridY: 1}, s.Player.Cell(s.cfg.CellSize))

	for i := 0; i < 20; i++ {
		s.Step(Input{Left: true})
	}
	b := s.Bombs()[0]
	assert.GreaterOrEqual(t, s.Player.Pos.X-b.Pos.X, s.Player.Radius+s.cfg.BombRadius())
}

func TestPlayer_BlockedByWalls(t *testing.T) {
	s := newTestSim(t, openRows)
	for i := 0; i < 20; i++ {
		s.Step(Input{Up: true, Left: true})
	}
	p := s.Player
	assert.GreaterOrEqual(t, p.Pos.X, s.cfg.CellSize+p.Radius+s.cfg.CornerTolerance)
	assert.GreaterOrEqual(t, p.Pos.Y, s.cfg.CellSize+p.Radius+s.cfg.CornerTolerance)
	assert.Equal(t, DirLeft, p.Direction)
}

func TestPlayer_CornerCorrectionSlidesIntoLane(t *testing.T) {
	s := newTestSim(t, []string{
		"WWWWWWWWW",
		"W.......W",
		"W.W.W.W.W",
		"W.......W",
		"W.W.W.W.W",
		"W.......W",
		"WWWWWWWWW",
	})
	// 偏离第 1 列中线 7 像素，直走会蹭到 (2,2) 的墙角
	s.Player.Pos = Vec2{X: 67, Y: 60}
	for i := 0; i < 20; i++ {
		s.Step(Input{Down: true})
	}
	assert.Equal(t, GridPos{GridX: 1, GridY: 3}, s.Player.Cell(s.cfg.CellSize))
	assert.InDelta(t, 64.0, s.Player.Pos.X, 0.001)
}

func TestPowerup_PickupAppliesEffect(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Arena.SetPowerup(GridPos{GridX: 2, GridY: 1}, PowerupKick)
	s.Arena.SetPowerup(GridPos{GridX: 3, GridY: 1}, PowerupSpeed)

	var events []Event
	for i := 0; i < 30; i++ {
		events = append(events, s.Step(Input{Right: true})...)
	}
	assert.Equal(t, 2, countEvents(events, EventItemCollected))
	assert.True(t, s.Player.CanKick)
	assert.InDelta(t, s.cfg.MoveSpeed+s.cfg.SpeedStep, s.Player.Speed, 1e-9)
	assert.Empty(t, s.Arena.PowerupCells())
}

func TestPowerup_AllKinds(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer(cfg, GridPos{GridX: 1, GridY: 1})
	for _, k := range powerupKinds {
		p.ApplyPowerup(k, cfg)
	}
	assert.Equal(t, cfg.BombCapacity+1, p.MaxBombs)
	assert.Equal(t, cfg.ExplosionRange+1, p.BombRange)
	assert.True(t, p.CanKick)
	assert.True(t, p.CanCatch)
	assert.Equal(t, "glove", PowerupCatch.String())
}

func TestPause_ShiftsFuseByPausedDuration(t *testing.T) {
	s, err := NewSimulation(DefaultConfig())
	require.NoError(t, err)

	s.Step(Input{Act: true}) // frame 0
	for s.Frame() < 30 {
		s.Step(Input{})
	}
	events := s.Step(Input{TogglePause: true}) // frame 30
	require.Equal(t, 1, countEvents(events, EventPaused))
	require.True(t, s.Paused())

	pos := s.Player.Pos
	for s.Frame() < 90 {
		events = s.Step(Input{Right: true, Act: true})
		assert.Empty(t, events, "nothing happens while paused")
	}
	assert.Equal(t, pos, s.Player.Pos)

	events = s.Step(Input{TogglePause: true}) // frame 90
	require.Equal(t, 1, countEvents(events, EventResumed))
	assert.Equal(t, int64(60), s.Bombs()[0].FuseStart)

	exploded, _ := runUntil(t, s, Input{}, EventExploded, 200)
	assert.Equal(t, int64(180), exploded.Frame)
}

func TestPause_ShiftsBreakingAndDeathTimes(t *testing.T) {
	s := newTestSim(t, []string{
		"WWWWWWWWW",
		"W.B.....W",
		"W.......W",
		"W.......W",
		"W.......W",
		"W.......W",
		"WWWWWWWWW",
	})
	s.Step(Input{Act: true})
	runUntil(t, s, Input{}, EventExploded, 200) // frame 120
	require.True(t, s.Player.Dead)
	require.Len(t, s.Arena.Breaking(), 1)
	breakStart := s.Arena.Breaking()[0].Start
	deathTime := s.Player.DeathTime

	s.Step(Input{TogglePause: true})
	for i := 0; i < 10; i++ {
		s.Step(Input{})
	}
	s.Step(Input{TogglePause: true})

	assert.Equal(t, breakStart+11, s.Arena.Breaking()[0].Start)
	assert.Equal(t, deathTime+11, s.Player.DeathTime)
}

func TestRestart_ClearsState(t *testing.T) {
	s, err := NewSimulation(DefaultConfig())
	require.NoError(t, err)
	s.Step(Input{Act: true})
	s.Arena.SetPowerup(GridPos{GridX: 5, GridY: 5}, PowerupRange)
	s.Player.BombRange = 5

	events := s.Step(Input{Restart: true})
	assert.Equal(t, 1, countEvents(events, EventRoundReset))
	assert.Empty(t, s.Bombs())
	assert.Empty(t, s.Arena.PowerupCells())
	assert.Empty(t, s.Arena.Breaking())
	assert.Equal(t, s.cfg.ExplosionRange, s.Player.BombRange)
}

func TestSnapshot_ReflectsState(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Arena.SetPowerup(GridPos{GridX: 5, GridY: 5}, PowerupCatch)
	s.Step(Input{Act: true})
	s.Step(Input{})

	sn := s.Snapshot()
	assert.Equal(t, int64(2), sn.Frame)
	assert.Equal(t, 9, sn.Width)
	assert.Equal(t, TileWall, sn.Tile(0, 0))
	assert.Equal(t, TileEmpty, sn.Tile(1, 1))
	require.Len(t, sn.Powerups, 1)
	assert.Equal(t, PowerupCatch, sn.Powerups[0].Type)
	require.Len(t, sn.Bombs, 1)
	assert.Equal(t, PhaseArmed, sn.Bombs[0].Phase)
	assert.Equal(t, s.Clock().At(s.fuse-2), sn.Bombs[0].FuseRemaining)
	assert.Equal(t, GridPos{GridX: 1, GridY: 1}, sn.Player.Cell)

	// 快照是拷贝
	sn.Tiles[0] = TileEmpty
	assert.Equal(t, TileWall, s.Arena.Tile(GridPos{}))
}
