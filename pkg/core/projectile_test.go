package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRow(rows []string, y int, row string) []string {
	out := append([]string(nil), rows...)
	out[y] = row
	return out
}

func TestKick_WithoutPowerupPlayerIsBlocked(t *testing.T) {
	s := newTestSim(t, openRows)
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)

	var events []Event
	for i := 0; i < 20; i++ {
		events = append(events, s.Step(Input{Right: true})...)
	}
	assert.Zero(t, countEvents(events, EventKicked))
	assert.Equal(t, PhaseArmed, b.Phase())
	assert.Equal(t, Vec2{X: 100, Y: 60}, b.Pos)
	assert.InDelta(t, 66.0, s.Player.Pos.X, 1e-9)
}

func TestKick_SlidesUntilWall(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.CanKick = true
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)
	s.Arena.SetPowerup(GridPos{GridX: 4, GridY: 1}, PowerupRange)

	kicked, _ := runUntil(t, s, Input{Right: true}, EventKicked, 20)
	assert.Equal(t, b.ID, kicked.BombID)
	assert.Equal(t, DirRight, kicked.Dir)
	assert.Equal(t, int64(6), kicked.Frame, "kick waits for the vacate delay")

	k, ok := b.State.(*Kicked)
	require.True(t, ok)
	assert.Equal(t, Vec2{X: s.cfg.KickSpeed, Y: 0}, k.Velocity)
	assert.InDelta(t, 105.5, b.Pos.X, 1e-9)

	stopped, events := runUntil(t, s, Input{}, EventStopped, 100)
	assert.Equal(t, GridPos{GridX: 7, GridY: 1}, stopped.Cell)
	assert.Equal(t, Vec2{X: 300, Y: 60}, b.Pos)
	assert.Equal(t, PhaseArmed, b.Phase())

	burned, ok := findEvent(events, EventItemBurned)
	require.True(t, ok, "rolling bomb crushes powerups")
	assert.Equal(t, GridPos{GridX: 4, GridY: 1}, burned.Cell)
	assert.Empty(t, s.Arena.PowerupCells())
}

func TestKick_BlockedDestinationDoesNothing(t *testing.T) {
	s := newTestSim(t, withRow(openRows, 1, "W..B....W"))
	s.Player.CanKick = true
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)

	var events []Event
	for i := 0; i < 20; i++ {
		events = append(events, s.Step(Input{Right: true})...)
	}
	assert.Zero(t, countEvents(events, EventKicked))
	assert.Equal(t, PhaseArmed, b.Phase())
	assert.Equal(t, Vec2{X: 100, Y: 60}, b.Pos)
}

func TestKick_FuseKeepsBurning(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.CanKick = true
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 1)

	runUntil(t, s, Input{Right: true}, EventKicked, 20)
	exploded, _ := runUntil(t, s, Input{}, EventExploded, 200)
	assert.Equal(t, b.ID, exploded.BombID)
	assert.Equal(t, int64(120), exploded.Frame)
}

func TestThrow_FusePausedWhileAirborne(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.CanCatch = true
	s.Player.Direction = DirRight

	events := s.Step(Input{Act: true}) // frame 0 放置
	placed, ok := findEvent(events, EventBombPlaced)
	require.True(t, ok)
	b := s.Bomb(placed.BombID)

	for s.Frame() < 10 {
		s.Step(Input{})
	}
	events = s.Step(Input{Act: true}) // frame 10 举起
	lifted, ok := findEvent(events, EventLifted)
	require.True(t, ok)
	assert.Equal(t, GridPos{GridX: 1, GridY: 1}, lifted.Cell)
	assert.True(t, s.Player.Frozen(s.Frame()))
	assert.Zero(t, countEvents(events, EventBombPlaced), "act lifts instead of placing")

	launched, _ := runUntil(t, s, Input{}, EventThrown, 20)
	assert.Equal(t, int64(10+s.windup/2), launched.Frame)

	th, ok := b.State.(*Thrown)
	require.True(t, ok)
	assert.Equal(t, GridPos{GridX: 4, GridY: 1}, th.InitialTarget)
	assert.Equal(t, GridPos{GridX: 4, GridY: 1}, th.FinalTarget)
	assert.Equal(t, int64(110), b.FuseRemaining(s.Frame()+50), "fuse frozen in the air")

	landed, _ := runUntil(t, s, Input{}, EventLanded, 60)
	assert.Equal(t, GridPos{GridX: 4, GridY: 1}, landed.Cell)
	assert.Equal(t, Vec2{X: 180, Y: 60}, b.Pos)
	assert.Equal(t, PhaseArmed, b.Phase())

	exploded, _ := runUntil(t, s, Input{}, EventExploded, 200)
	assert.Equal(t, 120+landed.Frame-lifted.Frame, exploded.Frame)
}

func TestThrow_WrapsAroundEdge(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.CanCatch = true
	s.PlacePlayer(GridPos{GridX: 6, GridY: 1})
	s.Player.Direction = DirRight
	b := s.SpawnBomb(GridPos{GridX: 7, GridY: 1}, 2)

	events := s.Step(Input{Act: true})
	require.Equal(t, 1, countEvents(events, EventLifted))
	th := b.State.(*Thrown)
	assert.Equal(t, GridPos{GridX: 0, GridY: 1}, th.InitialTarget)
	assert.Equal(t, GridPos{GridX: 1, GridY: 1}, th.FinalTarget, "perimeter cells are never landing cells")

	runUntil(t, s, Input{}, EventThrown, 20)
	assert.Equal(t, Vec2{X: 260, Y: 60}, b.Pos)

	w, _ := s.cfg.WorldSize()
	prev := b.Pos
	var wrapped, landed bool
	for i := 0; i < 40 && !landed; i++ {
		events := s.Step(Input{})
		assert.InDelta(t, s.cfg.ThrowSpeed, toroidalDelta(prev.X, b.Pos.X, w), 1e-9)
		assert.InDelta(t, 60.0, b.Pos.Y, 1e-9)
		prev = b.Pos
		if _, ok := findEvent(events, EventWrapped); ok {
			wrapped = true
			assert.InDelta(t, 0.0, b.Pos.X, 1e-9)
		}
		if e, ok := findEvent(events, EventLanded); ok {
			landed = true
			assert.Equal(t, GridPos{GridX: 1, GridY: 1}, e.Cell)
		}
	}
	assert.True(t, wrapped)
	assert.True(t, landed)
	assert.Equal(t, Vec2{X: 60, Y: 60}, b.Pos)
}

func TestThrow_BouncesOncePerObstacle(t *testing.T) {
	s := newTestSim(t, withRow(openRows, 1, "W...BB..W"))
	s.Player.CanCatch = true
	s.Player.Direction = DirRight
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)

	s.Step(Input{Act: true})
	th := b.State.(*Thrown)
	assert.Equal(t, GridPos{GridX: 6, GridY: 1}, th.FinalTarget)

	first, _ := runUntil(t, s, Input{}, EventBounced, 30)
	assert.Equal(t, GridPos{GridX: 4, GridY: 1}, first.Cell)
	assert.Equal(t, int64(19), first.Frame)
	assert.Equal(t, s.cfg.BounceSpeed, th.Speed)

	// 同一个格子不会再弹
	before := len(s.events)
	assert.True(t, s.checkThrowCell(b, th, GridPos{GridX: 4, GridY: 1}, s.Frame()))
	assert.Len(t, s.events, before)

	second, _ := runUntil(t, s, Input{}, EventBounced, 30)
	assert.Equal(t, GridPos{GridX: 5, GridY: 1}, second.Cell)

	landed, events := runUntil(t, s, Input{}, EventLanded, 60)
	assert.Zero(t, countEvents(events, EventBounced))
	assert.Equal(t, GridPos{GridX: 6, GridY: 1}, landed.Cell)
	assert.Equal(t, Vec2{X: 260, Y: 60}, b.Pos)
	assert.Equal(t, landed.Frame, b.FuseStart, "fuse resumes with the airborne frames added")
}

func TestThrow_TargetTakenAfterEnteringRetargets(t *testing.T) {
	s := newTestSim(t, withRow(openRows, 1, "W...B...W"))
	s.Player.CanCatch = true
	s.Player.Direction = DirRight
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)

	s.Step(Input{Act: true})
	th := b.State.(*Thrown)
	require.Equal(t, GridPos{GridX: 5, GridY: 1}, th.FinalTarget)
	runUntil(t, s, Input{}, EventBounced, 30)

	target := GridPos{GridX: 5, GridY: 1}
	for i := 0; i < 20 && s.BombCell(b) != target; i++ {
		s.Step(Input{})
	}
	require.Equal(t, target, s.BombCell(b))
	require.Equal(t, PhaseThrown, b.Phase(), "still short of the landing threshold")

	// 炸弹已在目标格内，目标才被另一个炸弹占住
	s.SpawnBomb(target, 2)
	taken := s.Frame()

	events := s.Step(Input{})
	bounced, ok := findEvent(events, EventBounced)
	require.True(t, ok, "retargets on the same tick")
	assert.Equal(t, target, bounced.Cell)
	assert.Equal(t, GridPos{GridX: 6, GridY: 1}, th.FinalTarget)

	landed, events := runUntil(t, s, Input{}, EventLanded, 30)
	assert.Zero(t, countEvents(events, EventWrapped))
	assert.Equal(t, GridPos{GridX: 6, GridY: 1}, landed.Cell)
	assert.Less(t, landed.Frame-taken, int64(20))
}

// throwAcrossEdge 从 (5,1) 向右投掷，越过右边缘后经过 (1,1) 的软墙
func throwAcrossEdge(t *testing.T, s *Simulation) (*Bomb, *Thrown, []Event) {
	t.Helper()
	s.Player.CanCatch = true
	s.PlacePlayer(GridPos{GridX: 5, GridY: 1})
	s.Player.Direction = DirRight
	b := s.SpawnBomb(GridPos{GridX: 5, GridY: 1}, 2)

	events := s.Step(Input{Act: true})
	require.Equal(t, 1, countEvents(events, EventLifted))
	th := b.State.(*Thrown)
	require.Equal(t, GridPos{GridX: 2, GridY: 1}, th.FinalTarget)

	_, rest := runUntil(t, s, Input{}, EventLanded, 80)
	return b, th, append(events, rest...)
}

func TestThrow_WrapGraceSuppressesBounce(t *testing.T) {
	s := newTestSim(t, withRow(openRows, 1, "WB......W"))
	b, th, events := throwAcrossEdge(t, s)

	wrapped, ok := findEvent(events, EventWrapped)
	require.True(t, ok)
	assert.Equal(t, GridPos{GridX: 0, GridY: 1}, wrapped.Cell)
	assert.Zero(t, countEvents(events, EventBounced))
	assert.Equal(t, s.cfg.ThrowSpeed, th.Speed)
	assert.Equal(t, GridPos{GridX: 2, GridY: 1}, s.BombCell(b))
}

func TestThrow_BouncesAfterWrapWithoutGrace(t *testing.T) {
	s := newTestSim(t, withRow(openRows, 1, "WB......W"), func(c *Config) { c.WrapGrace = 0 })
	b, th, events := throwAcrossEdge(t, s)

	require.Equal(t, 1, countEvents(events, EventWrapped))
	bounced, ok := findEvent(events, EventBounced)
	require.True(t, ok)
	assert.Equal(t, GridPos{GridX: 1, GridY: 1}, bounced.Cell)
	assert.Equal(t, s.cfg.BounceSpeed, th.Speed)
	assert.Equal(t, GridPos{GridX: 2, GridY: 1}, s.BombCell(b))
}

func TestThrow_ExplodesInAirWithoutLandingCell(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.CanCatch = true
	s.Player.Direction = DirRight
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 1)

	s.Step(Input{Act: true})
	require.Equal(t, PhaseThrown, b.Phase())

	// 出手后把整行填满
	s.PlacePlayer(GridPos{GridX: 1, GridY: 3})
	for x := 1; x < 8; x++ {
		s.Arena.SetTile(GridPos{GridX: x, GridY: 1}, TileBrick)
	}

	exploded, _ := runUntil(t, s, Input{}, EventExploded, 40)
	assert.Equal(t, b.ID, exploded.BombID)
	assert.Equal(t, GridPos{GridX: 4, GridY: 1}, exploded.Cell)
	assert.Equal(t, PhaseExploding, b.Phase())
	assert.False(t, s.Player.Dead)
}

func TestLift_RejectedWithoutLandingCell(t *testing.T) {
	s := newTestSim(t, withRow(openRows, 1, "W..BBBBBW"))
	s.Player.CanCatch = true
	s.Player.Direction = DirRight
	b := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)
	s.Arena.SetPowerup(GridPos{GridX: 1, GridY: 1}, PowerupSpeed)
	s.Arena.SetPowerup(GridPos{GridX: 2, GridY: 1}, PowerupSpeed)

	require.Same(t, b, s.liftableBomb())
	assert.False(t, s.lift(b, 0))
	assert.Equal(t, PhaseArmed, b.Phase())
	assert.False(t, s.Player.Frozen(0))
}

func TestLift_PrefersBombUnderfoot(t *testing.T) {
	s := newTestSim(t, openRows)
	s.Player.Direction = DirRight
	ahead := s.SpawnBomb(GridPos{GridX: 2, GridY: 1}, 2)
	assert.Same(t, ahead, s.liftableBomb())

	under := s.SpawnBomb(GridPos{GridX: 1, GridY: 1}, 2)
	assert.Same(t, under, s.liftableBomb())
}
