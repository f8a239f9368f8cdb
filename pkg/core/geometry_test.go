package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircleOverlapsCell(t *testing.T) {
	cell := GridPos{GridX: 1, GridY: 1} // [40,80) x [40,80)

	tests := []struct {
		name   string
		center Vec2
		radius float64
		want   bool
	}{
		{"inside", Vec2{60, 60}, 5, true},
		{"touching edge", Vec2{20, 60}, 20, false},
		{"overlapping edge", Vec2{21, 60}, 20, true},
		{"near corner outside", Vec2{30, 30}, 14, false},
		{"corner within radius", Vec2{32, 32}, 14, true},
		{"far away", Vec2{200, 200}, 14, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CircleOverlapsCell(tt.center, tt.radius, cell, 40))
		})
	}
}

func TestCircleOverlapsCell_ToleranceBlocksSliding(t *testing.T) {
	// 半径 14 的玩家距离墙 15 像素：不加容差不碰，加 1.5 容差后相碰
	cell := GridPos{GridX: 0, GridY: 0}
	center := Vec2{X: 55, Y: 20}
	assert.False(t, CircleOverlapsCell(center, 14, cell, 40))
	assert.True(t, CircleOverlapsCell(center, 14+1.5, cell, 40))
}

func TestCircleOverlapsCircle(t *testing.T) {
	assert.True(t, CircleOverlapsCircle(Vec2{0, 0}, 10, Vec2{15, 0}, 10))
	assert.False(t, CircleOverlapsCircle(Vec2{0, 0}, 10, Vec2{20, 0}, 10), "touching is not overlapping")
	assert.False(t, CircleOverlapsCircle(Vec2{0, 0}, 10, Vec2{15, 15}, 10))
}

func TestCircleBoxesDisjoint(t *testing.T) {
	assert.True(t, CircleBoxesDisjoint(Vec2{66, 60}, 14, Vec2{100, 60}, 20))
	assert.False(t, CircleBoxesDisjoint(Vec2{67, 60}, 14, Vec2{100, 60}, 20))
}

func TestCellHelpers(t *testing.T) {
	assert.Equal(t, GridPos{GridX: 1, GridY: 2}, CellOf(Vec2{X: 79.9, Y: 80}, 40))
	assert.Equal(t, GridPos{GridX: -1, GridY: 0}, CellOf(Vec2{X: -0.1, Y: 0}, 40))
	assert.Equal(t, Vec2{X: 60, Y: 100}, CellCenter(GridPos{GridX: 1, GridY: 2}, 40))
	assert.InDelta(t, 350.0, wrapFloat(-10, 360), 1e-9)
	assert.InDelta(t, 0.0, wrapFloat(360, 360), 1e-9)
	assert.InDelta(t, 20.0, toroidalDelta(350, 10, 360), 1e-9)
	assert.InDelta(t, -20.0, toroidalDelta(10, 350, 360), 1e-9)
}

func TestClock(t *testing.T) {
	c := NewClock(60)
	assert.Equal(t, time.Duration(0), c.Now())
	for i := 0; i < 120; i++ {
		c.Advance()
	}
	assert.Equal(t, int64(120), c.Frame())
	assert.Equal(t, 2*time.Second, c.Now())

	assert.Equal(t, int64(120), DurationToFrames(2*time.Second, 60))
	assert.Equal(t, int64(15), DurationToFrames(240*time.Millisecond, 60))
	assert.Equal(t, int64(6), DurationToFrames(100*time.Millisecond, 60))
	assert.Equal(t, int64(0), DurationToFrames(0, 60))
}
