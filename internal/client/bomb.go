package client

import (
	"image/color"
	"math"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// BombRenderer 炸弹渲染器（静止、滑行、举起、飞行）
type BombRenderer struct {
	Fuse time.Duration // 完整引信时长，用于计算闪烁和引线长度
}

// NewBombRenderer 创建炸弹渲染器
func NewBombRenderer(fuse time.Duration) *BombRenderer {
	return &BombRenderer{Fuse: fuse}
}

// Draw 绘制一颗未爆炸的炸弹
func (r *BombRenderer) Draw(screen *ebiten.Image, sn *core.Snapshot, bomb core.BombView) {
	size := float32(sn.CellSize)
	cx := float32(bomb.Pos.X)
	cy := float32(bomb.Pos.Y)
	radius := size * 0.3

	if bomb.Phase == core.PhaseThrown {
		switch bomb.Stage {
		case core.ThrowLifting:
			// 举在玩家头顶
			cx, cy = float32(sn.Player.Pos.X), float32(sn.Player.Pos.Y)-size*0.6
		default:
			// 地面阴影 + 抛物线高度
			vector.FillCircle(screen, cx, cy+radius*0.6, radius*0.8, color.RGBA{0, 0, 0, 80}, false)
			cy -= float32(math.Sin(math.Pi*bomb.ArcProgress)) * size * 0.8
		}
	}

	ratio := 0.0
	if r.Fuse > 0 {
		ratio = 1 - float64(bomb.FuseRemaining)/float64(r.Fuse)
	}
	ratio = math.Max(0, math.Min(1, ratio))

	// 根据时间闪烁
	elapsed := float64(r.Fuse-bomb.FuseRemaining) / float64(time.Second) * 60
	blink := math.Sin(elapsed * 0.1)
	alpha := uint8(200 + 55*blink)

	vector.FillCircle(screen, cx, cy, radius, color.RGBA{0, 0, 0, alpha}, false)
	vector.StrokeCircle(screen, cx, cy, radius, 2, color.RGBA{50, 50, 50, 255}, false)

	// 引线随时间变短
	fuseLength := float32(15 * (1 - ratio))
	if fuseLength > 0 {
		fuseX := cx - radius*0.5
		fuseY := cy - radius
		vector.StrokeLine(screen, fuseX, fuseY, fuseX-fuseLength*0.5, fuseY-fuseLength,
			2, color.RGBA{139, 69, 19, 255}, false)
		if blink > 0 {
			sparkColor := color.RGBA{255, uint8(100 + 155*blink), 0, 255}
			vector.FillCircle(screen, fuseX-fuseLength*0.5, fuseY-fuseLength, 3, sparkColor, false)
		}
	}

	// 快爆炸时的警告圈
	if ratio > 0.7 {
		warningAlpha := uint8((ratio - 0.7) / 0.3 * 100)
		warningRadius := radius + float32(10*(ratio-0.7)/0.3)
		vector.StrokeCircle(screen, cx, cy, warningRadius, 2, color.RGBA{255, 0, 0, warningAlpha}, false)
	}
}

// ExplosionRenderer 爆炸渲染器
type ExplosionRenderer struct{}

// NewExplosionRenderer 创建爆炸渲染器
func NewExplosionRenderer() *ExplosionRenderer {
	return &ExplosionRenderer{}
}

// Draw 绘制爆炸火焰；爆炸时带道具的格子不画火焰，只显示道具炸毁标记
func (e *ExplosionRenderer) Draw(screen *ebiten.Image, sn *core.Snapshot, bomb core.BombView) {
	ratio := float64(progress(sn.Now, bomb.ExplodedAt, sn.ExplosionDuration))
	alpha := uint8(255 * (1 - ratio))
	size := float32(sn.CellSize)

	hidden := make(map[core.GridPos]bool, len(bomb.PowerupCells))
	for _, c := range bomb.PowerupCells {
		hidden[c] = true
	}

	for _, cell := range bomb.Cells {
		if hidden[cell] {
			continue
		}
		px := float32(cell.GridX) * size
		py := float32(cell.GridY) * size

		// 从中心扩散
		scale := float32(0.3 + 0.7*math.Min(ratio*2, 1.0))
		offset := size * (1 - scale) / 2

		// 黄 → 橙 → 红
		var c color.RGBA
		switch {
		case ratio < 0.3:
			c = color.RGBA{255, 255, 0, alpha}
		case ratio < 0.6:
			c = color.RGBA{255, 165, 0, alpha}
		default:
			c = color.RGBA{255, 0, 0, alpha}
		}
		vector.FillRect(screen, px+offset, py+offset, size*scale, size*scale, c, false)

		if ratio < 0.5 {
			innerAlpha := uint8(200 * (1 - ratio*2))
			innerScale := scale * 0.6
			innerOffset := size * (1 - innerScale) / 2
			vector.FillRect(screen, px+innerOffset, py+innerOffset, size*innerScale, size*innerScale,
				color.RGBA{255, 255, 255, innerAlpha}, false)
		}

		vector.StrokeRect(screen, px+offset, py+offset, size*scale, size*scale,
			2, color.RGBA{255, 100, 0, alpha}, false)
	}
}
