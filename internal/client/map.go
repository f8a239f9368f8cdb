package client

import (
	"image/color"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	grassColor = color.RGBA{34, 139, 34, 255}
	wallColor  = color.RGBA{80, 80, 80, 255}
	brickColor = color.RGBA{205, 133, 63, 255}
)

// MapRenderer 地图渲染器：地块、破碎动画、道具
type MapRenderer struct{}

// NewMapRenderer 创建地图渲染器
func NewMapRenderer() *MapRenderer {
	return &MapRenderer{}
}

// Draw 绘制地图
func (m *MapRenderer) Draw(screen *ebiten.Image, sn *core.Snapshot) {
	size := float32(sn.CellSize)
	for y := 0; y < sn.Height; y++ {
		for x := 0; x < sn.Width; x++ {
			px := float32(x) * size
			py := float32(y) * size

			tile := sn.Tile(x, y)
			c := grassColor
			switch tile {
			case core.TileWall:
				c = wallColor
			case core.TileBrick:
				c = brickColor
			}
			// 破碎中的软墙先画草地，砖块在 drawBreaking 中缩小

			vector.FillRect(screen, px, py, size, size, c, false)
			vector.StrokeRect(screen, px, py, size, size, 1, color.RGBA{0, 0, 0, 100}, false)

			// 砖块纹理
			if tile == core.TileBrick {
				for i := 0; i < 3; i++ {
					lineY := py + size*float32(i*2+1)/6
					vector.StrokeLine(screen, px+2, lineY, px+size-2, lineY, 1,
						color.RGBA{180, 118, 53, 255}, false)
				}
			}

			// 墙壁十字纹理
			if tile == core.TileWall {
				vector.StrokeLine(screen, px+size/2, py+5, px+size/2, py+size-5,
					2, color.RGBA{60, 60, 60, 255}, false)
				vector.StrokeLine(screen, px+5, py+size/2, px+size-5, py+size/2,
					2, color.RGBA{60, 60, 60, 255}, false)
			}
		}
	}

	m.drawBreaking(screen, sn)
	m.drawPowerups(screen, sn)
	m.drawBurning(screen, sn)
}

// progress 动画进度 0..1
func progress(now, start, total time.Duration) float32 {
	if total <= 0 {
		return 1
	}
	r := float32(now-start) / float32(total)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

func (m *MapRenderer) drawBreaking(screen *ebiten.Image, sn *core.Snapshot) {
	size := float32(sn.CellSize)
	for _, b := range sn.Breaking {
		r := progress(sn.Now, b.Start, sn.BreakDuration)
		scale := 1 - r
		px := float32(b.Cell.GridX)*size + size*(1-scale)/2
		py := float32(b.Cell.GridY)*size + size*(1-scale)/2
		alpha := uint8(255 * scale)
		vector.FillRect(screen, px, py, size*scale, size*scale, color.RGBA{205, 133, 63, alpha}, false)
		// 裂纹
		vector.StrokeLine(screen, px, py, px+size*scale, py+size*scale, 2, color.RGBA{90, 50, 20, alpha}, false)
		vector.StrokeLine(screen, px+size*scale, py, px, py+size*scale, 2, color.RGBA{90, 50, 20, alpha}, false)
	}
}

// powerupStyle 道具颜色和字母
func powerupStyle(t core.PowerupType) (color.RGBA, string) {
	switch t {
	case core.PowerupCapacity:
		return color.RGBA{60, 60, 60, 255}, "B"
	case core.PowerupSpeed:
		return color.RGBA{80, 200, 255, 255}, "S"
	case core.PowerupRange:
		return color.RGBA{255, 120, 0, 255}, "F"
	case core.PowerupKick:
		return color.RGBA{160, 90, 255, 255}, "K"
	case core.PowerupCatch:
		return color.RGBA{255, 210, 60, 255}, "G"
	}
	return color.RGBA{255, 255, 255, 255}, "?"
}

func (m *MapRenderer) drawPowerups(screen *ebiten.Image, sn *core.Snapshot) {
	size := float32(sn.CellSize)
	for _, p := range sn.Powerups {
		cx := float32(p.Cell.GridX)*size + size/2
		cy := float32(p.Cell.GridY)*size + size/2
		c, label := powerupStyle(p.Type)
		vector.FillRect(screen, cx-size*0.35, cy-size*0.35, size*0.7, size*0.7, color.RGBA{250, 240, 220, 255}, false)
		vector.FillCircle(screen, cx, cy, size*0.28, c, false)
		drawText(screen, int(cx)-3, int(cy)-7, label, color.White)
	}
}

// drawBurning 被炸毁道具的标记：淡出的红叉
func (m *MapRenderer) drawBurning(screen *ebiten.Image, sn *core.Snapshot) {
	size := float32(sn.CellSize)
	for _, b := range sn.Burning {
		r := progress(sn.Now, b.Start, sn.ItemBurnDuration)
		alpha := uint8(255 * (1 - r))
		px := float32(b.Cell.GridX) * size
		py := float32(b.Cell.GridY) * size
		c := color.RGBA{220, 30, 30, alpha}
		vector.StrokeLine(screen, px+8, py+8, px+size-8, py+size-8, 3, c, false)
		vector.StrokeLine(screen, px+size-8, py+8, px+8, py+size-8, 3, c, false)
	}
}
