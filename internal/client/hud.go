package client

import (
	"fmt"
	"image/color"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// hudHeight 地图下方状态栏高度
const hudHeight = 40

var hudFont = text.NewGoXFace(basicfont.Face7x13)

func drawText(screen *ebiten.Image, x, y int, msg string, clr color.Color) {
	options := &text.DrawOptions{}
	options.GeoM.Translate(float64(x), float64(y))
	options.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, hudFont, options)
}

// hudLines 状态栏文字
func hudLines(sn *core.Snapshot, autopilot bool, deathReset time.Duration) (string, string) {
	p := sn.Player
	abilities := ""
	if p.CanKick {
		abilities += " KICK"
	}
	if p.CanCatch {
		abilities += " GLOVE"
	}
	first := fmt.Sprintf("bombs:%d fire:%d speed:%.2f%s", p.MaxBombs, p.BombRange, p.Speed, abilities)

	second := fmt.Sprintf("t=%.1fs", sn.Now.Seconds())
	switch {
	case sn.Paused:
		second += "  PAUSED (P)"
	case p.Dead && deathReset > 0:
		left := deathReset - (sn.Now - p.DeathTime)
		if left < 0 {
			left = 0
		}
		second += fmt.Sprintf("  DEAD, new round in %.1fs (R restarts)", left.Seconds())
	case p.Dead:
		second += "  DEAD (R restarts)"
	}
	if p.Invincible {
		second += "  INVINCIBLE"
	}
	if autopilot {
		second += "  AUTOPILOT"
	}
	return first, second
}

func drawHUD(screen *ebiten.Image, sn *core.Snapshot, autopilot bool, deathReset time.Duration) {
	w, h := float32(sn.Width)*float32(sn.CellSize), float32(sn.Height)*float32(sn.CellSize)
	vector.FillRect(screen, 0, h, w, hudHeight, color.RGBA{18, 22, 30, 255}, false)
	first, second := hudLines(sn, autopilot, deathReset)
	drawText(screen, 8, int(h)+6, first, color.RGBA{220, 230, 240, 255})
	drawText(screen, 8, int(h)+22, second, color.RGBA{255, 220, 120, 255})
}
