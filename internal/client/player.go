package client

import (
	"image/color"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// animFrameTicks 走路动画每帧持续的 tick 数（约 0.15 秒）
const animFrameTicks = 9

// PlayerRenderer 玩家渲染器
type PlayerRenderer struct {
	CharInfo  CharacterInfo
	AnimFrame int
	animTicks int
	blink     int
}

// NewPlayerRenderer 创建玩家渲染器
func NewPlayerRenderer(char CharacterType) *PlayerRenderer {
	return &PlayerRenderer{CharInfo: GetCharacterInfo(char)}
}

// Update 推进走路动画
func (r *PlayerRenderer) Update(p core.PlayerView) {
	r.blink++
	if !p.Moving {
		r.animTicks = 0
		r.AnimFrame = 0
		return
	}
	r.animTicks++
	if r.animTicks >= animFrameTicks {
		r.animTicks = 0
		r.AnimFrame = (r.AnimFrame + 1) % 2
	}
}

// Draw 绘制玩家
func (r *PlayerRenderer) Draw(screen *ebiten.Image, sn *core.Snapshot) {
	player := sn.Player
	radius := float32(sn.CellSize) * 0.35
	cx := float32(player.Pos.X)
	cy := float32(player.Pos.Y)

	if player.Dead {
		// 倒下：灰色身体和叉
		vector.FillCircle(screen, cx, cy, radius, color.RGBA{120, 120, 120, 200}, false)
		vector.StrokeLine(screen, cx-radius/2, cy-radius/2, cx+radius/2, cy+radius/2, 3, color.RGBA{200, 0, 0, 255}, false)
		vector.StrokeLine(screen, cx+radius/2, cy-radius/2, cx-radius/2, cy+radius/2, 3, color.RGBA{200, 0, 0, 255}, false)
		return
	}

	info := r.CharInfo
	size := radius * 2

	// 身体（略小于碰撞圆）
	bodyWidth := size * 0.7
	bodyHeight := size * 0.7
	drawX := cx - bodyWidth/2
	drawY := cy - bodyHeight/2

	vector.FillRect(screen, drawX, drawY, bodyWidth, bodyHeight, info.BodyColor, false)
	outline := info.OutlineColor
	if player.Invincible && (r.blink/8)%2 == 0 {
		outline = color.RGBA{255, 215, 0, 255}
	}
	vector.StrokeRect(screen, drawX, drawY, bodyWidth, bodyHeight, 2, outline, false)

	// 手
	handSize := bodyWidth * 0.25
	handOffset := float32(0)
	if r.AnimFrame == 1 {
		handOffset = 2
	}
	handY := drawY + bodyHeight*0.6
	if player.Lifting {
		// 举起时双手上抬
		handY = drawY
	}
	vector.FillCircle(screen, drawX-handOffset-2, handY, handSize, info.HandColor, false)
	vector.FillCircle(screen, drawX+bodyWidth+handOffset+2, handY, handSize, info.HandColor, false)

	// 脚
	footSize := bodyWidth * 0.3
	footOffset := float32(0)
	if r.AnimFrame == 1 {
		footOffset = 2
	}
	vector.FillRect(screen, drawX+bodyWidth*0.2-footOffset, drawY+bodyHeight, footSize, footSize*0.6, info.ShoeColor, false)
	vector.FillRect(screen, drawX+bodyWidth*0.6+footOffset, drawY+bodyHeight, footSize, footSize*0.6, info.ShoeColor, false)

	// 眼睛朝向
	eyeSize := bodyWidth * 0.15
	eyeY := drawY + bodyHeight*0.3
	eyeSpacing := bodyWidth * 0.2
	var eyeLeftX, eyeLeftY, eyeRightX, eyeRightY float32
	switch player.Direction {
	case core.DirUp:
		eyeLeftX, eyeLeftY = drawX+bodyWidth*0.3, eyeY-2
		eyeRightX, eyeRightY = drawX+bodyWidth*0.7, eyeY-2
	case core.DirLeft:
		eyeLeftX, eyeLeftY = drawX+bodyWidth*0.3-eyeSpacing/2, eyeY
		eyeRightX, eyeRightY = drawX+bodyWidth*0.5-eyeSpacing/2, eyeY
	case core.DirRight:
		eyeLeftX, eyeLeftY = drawX+bodyWidth*0.5+eyeSpacing/2, eyeY
		eyeRightX, eyeRightY = drawX+bodyWidth*0.7+eyeSpacing/2, eyeY
	default:
		eyeLeftX, eyeLeftY = drawX+bodyWidth*0.3, eyeY+2
		eyeRightX, eyeRightY = drawX+bodyWidth*0.7, eyeY+2
	}

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	vector.FillCircle(screen, eyeLeftX, eyeLeftY, eyeSize, white, false)
	vector.FillCircle(screen, eyeRightX, eyeRightY, eyeSize, white, false)
	vector.FillCircle(screen, eyeLeftX, eyeLeftY, eyeSize*0.5, black, false)
	vector.FillCircle(screen, eyeRightX, eyeRightY, eyeSize*0.5, black, false)
}
