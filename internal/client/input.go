package client

import (
	"fmt"
	"strings"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ControlScheme 按键方案
type ControlScheme int

const (
	ControlWASD  ControlScheme = iota // WASD + 空格键
	ControlArrow                      // 方向键 + 回车键
)

func (c ControlScheme) String() string {
	switch c {
	case ControlWASD:
		return "wasd"
	case ControlArrow:
		return "arrows"
	}
	return "unknown"
}

// ParseControlScheme 按名字取按键方案
func ParseControlScheme(name string) (ControlScheme, error) {
	switch strings.ToLower(name) {
	case "wasd", "":
		return ControlWASD, nil
	case "arrows", "arrow":
		return ControlArrow, nil
	}
	return ControlWASD, fmt.Errorf("unknown control scheme %q", name)
}

type keyBinding struct {
	up, down, left, right, act ebiten.Key
}

func (c ControlScheme) keys() keyBinding {
	if c == ControlArrow {
		return keyBinding{ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyEnter}
	}
	return keyBinding{ebiten.KeyW, ebiten.KeyS, ebiten.KeyA, ebiten.KeyD, ebiten.KeySpace}
}

// 开关类按键，两种方案共用
const (
	keyPause      = ebiten.KeyP
	keyInvincible = ebiten.KeyI
	keyRestart    = ebiten.KeyR
	keyAutopilot  = ebiten.KeyTab
)

// readInput 读取本帧键盘输入；动作键和开关只在按下的那一帧生效
func readInput(scheme ControlScheme) core.Input {
	k := scheme.keys()
	return core.Input{
		Up:    ebiten.IsKeyPressed(k.up),
		Down:  ebiten.IsKeyPressed(k.down),
		Left:  ebiten.IsKeyPressed(k.left),
		Right: ebiten.IsKeyPressed(k.right),
		Act:   inpututil.IsKeyJustPressed(k.act),

		Restart:          inpututil.IsKeyJustPressed(keyRestart),
		ToggleInvincible: inpututil.IsKeyJustPressed(keyInvincible),
		TogglePause:      inpututil.IsKeyJustPressed(keyPause),
	}
}
