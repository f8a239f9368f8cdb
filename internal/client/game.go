package client

import (
	"fmt"
	"image/color"

	"bombarena/internal/runner"
	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
)

// Options 客户端参数
type Options struct {
	Controls  ControlScheme
	Character CharacterType
	// Autopilot 非空时可用 Tab 切换自动驾驶
	Autopilot runner.InputSource
	// AutopilotOn 启动时即由自动驾驶控制
	AutopilotOn bool
}

// Game 游戏主结构（Ebiten 游戏循环）
// 每个 Update 推进模拟一帧，Draw 只读取最新快照
type Game struct {
	sim  *core.Simulation
	log  zerolog.Logger
	opts Options

	autopilotOn bool
	snapshot    core.Snapshot

	mapRenderer       *MapRenderer
	bombRenderer      *BombRenderer
	explosionRenderer *ExplosionRenderer
	playerRenderer    *PlayerRenderer
}

// NewGame 创建新游戏
func NewGame(sim *core.Simulation, log zerolog.Logger, opts Options) *Game {
	cfg := sim.Config()
	g := &Game{
		sim:               sim,
		log:               log,
		opts:              opts,
		autopilotOn:       opts.AutopilotOn && opts.Autopilot != nil,
		mapRenderer:       NewMapRenderer(),
		bombRenderer:      NewBombRenderer(cfg.FuseDuration),
		explosionRenderer: NewExplosionRenderer(),
		playerRenderer:    NewPlayerRenderer(opts.Character),
	}
	g.snapshot = sim.Snapshot()
	return g
}

// ScreenSize 窗口逻辑尺寸：地图 + 状态栏
func (g *Game) ScreenSize() (int, int) {
	w, h := g.sim.Config().WorldSize()
	return int(w), int(h) + hudHeight
}

// Update 读取输入并推进一帧
func (g *Game) Update() error {
	in := readInput(g.opts.Controls)

	if g.opts.Autopilot != nil && inpututil.IsKeyJustPressed(keyAutopilot) {
		g.autopilotOn = !g.autopilotOn
		g.log.Info().Bool("on", g.autopilotOn).Int64("frame", g.sim.Frame()).Msg("autopilot")
	}
	if g.autopilotOn {
		auto, err := g.opts.Autopilot.Next(g.sim)
		if err != nil {
			return fmt.Errorf("autopilot: %w", err)
		}
		// 开关键始终来自键盘
		auto.Restart = in.Restart
		auto.ToggleInvincible = in.ToggleInvincible
		auto.TogglePause = in.TogglePause
		in = auto
	}

	for _, e := range g.sim.Step(in) {
		runner.LogEvent(g.log, e)
	}
	g.snapshot = g.sim.Snapshot()
	g.playerRenderer.Update(g.snapshot.Player)
	return nil
}

// Draw 绘制游戏画面
func (g *Game) Draw(screen *ebiten.Image) {
	sn := &g.snapshot
	screen.Fill(color.RGBA{16, 18, 24, 255})

	g.mapRenderer.Draw(screen, sn)

	// 先画爆炸和地面上的炸弹，再画玩家，空中的炸弹最后画
	for _, b := range sn.Bombs {
		switch b.Phase {
		case core.PhaseExploding:
			g.explosionRenderer.Draw(screen, sn, b)
		case core.PhaseArmed, core.PhaseKicked:
			g.bombRenderer.Draw(screen, sn, b)
		}
	}
	g.playerRenderer.Draw(screen, sn)
	for _, b := range sn.Bombs {
		if b.Phase == core.PhaseThrown {
			g.bombRenderer.Draw(screen, sn, b)
		}
	}

	drawHUD(screen, sn, g.autopilotOn, g.sim.Config().DeathResetWait)

	if sn.Paused {
		w, h := g.sim.Config().WorldSize()
		vector.FillRect(screen, 0, 0, float32(w), float32(h), color.RGBA{0, 0, 0, 128}, false)
	}
}

// Layout 设置屏幕布局
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenSize()
}
