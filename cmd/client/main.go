// client 交互式窗口：键盘控制玩家，Tab 切换自动驾驶
package main

import (
	"errors"
	"fmt"
	"os"

	"bombarena/internal/client"
	"bombarena/internal/config"
	"bombarena/internal/logging"
	"bombarena/pkg/ai"
	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := config.BindFlags(fs); err != nil {
		return err
	}
	dir, _ := fs.GetString("config")
	opts, err := config.Load(dir)
	if err != nil {
		return err
	}
	log := logging.Setup(opts.LogLevel, opts.LogFormat, os.Stderr)

	character, err := client.ParseCharacter(opts.Client.Character)
	if err != nil {
		return err
	}
	controls, err := client.ParseControlScheme(opts.Client.Controls)
	if err != nil {
		return err
	}
	pilotCfg, err := ai.ConfigFor(opts.Run.Difficulty)
	if err != nil {
		return err
	}

	sim, err := core.NewSimulation(opts.Sim)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}

	game := client.NewGame(sim, log, client.Options{
		Controls:  controls,
		Character: character,
		Autopilot: ai.NewAutopilot(pilotCfg, opts.Sim.Seed),
		// 窗口里默认由人操作，Tab 交给自动驾驶
		AutopilotOn: false,
	})

	w, h := game.ScreenSize()
	ebiten.SetWindowSize(int(float64(w)*opts.Client.Scale), int(float64(h)*opts.Client.Scale))
	ebiten.SetWindowTitle(fmt.Sprintf("%s [%s] [%s]", opts.Client.Title, character, controls))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(opts.Sim.FrameRate)

	log.Info().Int64("seed", opts.Sim.Seed).Stringer("controls", controls).Msg("client started")
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
