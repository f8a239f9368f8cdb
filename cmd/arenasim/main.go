// arenasim 无界面运行模拟：自动驾驶或空输入，可录制/回放输入、输出快照流
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bombarena/internal/config"
	"bombarena/internal/logging"
	"bombarena/internal/runner"
	"bombarena/pkg/ai"
	"bombarena/pkg/core"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "arenasim:", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	fs := pflag.NewFlagSet("arenasim", pflag.ContinueOnError)
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

	sim, err := core.NewSimulation(opts.Sim)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}

	src, closeInput, err := inputSource(opts)
	if err != nil {
		return err
	}
	// 缓冲未写出的录制数据丢失时也要报错
	defer func() { err = errors.Join(err, closeInput()) }()

	runOpts := runner.Options{
		Ticks:         opts.Run.Ticks,
		Fast:          opts.Run.Fast,
		SnapshotEvery: opts.Run.SnapshotEvery,
	}
	if opts.Run.SnapshotPath != "" {
		f, cerr := os.Create(opts.Run.SnapshotPath)
		if cerr != nil {
			return fmt.Errorf("creating snapshot file: %w", cerr)
		}
		w := bufio.NewWriter(f)
		defer func() { err = errors.Join(err, flushClose(w, f, "snapshots")) }()
		runOpts.Snapshots = w
	}

	r, err := runner.New(sim, src, log, runOpts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("width", opts.Sim.ArenaWidth).
		Int("height", opts.Sim.ArenaHeight).
		Int64("seed", opts.Sim.Seed).
		Int("frame_rate", opts.Sim.FrameRate).
		Bool("autopilot", opts.Run.Autopilot).
		Str("replay", opts.Run.ReplayPath).
		Msg("arena ready")

	stats, err := r.Run(ctx)
	logStats(log, stats)
	return err
}

// inputSource 按配置组装输入源：回放 > 自动驾驶 > 空输入，需要时再套一层录制
func inputSource(opts *config.Options) (runner.InputSource, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	var src runner.InputSource = runner.Idle{}
	switch {
	case opts.Run.ReplayPath != "":
		f, err := os.Open(opts.Run.ReplayPath)
		if err != nil {
			return nil, closeAll, fmt.Errorf("opening replay: %w", err)
		}
		closers = append(closers, f.Close)
		src = runner.NewReplay(bufio.NewReader(f))
	case opts.Run.Autopilot:
		cfg, err := ai.ConfigFor(opts.Run.Difficulty)
		if err != nil {
			return nil, closeAll, err
		}
		src = ai.NewAutopilot(cfg, opts.Sim.Seed)
	}

	if opts.Run.RecordPath != "" {
		f, err := os.Create(opts.Run.RecordPath)
		if err != nil {
			return nil, closeAll, errors.Join(fmt.Errorf("creating recording: %w", err), closeAll())
		}
		w := bufio.NewWriter(f)
		closers = append(closers, func() error { return flushClose(w, f, "recording") })
		src = runner.NewRecorder(src, w)
	}
	return src, closeAll, nil
}

// flushClose 写出缓冲后关闭文件，两步的错误都返回
func flushClose(w *bufio.Writer, c io.Closer, what string) error {
	var errs []error
	if err := w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flushing %s: %w", what, err))
	}
	if err := c.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing %s: %w", what, err))
	}
	return errors.Join(errs...)
}

func logStats(log zerolog.Logger, stats runner.Stats) {
	log.Info().
		Int64("ticks", stats.Ticks).
		Int("explosions", stats.Explosions).
		Int("longest_chain", stats.LongestChain).
		Int("bounces", stats.Bounces).
		Int("deaths", stats.Deaths).
		Int("resets", stats.Resets).
		Int("snapshots", stats.Snapshots).
		Msg("summary")
}
