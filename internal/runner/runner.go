package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"bombarena/pkg/core"
	"bombarena/pkg/protocol"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options 运行参数
type Options struct {
	Ticks         int64     // 0 表示运行到 ctx 取消或输入结束
	Fast          bool      // 不按帧率限速
	Snapshots     io.Writer // 非空时写入分帧的快照流
	SnapshotEvery int
}

// Stats 一次运行的统计
type Stats struct {
	Ticks        int64
	Explosions   int
	LongestChain int
	Bounces      int
	Deaths       int
	Resets       int
	Snapshots    int
}

// Runner 无界面的固定帧率循环
type Runner struct {
	sim     *core.Simulation
	src     InputSource
	log     zerolog.Logger
	opts    Options
	limiter *rate.Limiter
	metrics *metrics
}

// New 创建运行器
func New(sim *core.Simulation, src InputSource, log zerolog.Logger, opts Options) (*Runner, error) {
	if src == nil {
		src = Idle{}
	}
	if opts.SnapshotEvery < 1 {
		opts.SnapshotEvery = 1
	}
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	r := &Runner{
		sim:     sim,
		src:     src,
		log:     log,
		opts:    opts,
		metrics: m,
	}
	if !opts.Fast {
		r.limiter = rate.NewLimiter(rate.Limit(sim.Config().FrameRate), 1)
	}
	return r, nil
}

// Run 循环推进模拟直到达到帧数、输入结束或 ctx 取消；取消不视为错误
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	r.log.Info().
		Int("frame_rate", r.sim.Config().FrameRate).
		Int64("ticks", r.opts.Ticks).
		Bool("fast", r.opts.Fast).
		Msg("runner started")

	for r.opts.Ticks == 0 || stats.Ticks < r.opts.Ticks {
		if err := r.wait(ctx); err != nil {
			break
		}

		in, err := r.src.Next(r.sim)
		if errors.Is(err, io.EOF) {
			r.log.Info().Int64("frame", r.sim.Frame()).Msg("input exhausted")
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input at frame %d: %w", r.sim.Frame(), err)
		}

		events := r.sim.Step(in)
		stats.Ticks++
		r.metrics.record(ctx, events)
		r.observe(&stats, events)

		if r.opts.Snapshots != nil && r.sim.Frame()%int64(r.opts.SnapshotEvery) == 0 {
			sn := r.sim.Snapshot()
			if err := protocol.WriteFrame(r.opts.Snapshots, protocol.EncodeSnapshot(&sn)); err != nil {
				return stats, fmt.Errorf("writing snapshot at frame %d: %w", sn.Frame, err)
			}
			stats.Snapshots++
		}
	}

	r.log.Info().
		Int64("ticks", stats.Ticks).
		Int("explosions", stats.Explosions).
		Int("longest_chain", stats.LongestChain).
		Int("deaths", stats.Deaths).
		Msg("runner stopped")
	return stats, nil
}

// wait 按帧率等待下一帧，只在 ctx 结束时返回错误
func (r *Runner) wait(ctx context.Context) error {
	if r.limiter == nil {
		return ctx.Err()
	}
	delay := r.limiter.Reserve().Delay()
	if delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) observe(stats *Stats, events []core.Event) {
	exploded := 0
	for _, e := range events {
		LogEvent(r.log, e)
		switch e.Kind {
		case core.EventExploded:
			exploded++
		case core.EventBounced:
			stats.Bounces++
		case core.EventPlayerDied:
			stats.Deaths++
		case core.EventRoundReset:
			stats.Resets++
		}
	}
	stats.Explosions += exploded
	if exploded > stats.LongestChain {
		stats.LongestChain = exploded
	}
}

// LogEvent 记录一条模拟事件：生死、重开、暂停记 info，其余记 debug
func LogEvent(log zerolog.Logger, e core.Event) {
	var ev *zerolog.Event
	switch e.Kind {
	case core.EventPlayerDied, core.EventRoundReset, core.EventPaused, core.EventResumed, core.EventInvincibility:
		ev = log.Info()
	default:
		ev = log.Debug()
	}
	if ev == nil {
		return
	}
	ev = ev.Int64("frame", e.Frame).Stringer("cell", e.Cell)
	if e.BombID != 0 {
		ev = ev.Int("bomb", e.BombID)
	}
	if e.Dir != core.DirNone {
		ev = ev.Stringer("dir", e.Dir)
	}
	switch e.Kind {
	case core.EventPowerupSpawned, core.EventItemCollected:
		ev = ev.Stringer("powerup", e.Powerup)
	case core.EventInvincibility:
		ev = ev.Bool("on", e.Flag)
	}
	ev.Msg(e.Kind.String())
}
