package runner

import (
	"errors"
	"fmt"
	"io"

	"bombarena/pkg/core"
	"bombarena/pkg/protocol"
)

// InputSource 每帧提供一次玩家输入；返回 io.EOF 表示输入结束
type InputSource interface {
	Next(sim *core.Simulation) (core.Input, error)
}

// Idle 不产生任何输入
type Idle struct{}

// Next 实现 InputSource
func (Idle) Next(*core.Simulation) (core.Input, error) {
	return core.Input{}, nil
}

// Replay 从录制文件按帧号回放输入
type Replay struct {
	r       io.Reader
	pending *recorded
	done    bool
}

type recorded struct {
	frame int64
	input core.Input
}

// NewReplay 创建回放输入源
func NewReplay(r io.Reader) *Replay {
	return &Replay{r: r}
}

// Next 返回当前帧录制的输入，没有录制的帧返回空输入，全部回放完后返回 io.EOF
func (p *Replay) Next(sim *core.Simulation) (core.Input, error) {
	if p.pending == nil && !p.done {
		payload, err := protocol.ReadFrame(p.r)
		if errors.Is(err, io.EOF) {
			p.done = true
		} else if err != nil {
			return core.Input{}, fmt.Errorf("reading replay: %w", err)
		} else {
			frame, in, err := protocol.DecodeInput(payload)
			if err != nil {
				return core.Input{}, fmt.Errorf("decoding replay frame: %w", err)
			}
			p.pending = &recorded{frame: frame, input: in}
		}
	}
	if p.pending == nil {
		return core.Input{}, io.EOF
	}
	now := sim.Frame()
	if p.pending.frame > now {
		return core.Input{}, nil
	}
	in := p.pending.input
	p.pending = nil
	return in, nil
}

// Recorder 把输入源产生的非空输入写入录制文件
type Recorder struct {
	src InputSource
	w   io.Writer
}

// NewRecorder 包装输入源
func NewRecorder(src InputSource, w io.Writer) *Recorder {
	return &Recorder{src: src, w: w}
}

// Next 实现 InputSource
func (rec *Recorder) Next(sim *core.Simulation) (core.Input, error) {
	in, err := rec.src.Next(sim)
	if err != nil {
		return in, err
	}
	if in != (core.Input{}) {
		if err := protocol.WriteFrame(rec.w, protocol.EncodeInput(sim.Frame(), in)); err != nil {
			return in, fmt.Errorf("recording input: %w", err)
		}
	}
	return in, nil
}
