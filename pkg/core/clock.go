package core

import "time"

// Clock 帧时钟：模拟内部的时间戳一律用帧号（整数），避免 60Hz 换算纳秒时的舍入误差
type Clock struct {
	frame int64
	rate  int64
}

// NewClock 创建指定帧率的时钟
func NewClock(frameRate int) *Clock {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Clock{rate: int64(frameRate)}
}

// Frame 当前帧号
func (c *Clock) Frame() int64 {
	return c.frame
}

// Now 当前帧对应的模拟时间
func (c *Clock) Now() time.Duration {
	return c.At(c.frame)
}

// At 帧号（或帧数）对应的时长
func (c *Clock) At(frame int64) time.Duration {
	return time.Duration(frame * int64(time.Second) / c.rate)
}

// Frames 时长换算为帧数（向上取整：不足一帧按一帧算）
func (c *Clock) Frames(d time.Duration) int64 {
	return DurationToFrames(d, int(c.rate))
}

// FrameDuration 单帧时长
func (c *Clock) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.rate)
}

// Advance 前进一帧
func (c *Clock) Advance() {
	c.frame++
}

// DurationToFrames 时长换算为帧数（向上取整）
func DurationToFrames(d time.Duration, frameRate int) int64 {
	if d <= 0 {
		return 0
	}
	n := int64(d) * int64(frameRate)
	frames := n / int64(time.Second)
	if n%int64(time.Second) != 0 {
		frames++
	}
	return frames
}
