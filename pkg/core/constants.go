package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig 配置参数非法
var ErrInvalidConfig = errors.New("invalid config")

// Config 模拟参数（全部可由外部调整，逻辑中不写死）
type Config struct {
	// 地图
	ArenaWidth     int           // 格子数（横向）
	ArenaHeight    int           // 格子数（纵向）
	CellSize       float64       // 每格像素
	OpenRows       []int         // 不放置棋盘墙的行
	PruneRatio     float64       // 随机移除的软墙比例
	BreakDuration  time.Duration // 软墙破碎动画时长
	ItemBurnDelay  time.Duration // 道具被炸毁的标记时长
	Seed           int64         // 随机种子
	FrameRate      int           // 帧率
	DeathResetWait time.Duration // 死亡后自动重开的等待时长，0 表示不自动重开
	// Template 固定地图（W=永久墙, B=软墙, .=空地, P=出生点），非空时代替随机生成
	Template []string

	// 炸弹
	FuseDuration      time.Duration
	ExplosionDuration time.Duration // 爆炸可见时长
	ExplosionRange    int           // 基础爆炸范围（格子数）
	BombCapacity      int           // 基础同时炸弹数

	// 玩家（速度单位：像素/帧）
	MoveSpeed       float64
	SpeedStep       float64 // 每个加速道具增加的速度
	PlayerRadius    float64
	CornerTolerance float64 // 与格子碰撞时附加到半径上的容差
	CornerSlide     float64 // 拐角修正的最大偏移（像素）

	// 踢炸弹
	KickSpeed float64
	KickDelay time.Duration // 离开炸弹后可踢的最短时间

	// 投掷
	ThrowSpeed       float64
	BounceSpeed      float64
	ThrowArcCells    int
	LandingThreshold float64 // 落地判定距离（像素）
	WrapGrace        time.Duration
	ThrowWindup      time.Duration // 举起动画时长，过半时出手
}

// DefaultConfig 返回默认参数
func DefaultConfig() Config {
	return Config{
		ArenaWidth:     15,
		ArenaHeight:    13,
		CellSize:       40,
		OpenRows:       []int{3, 5, 7, 9},
		PruneRatio:     0.10,
		BreakDuration:  300 * time.Millisecond,
		ItemBurnDelay:  400 * time.Millisecond,
		Seed:           1,
		FrameRate:      60,
		DeathResetWait: 4600 * time.Millisecond,

		FuseDuration:      2 * time.Second,
		ExplosionDuration: 500 * time.Millisecond,
		ExplosionRange:    2,
		BombCapacity:      1,

		MoveSpeed:       3.0,
		SpeedStep:       0.75,
		PlayerRadius:    14,
		CornerTolerance: 1.5,
		CornerSlide:     8,

		KickSpeed: 5.5,
		KickDelay: 100 * time.Millisecond,

		ThrowSpeed:       10,
		BounceSpeed:      4,
		ThrowArcCells:    3,
		LandingThreshold: 10,
		WrapGrace:        100 * time.Millisecond,
		ThrowWindup:      240 * time.Millisecond,
	}
}

// Validate 检查参数是否可用
func (c Config) Validate() error {
	switch {
	case c.ArenaWidth < 5 || c.ArenaHeight < 5:
		return fmt.Errorf("%w: arena %dx%d smaller than 5x5", ErrInvalidConfig, c.ArenaWidth, c.ArenaHeight)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size %v", ErrInvalidConfig, c.CellSize)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate %d", ErrInvalidConfig, c.FrameRate)
	case c.FuseDuration <= 0 || c.ExplosionDuration <= 0:
		return fmt.Errorf("%w: bomb durations must be positive", ErrInvalidConfig)
	case c.ExplosionRange < 1 || c.BombCapacity < 1:
		return fmt.Errorf("%w: range %d capacity %d", ErrInvalidConfig, c.ExplosionRange, c.BombCapacity)
	case c.PruneRatio < 0 || c.PruneRatio > 1:
		return fmt.Errorf("%w: prune ratio %v", ErrInvalidConfig, c.PruneRatio)
	case c.PlayerRadius <= 0 || c.PlayerRadius*2 >= c.CellSize:
		return fmt.Errorf("%w: player radius %v for cell %v", ErrInvalidConfig, c.PlayerRadius, c.CellSize)
	case c.MoveSpeed <= 0 || c.KickSpeed <= 0 || c.ThrowSpeed <= 0 || c.BounceSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig)
	case c.KickSpeed >= c.CellSize || c.ThrowSpeed >= c.CellSize || c.BounceSpeed >= c.CellSize:
		// 每帧不能跨过整格，否则会漏掉途经格子的障碍检查
		return fmt.Errorf("%w: bomb speeds must stay below cell size %v", ErrInvalidConfig, c.CellSize)
	case c.SpeedStep < 0:
		return fmt.Errorf("%w: speed step %v", ErrInvalidConfig, c.SpeedStep)
	case c.BreakDuration < 0 || c.ItemBurnDelay < 0 || c.DeathResetWait < 0 ||
		c.KickDelay < 0 || c.WrapGrace < 0 || c.ThrowWindup < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	case c.ThrowArcCells < 1:
		return fmt.Errorf("%w: throw arc %d", ErrInvalidConfig, c.ThrowArcCells)
	case c.LandingThreshold <= 0:
		return fmt.Errorf("%w: landing threshold %v", ErrInvalidConfig, c.LandingThreshold)
	}
	if len(c.Template) > 0 {
		if err := checkTemplate(c.Template, c.ArenaWidth, c.ArenaHeight); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// BombRadius 炸弹碰撞半径（半格）
func (c Config) BombRadius() float64 {
	return c.CellSize / 2
}

// WorldSize 地图像素尺寸
func (c Config) WorldSize() (float64, float64) {
	return float64(c.ArenaWidth) * c.CellSize, float64(c.ArenaHeight) * c.CellSize
}
