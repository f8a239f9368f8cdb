package ai

import (
	"fmt"
	"strings"
)

// Config 自动驾驶的行为参数，决定它有多聪明
type Config struct {
	// ThinkIntervalFrames 重新选择目标的间隔（帧）；移动每帧都会重新计算
	ThinkIntervalFrames int

	// MistakeRate 随机失误率 (0.0-1.0)
	MistakeRate float64

	// FullChainRecursion 危险场是否计算完整连锁，关闭时只算一层
	FullChainRecursion bool

	// CollectPowerups 是否主动去捡道具
	CollectPowerups bool
}

// 预设配置：普通难度
var ConfigNormal = Config{
	ThinkIntervalFrames: 120, // 2s
	MistakeRate:         0.05,
	FullChainRecursion:  false,
	CollectPowerups:     true,
}

// 预设配置：困难难度
var ConfigHard = Config{
	ThinkIntervalFrames: 60, // 1s
	MistakeRate:         0.0,
	FullChainRecursion:  true,
	CollectPowerups:     true,
}

// ConfigFor 按难度名取预设配置
func ConfigFor(level string) (Config, error) {
	switch strings.ToLower(level) {
	case "normal", "":
		return ConfigNormal, nil
	case "hard":
		return ConfigHard, nil
	}
	return Config{}, fmt.Errorf("unknown autopilot level %q", level)
}
