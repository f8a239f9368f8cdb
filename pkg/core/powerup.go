package core

// PowerupType 道具类型
type PowerupType int

const (
	PowerupCapacity PowerupType = iota // 炸弹数 +1
	PowerupSpeed                       // 移动速度提升
	PowerupRange                       // 火力 +1
	PowerupKick                        // 踢炸弹
	PowerupCatch                       // 手套：举起并投掷炸弹
)

// powerupKinds 生成道具时均匀抽取的候选
var powerupKinds = []PowerupType{PowerupCapacity, PowerupSpeed, PowerupRange, PowerupKick, PowerupCatch}

// String 返回道具类型的字符串表示
func (p PowerupType) String() string {
	switch p {
	case PowerupCapacity:
		return "bomb_up"
	case PowerupSpeed:
		return "speed_up"
	case PowerupRange:
		return "fire_up"
	case PowerupKick:
		return "kick"
	case PowerupCatch:
		return "glove"
	}
	return "unknown"
}
