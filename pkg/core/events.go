package core

// EventKind 模拟事件类型，供表现层播放音效、日志记录
type EventKind int

const (
	EventBombPlaced EventKind = iota
	EventKicked
	EventStopped // 被踢的炸弹停下
	EventLifted  // 举起炸弹
	EventThrown  // 出手
	EventBounced
	EventWrapped
	EventLanded
	EventExploded
	EventWallBroken
	EventPowerupSpawned
	EventItemCollected
	EventItemBurned
	EventPlayerDied
	EventPaused
	EventResumed
	EventRoundReset
	EventInvincibility
)

// String 返回事件名
func (k EventKind) String() string {
	switch k {
	case EventBombPlaced:
		return "bomb_placed"
	case EventKicked:
		return "kicked"
	case EventStopped:
		return "stopped"
	case EventLifted:
		return "lifted"
	case EventThrown:
		return "thrown"
	case EventBounced:
		return "bounced"
	case EventWrapped:
		return "wrapped"
	case EventLanded:
		return "landed"
	case EventExploded:
		return "exploded"
	case EventWallBroken:
		return "wall_broken"
	case EventPowerupSpawned:
		return "powerup_spawned"
	case EventItemCollected:
		return "item_collected"
	case EventItemBurned:
		return "item_burned"
	case EventPlayerDied:
		return "player_died"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventRoundReset:
		return "round_reset"
	case EventInvincibility:
		return "invincibility"
	}
	return "unknown"
}

// Event 一帧内发生的事件；与炸弹无关时 BombID 为 0
type Event struct {
	Kind    EventKind
	Frame   int64
	BombID  int
	Cell    GridPos
	Dir     DirectionType
	Powerup PowerupType
	Flag    bool // 无敌开关状态等
}
