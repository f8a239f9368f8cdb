package core

// DirectionType 朝向 / 基本方向
type DirectionType int

const (
	DirNone DirectionType = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String 返回方向名
func (d DirectionType) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Delta 方向对应的格子步长
func (d DirectionType) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Vec 方向单位向量
func (d DirectionType) Vec() Vec2 {
	dx, dy := d.Delta()
	return Vec2{X: float64(dx), Y: float64(dy)}
}

// Horizontal 是否为横向
func (d DirectionType) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// Input 表示一帧内玩家的输入（与具体输入设备无关）
type Input struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Act   bool // 放置 / 举起投掷炸弹

	Restart          bool
	ToggleInvincible bool
	TogglePause      bool
}

// Axis 八方向移动意图，相反方向互相抵消
func (in Input) Axis() (int, int) {
	dx, dy := 0, 0
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	return dx, dy
}

// Intent 主方向（斜向时优先横向）
func (in Input) Intent() DirectionType {
	dx, dy := in.Axis()
	switch {
	case dx > 0:
		return DirRight
	case dx < 0:
		return DirLeft
	case dy > 0:
		return DirDown
	case dy < 0:
		return DirUp
	}
	return DirNone
}
