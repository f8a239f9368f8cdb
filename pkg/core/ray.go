package core

// AxisLength 沿方向走完一整圈需要的格子数
func (a *Arena) AxisLength(d DirectionType) int {
	if d.Horizontal() {
		return a.Width
	}
	return a.Height
}

// Walk 从 start（含）沿 d 逐格访问，坐标环绕，最多 limit 格；visit 返回 false 时停止
func (a *Arena) Walk(start GridPos, d DirectionType, limit int, visit func(step int, c GridPos) bool) {
	if d == DirNone {
		return
	}
	c := a.Wrap(start)
	for i := 0; i < limit; i++ {
		if !visit(i, c) {
			return
		}
		c = a.Wrap(c.Step(d, 1))
	}
}

// Find 返回 Walk 过程中第一个满足 pred 的格子
func (a *Arena) Find(start GridPos, d DirectionType, limit int, pred func(GridPos) bool) (GridPos, bool) {
	var found GridPos
	ok := false
	a.Walk(start, d, limit, func(_ int, c GridPos) bool {
		if pred(c) {
			found, ok = c, true
			return false
		}
		return true
	})
	return found, ok
}
