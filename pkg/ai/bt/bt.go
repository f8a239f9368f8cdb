// Package bt 最小的行为树：选择、顺序、条件、动作四种节点
package bt

// Status 节点执行结果
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	}
	return "unknown"
}

// Node 行为树节点，每帧 Tick 一次
type Node interface {
	Tick(bb Blackboard) Status
}

// Blackboard 节点之间共享的数据，由使用方自行断言成具体类型
type Blackboard any

// Selector 依次执行子节点，遇到第一个非失败结果即返回
type Selector struct {
	Children []Node
}

func (s *Selector) Tick(bb Blackboard) Status {
	for _, child := range s.Children {
		if st := child.Tick(bb); st != StatusFailure {
			return st
		}
	}
	return StatusFailure
}

// Sequence 依次执行子节点，遇到第一个非成功结果即返回
type Sequence struct {
	Children []Node
}

func (s *Sequence) Tick(bb Blackboard) Status {
	for _, child := range s.Children {
		if st := child.Tick(bb); st != StatusSuccess {
			return st
		}
	}
	return StatusSuccess
}

// Condition 把布尔判断包装成节点
type Condition struct {
	Name  string
	Check func(bb Blackboard) bool
}

func (c *Condition) Tick(bb Blackboard) Status {
	if c.Check == nil || !c.Check(bb) {
		return StatusFailure
	}
	return StatusSuccess
}

// Action 叶子动作
type Action struct {
	Name string
	Do   func(bb Blackboard) Status
}

func (a *Action) Tick(bb Blackboard) Status {
	if a.Do == nil {
		return StatusFailure
	}
	return a.Do(bb)
}
