package protocol

import (
	"time"

	"bombarena/pkg/core"

	"google.golang.org/protobuf/encoding/protowire"
)

// 字段编号（protobuf 线格式，不依赖生成代码）
//
//	Snapshot: 1 frame, 2 now_ns, 3 paused, 4 width, 5 height, 6 cell_size, 7 tiles(bytes),
//	          8 breaking[], 9 burning[], 10 powerups[], 11 bombs[], 12 player,
//	          13 break_ns, 14 item_burn_ns, 15 explosion_ns
//	GridPos:  1 x, 2 y
//	Vec2:     1 x, 2 y (double)
//	Anim:     1 cell, 2 start_ns
//	Powerup:  1 cell, 2 type
//	Bomb:     1 id, 2 pos, 3 cell, 4 phase, 5 stage, 6 fuse_ns, 7 arc, 8 cells[],
//	          9 powerup_cells[], 10 exploded_ns
//	Player:   1 pos, 2 cell, 3 direction, 4 moving, 5 dead, 6 death_ns, 7 invincible,
//	          8 lifting, 9 max_bombs, 10 range, 11 speed, 12 kick, 13 catch
//	Input:    1 frame, 2 bitmask

// ========== GridPos / Vec2 ==========

func encodeGridPos(c core.GridPos) []byte {
	var b []byte
	b = appendInt(b, 1, int64(c.GridX))
	b = appendInt(b, 2, int64(c.GridY))
	return b
}

func decodeGridPos(b []byte) (core.GridPos, error) {
	var c core.GridPos
	err := fields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			c.GridX, err = f.asInt()
		case 2:
			c.GridY, err = f.asInt()
		default:
			err = unknown("grid_pos", f)
		}
		return err
	})
	return c, err
}

func encodeVec(v core.Vec2) []byte {
	var b []byte
	b = appendDouble(b, 1, v.X)
	b = appendDouble(b, 2, v.Y)
	return b
}

func decodeVec(b []byte) (core.Vec2, error) {
	var v core.Vec2
	err := fields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			v.X, err = f.asDouble()
		case 2:
			v.Y, err = f.asDouble()
		default:
			err = unknown("vec2", f)
		}
		return err
	})
	return v, err
}

// gridPosField 解析嵌套的 GridPos 字段
func gridPosField(f field) (core.GridPos, error) {
	buf, err := f.asBytes()
	if err != nil {
		return core.GridPos{}, err
	}
	return decodeGridPos(buf)
}

func vecField(f field) (core.Vec2, error) {
	buf, err := f.asBytes()
	if err != nil {
		return core.Vec2{}, err
	}
	return decodeVec(buf)
}

// ========== Snapshot ==========

// EncodeSnapshot 把快照编码为 protobuf 线格式
func EncodeSnapshot(sn *core.Snapshot) []byte {
	var b []byte
	b = appendInt(b, 1, sn.Frame)
	b = appendInt(b, 2, int64(sn.Now))
	b = appendBool(b, 3, sn.Paused)
	b = appendInt(b, 4, int64(sn.Width))
	b = appendInt(b, 5, int64(sn.Height))
	b = appendDouble(b, 6, sn.CellSize)

	tiles := make([]byte, len(sn.Tiles))
	for i, t := range sn.Tiles {
		tiles[i] = byte(t)
	}
	b = appendMessage(b, 7, tiles)

	for _, a := range sn.Breaking {
		b = appendMessage(b, 8, encodeAnim(a))
	}
	for _, a := range sn.Burning {
		b = appendMessage(b, 9, encodeAnim(a))
	}
	for _, p := range sn.Powerups {
		var pb []byte
		pb = appendMessage(pb, 1, encodeGridPos(p.Cell))
		pb = appendInt(pb, 2, int64(p.Type))
		b = appendMessage(b, 10, pb)
	}
	for i := range sn.Bombs {
		b = appendMessage(b, 11, encodeBomb(&sn.Bombs[i]))
	}
	b = appendMessage(b, 12, encodePlayer(&sn.Player))

	b = appendInt(b, 13, int64(sn.BreakDuration))
	b = appendInt(b, 14, int64(sn.ItemBurnDuration))
	b = appendInt(b, 15, int64(sn.ExplosionDuration))
	return b
}

// DecodeSnapshot 解析 EncodeSnapshot 的输出
func DecodeSnapshot(b []byte) (*core.Snapshot, error) {
	sn := &core.Snapshot{}
	err := fields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			sn.Frame, err = f.asInt64()
		case 2:
			var ns int64
			ns, err = f.asInt64()
			sn.Now = time.Duration(ns)
		case 3:
			sn.Paused, err = f.asBool()
		case 4:
			sn.Width, err = f.asInt()
		case 5:
			sn.Height, err = f.asInt()
		case 6:
			sn.CellSize, err = f.asDouble()
		case 7:
			var tiles []byte
			if tiles, err = f.asBytes(); err == nil {
				sn.Tiles = make([]core.TileType, len(tiles))
				for i, t := range tiles {
					sn.Tiles[i] = core.TileType(t)
				}
			}
		case 8, 9:
			var a core.AnimView
			if a, err = decodeAnim(f); err == nil {
				if f.num == 8 {
					sn.Breaking = append(sn.Breaking, a)
				} else {
					sn.Burning = append(sn.Burning, a)
				}
			}
		case 10:
			var p core.PowerupView
			if p, err = decodePowerup(f); err == nil {
				sn.Powerups = append(sn.Powerups, p)
			}
		case 11:
			var bv core.BombView
			if bv, err = decodeBomb(f); err == nil {
				sn.Bombs = append(sn.Bombs, bv)
			}
		case 12:
			sn.Player, err = decodePlayer(f)
		case 13:
			sn.BreakDuration, err = durationField(f)
		case 14:
			sn.ItemBurnDuration, err = durationField(f)
		case 15:
			sn.ExplosionDuration, err = durationField(f)
		default:
			err = unknown("snapshot", f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(sn.Tiles) != sn.Width*sn.Height {
		return nil, malformed("snapshot has %d tiles for %dx%d arena", len(sn.Tiles), sn.Width, sn.Height)
	}
	return sn, nil
}

func durationField(f field) (time.Duration, error) {
	ns, err := f.asInt64()
	return time.Duration(ns), err
}

func encodeAnim(a core.AnimView) []byte {
	var b []byte
	b = appendMessage(b, 1, encodeGridPos(a.Cell))
	b = appendInt(b, 2, int64(a.Start))
	return b
}

func decodeAnim(f field) (core.AnimView, error) {
	var a core.AnimView
	buf, err := f.asBytes()
	if err != nil {
		return a, err
	}
	err = fields(buf, func(f field) (err error) {
		switch f.num {
		case 1:
			a.Cell, err = gridPosField(f)
		case 2:
			a.Start, err = durationField(f)
		default:
			err = unknown("anim", f)
		}
		return err
	})
	return a, err
}

func decodePowerup(f field) (core.PowerupView, error) {
	var p core.PowerupView
	buf, err := f.asBytes()
	if err != nil {
		return p, err
	}
	err = fields(buf, func(f field) (err error) {
		switch f.num {
		case 1:
			p.Cell, err = gridPosField(f)
		case 2:
			var t int
			t, err = f.asInt()
			p.Type = core.PowerupType(t)
		default:
			err = unknown("powerup", f)
		}
		return err
	})
	return p, err
}

// ========== Bomb ==========

func encodeBomb(v *core.BombView) []byte {
	var b []byte
	b = appendInt(b, 1, int64(v.ID))
	b = appendMessage(b, 2, encodeVec(v.Pos))
	b = appendMessage(b, 3, encodeGridPos(v.Cell))
	b = appendInt(b, 4, int64(v.Phase))
	b = appendInt(b, 5, int64(v.Stage))
	b = appendInt(b, 6, int64(v.FuseRemaining))
	b = appendDouble(b, 7, v.ArcProgress)
	for _, c := range v.Cells {
		b = appendMessage(b, 8, encodeGridPos(c))
	}
	for _, c := range v.PowerupCells {
		b = appendMessage(b, 9, encodeGridPos(c))
	}
	b = appendInt(b, 10, int64(v.ExplodedAt))
	return b
}

func decodeBomb(f field) (core.BombView, error) {
	var v core.BombView
	buf, err := f.asBytes()
	if err != nil {
		return v, err
	}
	err = fields(buf, func(f field) (err error) {
		switch f.num {
		case 1:
			v.ID, err = f.asInt()
		case 2:
			v.Pos, err = vecField(f)
		case 3:
			v.Cell, err = gridPosField(f)
		case 4:
			var p int
			p, err = f.asInt()
			v.Phase = core.Phase(p)
		case 5:
			var s int
			s, err = f.asInt()
			v.Stage = core.ThrowStage(s)
		case 6:
			v.FuseRemaining, err = durationField(f)
		case 7:
			v.ArcProgress, err = f.asDouble()
		case 8, 9:
			var c core.GridPos
			if c, err = gridPosField(f); err == nil {
				if f.num == 8 {
					v.Cells = append(v.Cells, c)
				} else {
					v.PowerupCells = append(v.PowerupCells, c)
				}
			}
		case 10:
			v.ExplodedAt, err = durationField(f)
		default:
			err = unknown("bomb", f)
		}
		return err
	})
	return v, err
}

// ========== Player ==========

func encodePlayer(p *core.PlayerView) []byte {
	var b []byte
	b = appendMessage(b, 1, encodeVec(p.Pos))
	b = appendMessage(b, 2, encodeGridPos(p.Cell))
	b = appendInt(b, 3, int64(p.Direction))
	b = appendBool(b, 4, p.Moving)
	b = appendBool(b, 5, p.Dead)
	b = appendInt(b, 6, int64(p.DeathTime))
	b = appendBool(b, 7, p.Invincible)
	b = appendBool(b, 8, p.Lifting)
	b = appendInt(b, 9, int64(p.MaxBombs))
	b = appendInt(b, 10, int64(p.BombRange))
	b = appendDouble(b, 11, p.Speed)
	b = appendBool(b, 12, p.CanKick)
	b = appendBool(b, 13, p.CanCatch)
	return b
}

func decodePlayer(f field) (core.PlayerView, error) {
	var p core.PlayerView
	buf, err := f.asBytes()
	if err != nil {
		return p, err
	}
	err = fields(buf, func(f field) (err error) {
		switch f.num {
		case 1:
			p.Pos, err = vecField(f)
		case 2:
			p.Cell, err = gridPosField(f)
		case 3:
			var d int
			d, err = f.asInt()
			p.Direction = core.DirectionType(d)
		case 4:
			p.Moving, err = f.asBool()
		case 5:
			p.Dead, err = f.asBool()
		case 6:
			p.DeathTime, err = durationField(f)
		case 7:
			p.Invincible, err = f.asBool()
		case 8:
			p.Lifting, err = f.asBool()
		case 9:
			p.MaxBombs, err = f.asInt()
		case 10:
			p.BombRange, err = f.asInt()
		case 11:
			p.Speed, err = f.asDouble()
		case 12:
			p.CanKick, err = f.asBool()
		case 13:
			p.CanCatch, err = f.asBool()
		default:
			err = unknown("player", f)
		}
		return err
	})
	return p, err
}

// ========== Input ==========

// 输入按位压缩
const (
	bitUp = 1 << iota
	bitDown
	bitLeft
	bitRight
	bitAct
	bitRestart
	bitInvincible
	bitPause
)

// EncodeInput 编码一帧输入（录制回放用）
func EncodeInput(frame int64, in core.Input) []byte {
	var mask uint64
	set := func(on bool, bit uint64) {
		if on {
			mask |= bit
		}
	}
	set(in.Up, bitUp)
	set(in.Down, bitDown)
	set(in.Left, bitLeft)
	set(in.Right, bitRight)
	set(in.Act, bitAct)
	set(in.Restart, bitRestart)
	set(in.ToggleInvincible, bitInvincible)
	set(in.TogglePause, bitPause)

	var b []byte
	b = appendInt(b, 1, frame)
	b = appendUint(b, 2, mask)
	return b
}

// DecodeInput 解析 EncodeInput 的输出
func DecodeInput(b []byte) (int64, core.Input, error) {
	var (
		frame int64
		mask  uint64
	)
	err := fields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			frame, err = f.asInt64()
		case 2:
			if err = f.want(protowire.VarintType); err == nil {
				mask = f.u
			}
		default:
			err = unknown("input", f)
		}
		return err
	})
	if err != nil {
		return 0, core.Input{}, err
	}
	in := core.Input{
		Up:               mask&bitUp != 0,
		Down:             mask&bitDown != 0,
		Left:             mask&bitLeft != 0,
		Right:            mask&bitRight != 0,
		Act:              mask&bitAct != 0,
		Restart:          mask&bitRestart != 0,
		ToggleInvincible: mask&bitInvincible != 0,
		TogglePause:      mask&bitPause != 0,
	}
	return frame, in, nil
}
