package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxFrameSize 单帧负载上限
const MaxFrameSize = 1 << 20

var (
	ErrShortFrame    = errors.New("short frame")
	ErrFrameTooLarge = errors.New("frame too large")
	ErrUnknownField  = errors.New("unknown field")
	ErrMalformed     = errors.New("malformed message")
)

// ========== 分帧 ==========

// WriteFrame 写入一帧：4 字节大端长度 + 负载
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame 读取一帧；流在帧边界结束时返回 io.EOF
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header", ErrShortFrame)
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: want %d bytes", ErrShortFrame, size)
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}

// ========== 编码辅助 ==========

// 标量字段取零值时省略，和 proto3 一致

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	return appendUint(b, num, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendUint(b, num, 1)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// appendMessage 嵌套消息总是写出，空消息也保留（用于重复字段）
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// ========== 解码辅助 ==========

type field struct {
	num protowire.Number
	typ protowire.Type
	u   uint64
	buf []byte
}

func (f field) want(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("%w: field %d has wire type %d, want %d", ErrMalformed, f.num, f.typ, typ)
	}
	return nil
}

func (f field) asInt64() (int64, error) {
	return int64(f.u), f.want(protowire.VarintType)
}

func (f field) asInt() (int, error) {
	return int(int64(f.u)), f.want(protowire.VarintType)
}

func (f field) asBool() (bool, error) {
	return f.u != 0, f.want(protowire.VarintType)
}

func (f field) asDouble() (float64, error) {
	return math.Float64frombits(f.u), f.want(protowire.Fixed64Type)
}

func (f field) asBytes() ([]byte, error) {
	return f.buf, f.want(protowire.BytesType)
}

// fields 依次解析消息中的字段，交给 fn 处理
func fields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.u, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.buf, n = protowire.ConsumeBytes(b)
		default:
			return fmt.Errorf("%w: field %d has unsupported wire type %d", ErrMalformed, num, typ)
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func unknown(msg string, f field) error {
	return fmt.Errorf("%w: %s field %d", ErrUnknownField, msg, f.num)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}
