package capture

import (
	"encoding/binary"
	"errors"
)

var (
	ErrOutOfBounds = errors.New("capture: read offset out of bounds")
	ErrBadMagic    = errors.New("capture: not a signal capture")
	ErrVersion     = errors.New("capture: unsupported version")
	ErrTruncated   = errors.New("capture: truncated record")
	ErrFieldCount  = errors.New("capture: wrong field count")
)

// Read 读游标
type Read struct {
	Byte   []byte
	Offset int
	Order  binary.ByteOrder
	Error  error
}

// CheckBounds 检查边界
func (r *Read) CheckBounds(required int) error {
	switch {
	case r.Offset < 0:
		return ErrOutOfBounds
	case r.Offset+required > len(r.Byte):
		return ErrOutOfBounds
	}
	return nil
}

// Bool 逻辑型
func (r *Read) Bool() (v bool) { return r.Uint8() != 0 }

// Uint8 单字节正整数
func (r *Read) Uint8() (v uint8) {
	if err := r.CheckBounds(1); err != nil {
		r.Error = err
		return 0
	}
	v = r.Byte[r.Offset]
	r.Offset++
	return v
}

// Uint32 四字节正整数
func (r *Read) Uint32() (v uint32) {
	if err := r.CheckBounds(4); err != nil {
		r.Error = err
		return 0
	}
	v = r.Order.Uint32(r.Byte[r.Offset:])
	r.Offset += 4
	return v
}

// Uint64 八字节正整数
func (r *Read) Uint64() (v uint64) {
	if err := r.CheckBounds(8); err != nil {
		r.Error = err
		return 0
	}
	v = r.Order.Uint64(r.Byte[r.Offset:])
	r.Offset += 8
	return v
}

// Write 写游标，数据追加到 Byte
type Write struct {
	Byte  []byte
	Order binary.AppendByteOrder
}

// Bool 逻辑型
func (w *Write) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// Uint8 单字节正整数
func (w *Write) Uint8(v uint8) { w.Byte = append(w.Byte, v) }

// Uint32 四字节正整数
func (w *Write) Uint32(v uint32) { w.Byte = w.Order.AppendUint32(w.Byte, v) }

// Uint64 八字节正整数
func (w *Write) Uint64(v uint64) { w.Byte = w.Order.AppendUint64(w.Byte, v) }

// Reset 清空缓冲区，保留容量
func (w *Write) Reset() { w.Byte = w.Byte[:0] }
