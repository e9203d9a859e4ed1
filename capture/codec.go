package capture

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"mico32/trace"
)

// 文件头: 4 字节魔数 + 1 字节版本，之后是定长记录
const (
	magic      = "M32C"
	version    = 1
	headerSize = len(magic) + 1
	RecordSize = 8 + 5 + 7*4 + 2 // 每个采样点的字节数
)

// encode 按大端顺序写入一个采样点
func encode(w *Write, s trace.Signals) {
	w.Uint64(s.Stamp)
	w.Bool(s.Clk)
	w.Bool(s.IRdAck)
	w.Uint32(s.IAddress)
	w.Uint32(s.IRdData)
	w.Bool(s.DRdAck)
	w.Bool(s.DWrAck)
	w.Uint32(s.DAddress)
	w.Uint8(s.DByteEna)
	w.Uint32(s.DRdData)
	w.Uint32(s.DWrData)
	w.Uint32(s.IRQ)
	w.Bool(s.WbEna)
	w.Uint8(s.WbIdx)
	w.Uint32(s.WbData)
}

// decode 读取一个采样点，字段顺序与 encode 一致
func decode(r *Read) (s trace.Signals, err error) {
	s.Stamp = r.Uint64()
	s.Clk = r.Bool()
	s.IRdAck = r.Bool()
	s.IAddress = r.Uint32()
	s.IRdData = r.Uint32()
	s.DRdAck = r.Bool()
	s.DWrAck = r.Bool()
	s.DAddress = r.Uint32()
	s.DByteEna = r.Uint8()
	s.DRdData = r.Uint32()
	s.DWrData = r.Uint32()
	s.IRQ = r.Uint32()
	s.WbEna = r.Bool()
	s.WbIdx = r.Uint8()
	s.WbData = r.Uint32()
	return s, r.Error
}

// Writer 二进制采样记录写入器
type Writer struct {
	w      *bufio.Writer
	buf    Write
	header bool
}

// NewWriter 创建写入器，文件头在第一次写入时输出
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:   bufio.NewWriter(w),
		buf: Write{Byte: make([]byte, 0, RecordSize), Order: binary.BigEndian},
	}
}

// Write 写入一个采样点
func (cw *Writer) Write(s trace.Signals) error {
	if !cw.header {
		if _, err := cw.w.WriteString(magic); err != nil {
			return err
		}
		if err := cw.w.WriteByte(version); err != nil {
			return err
		}
		cw.header = true
	}
	cw.buf.Reset()
	encode(&cw.buf, s)
	_, err := cw.w.Write(cw.buf.Byte)
	return err
}

// Flush 刷新缓冲区
func (cw *Writer) Flush() error { return cw.w.Flush() }

// Reader 二进制采样记录读取器
type Reader struct {
	r      *bufio.Reader
	buf    [RecordSize]byte
	header bool
}

// NewReader 创建读取器
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next 读取下一个采样点，正常结束时返回 io.EOF
func (cr *Reader) Next() (trace.Signals, error) {
	if !cr.header {
		var head [headerSize]byte
		if _, err := io.ReadFull(cr.r, head[:]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return trace.Signals{}, ErrBadMagic
			}
			return trace.Signals{}, err
		}
		if string(head[:len(magic)]) != magic {
			return trace.Signals{}, ErrBadMagic
		}
		if head[len(magic)] != version {
			return trace.Signals{}, fmt.Errorf("%w: %d", ErrVersion, head[len(magic)])
		}
		cr.header = true
	}
	switch _, err := io.ReadFull(cr.r, cr.buf[:]); err {
	case nil:
	case io.ErrUnexpectedEOF:
		return trace.Signals{}, ErrTruncated
	default:
		return trace.Signals{}, err
	}
	return decode(&Read{Byte: cr.buf[:], Order: binary.BigEndian})
}

// ReadAll 读取全部采样点
func ReadAll(r io.Reader) ([]trace.Signals, error) {
	cr := NewReader(r)
	list := make([]trace.Signals, 0)
	for {
		s, err := cr.Next()
		if err == io.EOF {
			return list, nil
		}
		if err != nil {
			return list, err
		}
		list = append(list, s)
	}
}
