package capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mico32/trace"
)

// 文本格式每行一个采样点，字段均为十六进制:
//
//	stamp clk i_ack i_addr i_data d_rd d_wr d_addr d_be d_rd_data d_wr_data irq wb_en wb_idx wb_data
//
// 空行和以 '#' 开头的行被忽略。
var fieldNames = [...]string{
	"stamp", "clk", "i_ack", "i_addr", "i_data", "d_rd", "d_wr", "d_addr",
	"d_be", "d_rd_data", "d_wr_data", "irq", "wb_en", "wb_idx", "wb_data",
}

// ParseLine 解析一行文本采样
func ParseLine(line string) (s trace.Signals, err error) {
	f := strings.Fields(line)
	if len(f) != len(fieldNames) {
		return s, fmt.Errorf("%w: %d, want %d", ErrFieldCount, len(f), len(fieldNames))
	}
	var v [len(fieldNames)]uint64
	for i, text := range f {
		bits := 32
		switch i {
		case 0:
			bits = 64
		case 1, 2, 5, 6, 12:
			bits = 1
		case 8:
			bits = 4
		case 13:
			bits = 5
		}
		if v[i], err = strconv.ParseUint(text, 16, bits); err != nil {
			return s, fmt.Errorf("capture: field %s: %w", fieldNames[i], err)
		}
	}
	s = trace.Signals{
		Stamp:    v[0],
		Clk:      v[1] != 0,
		IRdAck:   v[2] != 0,
		IAddress: uint32(v[3]),
		IRdData:  uint32(v[4]),
		DRdAck:   v[5] != 0,
		DWrAck:   v[6] != 0,
		DAddress: uint32(v[7]),
		DByteEna: uint8(v[8]),
		DRdData:  uint32(v[9]),
		DWrData:  uint32(v[10]),
		IRQ:      uint32(v[11]),
		WbEna:    v[12] != 0,
		WbIdx:    uint8(v[13]),
		WbData:   uint32(v[14]),
	}
	return s, nil
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FormatLine 把采样格式化为一行文本（不含换行）
func FormatLine(s trace.Signals) string {
	return fmt.Sprintf("%X %d %d %08X %08X %d %d %08X %X %08X %08X %08X %d %02X %08X",
		s.Stamp, bit(s.Clk), bit(s.IRdAck), s.IAddress, s.IRdData,
		bit(s.DRdAck), bit(s.DWrAck), s.DAddress, s.DByteEna, s.DRdData, s.DWrData,
		s.IRQ, bit(s.WbEna), s.WbIdx, s.WbData)
}

// ParseText 逐行读取文本采样
func ParseText(r io.Reader) ([]trace.Signals, error) {
	list := make([]trace.Signals, 0)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s, err := ParseLine(line)
		if err != nil {
			return list, fmt.Errorf("line %d: %w", n, err)
		}
		list = append(list, s)
	}
	return list, scanner.Err()
}

// WriteText 输出文本采样
func WriteText(w io.Writer, list []trace.Signals) error {
	bw := bufio.NewWriter(w)
	for _, s := range list {
		if _, err := fmt.Fprintln(bw, FormatLine(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
