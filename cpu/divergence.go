package cpu

import "fmt"

// divTitles 偏差诊断的标题行。
var divTitles = [DivTotal]string{
	DivInstAddress: "!!! INST ADDRESS MISMATCH !!!",
	DivWbIndex:     "!!! WRITEBACK INDEX MISMATCH !!!",
	DivWbData:      "!!! WRITEBACK DATA MISMATCH !!!",
	DivDataAddress: "!!! DATA ADDRESS MISMATCH !!!",
	DivDataValue:   "!!! DATA VALUE MISMATCH !!!",
	DivDataMask:    "!!! DATA MASK MISMATCH !!!",
	DivXferType:    "!!! DATA TRANSFER TYPE MISMATCH !!!",
}

// Divergence 描述一次模型与硬件之间的不一致。
// 偏差只会被报告，不会中断仿真。
type Divergence struct {
	Kind     DivKind // 偏差类型
	Hardware uint32  // 硬件上报的值
	Model    uint32  // 模型计算的值
}

// String 返回写入跟踪文件的诊断文本（不含结尾换行）。
func (d Divergence) String() string {
	if d.Kind >= DivTotal {
		return fmt.Sprintf("!!! UNKNOWN MISMATCH #%d !!!", uint8(d.Kind))
	}
	title := divTitles[d.Kind]
	switch d.Kind {
	case DivXferType:
		return title
	case DivWbIndex:
		return fmt.Sprintf("%s\nVerilog : %2d, C-Model : %2d", title, d.Hardware, d.Model)
	case DivDataMask:
		return fmt.Sprintf("%s\nVerilog : %1X, C-Model : %1X", title, d.Hardware, d.Model)
	default:
		return fmt.Sprintf("%s\nVerilog : %08X, C-Model : %08X", title, d.Hardware, d.Model)
	}
}

// checkDiv 比较硬件与模型的值，不一致时追加一条偏差。
func checkDiv(list []Divergence, kind DivKind, hardware, model uint32) []Divergence {
	if hardware != model {
		list = append(list, Divergence{Kind: kind, Hardware: hardware, Model: model})
	}
	return list
}

// CheckWriteback 比较硬件上报的写回与上一条指令锁存的目标寄存器。
// 先比较寄存器号，一致时再比较写回数据与模型寄存器的值。
func (st *State) CheckWriteback(idx uint8, data uint32) []Divergence {
	if idx != st.Dest {
		return []Divergence{{Kind: DivWbIndex, Hardware: uint32(idx), Model: uint32(st.Dest)}}
	}
	return checkDiv(nil, DivWbData, data, st.Reg(st.Dest))
}
