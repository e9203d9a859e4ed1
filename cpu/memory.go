package cpu

// Transfer 单槽的挂起访存记录。
// 执行引擎在处理加载/存储指令时填写，硬件在下一个数据应答周期上报后被消耗。
type Transfer struct {
	Kind XferKind // 访存类型
	Addr uint32   // 字节地址
	Mask uint8    // 字节使能（bit3 对应 [31:24]）
	Reg  uint8    // 加载的目标寄存器或存储的源寄存器
	Data uint32   // 存储数据（已按字节通道复制）
}

// Pending 是否有尚未完成的访存。
func (x Transfer) Pending() bool { return x.Kind != XferNone }

// WordAddr 返回总线上可见的字对齐地址。
func (x Transfer) WordAddr() uint32 { return x.Addr &^ 3 }

// stageLoad 登记一次加载，目标寄存器要等数据返回后才写。
func (st *State) stageLoad(kind XferKind, addr uint32, reg uint8) {
	st.Xfer = Transfer{Kind: kind, Addr: addr, Mask: 0xf, Reg: reg}
}

// stageStore 登记一次存储，数据和字节使能在发出时就已确定。
func (st *State) stageStore(kind XferKind, addr uint32, reg uint8, value uint32) {
	x := Transfer{Kind: kind, Addr: addr, Reg: reg}
	switch kind {
	case XferSB:
		x.Mask = 0x8 >> (addr & 3)
		x.Data = (value & 0xff) * 0x01010101
	case XferSH:
		x.Mask = 0xc >> (addr & 2)
		x.Data = (value & 0xffff) * 0x00010001
	default:
		x.Mask = 0xf
		x.Data = value
	}
	st.Xfer = x
}

// CompleteLoad 处理硬件上报的读数据应答。
// 从大端排列的数据字中取出对应的字节或半字，按类型扩展后写入目标寄存器。
//
// 参数:
//
//	addr: 硬件上报的数据地址（字对齐）。
//	data: 硬件上报的 32 位读数据。
//
// 返回:
//
//	[]Divergence: 地址不一致或没有挂起加载时的偏差，正常情况为 nil。
func (st *State) CompleteLoad(addr, data uint32) (divs []Divergence) {
	x := st.Xfer
	divs = checkDiv(divs, DivDataAddress, addr, x.WordAddr())
	var v uint32
	switch x.Kind {
	case XferLB:
		v = uint32(int32(int8(data >> (24 - 8*(x.Addr&3)))))
	case XferLBU:
		v = data >> (24 - 8*(x.Addr&3)) & 0xff
	case XferLH:
		v = uint32(int32(int16(data >> (16 - 8*(x.Addr&2)))))
	case XferLHU:
		v = data >> (16 - 8*(x.Addr&2)) & 0xffff
	case XferLW:
		v = data
	default:
		divs = append(divs, Divergence{Kind: DivXferType})
		st.Xfer = Transfer{}
		return divs
	}
	st.setReg(x.Reg, v)
	st.Xfer = Transfer{}
	return divs
}

// CompleteStore 处理硬件上报的写数据应答。
// 地址、数据、字节使能三项分别比较，模型状态不变。
func (st *State) CompleteStore(addr, data uint32, mask uint8) (divs []Divergence) {
	x := st.Xfer
	divs = checkDiv(divs, DivDataAddress, addr, x.WordAddr())
	divs = checkDiv(divs, DivDataValue, data, x.Data)
	divs = checkDiv(divs, DivDataMask, uint32(mask), uint32(x.Mask))
	st.Xfer = Transfer{}
	return divs
}
