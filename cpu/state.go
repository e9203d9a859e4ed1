package cpu

// Core 处理器的体系结构状态。
// 这个结构体是 CPU 状态的快照，包含全部寄存器。
type Core struct {
	// --- 通用寄存器 ---
	Regs [32]uint32 // r0 恒为 0，所有写回路径都绕开它。

	// --- 核心程序状态 ---
	PC uint32 // 程序计数器，指向下一条待取指令的地址。

	// --- 控制与状态寄存器 (CSRs) ---
	IE  uint32 // 中断使能：bit0 IE，bit1 EIE，bit2 BIE。
	IM  uint32 // 中断屏蔽。
	IP  uint32 // 中断挂起，写 1 清除。
	EBA uint32 // 异常基地址，低 8 位恒为 0。
	CC  uint32 // 周期计数器，溢出回绕。
}

// State 参考模型的完整状态。
type State struct {
	Core Core     // 体系结构状态
	Xfer Transfer // 挂起的访存
	Dest uint8    // 最近一条指令锁存的目标寄存器

	except Exception // 当前指令锁存的异常号
}

// New 创建一个新的模型实例。
// 复位地址强制字对齐，异常基地址强制 256 字节对齐。
func New(resetVector, exceptionBase uint32) *State {
	st := &State{}
	st.Core.PC = resetVector &^ 3
	st.Core.EBA = exceptionBase &^ 0xff
	st.Core.CC = CycleReset
	return st
}

// Reg 读取通用寄存器。
func (st *State) Reg(idx uint8) uint32 { return st.Core.Regs[idx&0x1f] }

// setReg 写通用寄存器，r0 的写入被丢弃。
func (st *State) setReg(idx uint8, v uint32) {
	if idx &= 0x1f; idx != 0 {
		st.Core.Regs[idx] = v
	}
}

// CsrRead 读取控制和状态寄存器。
//
// 返回:
//
//	uint32: 寄存器的值，未实现的寄存器为 0。
//	bool:   该寄存器是否在模型中实现。
func (st *State) CsrRead(csr uint8) (uint32, bool) {
	switch csr {
	case CsrIE:
		return st.Core.IE, true
	case CsrIM:
		return st.Core.IM, true
	case CsrIP:
		return st.Core.IP, true
	case CsrCC:
		return st.Core.CC, true
	case CsrCFG:
		return CfgValue, true
	case CsrEBA:
		return st.Core.EBA, true
	default:
		return 0, false
	}
}

// CsrWrite 写入控制和状态寄存器。
// IP 为写 1 清除，EBA 丢弃低 8 位，CFG/CC 只读。
// 返回写入是否生效。
func (st *State) CsrWrite(csr uint8, value uint32) bool {
	switch csr {
	case CsrIE:
		st.Core.IE = value & (IEBit | EIEBit | BIEBit)
	case CsrIM:
		st.Core.IM = value
	case CsrIP:
		st.Core.IP &^= value
	case CsrEBA:
		st.Core.EBA = value &^ 0xff
	default:
		return false
	}
	return true
}

// RaiseIRQ 把外部中断线并入 IP，只保留 IM 允许的位。
func (st *State) RaiseIRQ(lines uint32) {
	st.Core.IP |= lines & st.Core.IM
}
