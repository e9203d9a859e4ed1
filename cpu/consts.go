package cpu

// 这个文件定义了 Mico32 参考模型使用的各种常量。
// 包括操作码、寄存器别名、CSR 编号、异常号、访存类型、
// 偏差类型以及周期开销表。

// Opcode 指令操作码（指令字的 [31:26] 位）。
type Opcode uint8

// --- Mico32 操作码 ---
// 第 5 位为 1 的是 R 型指令（目标寄存器取 Z 字段），其余为 I 型（目标寄存器取 Y 字段）。
const (
	OpSRUI    Opcode = iota // 0x00: srui    rY,rX,#uimm5
	OpNORI                  // 0x01: nori    rY,rX,#uimm16
	OpMULI                  // 0x02: muli    rY,rX,#simm16
	OpSH                    // 0x03: sh      simm16(rX),rY
	OpLB                    // 0x04: lb      rY,simm16(rX)
	OpSRI                   // 0x05: sri     rY,rX,#uimm5
	OpXORI                  // 0x06: xori    rY,rX,#uimm16
	OpLH                    // 0x07: lh      rY,simm16(rX)
	OpANDI                  // 0x08: andi    rY,rX,#uimm16
	OpXNORI                 // 0x09: xnori   rY,rX,#uimm16
	OpLW                    // 0x0A: lw      rY,simm16(rX)
	OpLHU                   // 0x0B: lhu     rY,simm16(rX)
	OpSB                    // 0x0C: sb      simm16(rX),rY
	OpADDI                  // 0x0D: addi    rY,rX,#simm16
	OpORI                   // 0x0E: ori     rY,rX,#uimm16
	OpSLI                   // 0x0F: sli     rY,rX,#uimm5
	OpLBU                   // 0x10: lbu     rY,simm16(rX)
	OpBE                    // 0x11: be      rX,rY,simm16
	OpBG                    // 0x12: bg      rX,rY,simm16
	OpBGE                   // 0x13: bge     rX,rY,simm16
	OpBGEU                  // 0x14: bgeu    rX,rY,simm16
	OpBGU                   // 0x15: bgu     rX,rY,simm16
	OpSW                    // 0x16: sw      simm16(rX),rY
	OpBNE                   // 0x17: bne     rX,rY,simm16
	OpANDHI                 // 0x18: andhi   rY,rX,#uimm16
	OpCMPEI                 // 0x19: cmpei   rY,rX,#simm16
	OpCMPGI                 // 0x1A: cmpgi   rY,rX,#simm16
	OpCMPGEI                // 0x1B: cmpgei  rY,rX,#simm16
	OpCMPGEUI               // 0x1C: cmpgeui rY,rX,#uimm16
	OpCMPGUI                // 0x1D: cmpgui  rY,rX,#uimm16
	OpORHI                  // 0x1E: orhi    rY,rX,#uimm16
	OpCMPNEI                // 0x1F: cmpnei  rY,rX,#simm16
	OpSRU                   // 0x20: sru     rZ,rX,rY
	OpNOR                   // 0x21: nor     rZ,rX,rY
	OpMUL                   // 0x22: mul     rZ,rX,rY
	OpDIVU                  // 0x23: divu    rZ,rX,rY
	OpRCSR                  // 0x24: rcsr    rZ,csr
	OpSR                    // 0x25: sr      rZ,rX,rY
	OpXOR                   // 0x26: xor     rZ,rX,rY
	OpDIV                   // 0x27: div     rZ,rX,rY
	OpAND                   // 0x28: and     rZ,rX,rY
	OpXNOR                  // 0x29: xnor    rZ,rX,rY
	Op2A                    // 0x2A: 未分配
	OpRAISE                 // 0x2B: raise   #uimm5
	OpSEXTB                 // 0x2C: sextb   rZ,rX
	OpADD                   // 0x2D: add     rZ,rX,rY
	OpOR                    // 0x2E: or      rZ,rX,rY
	OpSL                    // 0x2F: sl      rZ,rX,rY
	OpB                     // 0x30: b       rX
	OpMODU                  // 0x31: modu    rZ,rX,rY
	OpSUB                   // 0x32: sub     rZ,rX,rY
	OpUSER                  // 0x33: user    #uimm11,rZ,rX,rY
	OpWCSR                  // 0x34: wcsr    csr,rY
	OpMOD                   // 0x35: mod     rZ,rX,rY
	OpCALL                  // 0x36: call    rX
	OpSEXTH                 // 0x37: sexth   rZ,rX
	OpBI                    // 0x38: bi      simm26
	OpCMPE                  // 0x39: cmpe    rZ,rX,rY
	OpCMPG                  // 0x3A: cmpg    rZ,rX,rY
	OpCMPGE                 // 0x3B: cmpge   rZ,rX,rY
	OpCMPGEU                // 0x3C: cmpgeu  rZ,rX,rY
	OpCMPGU                 // 0x3D: cmpgu   rZ,rX,rY
	OpCALLI                 // 0x3E: calli   simm26
	OpCMPNE                 // 0x3F: cmpne   rZ,rX,rY
	OpTotal                 // 操作码数量
)

// opcodeNames 操作码助记符，按编码顺序排列。
var opcodeNames = [OpTotal]string{
	"srui", "nori", "muli", "sh",
	"lb", "sri", "xori", "lh",
	"andi", "xnori", "lw", "lhu",
	"sb", "addi", "ori", "sli",
	"lbu", "be", "bg", "bge",
	"bgeu", "bgu", "sw", "bne",
	"andhi", "cmpei", "cmpgi", "cmpgei",
	"cmpgeui", "cmpgui", "orhi", "cmpnei",
	"sru", "nor", "mul", "divu",
	"rcsr", "sr", "xor", "div",
	"and", "xnor", "", "raise",
	"sextb", "add", "or", "sl",
	"b", "modu", "sub", "user",
	"wcsr", "mod", "call", "sexth",
	"bi", "cmpe", "cmpg", "cmpge",
	"cmpgeu", "cmpgu", "calli", "cmpne",
}

// String 返回操作码助记符，未分配的操作码返回空字符串。
func (op Opcode) String() string {
	if op >= OpTotal {
		return ""
	}
	return opcodeNames[op]
}

// IsRType 是否为 R 型指令。
func (op Opcode) IsRType() bool { return op&0x20 != 0 }

// IsMemory 是否为加载或存储指令。
func (op Opcode) IsMemory() bool {
	switch op {
	case OpLB, OpLBU, OpLH, OpLHU, OpLW, OpSB, OpSH, OpSW:
		return true
	}
	return false
}

// --- 寄存器别名 ---
const (
	RegGP = 26 // 全局指针
	RegFP = 27 // 帧指针
	RegSP = 28 // 栈指针
	RegRA = 29 // 返回地址
	RegEA = 30 // 异常返回地址
	RegBA = 31 // 断点返回地址
)

// --- CSR 编号 ---
// 只有下面列出的寄存器在模型中实现，其余读为 0，写入被忽略。
const (
	CsrIE   = 0x00 // 中断使能（IE/EIE/BIE 三位）
	CsrIM   = 0x01 // 中断屏蔽
	CsrIP   = 0x02 // 中断挂起
	CsrICC  = 0x03 // 指令缓存控制
	CsrDCC  = 0x04 // 数据缓存控制
	CsrCC   = 0x05 // 周期计数器
	CsrCFG  = 0x06 // 配置（只读）
	CsrEBA  = 0x07 // 异常基地址
	CsrDC   = 0x08 // 调试控制
	CsrDEBA = 0x09 // 调试异常基地址
	CsrCFG2 = 0x0A // 扩展配置
	CsrJTX  = 0x0E // JTAG 发送
	CsrJRX  = 0x0F // JTAG 接收
	CsrBP0  = 0x10 // 断点地址 0
	CsrWP0  = 0x14 // 观察点地址 0
)

// CfgValue CFG 寄存器的只读配置常量。
const CfgValue = 0x00020037

// --- IE 寄存器位 ---
const (
	IEBit  = 0x1 // 全局中断使能
	EIEBit = 0x2 // 异常时保存的 IE
	BIEBit = 0x4 // 断点时保存的 IE
)

// Exception 锁存的异常号。
// 0 表示无异常，有效值为 8 + 向量号，向量号决定跳转偏移 EBA + 32*向量号。
type Exception uint8

// --- 异常号 ---
const (
	ExcNone     Exception = 0  // 无异常
	ExcReset    Exception = 8  // 复位
	ExcBreak    Exception = 9  // 断点
	ExcIBusErr  Exception = 10 // 指令总线错误（间接跳转目标未对齐）
	ExcWatch    Exception = 11 // 观察点
	ExcDBusErr  Exception = 12 // 数据总线错误（访存地址未对齐）
	ExcDivZero  Exception = 13 // 除零
	ExcIrqPend  Exception = 14 // 中断挂起
	ExcSysCall  Exception = 15 // 系统调用
	excVecShift           = 5  // 向量间距 32 字节
)

// Vector 返回异常向量号 (0-7)。
func (e Exception) Vector() uint32 { return uint32(e) & 7 }

var exceptionNames = [8]string{"reset", "break", "ibus", "watch", "dbus", "div0", "irq", "scall"}

// String 异常名称
func (e Exception) String() string {
	if e == ExcNone {
		return "none"
	}
	return exceptionNames[e.Vector()]
}

// XferKind 挂起访存的类型。
type XferKind uint8

// --- 访存类型 ---
const (
	XferNone XferKind = iota // 0: 无挂起访存
	XferLB                   // 1: 有符号字节加载
	XferLBU                  // 2: 无符号字节加载
	XferLH                   // 3: 有符号半字加载
	XferLHU                  // 4: 无符号半字加载
	XferLW                   // 5: 字加载
	XferSB                   // 6: 字节存储
	XferSH                   // 7: 半字存储
	XferSW                   // 8: 字存储
)

// IsLoad 是否为加载类型。
func (k XferKind) IsLoad() bool { return k >= XferLB && k <= XferLW }

// IsStore 是否为存储类型。
func (k XferKind) IsStore() bool { return k >= XferSB && k <= XferSW }

// DivKind 模型与硬件之间的偏差类型。
type DivKind uint8

// --- 偏差类型 ---
const (
	DivInstAddress DivKind = iota // 0: 取指地址不一致
	DivWbIndex                    // 1: 写回寄存器号不一致
	DivWbData                     // 2: 写回数据不一致
	DivDataAddress                // 3: 访存地址不一致
	DivDataValue                  // 4: 存储数据不一致
	DivDataMask                   // 5: 字节使能不一致
	DivXferType                   // 6: 没有挂起的加载却收到读应答
	DivTotal                      // 偏差类型数量
)

var divKindNames = [DivTotal]string{"inst_addr", "wb_idx", "wb_data", "data_addr", "data_value", "data_mask", "xfer_type"}

// String 偏差类型的短名称，用于日志字段。
func (k DivKind) String() string {
	if k >= DivTotal {
		return "unknown"
	}
	return divKindNames[k]
}

// --- 周期开销 ---
// 每条指令累加到 CC 寄存器的周期数。
const (
	CycleALU        = 4  // 逻辑、算术、比较、符号扩展、CSR 访问
	CycleShiftBase  = 6  // 移位基础开销，另加移位量
	CycleMulDiv     = 38 // 乘、除、取模
	CycleFault      = 9  // 总线错误或除零短路
	CycleLoad       = 7  // 字节/半字加载
	CycleLoadWord   = 6  // 字加载
	CycleStore      = 5  // 存储
	CycleBranch     = 4  // 条件分支未跳转
	CycleBranchTake = 5  // 条件分支跳转、无条件跳转、调用
	CycleRaise      = 5  // raise 指令
	CycleReset      = 4  // CC 的初始值
)
