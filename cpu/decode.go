package cpu

// Inst 解码后的指令字段。
// 所有字段都按固定位置提取，解码本身不会失败，
// 未分配的操作码由执行引擎当作空操作处理。
type Inst struct {
	Word  uint32 // 原始指令字
	Op    Opcode // [31:26] 操作码
	X     uint8  // [25:21] 源寄存器 X
	Y     uint8  // [20:16] 源/目标寄存器 Y
	Z     uint8  // [15:11] 目标寄存器 Z
	Imm5  uint32 // [4:0]   移位量、raise 向量
	Imm11 uint32 // [10:0]  user 指令载荷
	Imm16 uint32 // [15:0]  原始 16 位立即数
	Imm26 uint32 // [25:0]  左移 2 位并从第 27 位符号扩展后的跳转偏移
}

// Decode 将 32 位指令字拆分成各个字段。
func Decode(word uint32) Inst {
	return Inst{
		Word:  word,
		Op:    Opcode(word >> 26 & 0x3f),
		X:     uint8(word >> 21 & 0x1f),
		Y:     uint8(word >> 16 & 0x1f),
		Z:     uint8(word >> 11 & 0x1f),
		Imm5:  word & 0x1f,
		Imm11: word & 0x7ff,
		Imm16: word & 0xffff,
		Imm26: uint32(int32(word<<6) >> 4),
	}
}

// SImm16 返回符号扩展到 32 位的 16 位立即数。
func (in Inst) SImm16() uint32 { return uint32(int32(int16(in.Imm16))) }

// UImm16 返回零扩展的 16 位立即数。
func (in Inst) UImm16() uint32 { return in.Imm16 }

// HImm16 返回左移到高半字的 16 位立即数（andhi/orhi 使用）。
func (in Inst) HImm16() uint32 { return in.Imm16 << 16 }

// BranchOffset 返回条件分支的字节偏移 (simm16 * 4)。
func (in Inst) BranchOffset() uint32 { return in.SImm16() << 2 }

// Dest 按指令类型计算目标寄存器：
// call/calli 固定写 ra，R 型写 Z，I 型写 Y。
func (in Inst) Dest() uint8 {
	switch {
	case in.Op == OpCALL || in.Op == OpCALLI:
		return RegRA
	case in.Op.IsRType():
		return in.Z
	default:
		return in.Y
	}
}

// IsControlFlow 是否为改变控制流的指令（条件分支、无条件跳转、调用、间接跳转）。
// 这些指令上从不响应中断。
func (in Inst) IsControlFlow() bool {
	switch in.Op {
	case OpBE, OpBG, OpBGE, OpBGEU, OpBGU, OpBNE, OpB, OpCALL, OpBI, OpCALLI:
		return true
	}
	return false
}
