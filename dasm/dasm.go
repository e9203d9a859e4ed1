package dasm

import (
	"fmt"
	"strings"

	"mico32/cpu"
)

// regNames 通用寄存器名称，r26 之后使用别名。
var regNames = [32]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
	"r16", "r17", "r18", "r19", "r20", "r21", "r22", "r23",
	"r24", "r25", "gp", "fp", "sp", "ra", "ea", "ba",
}

// csrNames CSR 名称，按编号排列。
var csrNames = [32]string{
	"IE", "IM", "IP", "ICC", "DCC", "CC", "CFG", "EBA",
	"DC", "DEBA", "CFG2", "csr11", "csr12", "csr13", "JTX", "JRX",
	"BP0", "BP1", "BP2", "BP3", "WP0", "WP1", "WP2", "WP3",
	"csr24", "csr25", "csr26", "csr27", "csr28", "csr29", "csr30", "csr31",
}

// raiseNames 有专用助记符的 raise 向量。
var raiseNames = map[uint32]string{
	0: "reset",
	1: "break",
	6: "irq",
	7: "scall",
}

// RegName 返回寄存器名称。
func RegName(idx uint8) string { return regNames[idx&0x1f] }

// CsrName 返回 CSR 名称。
func CsrName(idx uint8) string { return csrNames[idx&0x1f] }

// UHex 把无符号值格式化为 '$' 加固定位数的大写十六进制。
func UHex(val uint32, dig int) string {
	var b strings.Builder
	b.WriteByte('$')
	for dig > 0 {
		dig--
		b.WriteByte("0123456789ABCDEF"[val>>(4*dig)&15])
	}
	return b.String()
}

// SHex 把 dig*4 位宽的有符号值格式化为十六进制，负数输出 "-$" 加绝对值。
func SHex(val uint32, dig int) string {
	if val&(1<<(4*dig-1)) != 0 {
		return "-" + UHex(-val, dig)
	}
	return UHex(val, dig)
}

// Disasm 反汇编一条指令。
// pc 是指令所在地址，用于计算分支和跳转的绝对目标。
func Disasm(word, pc uint32) string {
	in := cpu.Decode(word)
	op := in.Op.String()
	rx, ry, rz := RegName(in.X), RegName(in.Y), RegName(in.Z)
	switch in.Op {
	// 加载：寄存器 + 有符号偏移
	case cpu.OpLB, cpu.OpLBU, cpu.OpLH, cpu.OpLHU, cpu.OpLW:
		return fmt.Sprintf("%s %s,%s(%s)", op, ry, SHex(in.Imm16, 4), rx)
	// 存储
	case cpu.OpSB, cpu.OpSH, cpu.OpSW:
		return fmt.Sprintf("%s %s(%s),%s", op, SHex(in.Imm16, 4), rx, ry)
	// 逻辑立即数：无符号
	case cpu.OpANDI, cpu.OpANDHI, cpu.OpORI, cpu.OpORHI, cpu.OpNORI,
		cpu.OpXORI, cpu.OpXNORI, cpu.OpCMPGEUI, cpu.OpCMPGUI:
		return fmt.Sprintf("%s %s,%s,#%s", op, ry, rx, UHex(in.Imm16, 4))
	// 算术立即数：有符号
	case cpu.OpADDI, cpu.OpMULI, cpu.OpCMPEI, cpu.OpCMPGI, cpu.OpCMPGEI, cpu.OpCMPNEI:
		return fmt.Sprintf("%s %s,%s,#%s", op, ry, rx, SHex(in.Imm16, 4))
	// 条件分支：绝对目标地址
	case cpu.OpBE, cpu.OpBG, cpu.OpBGE, cpu.OpBGEU, cpu.OpBGU, cpu.OpBNE:
		return fmt.Sprintf("%s %s,%s,%s", op, rx, ry, UHex(pc+in.BranchOffset(), 8))
	// 移位立即数
	case cpu.OpSLI, cpu.OpSRI, cpu.OpSRUI:
		return fmt.Sprintf("%s %s,%s,#%s", op, ry, rx, UHex(in.Imm5, 2))
	// 无条件跳转/调用
	case cpu.OpBI, cpu.OpCALLI:
		return fmt.Sprintf("%s %s", op, UHex(pc+in.Imm26, 8))
	// 自定义指令
	case cpu.OpUSER:
		return fmt.Sprintf("%s #%s,%s,%s,%s", op, UHex(in.Imm11, 3), rz, rx, ry)
	// 间接跳转，ra/ea/ba 使用伪指令
	case cpu.OpB:
		switch in.X {
		case cpu.RegRA:
			return "ret"
		case cpu.RegEA:
			return "eret"
		case cpu.RegBA:
			return "bret"
		}
		return fmt.Sprintf("%s %s", op, rx)
	case cpu.OpCALL:
		return fmt.Sprintf("%s %s", op, rx)
	// 符号扩展
	case cpu.OpSEXTB, cpu.OpSEXTH:
		return fmt.Sprintf("%s %s,%s", op, rz, rx)
	// CSR 访问
	case cpu.OpWCSR:
		return fmt.Sprintf("%s %s,%s", op, CsrName(in.X), ry)
	case cpu.OpRCSR:
		return fmt.Sprintf("%s %s,%s", op, rz, CsrName(in.X))
	// 软件陷阱
	case cpu.OpRAISE:
		if name, ok := raiseNames[in.Imm5&7]; ok {
			return name
		}
		return fmt.Sprintf("%s #%d", op, in.Imm5&7)
	case cpu.Op2A:
		return fmt.Sprintf("opcode #%d ??", uint8(in.Op))
	default:
		// 寄存器之间的运算
		return fmt.Sprintf("%s %s,%s,%s", op, rz, rx, ry)
	}
}
