package cpu

// 下面的处理函数按指令族划分，由 Execute 中的 switch 分派。
// 每个函数执行指令语义并返回本条指令的周期开销。
// 调用时 PC 已经加 4，pc 参数是指令自身的地址。

// boolVal 比较结果转为 0/1。
func boolVal(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// handleLogic 处理逻辑、算术与比较指令（寄存器形式和立即数形式）。
// 格式: addi rY,rX,#simm16 / add rZ,rX,rY
func (st *State) handleLogic(in Inst) uint32 {
	x := st.Reg(in.X)
	y := st.Reg(in.Y)
	var v uint32
	switch in.Op {
	// 立即数形式
	case OpNORI:
		v = ^(x | in.UImm16())
	case OpXORI:
		v = x ^ in.UImm16()
	case OpANDI:
		v = x & in.UImm16()
	case OpXNORI:
		v = ^(x ^ in.UImm16())
	case OpADDI:
		v = x + in.SImm16()
	case OpORI:
		v = x | in.UImm16()
	case OpANDHI:
		v = x & in.HImm16()
	case OpORHI:
		v = x | in.HImm16()
	case OpCMPEI:
		v = boolVal(x == in.SImm16())
	case OpCMPGI:
		v = boolVal(int32(x) > int32(in.SImm16()))
	case OpCMPGEI:
		v = boolVal(int32(x) >= int32(in.SImm16()))
	case OpCMPGEUI:
		v = boolVal(x >= in.UImm16())
	case OpCMPGUI:
		v = boolVal(x > in.UImm16())
	case OpCMPNEI:
		v = boolVal(x != in.SImm16())
	// 寄存器形式
	case OpNOR:
		v = ^(x | y)
	case OpXOR:
		v = x ^ y
	case OpAND:
		v = x & y
	case OpXNOR:
		v = ^(x ^ y)
	case OpADD:
		v = x + y
	case OpOR:
		v = x | y
	case OpSUB:
		v = x - y
	case OpCMPE:
		v = boolVal(x == y)
	case OpCMPG:
		v = boolVal(int32(x) > int32(y))
	case OpCMPGE:
		v = boolVal(int32(x) >= int32(y))
	case OpCMPGEU:
		v = boolVal(x >= y)
	case OpCMPGU:
		v = boolVal(x > y)
	case OpCMPNE:
		v = boolVal(x != y)
	}
	st.setReg(st.Dest, v)
	return CycleALU
}

// handleShift 处理移位指令，移位量只取低 5 位，开销随移位量增加。
// 格式: sli rY,rX,#uimm5 / sl rZ,rX,rY
func (st *State) handleShift(in Inst) uint32 {
	x := st.Reg(in.X)
	n := in.Imm5
	if in.Op.IsRType() {
		n = st.Reg(in.Y) & 0x1f
	}
	var v uint32
	switch in.Op {
	case OpSRUI, OpSRU:
		v = x >> n
	case OpSRI, OpSR:
		v = uint32(int32(x) >> n)
	case OpSLI, OpSL:
		v = x << n
	}
	st.setReg(st.Dest, v)
	return CycleShiftBase + n
}

// handleMulDiv 处理乘法、除法和取模。
// 除数为 0 时锁存除零异常，目标寄存器保持不变。
// 有符号除法向零截断，MinInt32 / -1 的结果回绕为 MinInt32。
func (st *State) handleMulDiv(in Inst) uint32 {
	x := st.Reg(in.X)
	y := st.Reg(in.Y)
	switch in.Op {
	case OpMULI:
		st.setReg(st.Dest, x*in.SImm16())
		return CycleMulDiv
	case OpMUL:
		st.setReg(st.Dest, x*y)
		return CycleMulDiv
	}
	if y == 0 {
		st.except = ExcDivZero
		return CycleFault
	}
	var v uint32
	switch in.Op {
	case OpDIVU:
		v = x / y
	case OpMODU:
		v = x % y
	case OpDIV:
		v = uint32(int32(x) / int32(y))
	case OpMOD:
		v = uint32(int32(x) % int32(y))
	}
	st.setReg(st.Dest, v)
	return CycleMulDiv
}

// handleBranch 处理条件分支 (be, bg, bge, bgeu, bgu, bne)。
// 跳转时 PC = pc + simm16*4，否则保持 pc + 4。
// 格式: be rX,rY,simm16
func (st *State) handleBranch(in Inst, pc uint32) uint32 {
	x := st.Reg(in.X)
	y := st.Reg(in.Y)
	var taken bool
	switch in.Op {
	case OpBE:
		taken = x == y
	case OpBG:
		taken = int32(x) > int32(y)
	case OpBGE:
		taken = int32(x) >= int32(y)
	case OpBGEU:
		taken = x >= y
	case OpBGU:
		taken = x > y
	case OpBNE:
		taken = x != y
	}
	if !taken {
		return CycleBranch
	}
	st.Core.PC = pc + in.BranchOffset()
	return CycleBranchTake
}

// handleJump 处理 bi/calli，目标为 pc + simm26*4。
// calli 把返回地址 pc + 4 写入 ra。
func (st *State) handleJump(in Inst, pc uint32) uint32 {
	if in.Op == OpCALLI {
		st.setReg(RegRA, st.Core.PC)
	}
	st.Core.PC = pc + in.Imm26
	return CycleBranchTake
}

// handleIndirect 处理 b/call，目标寄存器必须 4 字节对齐，否则锁存指令总线错误。
// b ea (eret) 从 EIE 恢复 IE，b ba (bret) 从 BIE 恢复 IE。
func (st *State) handleIndirect(in Inst) uint32 {
	target := st.Reg(in.X)
	if target&3 != 0 {
		st.except = ExcIBusErr
		return CycleFault
	}
	if in.Op == OpCALL {
		st.setReg(RegRA, st.Core.PC)
	} else {
		ie := st.Core.IE
		switch in.X {
		case RegBA:
			st.Core.IE = (ie&BIEBit)>>2 | ie&EIEBit
		case RegEA:
			st.Core.IE = (ie&EIEBit)>>1 | ie&BIEBit
		}
	}
	st.Core.PC = target
	return CycleBranchTake
}

// handleLoad 处理加载指令 (lb, lbu, lh, lhu, lw)。
// 地址 = rX + simm16。半字要求 2 字节对齐，字要求 4 字节对齐，
// 否则锁存数据总线错误且不登记访存。目标寄存器在数据返回时才写入。
// 格式: lw rY,simm16(rX)
func (st *State) handleLoad(in Inst) uint32 {
	addr := st.Reg(in.X) + in.SImm16()
	switch in.Op {
	case OpLB:
		st.stageLoad(XferLB, addr, st.Dest)
	case OpLBU:
		st.stageLoad(XferLBU, addr, st.Dest)
	case OpLH, OpLHU:
		if addr&1 != 0 {
			st.except = ExcDBusErr
			return CycleFault
		}
		kind := XferLH
		if in.Op == OpLHU {
			kind = XferLHU
		}
		st.stageLoad(kind, addr, st.Dest)
	case OpLW:
		if addr&3 != 0 {
			st.except = ExcDBusErr
			return CycleFault
		}
		st.stageLoad(XferLW, addr, st.Dest)
		return CycleLoadWord
	}
	return CycleLoad
}

// handleStore 处理存储指令 (sb, sh, sw)。
// 对齐规则与加载相同，数据按字节通道复制，字节使能立即确定。
// 格式: sw simm16(rX),rY
func (st *State) handleStore(in Inst) uint32 {
	addr := st.Reg(in.X) + in.SImm16()
	y := st.Reg(in.Y)
	switch in.Op {
	case OpSB:
		st.stageStore(XferSB, addr, in.Y, y)
	case OpSH:
		if addr&1 != 0 {
			st.except = ExcDBusErr
			return CycleFault
		}
		st.stageStore(XferSH, addr, in.Y, y)
	case OpSW:
		if addr&3 != 0 {
			st.except = ExcDBusErr
			return CycleFault
		}
		st.stageStore(XferSW, addr, in.Y, y)
	}
	return CycleStore
}

// handleCsr 处理 rcsr/wcsr，CSR 编号在 X 字段。
// 未实现的寄存器读为 0，写入被忽略。
func (st *State) handleCsr(in Inst) uint32 {
	if in.Op == OpRCSR {
		v, _ := st.CsrRead(in.X)
		st.setReg(st.Dest, v)
	} else {
		st.CsrWrite(in.X, st.Reg(in.Y))
	}
	return CycleALU
}

// handleSext 处理 sextb/sexth。
func (st *State) handleSext(in Inst) uint32 {
	x := st.Reg(in.X)
	if in.Op == OpSEXTB {
		st.setReg(st.Dest, uint32(int32(int8(x))))
	} else {
		st.setReg(st.Dest, uint32(int32(int16(x))))
	}
	return CycleALU
}

// handleRaise 处理 raise，直接锁存异常号 8 + 向量。
func (st *State) handleRaise(in Inst) uint32 {
	st.except = ExcReset + Exception(in.Imm5&7)
	return CycleRaise
}
