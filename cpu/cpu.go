package cpu

// Retire 一条指令执行完成后的结果。
type Retire struct {
	Addr        uint32       // 硬件上报的取指地址
	Inst        Inst         // 解码后的指令
	Cycles      uint32       // 本条指令累加到 CC 的周期数
	ControlFlow bool         // 是否为改变控制流的指令
	Exception   Exception    // 本条指令结束时分派的异常号，无异常为 ExcNone
	Xfer        XferKind     // 本条指令登记的访存类型
	Divergences []Divergence // 执行过程中发现的偏差（取指地址不一致）
}

// Execute 执行一条已被硬件确认取指的指令。
// 每次取指应答调用一次：解码、PC 加 4、锁存目标寄存器、按操作码分派、
// 累加周期、判断中断、分派异常。
//
// 参数:
//
//	addr: 硬件上报的取指地址，与模型 PC 不一致时只记录偏差。
//	word: 取到的 32 位指令字。
//
// 返回:
//
//	Retire: 执行结果，包括周期开销、分派的异常以及偏差列表。
func (st *State) Execute(addr, word uint32) Retire {
	in := Decode(word)
	ret := Retire{Addr: addr, Inst: in, ControlFlow: in.IsControlFlow()}
	ret.Divergences = checkDiv(ret.Divergences, DivInstAddress, addr, st.Core.PC)

	// --- 1. PC 先无条件加 4，分支类指令随后自行覆盖 ---
	pc := st.Core.PC
	st.Core.PC += 4

	// --- 2. 锁存目标寄存器 ---
	st.Dest = in.Dest()

	// --- 3. 执行 ---
	var cost uint32
	switch in.Op {
	case OpNORI, OpXORI, OpANDI, OpXNORI, OpADDI, OpORI, OpANDHI, OpORHI,
		OpCMPEI, OpCMPGI, OpCMPGEI, OpCMPGEUI, OpCMPGUI, OpCMPNEI,
		OpNOR, OpXOR, OpAND, OpXNOR, OpADD, OpOR, OpSUB,
		OpCMPE, OpCMPG, OpCMPGE, OpCMPGEU, OpCMPGU, OpCMPNE:
		cost = st.handleLogic(in)
	case OpSRUI, OpSRI, OpSLI, OpSRU, OpSR, OpSL:
		cost = st.handleShift(in)
	case OpMULI, OpMUL, OpDIVU, OpDIV, OpMODU, OpMOD:
		cost = st.handleMulDiv(in)
	case OpBE, OpBG, OpBGE, OpBGEU, OpBGU, OpBNE:
		cost = st.handleBranch(in, pc)
	case OpBI, OpCALLI:
		cost = st.handleJump(in, pc)
	case OpB, OpCALL:
		cost = st.handleIndirect(in)
	case OpLB, OpLBU, OpLH, OpLHU, OpLW:
		cost = st.handleLoad(in)
	case OpSB, OpSH, OpSW:
		cost = st.handleStore(in)
	case OpRCSR, OpWCSR:
		cost = st.handleCsr(in)
	case OpSEXTB, OpSEXTH:
		cost = st.handleSext(in)
	case OpRAISE:
		cost = st.handleRaise(in)
	case Op2A, OpUSER:
		// 未分配的操作码和自定义指令不执行任何操作
	default:
		// 6 位操作码不会越界
	}

	if in.Op.IsMemory() && st.except != ExcDBusErr {
		ret.Xfer = st.Xfer.Kind
	}

	// --- 4. 周期计数 ---
	st.Core.CC += cost
	ret.Cycles = cost

	// --- 5. 中断：只在非控制流指令且没有其他异常时响应 ---
	if st.Core.IP&st.Core.IM != 0 && st.Core.IE&IEBit != 0 &&
		st.except == ExcNone && !ret.ControlFlow {
		st.except = ExcIrqPend
	}

	// --- 6. 异常分派 ---
	if st.except != ExcNone {
		ret.Exception = st.dispatch()
	}
	return ret
}

// dispatch 分派锁存的异常。
// 断点和观察点保存到 ba 并把 IE 移入 BIE，其余保存到 ea 并把 IE 移入 EIE，
// 然后跳转到 EBA + 32*向量号。
func (st *State) dispatch() Exception {
	e := st.except
	ie := st.Core.IE
	var reg uint8
	if e == ExcBreak || e == ExcWatch {
		reg = RegBA
		st.Core.IE = (ie&IEBit)<<2 | ie&EIEBit
	} else {
		reg = RegEA
		st.Core.IE = (ie&IEBit)<<1 | ie&BIEBit
	}
	st.Dest = reg
	st.setReg(reg, st.Core.PC)
	st.Core.PC = st.Core.EBA + e.Vector()<<excVecShift
	st.except = ExcNone
	return e
}
