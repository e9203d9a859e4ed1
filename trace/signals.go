package trace

import "mico32/cpu"

// Signals 一个采样点上硬件上报的总线与写回信号。
// 按值传递，报告器不会保留对调用方存储的引用。
type Signals struct {
	Stamp uint64 // 时间戳 (ps)
	Clk   bool   // 时钟电平

	// --- 取指 ---
	IRdAck   bool   // 取指应答
	IAddress uint32 // 取指地址
	IRdData  uint32 // 取到的指令字

	// --- 数据读写 ---
	DRdAck   bool   // 读应答
	DWrAck   bool   // 写应答
	DAddress uint32 // 数据地址（字对齐）
	DByteEna uint8  // 字节使能，bit3 对应 [31:24]
	DRdData  uint32 // 读数据
	DWrData  uint32 // 写数据

	// --- 中断 ---
	IRQ uint32 // 外部中断线

	// --- 寄存器写回 ---
	WbEna  bool   // 写回使能
	WbIdx  uint8  // 写回寄存器号
	WbData uint32 // 写回数据
}

// Event 一次 Step 的结果。
type Event struct {
	Edge        bool             // 是否为时钟上升沿，否则其余字段为空
	Retired     bool             // 本沿是否执行了一条指令
	Retire      cpu.Retire       // 执行结果，Retired 为 false 时无意义
	Text        string           // 反汇编文本
	Divergences []cpu.Divergence // 本沿发现的全部偏差
}

// Exception 本沿分派的异常号。
func (ev Event) Exception() cpu.Exception {
	if !ev.Retired {
		return cpu.ExcNone
	}
	return ev.Retire.Exception
}
