package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"mico32/cpu"
	"mico32/dasm"
)

// Options 报告器配置。
type Options struct {
	Console *logrus.Logger // 偏差和异常的控制台日志，nil 不输出
	Stdout  io.Writer      // 默认输出流，nil 为 os.Stdout
	NoDump  bool           // 取指时不输出寄存器转储
	Segment uint64         // 每个分段文件最多记录的指令数，0 不分段
	Debug   Debug          // 统计记录，nil 为空实现
}

// Reporter 锁步比较器。
// 在每个时钟上升沿把硬件上报的信号交给参考模型，并把跟踪文本写入 Sink。
type Reporter struct {
	State *cpu.State // 参考模型
	Debug Debug      // 统计记录

	opts    Options
	sink    Sink
	stdout  Sink
	base    string // 分段文件基础名，空表示没有打开文件
	seq     int    // 当前分段序号
	prevClk bool

	retired uint64
	counts  [cpu.DivTotal]uint64
	dasmBuf [32]byte
}

// NewReporter 创建报告器，初始输出到默认流。
func NewReporter(st *cpu.State, opts Options) *Reporter {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	r := &Reporter{State: st, opts: opts, stdout: newStreamSink(out)}
	r.sink = r.stdout
	r.Debug = opts.Debug
	if r.Debug == nil {
		r.Debug = &debug{}
	}
	r.Debug.Init(st)
	return r
}

// Open 关闭当前输出并创建分段文件 <base>_0000.trc。
// 失败时返回错误，输出回落到默认流。
func (r *Reporter) Open(base string) error {
	if err := r.Close(); err != nil {
		r.logError(err)
	}
	r.base, r.seq = base, 0
	return r.openSegment()
}

// OpenNext 关闭当前分段并打开下一个分段，序号 9999 之后回到 0000。
// 没有打开过分段文件时返回 ErrNoSegment。
func (r *Reporter) OpenNext() error {
	if r.base == "" {
		return ErrNoSegment
	}
	base := r.base
	if err := r.Close(); err != nil {
		r.logError(err)
	}
	r.base = base
	r.seq = (r.seq + 1) % 10000
	return r.openSegment()
}

func (r *Reporter) openSegment() error {
	name := segmentName(r.base, r.seq)
	s, err := createFileSink(name)
	if err != nil {
		r.base = ""
		r.sink = r.stdout
		return fmt.Errorf("trace: open segment %s: %w", name, err)
	}
	r.sink = s
	return nil
}

// Segment 返回当前分段文件名，输出到默认流时为空。
func (r *Reporter) Segment() string {
	if r.base == "" {
		return ""
	}
	return segmentName(r.base, r.seq)
}

// Close 刷新并释放当前输出，随后回到默认流。
func (r *Reporter) Close() error {
	s := r.sink
	r.sink = r.stdout
	r.base = ""
	if s == r.stdout {
		return s.Flush()
	}
	return s.Close()
}

// Flush 刷新当前输出。
func (r *Reporter) Flush() error { return r.sink.Flush() }

// Retired 返回已执行的指令数。
func (r *Reporter) Retired() uint64 { return r.retired }

// Count 返回某类偏差出现的次数。
func (r *Reporter) Count(kind cpu.DivKind) uint64 {
	if kind >= cpu.DivTotal {
		return 0
	}
	return r.counts[kind]
}

// Divergences 返回偏差总数。
func (r *Reporter) Divergences() (n uint64) {
	for _, c := range r.counts {
		n += c
	}
	return n
}

// Step 处理一个采样点，只在时钟上升沿动作。
// 顺序为：合并中断线、检查写回、完成读、完成写、取指执行。
//
// 参数:
//
//	s: 本采样点的硬件信号。
//
// 返回:
//
//	Event: 本沿执行的指令和发现的偏差。
func (r *Reporter) Step(s Signals) (ev Event) {
	rising := s.Clk && !r.prevClk
	r.prevClk = s.Clk
	if !rising {
		return ev
	}
	ev.Edge = true
	st := r.State
	st.RaiseIRQ(s.IRQ)

	// 上一条指令的写回
	if s.WbEna {
		ev.Divergences = r.report(ev.Divergences, st.Core.PC, st.CheckWriteback(s.WbIdx, s.WbData))
	}
	// 数据读
	if s.DRdAck {
		fmt.Fprintf(r.sink, "Memory read @ $%08X : %08X\n", s.DAddress, s.DRdData)
		ev.Divergences = r.report(ev.Divergences, st.Core.PC, st.CompleteLoad(s.DAddress, s.DRdData))
	}
	// 数据写
	if s.DWrAck {
		fmt.Fprintf(r.sink, "Memory write @ $%08X : %s\n", s.DAddress, writeLanes(s.DWrData, s.DByteEna))
		ev.Divergences = r.report(ev.Divergences, st.Core.PC, st.CompleteStore(s.DAddress, s.DWrData, s.DByteEna))
	}
	// 取指
	if s.IRdAck {
		if !r.opts.NoDump {
			r.dumpRegs()
		}
		pc := st.Core.PC
		ev.Text = dasm.Disasm(s.IRdData, pc)
		fmt.Fprintf(r.sink, "(%14d ps) %08X : %08X %s\n", s.Stamp, s.IAddress, s.IRdData, ev.Text)
		ev.Retire = st.Execute(s.IAddress, s.IRdData)
		ev.Retired = true
		ev.Divergences = r.report(ev.Divergences, pc, ev.Retire.Divergences)
		if e := ev.Retire.Exception; e != cpu.ExcNone && r.opts.Console != nil {
			r.opts.Console.WithFields(logrus.Fields{
				"pc":        fmt.Sprintf("%08X", pc),
				"opcode":    ev.Retire.Inst.Op.String(),
				"exception": e.String(),
			}).Debug("exception dispatched")
		}
		r.retired++
		r.Debug.Update(st, ev)
		if r.opts.Segment > 0 && r.retired%r.opts.Segment == 0 && r.base != "" {
			if err := r.OpenNext(); err != nil {
				r.logError(err)
			}
		}
	}
	return ev
}

// DisasmChar 返回反汇编文本的第 idx 个字符。
// idx 为 0 时重新反汇编并刷新缓冲区，idx 只取低 5 位，超出文本的位置返回 0。
func (r *Reporter) DisasmChar(word, pc uint32, idx int) byte {
	if idx == 0 {
		r.dasmBuf = [32]byte{}
		copy(r.dasmBuf[:], dasm.Disasm(word, pc))
	}
	return r.dasmBuf[idx&31]
}

// report 把偏差写入跟踪、计数并输出到控制台。
func (r *Reporter) report(list []cpu.Divergence, pc uint32, divs []cpu.Divergence) []cpu.Divergence {
	for _, d := range divs {
		fmt.Fprintln(r.sink, d.String())
		if d.Kind < cpu.DivTotal {
			r.counts[d.Kind]++
		}
		if r.opts.Console != nil {
			r.opts.Console.WithFields(logrus.Fields{
				"pc":       fmt.Sprintf("%08X", pc),
				"kind":     d.Kind.String(),
				"hardware": fmt.Sprintf("%08X", d.Hardware),
				"model":    fmt.Sprintf("%08X", d.Model),
			}).Warn("mismatch")
		}
	}
	return append(list, divs...)
}

// dumpRegs 输出 32 个通用寄存器，每行 8 个，结尾空一行。
func (r *Reporter) dumpRegs() {
	regs := &r.State.Core.Regs
	for row, label := range [4]string{"R0 =", "R8 =", "R16=", "R24="} {
		v := regs[row*8 : row*8+8]
		fmt.Fprintf(r.sink, "%s%08X %08X %08X %08X %08X %08X %08X %08X\n",
			label, v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7])
	}
	fmt.Fprintln(r.sink)
}

func (r *Reporter) logError(err error) {
	if r.opts.Console != nil {
		r.opts.Console.WithError(err).Error("trace sink")
	}
}

// writeLanes 把写数据按字节通道格式化，高字节在前，未使能的通道为 XX。
func writeLanes(data uint32, mask uint8) string {
	buf := []byte{'$'}
	for lane := 3; lane >= 0; lane-- {
		if mask&(1<<lane) == 0 {
			buf = append(buf, 'X', 'X')
			continue
		}
		buf = append(buf, dasm.UHex(data>>(8*lane), 2)[1:]...)
	}
	return string(buf)
}
