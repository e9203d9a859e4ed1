package trace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"mico32/cpu"
)

// edge 先送低电平再送高电平，返回上升沿的结果。
func edge(r *Reporter, s Signals) Event {
	r.Step(Signals{Stamp: s.Stamp})
	s.Clk = true
	return r.Step(s)
}

func newTestReporter(opts Options) (*Reporter, *bytes.Buffer) {
	var out bytes.Buffer
	opts.Stdout = &out
	return NewReporter(cpu.New(0, 0), opts), &out
}

func TestStepFetch(t *testing.T) {
	r, out := newTestReporter(Options{})
	r.State.Core.Regs[2] = 5

	ev := edge(r, Signals{Stamp: 10, IRdAck: true, IAddress: 0, IRdData: 0x3441000A})
	require.True(t, ev.Edge)
	require.True(t, ev.Retired)
	require.Empty(t, ev.Divergences)
	require.Equal(t, "addi r1,r2,#$000A", ev.Text)
	require.Equal(t, uint32(15), r.State.Reg(1))
	require.Equal(t, uint32(4), r.State.Core.PC)
	require.Equal(t, uint32(8), r.State.Core.CC)
	require.Equal(t, uint64(1), r.Retired())

	require.NoError(t, r.Flush())
	text := out.String()
	require.Contains(t, text, "R0 =00000000 00000000 00000005 00000000 00000000 00000000 00000000 00000000\n")
	require.Contains(t, text, "R24=00000000 00000000 00000000 00000000 00000000 00000000 00000000 00000000\n\n")
	require.Contains(t, text, fmt.Sprintf("(%14d ps) 00000000 : 3441000A addi r1,r2,#$000A\n", 10))
}

func TestStepOnlyRisingEdge(t *testing.T) {
	r, _ := newTestReporter(Options{NoDump: true})
	s := Signals{Clk: true, IRdAck: true, IRdData: 0x3441000A}
	require.True(t, r.Step(s).Retired)
	// 电平保持为高，不是新的上升沿
	ev := r.Step(s)
	require.False(t, ev.Edge)
	require.False(t, ev.Retired)
	require.Equal(t, uint64(1), r.Retired())
}

func TestStepWriteback(t *testing.T) {
	r, out := newTestReporter(Options{NoDump: true})
	r.State.Core.Regs[2] = 5
	edge(r, Signals{IRdAck: true, IRdData: 0x3441000A})

	t.Run("一致", func(t *testing.T) {
		ev := edge(r, Signals{WbEna: true, WbIdx: 1, WbData: 15})
		require.Empty(t, ev.Divergences)
	})
	t.Run("数据不一致", func(t *testing.T) {
		ev := edge(r, Signals{WbEna: true, WbIdx: 1, WbData: 16})
		require.Equal(t, []cpu.Divergence{{Kind: cpu.DivWbData, Hardware: 16, Model: 15}}, ev.Divergences)
	})
	t.Run("寄存器号不一致", func(t *testing.T) {
		ev := edge(r, Signals{WbEna: true, WbIdx: 3, WbData: 15})
		require.Len(t, ev.Divergences, 1)
		require.Equal(t, cpu.DivWbIndex, ev.Divergences[0].Kind)
	})
	require.Equal(t, uint64(1), r.Count(cpu.DivWbData))
	require.Equal(t, uint64(1), r.Count(cpu.DivWbIndex))
	require.Equal(t, uint64(2), r.Divergences())

	require.NoError(t, r.Flush())
	require.Contains(t, out.String(), "!!! WRITEBACK INDEX MISMATCH !!!\nVerilog :  3, C-Model :  1\n")
}

func TestStepMemory(t *testing.T) {
	r, out := newTestReporter(Options{NoDump: true})
	r.State.Core.Regs[1] = 0xAABBCCDD
	r.State.Core.Regs[2] = 0x100

	// sb r1 -> 0x102，lbu r3 <- 0x102
	edge(r, Signals{IRdAck: true, IAddress: 0, IRdData: 0x30410002})
	ev := edge(r, Signals{DWrAck: true, DAddress: 0x100, DWrData: 0xDDDDDDDD, DByteEna: 0x2})
	require.Empty(t, ev.Divergences)

	edge(r, Signals{IRdAck: true, IAddress: 4, IRdData: 0x40430002})
	ev = edge(r, Signals{DRdAck: true, DAddress: 0x100, DRdData: 0x0000DD00})
	require.Empty(t, ev.Divergences)
	require.Equal(t, uint32(0xDD), r.State.Reg(3))

	require.NoError(t, r.Flush())
	require.Contains(t, out.String(), "Memory write @ $00000100 : $XXXXDDXX\n")
	require.Contains(t, out.String(), "Memory read @ $00000100 : 0000DD00\n")
}

func TestStepUnexpectedRead(t *testing.T) {
	r, out := newTestReporter(Options{NoDump: true})
	ev := edge(r, Signals{DRdAck: true, DAddress: 0, DRdData: 1})
	require.Len(t, ev.Divergences, 1)
	require.Equal(t, cpu.DivXferType, ev.Divergences[0].Kind)
	require.NoError(t, r.Flush())
	require.Contains(t, out.String(), "!!! DATA TRANSFER TYPE MISMATCH !!!\n")
}

func TestStepConsole(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r, _ := newTestReporter(Options{NoDump: true, Console: logger})

	// 取指地址与模型 PC 不一致
	ev := edge(r, Signals{IRdAck: true, IAddress: 0x40, IRdData: 0x3441000A})
	require.Len(t, ev.Divergences, 1)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "inst_addr", entry.Data["kind"])
	require.Equal(t, "00000040", entry.Data["hardware"])

	// scall 分派异常
	hook.Reset()
	ev = edge(r, Signals{IRdAck: true, IAddress: 4, IRdData: 0xAC000007})
	require.Equal(t, cpu.ExcSysCall, ev.Exception())
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, "scall", entry.Data["exception"])
}

func TestSegments(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "cpu")
	r, out := newTestReporter(Options{NoDump: true, Segment: 2})

	require.ErrorIs(t, r.OpenNext(), ErrNoSegment)
	require.NoError(t, r.Open(base))
	require.Equal(t, base+"_0000.trc", r.Segment())

	for i := uint32(0); i < 3; i++ {
		edge(r, Signals{IRdAck: true, IAddress: 4 * i, IRdData: 0x34210001})
	}
	// 两条指令后自动切换
	require.Equal(t, base+"_0001.trc", r.Segment())
	require.NoError(t, r.Close())
	require.Equal(t, "", r.Segment())

	first, err := os.ReadFile(base + "_0000.trc")
	require.NoError(t, err)
	require.Equal(t, 2, bytes.Count(first, []byte("addi r1,r1,#$0001")))
	second, err := os.ReadFile(base + "_0001.trc")
	require.NoError(t, err)
	require.Equal(t, 1, bytes.Count(second, []byte("addi r1,r1,#$0001")))
	require.Empty(t, out.String())
}

func TestSegmentWrap(t *testing.T) {
	require.Equal(t, "a_0000.trc", segmentName("a", 10000))
	require.Equal(t, "a_9999.trc", segmentName("a", 9999))
}

func TestOpenFailure(t *testing.T) {
	r, out := newTestReporter(Options{NoDump: true})
	err := r.Open(filepath.Join(t.TempDir(), "missing", "cpu"))
	require.Error(t, err)
	require.Equal(t, "", r.Segment())
	require.ErrorIs(t, r.OpenNext(), ErrNoSegment)

	// 回落到默认流
	edge(r, Signals{IRdAck: true, IRdData: 0x34210001})
	require.NoError(t, r.Close())
	require.Contains(t, out.String(), "addi r1,r1,#$0001")
}

func TestDisasmChar(t *testing.T) {
	r, _ := newTestReporter(Options{})
	text := "addi r1,r2,#$000A"
	var got []byte
	for i := 0; i < 32; i++ {
		c := r.DisasmChar(0x3441000A, 0, i)
		if c == 0 {
			break
		}
		got = append(got, c)
	}
	require.Equal(t, text, string(got))
	require.Equal(t, byte(0), r.DisasmChar(0, 0, len(text)))
	// 索引只取低 5 位
	require.Equal(t, byte('d'), r.DisasmChar(0, 0, 33))
}

func TestWriteLanes(t *testing.T) {
	tests := []struct {
		data uint32
		mask uint8
		want string
	}{
		{0x11223344, 0xF, "$11223344"},
		{0x11223344, 0x4, "$XX22XXXX"},
		{0x11223344, 0x3, "$XXXX3344"},
		{0x11223344, 0x0, "$XXXXXXXX"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, writeLanes(tt.data, tt.mask))
	}
}
