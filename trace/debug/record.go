package debug

import (
	"encoding/json"
	"io"
	"log"

	"gonum.org/v1/gonum/mat"

	"mico32/cpu"
	"mico32/trace"
)

// Record 记录每条指令的执行历史
type Record struct {
	PC          []uint32            // 取指地址列
	Cycles      []uint32            // 执行后的 CC 列
	Opcodes     []int               // 操作码列
	Diverged    []int               // 每条指令所在沿的偏差数
	Histogram   [cpu.OpTotal]uint64 // 操作码计数
	Exceptions  map[string]uint64   // 分派的异常计数
	Loads       uint64              // 加载次数
	Stores      uint64              // 存储次数
	Transitions *mat.Dense          `json:"-"` // 操作码转移矩阵，行为前一条，列为后一条
	last        int
}

// Init 初始化
func (list *Record) Init(st *cpu.State) {
	*list = Record{
		Exceptions:  make(map[string]uint64),
		Transitions: mat.NewDense(int(cpu.OpTotal), int(cpu.OpTotal), nil),
		last:        -1,
	}
}

func (Record) IsDebug() bool    { return true }
func (Record) SetDebug(is bool) {}

// Update 记录数据
func (list *Record) Update(st *cpu.State, ev trace.Event) {
	if !ev.Retired {
		return
	}
	if list.Transitions == nil {
		list.Init(st)
	}
	op := ev.Retire.Inst.Op
	list.PC = append(list.PC, ev.Retire.Addr)
	list.Cycles = append(list.Cycles, st.Core.CC)
	list.Opcodes = append(list.Opcodes, int(op))
	list.Diverged = append(list.Diverged, len(ev.Divergences))
	list.Histogram[op]++
	if e := ev.Retire.Exception; e != cpu.ExcNone {
		list.Exceptions[e.String()]++
	}
	switch k := ev.Retire.Xfer; {
	case k.IsLoad():
		list.Loads++
	case k.IsStore():
		list.Stores++
	}
	if list.last >= 0 {
		list.Transitions.Set(list.last, int(op), list.Transitions.At(list.last, int(op))+1)
	}
	list.last = int(op)
}

// Len 已记录的指令数
func (list *Record) Len() int { return len(list.PC) }

// Matrix 转移矩阵的行切片形式
func (list *Record) Matrix() [][]float64 {
	if list.Transitions == nil {
		return nil
	}
	r, _ := list.Transitions.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, list.Transitions)
	}
	return rows
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error {
	return json.NewEncoder(w).Encode(struct {
		*Record
		Matrix [][]float64 `json:"Transitions"`
	}{list, list.Matrix()})
}

func (list *Record) Error(err error) { log.Println(err) }
