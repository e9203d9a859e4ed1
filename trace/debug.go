package trace

import (
	"io"

	"mico32/cpu"
)

// Debug 调试接口，每执行一条指令收到一次 Update。
type Debug interface {
	Init(st *cpu.State)
	IsDebug() bool
	SetDebug(is bool)
	Update(st *cpu.State, ev Event)
	Render(w io.Writer) error
}

type debug struct{ is bool }

func (debug) Init(st *cpu.State)             {}
func (debug *debug) IsDebug() bool           { return debug.is }
func (debug *debug) SetDebug(is bool)        { debug.is = is }
func (debug) Update(st *cpu.State, ev Event) {}
func (debug) Render(w io.Writer) error       { return nil }
