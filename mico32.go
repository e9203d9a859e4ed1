package mico32

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mico32/capture"
	"mico32/cpu"
	"mico32/trace"
)

// Capture 硬件仿真采集到的信号序列
type Capture struct {
	Samples []trace.Signals
}

// NewCapture 初始化
func NewCapture() *Capture {
	return &Capture{Samples: make([]trace.Signals, 0)}
}

// binary 按扩展名判断是否为二进制采集文件
func binary(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".m32c", ".bin":
		return true
	}
	return false
}

// Load 加载采集文件，.m32c/.bin 为二进制格式，其余为文本格式
func (c *Capture) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	var list []trace.Signals
	if binary(filename) {
		list, err = capture.ReadAll(file)
	} else {
		list, err = capture.ParseText(file)
	}
	if err != nil {
		return fmt.Errorf("加载 %s: %w", filename, err)
	}
	c.Samples = append(c.Samples, list...)
	return nil
}

// Export 导出采集文件，格式同样由扩展名决定
func (c *Capture) Export(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if !binary(filename) {
		return capture.WriteText(file, c.Samples)
	}
	w := capture.NewWriter(file)
	for _, s := range c.Samples {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Reporter 创建参考模型和锁步比较器
func (c *Capture) Reporter(resetVector, exceptionBase uint32, opts trace.Options) *trace.Reporter {
	return trace.NewReporter(cpu.New(resetVector, exceptionBase), opts)
}

// Summary 一次回放的统计
type Summary struct {
	Samples     int                  // 采样点数
	Edges       int                  // 时钟上升沿数
	Retired     uint64               // 执行的指令数
	Exceptions  int                  // 分派的异常数
	Divergences uint64               // 偏差总数
	ByKind      [cpu.DivTotal]uint64 // 按类型的偏差数
	FirstPC     uint32               // 第一个偏差所在沿之前的模型 PC
	Diverged    bool                 // 是否出现过偏差
}

// Simulate 把采集的信号逐个送入比较器
func Simulate(samples []trace.Signals, r *trace.Reporter) Summary {
	var sum Summary
	for _, s := range samples {
		pc := r.State.Core.PC
		ev := r.Step(s)
		sum.Samples++
		if !ev.Edge {
			continue
		}
		sum.Edges++
		if ev.Exception() != cpu.ExcNone {
			sum.Exceptions++
		}
		if len(ev.Divergences) > 0 && !sum.Diverged {
			sum.Diverged = true
			sum.FirstPC = pc
		}
	}
	sum.Retired = r.Retired()
	sum.Divergences = r.Divergences()
	for k := range sum.ByKind {
		sum.ByKind[k] = r.Count(cpu.DivKind(k))
	}
	return sum
}
