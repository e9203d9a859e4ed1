package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"mico32"
	"mico32/trace"
	"mico32/trace/debug"
)

// hexFlag 接受 0x 前缀的 32 位地址
type hexFlag uint32

func (h *hexFlag) String() string { return fmt.Sprintf("0x%08X", uint32(*h)) }

func (h *hexFlag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*h = hexFlag(v)
	return nil
}

func main() {
	var reset, eba hexFlag
	flag.Var(&reset, "reset", "复位地址")
	flag.Var(&eba, "eba", "异常基地址")
	base := flag.String("trace", "", "跟踪文件基础名，为空时输出到标准输出")
	segment := flag.Uint64("segment", 0, "每个跟踪分段的指令数，0 不分段")
	nodump := flag.Bool("nodump", false, "不输出寄存器转储")
	chart := flag.String("chart", "", "输出 HTML 统计图")
	plot := flag.String("plot", "", "输出 CC 曲线 PNG")
	record := flag.String("record", "", "输出 JSON 执行记录")
	serve := flag.String("http", "", "在该地址发布统计图")
	verbose := flag.Bool("v", false, "在控制台输出异常分派")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mico32 [flags] capture.{txt,m32c}")
		flag.PrintDefaults()
		os.Exit(2)
	}

	console := logrus.New()
	console.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	console.SetLevel(logrus.WarnLevel)
	if *verbose {
		console.SetLevel(logrus.DebugLevel)
	}

	c := mico32.NewCapture()
	if err := c.Load(flag.Arg(0)); err != nil {
		console.WithError(err).Fatal("load capture")
	}

	rec := &debug.Record{}
	r := c.Reporter(uint32(reset), uint32(eba), trace.Options{
		Console: console,
		NoDump:  *nodump,
		Segment: *segment,
		Debug:   rec,
	})
	if *base != "" {
		if err := r.Open(*base); err != nil {
			console.WithError(err).Error("open trace, using stdout")
		}
	}
	sum := mico32.Simulate(c.Samples, r)
	if err := r.Close(); err != nil {
		console.WithError(err).Error("close trace")
	}
	console.WithFields(logrus.Fields{
		"samples":     sum.Samples,
		"retired":     sum.Retired,
		"exceptions":  sum.Exceptions,
		"divergences": sum.Divergences,
	}).Info("replay done")
	if sum.Diverged {
		console.WithField("pc", fmt.Sprintf("%08X", sum.FirstPC)).Warn("first divergence")
	}

	charts := &debug.Charts{Record: *rec}
	outputs := []struct {
		name string
		dbg  trace.Debug
	}{
		{*record, rec},
		{*chart, charts},
		{*plot, &debug.Plot{Record: *rec}},
	}
	for _, o := range outputs {
		if o.name == "" {
			continue
		}
		if err := render(o.name, o.dbg); err != nil {
			console.WithError(err).Error("render")
		}
	}
	if *serve != "" {
		http.HandleFunc("/", charts.Handler)
		console.WithField("addr", *serve).Info("serving charts")
		if err := http.ListenAndServe(*serve, nil); err != nil {
			charts.Error(err)
		}
	}
	if sum.Diverged {
		os.Exit(1)
	}
}

func render(name string, d trace.Debug) (err error) {
	var w io.WriteCloser
	if w, err = os.Create(name); err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return d.Render(w)
}
