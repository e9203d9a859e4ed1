package debug

import (
	"io"
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"mico32/cpu"
)

// Charts 曲线绘制
type Charts struct {
	Record
}

// legend 图例位置
var legend = opts.Legend{
	Type:   "scroll",
	Orient: "vertical",
	Right:  "10",
	Top:    "20",
	Bottom: "20",
}

// zoom 只显示后半段，拖动查看其余部分
var zoom = opts.DataZoom{
	Type:       "inside",
	Start:      50,
	End:        100,
	XAxisIndex: []int{0},
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	// 初始化界面
	lineC := charts.NewLine()
	lineC.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "指令周期",
			Subtitle: "每条指令累加到 CC 的周期数",
		}),
		charts.WithLegendOpts(legend),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(zoom),
		charts.WithAnimation(true),
	)
	barOp := charts.NewBar()
	barOp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "指令分布",
			Subtitle: "各操作码执行次数",
		}),
		charts.WithLegendOpts(legend),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
	)
	lineD := charts.NewLine()
	lineD.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "偏差累计",
			Subtitle: "模型与硬件不一致的累计次数",
		}),
		charts.WithLegendOpts(legend),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(zoom),
		charts.WithAnimation(true),
	)
	// 处理数据
	{
		n := c.Len()
		index := make([]int, n)
		cost := make([]opts.LineData, n)
		total := make([]opts.LineData, n)
		prev, sum := uint32(cpu.CycleReset), 0
		for i := 0; i < n; i++ {
			index[i] = i
			cost[i] = opts.LineData{Value: c.Cycles[i] - prev}
			prev = c.Cycles[i]
			sum += c.Diverged[i]
			total[i] = opts.LineData{Value: sum}
		}
		lineC.SetXAxis(index).AddSeries("周期", cost)
		lineD.SetXAxis(index).AddSeries("偏差", total)

		names := make([]string, 0)
		count := make([]opts.BarData, 0)
		for op, v := range c.Histogram {
			if v == 0 {
				continue
			}
			names = append(names, cpu.Opcode(op).String())
			count = append(count, opts.BarData{Value: v})
		}
		barOp.SetXAxis(names).AddSeries("次数", count)
	}
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		lineC,
		barOp,
		lineD,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func (c *Charts) Error(err error) { log.Println(err) }
