package debug

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Plot 周期计数曲线，输出 PNG 图片
type Plot struct {
	Record
	Width  vg.Length // 图片宽度，0 为 8 英寸
	Height vg.Length // 图片高度，0 为 4 英寸
}

// Render 绘制 CC 随已执行指令数变化的曲线
func (p *Plot) Render(w io.Writer) error {
	pl := plot.New()
	pl.Title.Text = "Cycle counter"
	pl.X.Label.Text = "instructions"
	pl.Y.Label.Text = "CC"
	pl.Add(plotter.NewGrid())

	xys := make(plotter.XYs, p.Len())
	for i := range xys {
		xys[i].X = float64(i + 1)
		xys[i].Y = float64(p.Cycles[i])
	}
	if len(xys) > 0 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		pl.Add(line)
	}

	width, height := p.Width, p.Height
	if width == 0 {
		width = 8 * vg.Inch
	}
	if height == 0 {
		height = 4 * vg.Inch
	}
	c := vgimg.New(width, height)
	pl.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
