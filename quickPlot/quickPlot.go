//Package quickPlot renders one dimensional results as PNG line plots for a quick look
package quickPlot

import (
	"fmt"
	"io"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"treprSuite/dataset"
)

//Options controls the figure. Zero values select 800x600 points and no reference line
type Options struct {
	Title  string
	Width  int
	Height int
	//Reference draws a horizontal line at this value if not nil, e.g. a drift ratio of one
	Reference *float64
}

//dataXY adapts one dimensional Data to plotter.XYer
type dataXY struct {
	data *dataset.Data
}

func (d dataXY) Len() int {
	return len(d.data.Values())
}

func (d dataXY) XY(i int) (x, y float64) {
	return d.data.Axes()[0].Values[i], d.data.Values()[i]
}

func axisLabel(a dataset.Axis) string {
	if a.Unit == "" {
		return a.Quantity
	}
	return fmt.Sprintf("%v / %v", a.Quantity, a.Unit)
}

//Plot creates a line plot of xy with the axis labels taken from xAxis and yAxis
func Plot(xy plotter.XYer, xAxis, yAxis dataset.Axis, opts Options) (*plot.Plot, error) {
	if xy.Len() == 0 {
		return nil, fmt.Errorf("nothing to plot")
	}
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = axisLabel(xAxis)
	p.Y.Label.Text = axisLabel(yAxis)
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xy)
	if err != nil {
		return nil, fmt.Errorf("failed creating line : %v", err)
	}
	p.Add(line)

	if opts.Reference != nil {
		reference := *opts.Reference
		referenceLine := plotter.NewFunction(func(x float64) float64 {
			return reference
		})
		referenceLine.Color = colornames.Red
		p.Add(referenceLine)
		p.Legend.Add(yAxis.Quantity, line)
		p.Legend.Add("Reference", referenceLine)
		p.Legend.Top = true
	}
	return p, nil
}

//PlotData plots one dimensional data
func PlotData(data *dataset.Data, opts Options) (*plot.Plot, error) {
	if data.NDim() != 1 {
		return nil, fmt.Errorf("can only plot one dimensional data, got %v dimensions", data.NDim())
	}
	axes := data.Axes()
	return Plot(dataXY{data}, axes[0], axes[1], opts)
}

//PlotChannel plots a channel, e.g. the microwave frequency over the field
func PlotChannel(ch *dataset.Channel, opts Options) (*plot.Plot, error) {
	return Plot(ch, ch.Axes[0], ch.Axes[1], opts)
}

//Store writes p as png to out
func Store(p *plot.Plot, opts Options, out io.Writer) error {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	writerTo, err := p.WriterTo(vg.Length(width), vg.Length(height), "png")
	if err != nil {
		return fmt.Errorf("failed to prepare plot for writing : %v", err)
	}
	if _, err := writerTo.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write plot : %v", err)
	}
	return nil
}
