package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SVGRenderer renders specs to SVG with go-chart
type SVGRenderer struct {
	Width  int
	Height int
}

// NewSVGRenderer creates a renderer producing images of the given size
func NewSVGRenderer(width, height int) *SVGRenderer {
	return &SVGRenderer{Width: width, Height: height}
}

// Render draws the spec. A spec without labels yields an empty canvas.
func (r *SVGRenderer) Render(spec Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(spec.Labels) == 0 {
		return r.emptyCanvas(), nil
	}

	var buf bytes.Buffer
	var err error
	switch spec.Kind {
	case Doughnut:
		err = r.renderDoughnut(spec, &buf)
	case Bar:
		err = r.renderBar(spec, &buf)
	case Line:
		err = r.renderLine(spec, &buf)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// go-chart has no ring variant in its stable API, so doughnuts are drawn as pies
func (r *SVGRenderer) renderDoughnut(spec Spec, buf *bytes.Buffer) error {
	ds := spec.Datasets[0]
	// go-chart refuses a pie without a positive slice
	if !hasPositive(ds.Data) {
		_, err := buf.Write(r.emptyCanvas())
		return err
	}
	values := make([]gochart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		style := gochart.Style{StrokeColor: drawing.ColorWhite, StrokeWidth: 2}
		if i < len(ds.BackgroundColors) {
			style.FillColor = hexColor(ds.BackgroundColors[i])
		}
		values[i] = gochart.Value{Label: label, Value: ds.Data[i], Style: style}
	}

	pie := gochart.PieChart{
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	return pie.Render(gochart.SVG, buf)
}

func (r *SVGRenderer) renderBar(spec Spec, buf *bytes.Buffer) error {
	ds := spec.Datasets[0]
	fill := drawing.ColorBlue
	if len(ds.BackgroundColors) > 0 {
		fill = hexColor(ds.BackgroundColors[0])
	}

	bars := make([]gochart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		bars[i] = gochart.Value{
			Label: label,
			Value: ds.Data[i],
			Style: gochart.Style{FillColor: fill, StrokeColor: fill},
		}
	}

	bc := gochart.BarChart{
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: r.barWidth(len(bars)),
		Bars:     bars,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: upperBound(ds.Data)},
		},
	}
	return bc.Render(gochart.SVG, buf)
}

func (r *SVGRenderer) renderLine(spec Spec, buf *bytes.Buffer) error {
	n := len(spec.Labels)
	ticks := make([]gochart.Tick, n)
	for i, label := range spec.Labels {
		ticks[i] = gochart.Tick{Value: float64(i), Label: label}
	}
	// go-chart derives the x-range from the ticks and rejects a zero-width range
	if n == 1 {
		ticks = append(ticks, gochart.Tick{Value: 1, Label: ""})
	}
	xMax := float64(len(ticks) - 1)

	var series []gochart.Series
	yMax := 1.0
	for _, ds := range spec.Datasets {
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := range ds.Data {
			xs[i] = float64(i)
			ys[i] = ds.Data[i]
		}
		// go-chart needs two points to draw a segment
		if n == 1 {
			xs = append(xs, 1)
			ys = append(ys, ys[0])
		}
		xs, ys = smooth(xs, ys, ds.Tension)
		yMax = math.Max(yMax, upperBound(ys))

		style := gochart.Style{StrokeColor: hexColor(ds.BorderColor), StrokeWidth: 2}
		if ds.Fill {
			style.FillColor = hexColor(ds.BorderColor).WithAlpha(64)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	ch := gochart.Chart{
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}
	if spec.ShowLegend {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch.Render(gochart.SVG, buf)
}

func (r *SVGRenderer) barWidth(n int) int {
	w := r.Width / (2 * n)
	if w > 60 {
		w = 60
	}
	if w < 4 {
		w = 4
	}
	return w
}

func (r *SVGRenderer) emptyCanvas() []byte {
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"></svg>`, r.Width, r.Height))
}

// upperBound keeps the value axis non-degenerate when every value is zero
func upperBound(values []float64) float64 {
	max := 1.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

func hasPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
