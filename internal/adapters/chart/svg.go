// Package chart renders bar charts to SVG on the server with go-chart.
package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/okian/courtside/internal/domain/view"
)

const (
	defaultHeight = 400
	barSpacing    = 12
	minBarWidth   = 8
	maxBarWidth   = 60
	sideMargin    = 120
)

// Renderer draws view.BarChart values.
type Renderer struct {
	width  int
	height int
}

// New returns a Renderer with the default canvas size.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: view.ChartWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SVG writes c to w. An empty chart renders a placeholder with the title
// and a no-data notice, since go-chart refuses to draw zero bars.
func (r *Renderer) SVG(w io.Writer, c view.BarChart) error {
	if c.Empty() {
		return r.placeholder(w, c.Title)
	}

	barWidth, width := r.layout(len(c.Bars))
	bars := make([]gochart.Value, 0, len(c.Bars))
	maxValue := 0.0
	for _, b := range c.Bars {
		bars = append(bars, gochart.Value{Label: b.Label, Value: b.Value})
		maxValue = math.Max(maxValue, b.Value)
	}

	bc := gochart.BarChart{
		Title:      c.Title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:      width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis:      gochart.Style{FontSize: 9},
		YAxis: gochart.YAxis{
			Name: c.ValueField,
			// An explicit range avoids go-chart's zero-delta failure when
			// every bar has the same height.
			Range:          &gochart.ContinuousRange{Min: 0, Max: yMax(maxValue)},
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, c.Title, err)
	}
	return nil
}

// layout picks a bar width and widens the canvas when many bars would not
// fit at the minimum width.
func (r *Renderer) layout(n int) (barWidth, width int) {
	usable := r.width - sideMargin
	barWidth = usable/n - barSpacing
	switch {
	case barWidth > maxBarWidth:
		barWidth = maxBarWidth
	case barWidth < minBarWidth:
		barWidth = minBarWidth
	}
	width = r.width
	if need := n*(barWidth+barSpacing) + sideMargin; need > width {
		width = need
	}
	return barWidth, width
}

func yMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return math.Ceil(v + v/10)
}

func countFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}

func (r *Renderer) placeholder(w io.Writer, title string) error {
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("%w: font: %w", ErrRender, err)
	}
	rr, err := gochart.SVG(r.width, r.height/4)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	rr.SetFont(font)
	rr.SetFontColor(gochart.ColorBlack)
	rr.SetFontSize(14)
	rr.Text(title, 10, 24)
	rr.SetFontColor(gochart.ColorAlternateGray)
	rr.SetFontSize(12)
	rr.Text("No results.", 10, 52)
	if err := rr.Save(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
