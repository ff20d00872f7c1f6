// Package chart draws dashboard price series as terminal line charts.
package chart

import (
	"math"
	"sync"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"stock-insights/internal/dashboard"
)

// Minimum drawable size.
const (
	MinWidth  = 20
	MinHeight = 5
)

// Terminal is a rendered line chart. It implements dashboard.Chart.
type Terminal struct {
	mu        sync.Mutex
	spec      dashboard.ChartSpec
	model     *linechart.Model
	width     int
	height    int
	destroyed bool
}

// Factory returns a dashboard.ChartFactory producing charts of the given size.
func Factory(width, height int) dashboard.ChartFactory {
	return func(spec dashboard.ChartSpec) dashboard.Chart {
		return New(spec, width, height)
	}
}

// New draws spec into a width x height chart.
func New(spec dashboard.ChartSpec, width, height int) *Terminal {
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}

	t := &Terminal{spec: spec, width: width, height: height}
	t.model = draw(spec, width, height)
	return t
}

// draw builds the linechart. It returns nil for an empty series.
func draw(spec dashboard.ChartSpec, width, height int) *linechart.Model {
	lo, hi, ok := spec.Bounds()
	if !ok {
		return nil
	}

	margin := (hi - lo) * 0.05
	if margin == 0 {
		margin = math.Max(math.Abs(hi)*0.01, 1)
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Color))

	// Set once the graph width is known; labels are drawn after that.
	var increment float64
	xLabel := func(_ int, value float64) string {
		idx, ok := tickIndex(value, increment, labelEvery(spec), spec.Len())
		if !ok {
			return ""
		}
		return spec.XLabel(idx)
	}
	yLabel := func(_ int, value float64) string {
		return spec.YLabel(value)
	}

	maxX := float64(spec.Len() - 1)
	if maxX < 1 {
		maxX = 1
	}

	lc := linechart.New(width, height,
		0, maxX,
		lo-margin, hi+margin,
		linechart.WithXYSteps(1, 4),
		linechart.WithXLabelFormatter(xLabel),
		linechart.WithYLabelFormatter(yLabel),
		linechart.WithStyles(lipgloss.Style{}, lipgloss.Style{}, style),
	)

	if spec.Len() == 1 {
		p := canvas.Float64Point{X: 0, Y: spec.Prices[0]}
		lc.DrawBrailleLineWithStyle(p, canvas.Float64Point{X: maxX, Y: spec.Prices[0]}, style)
	}
	for i := 0; i < spec.Len()-1; i++ {
		p1 := canvas.Float64Point{X: float64(i), Y: spec.Prices[i]}
		p2 := canvas.Float64Point{X: float64(i + 1), Y: spec.Prices[i+1]}
		lc.DrawBrailleLineWithStyle(p1, p2, style)
	}

	increment = maxX / float64(max(lc.GraphWidth(), 1))
	lc.DrawXYAxisAndLabel()
	return &lc
}

func labelEvery(spec dashboard.ChartSpec) int {
	if spec.LabelEvery < 1 {
		return dashboard.DefaultLabelEvery
	}
	return spec.LabelEvery
}

// tickIndex maps an x-axis column to the data index it labels. A column
// holding value covers (value-increment, value]; it labels the first
// multiple of every inside that span, so each labelled index lands on
// exactly one column.
func tickIndex(value, increment float64, every, n int) (int, bool) {
	const eps = 1e-9
	if every < 1 {
		every = 1
	}
	step := float64(every)
	idx := int(math.Ceil((value-increment+eps)/step)) * every
	if idx < 0 {
		idx = 0
	}
	if float64(idx) > value+eps || idx >= n {
		return 0, false
	}
	return idx, true
}

// Spec returns the spec the chart was drawn from.
func (t *Terminal) Spec() dashboard.ChartSpec {
	return t.spec
}

// View renders the chart, or "" after Destroy or for an empty series.
func (t *Terminal) View() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || t.model == nil {
		return ""
	}
	return t.model.View()
}

// Tooltip returns the hover text for the point at index.
func (t *Terminal) Tooltip(index int) string {
	return t.spec.Tooltip(index)
}

// Destroyed reports whether Destroy has been called.
func (t *Terminal) Destroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

// Destroy releases the drawing. Calling it twice is a no-op.
func (t *Terminal) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
	t.model = nil
}
