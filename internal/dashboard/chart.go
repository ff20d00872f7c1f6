package dashboard

// Trend is the binary direction of a price series.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
)

// Default trend colors.
const (
	PositiveColor = "#48bb78"
	NegativeColor = "#f56565"
)

// DefaultLabelEvery is the x-axis label decimation step.
const DefaultLabelEvery = 5

// Palette maps trends to colors.
type Palette struct {
	Positive string
	Negative string
}

// DefaultPalette returns the stock green/red palette.
func DefaultPalette() Palette {
	return Palette{Positive: PositiveColor, Negative: NegativeColor}
}

// Color returns the color for a trend.
func (p Palette) Color(t Trend) string {
	if t == TrendNegative {
		return p.Negative
	}
	return p.Positive
}

// SeriesTrend compares the last price with the first one. A non-decreasing
// (or empty) series is positive.
func SeriesTrend(prices []float64) Trend {
	if len(prices) == 0 {
		return TrendPositive
	}
	if prices[len(prices)-1] >= prices[0] {
		return TrendPositive
	}
	return TrendNegative
}

// ChangeTrend classifies an absolute price change.
func ChangeTrend(change float64) Trend {
	if change >= 0 {
		return TrendPositive
	}
	return TrendNegative
}

// TickLabel returns the x-axis label for index, or "" for points skipped by
// decimation.
func TickLabel(labels []string, index, every int) string {
	if every < 1 {
		every = 1
	}
	if index < 0 || index >= len(labels) || index%every != 0 {
		return ""
	}
	return labels[index]
}

// ChartSpec is everything a renderer needs to draw the price chart.
type ChartSpec struct {
	Labels     []string  `json:"labels"`
	Prices     []float64 `json:"prices"`
	Currency   string    `json:"currency"`
	Trend      Trend     `json:"trend"`
	Color      string    `json:"color"`
	LabelEvery int       `json:"label_every"`
}

// BuildChartSpec derives the chart spec from a daily series.
// dates and prices must have equal length.
func BuildChartSpec(dates []string, prices []float64, currency string, palette Palette, labelEvery int) ChartSpec {
	if labelEvery < 1 {
		labelEvery = DefaultLabelEvery
	}

	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = FormatDateLabel(d)
	}

	trend := SeriesTrend(prices)
	return ChartSpec{
		Labels:     labels,
		Prices:     append([]float64(nil), prices...),
		Currency:   currency,
		Trend:      trend,
		Color:      palette.Color(trend),
		LabelEvery: labelEvery,
	}
}

// Len returns the number of points.
func (s ChartSpec) Len() int {
	return len(s.Prices)
}

// XLabel returns the decimated x-axis label at index.
func (s ChartSpec) XLabel(index int) string {
	return TickLabel(s.Labels, index, s.LabelEvery)
}

// YLabel formats a y-axis value.
func (s ChartSpec) YLabel(value float64) string {
	return FormatAxisCurrency(value, s.Currency, true)
}

// Tooltip returns the hover text for the point at index.
func (s ChartSpec) Tooltip(index int) string {
	if index < 0 || index >= len(s.Prices) {
		return ""
	}
	label := ""
	if index < len(s.Labels) {
		label = s.Labels[index] + "  "
	}
	return label + FormatTooltip(s.Prices[index], s.Currency)
}

// Bounds returns the min and max price. ok is false for an empty series.
func (s ChartSpec) Bounds() (lo, hi float64, ok bool) {
	if len(s.Prices) == 0 {
		return 0, 0, false
	}
	lo, hi = s.Prices[0], s.Prices[0]
	for _, p := range s.Prices[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi, true
}

// Chart is a live chart instance owned by the controller.
type Chart interface {
	Destroy()
}

// ChartFactory builds a chart from a spec.
type ChartFactory func(ChartSpec) Chart
