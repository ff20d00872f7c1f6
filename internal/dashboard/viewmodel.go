package dashboard

import (
	"fmt"
	"math"

	apperrors "stock-insights/internal/errors"
	"stock-insights/internal/models"
)

// ViewModel is the complete render input for one frame of the dashboard.
type ViewModel struct {
	State      State      `json:"state"`
	Query      string     `json:"query,omitempty"`
	Error      string     `json:"error,omitempty"`
	Panel      *Panel     `json:"dashboard,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// Panel holds the formatted dashboard fields.
type Panel struct {
	CompanyName string `json:"company_name"`
	Symbol      string `json:"symbol"`
	Region      string `json:"region"`
	Currency    string `json:"currency"`

	CurrentPrice  string   `json:"current_price"`
	PriceChange   string   `json:"price_change"`
	ChangeTrend   Trend    `json:"change_trend"`
	ChangeColor   string   `json:"change_color"`
	Change        float64  `json:"change"`
	ChangePercent *float64 `json:"change_percent"`

	Open          string `json:"open"`
	PreviousClose string `json:"previous_close"`
	DayHigh       string `json:"day_high"`
	DayLow        string `json:"day_low"`
	Volume        string `json:"volume"`

	Chart ChartSpec `json:"chart"`
}

func newViewModel(state State, query string) ViewModel {
	return ViewModel{
		State:      state,
		Query:      query,
		Visibility: state.Visibility(),
	}
}

// PriceChange returns the absolute and percent change from the previous
// close. percent is nil when it is undefined: a zero previous close, or
// one so small that the ratio overflows.
func PriceChange(current, previousClose float64) (change float64, percent *float64) {
	change = current - previousClose
	if previousClose == 0 {
		return change, nil
	}
	p := change / previousClose * 100
	if !finite(p) {
		return change, nil
	}
	return change, &p
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// BuildPanel formats a successful response. It fails with
// ErrMalformedResponse when the payload cannot be rendered in full.
func BuildPanel(resp *models.StockResponse, palette Palette, labelEvery int) (*Panel, error) {
	if resp == nil || !resp.Success {
		return nil, fmt.Errorf("%w: not a success response", apperrors.ErrMalformedResponse)
	}
	if resp.StockInfo == nil {
		return nil, fmt.Errorf("%w: missing stock_info", apperrors.ErrMalformedResponse)
	}
	if !resp.ChartData.Consistent() {
		return nil, fmt.Errorf("%w: %d dates for %d prices", apperrors.ErrMalformedResponse,
			len(resp.ChartData.Dates), len(resp.ChartData.Prices))
	}

	info := resp.StockInfo
	if !finite(info.CurrentPrice, info.PreviousClose, info.OpenPrice, info.HighPrice, info.LowPrice, info.Volume) {
		return nil, fmt.Errorf("%w: non-finite stock_info", apperrors.ErrMalformedResponse)
	}
	if resp.ChartData != nil && !finite(resp.ChartData.Prices...) {
		return nil, fmt.Errorf("%w: non-finite chart price", apperrors.ErrMalformedResponse)
	}

	cur := resp.Currency
	change, percent := PriceChange(info.CurrentPrice, info.PreviousClose)
	if !finite(change) {
		return nil, fmt.Errorf("%w: price change overflows", apperrors.ErrMalformedResponse)
	}

	var dates []string
	var prices []float64
	if resp.ChartData != nil {
		dates, prices = resp.ChartData.Dates, resp.ChartData.Prices
	}

	return &Panel{
		CompanyName:   resp.CompanyName,
		Symbol:        resp.Symbol,
		Region:        resp.Region,
		Currency:      cur,
		CurrentPrice:  FormatCurrency(info.CurrentPrice, cur),
		PriceChange:   FormatPriceChange(change, percent),
		ChangeTrend:   ChangeTrend(change),
		ChangeColor:   palette.Color(ChangeTrend(change)),
		Change:        change,
		ChangePercent: percent,
		Open:          FormatCurrency(info.OpenPrice, cur),
		PreviousClose: FormatCurrency(info.PreviousClose, cur),
		DayHigh:       FormatCurrency(info.HighPrice, cur),
		DayLow:        FormatCurrency(info.LowPrice, cur),
		Volume:        FormatCompact(info.Volume),
		Chart:         BuildChartSpec(dates, prices, cur, palette, labelEvery),
	}, nil
}
