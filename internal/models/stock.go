// Package models provides the wire models exchanged with the stock backend.
package models

// SearchRequest is the body of POST /stock.
type SearchRequest struct {
	CompanyName string `json:"company_name"`
}

// StockResponse is the body returned by POST /stock.
// On failure only Success and Error are set.
type StockResponse struct {
	Success     bool       `json:"success"`
	Error       string     `json:"error,omitempty"`
	CompanyName string     `json:"company_name,omitempty"`
	Symbol      string     `json:"symbol,omitempty"`
	Region      string     `json:"region,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	StockInfo   *StockInfo `json:"stock_info,omitempty"`
	ChartData   *ChartData `json:"chart_data,omitempty"`
}

// StockInfo holds the latest session figures for a symbol.
type StockInfo struct {
	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
	OpenPrice     float64 `json:"open_price"`
	HighPrice     float64 `json:"high_price"`
	LowPrice      float64 `json:"low_price"`
	Volume        float64 `json:"volume"`
}

// ChartData is a daily closing price series.
// Dates and Prices are parallel and ordered oldest first.
type ChartData struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

// Len returns the number of points in the series.
func (c *ChartData) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Prices)
}

// Consistent reports whether dates and prices line up one to one.
func (c *ChartData) Consistent() bool {
	if c == nil {
		return true
	}
	return len(c.Dates) == len(c.Prices)
}
