// Package dashboard implements the search-and-render controller: it takes a
// company name, asks the backend for the stock, and turns the answer into a
// ViewModel plus one owned chart instance.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "stock-insights/internal/errors"
	"stock-insights/internal/logging"
	"stock-insights/internal/models"
)

// User-visible messages.
const (
	MsgEmptyQuery      = "Please enter a company name"
	MsgBackendFallback = "Failed to fetch stock data"
	MsgNetworkError    = "Network error. Please try again."
)

// Fetcher retrieves stock data for a company name.
type Fetcher interface {
	FetchStock(ctx context.Context, companyName string) (*models.StockResponse, error)
}

// Renderer receives every view-model the controller produces.
type Renderer interface {
	Render(ViewModel)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(ViewModel)

// Render calls f(vm).
func (f RenderFunc) Render(vm ViewModel) { f(vm) }

// Options configures a Controller.
type Options struct {
	Palette    Palette
	LabelEvery int
	Charts     ChartFactory // nil keeps charts as specs only
	Renderer   Renderer     // nil discards frames
	Logger     zerolog.Logger
}

// Controller owns the dashboard state and the current chart.
type Controller struct {
	fetcher    Fetcher
	renderer   Renderer
	charts     ChartFactory
	palette    Palette
	labelEvery int
	logger     zerolog.Logger

	mu    sync.Mutex
	view  ViewModel
	chart Chart
}

// New creates a Controller in the idle state.
func New(fetcher Fetcher, opts Options) *Controller {
	if opts.Palette.Positive == "" || opts.Palette.Negative == "" {
		opts.Palette = DefaultPalette()
	}
	if opts.LabelEvery < 1 {
		opts.LabelEvery = DefaultLabelEvery
	}
	if opts.Renderer == nil {
		opts.Renderer = RenderFunc(func(ViewModel) {})
	}
	return &Controller{
		fetcher:    fetcher,
		renderer:   opts.Renderer,
		charts:     opts.Charts,
		palette:    opts.Palette,
		labelEvery: opts.LabelEvery,
		logger:     opts.Logger,
		view:       newViewModel(StateIdle, ""),
	}
}

// View returns the current view-model.
func (c *Controller) View() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Chart returns the chart currently owned by the controller, if any.
func (c *Controller) Chart() Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chart
}

// CanSubmit reports whether the submit control is enabled.
func (c *Controller) CanSubmit() bool {
	return c.View().Visibility.SubmitEnabled
}

// Submit runs one search attempt and returns the settled view-model.
//
// Empty input settles in the error state without a request. A submission
// made while another is loading returns ErrSearchInProgress and changes
// nothing. Otherwise the controller passes through Loading exactly once and
// settles in either the error or the dashboard state.
func (c *Controller) Submit(ctx context.Context, rawInput string) (ViewModel, error) {
	query := strings.TrimSpace(rawInput)

	c.mu.Lock()
	if c.view.State == StateLoading {
		vm := c.view
		c.mu.Unlock()
		return vm, apperrors.ErrSearchInProgress
	}

	if query == "" {
		err := apperrors.NewValidationError("company_name", rawInput, "must not be empty", apperrors.ErrEmptyQuery)
		vm := errorView(query, err)
		c.view = vm
		c.mu.Unlock()
		c.renderer.Render(vm)
		return vm, err
	}

	loading := newViewModel(StateLoading, query)
	c.view = loading
	c.mu.Unlock()
	c.renderer.Render(loading)

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(logging.WithLogger(ctx, c.logger), requestID)
	logger := logging.WithQuery(logging.FromContext(ctx), query)
	logger.Debug().Msg("Search started")

	var (
		vm      ViewModel
		err     error
		settled bool
	)
	defer func() {
		// Leave Loading even if the fetch panicked.
		if !settled {
			c.settle(errorView(query, apperrors.ErrMalformedResponse), nil)
		}
	}()

	panel, err := c.fetch(ctx, query)
	if err != nil {
		vm = errorView(query, err)
	} else {
		vm = newViewModel(StateDashboard, query)
		vm.Panel = panel
	}

	c.settle(vm, panel)
	settled = true

	symbol := ""
	if panel != nil {
		symbol = panel.Symbol
	}
	logging.LogSearch(logger, query, vm.State.String(), symbol, err)

	return vm, err
}

// fetch performs the request and builds the full panel, so that nothing is
// shown unless every field and the chart can be rendered.
func (c *Controller) fetch(ctx context.Context, query string) (*Panel, error) {
	resp, err := c.fetcher.FetchStock(ctx, query)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, apperrors.NewTransportError("POST", "", apperrors.ErrMalformedResponse)
	}
	if !resp.Success {
		return nil, apperrors.NewBackendError(query, resp.Error)
	}

	panel, err := BuildPanel(resp, c.palette, c.labelEvery)
	if err != nil {
		return nil, apperrors.NewTransportError("POST", "", err)
	}
	return panel, nil
}

// settle leaves Loading: it swaps the chart when a panel is present,
// stores the view-model and renders it.
func (c *Controller) settle(vm ViewModel, panel *Panel) {
	c.mu.Lock()
	if panel != nil {
		c.replaceChartLocked(panel.Chart)
	}
	c.view = vm
	c.mu.Unlock()
	c.renderer.Render(vm)
}

// RenderChart destroys the owned chart and builds a new one from the series.
func (c *Controller) RenderChart(dates []string, prices []float64, currency string) ChartSpec {
	spec := BuildChartSpec(dates, prices, currency, c.palette, c.labelEvery)
	c.mu.Lock()
	c.replaceChartLocked(spec)
	c.mu.Unlock()
	return spec
}

func (c *Controller) replaceChartLocked(spec ChartSpec) {
	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
	if c.charts != nil {
		c.chart = c.charts(spec)
	}
}

// Close destroys the owned chart.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
}

func errorView(query string, err error) ViewModel {
	vm := newViewModel(StateError, query)
	vm.Error = UserMessage(err)
	return vm
}

// UserMessage maps an error to the single message shown in the banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *apperrors.ValidationError
	if apperrors.As(err, &ve) || apperrors.Is(err, apperrors.ErrEmptyQuery) {
		return MsgEmptyQuery
	}

	var be *apperrors.BackendError
	if apperrors.As(err, &be) {
		if be.Message != "" {
			return be.Message
		}
		return MsgBackendFallback
	}

	return MsgNetworkError
}
