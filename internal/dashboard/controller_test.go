package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stock-insights/internal/errors"
	"stock-insights/internal/models"
)

// fakeFetcher returns canned answers and counts calls.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	resp  *models.StockResponse
	err   error
	block chan struct{}
	start chan struct{}
}

func (f *fakeFetcher) FetchStock(ctx context.Context, companyName string) (*models.StockResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, companyName)
	f.mu.Unlock()

	if f.start != nil {
		f.start <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeChart records destruction.
type fakeChart struct {
	spec      ChartSpec
	destroyed int
}

func (c *fakeChart) Destroy() { c.destroyed++ }

// recorder keeps every rendered frame.
type recorder struct {
	mu     sync.Mutex
	frames []ViewModel
}

func (r *recorder) Render(vm ViewModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, vm)
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.frames))
	for i, f := range r.frames {
		out[i] = f.State
	}
	return out
}

func newTestController(f Fetcher) (*Controller, *recorder, *[]*fakeChart) {
	rec := &recorder{}
	var charts []*fakeChart
	c := New(f, Options{
		Renderer: rec,
		Logger:   zerolog.Nop(),
		Charts: func(spec ChartSpec) Chart {
			ch := &fakeChart{spec: spec}
			charts = append(charts, ch)
			return ch
		},
	})
	return c, rec, &charts
}

func TestSubmitEmptyInputNeverFetches(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		f := &fakeFetcher{resp: sampleResponse()}
		c, rec, _ := newTestController(f)

		vm, err := c.Submit(context.Background(), input)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrEmptyQuery))
		assert.Equal(t, 0, f.callCount())
		assert.Equal(t, StateError, vm.State)
		assert.Equal(t, MsgEmptyQuery, vm.Error)
		assert.Equal(t, []State{StateError}, rec.states(), "no loading frame for invalid input")
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := &fakeFetcher{resp: sampleResponse()}
	c, rec, charts := newTestController(f)

	vm, err := c.Submit(context.Background(), "  Apple  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Apple"}, f.calls)
	assert.Equal(t, StateDashboard, vm.State)
	assert.Equal(t, "Apple", vm.Query)
	require.NotNil(t, vm.Panel)
	assert.Equal(t, "AAPL", vm.Panel.Symbol)
	assert.Empty(t, vm.Error)

	assert.Equal(t, []State{StateLoading, StateDashboard}, rec.states())
	require.Len(t, *charts, 1)
	assert.Same(t, (*charts)[0], c.Chart())
	assert.Equal(t, vm, c.View())
}

func TestSubmitBackendError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"with message", "Company not found. Please try a different name.", "Company not found. Please try a different name."},
		{"without message", "", MsgBackendFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{resp: &models.StockResponse{Success: false, Error: tt.message}}
			c, rec, charts := newTestController(f)

			vm, err := c.Submit(context.Background(), "Nope")

			var be *apperrors.BackendError
			require.True(t, apperrors.As(err, &be))
			assert.Equal(t, StateError, vm.State)
			assert.Equal(t, tt.want, vm.Error)
			assert.Nil(t, vm.Panel)
			assert.Empty(t, *charts)
			assert.Equal(t, []State{StateLoading, StateError}, rec.states())
		})
	}
}

func TestSubmitTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeFetcher
	}{
		{"network", &fakeFetcher{err: apperrors.NewTransportError("POST", "/stock", errors.New("connection refused"))}},
		{"plain error", &fakeFetcher{err: context.DeadlineExceeded}},
		{"nil response", &fakeFetcher{}},
		{"mismatched series", &fakeFetcher{resp: func() *models.StockResponse {
			r := sampleResponse()
			r.ChartData.Prices = r.ChartData.Prices[:1]
			return r
		}()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, charts := newTestController(tt.f)

			vm, err := c.Submit(context.Background(), "Apple")

			require.Error(t, err)
			assert.Equal(t, StateError, vm.State)
			assert.Equal(t, MsgNetworkError, vm.Error)
			assert.Nil(t, vm.Panel, "no partial dashboard")
			assert.Empty(t, *charts, "no chart for a failed render")
			assert.Equal(t, []State{StateLoading, StateError}, rec.states())
		})
	}
}

func TestChartReplacedOnEverySuccess(t *testing.T) {
	f := &fakeFetcher{resp: sampleResponse()}
	c, _, charts := newTestController(f)

	for i := 0; i < 3; i++ {
		_, err := c.Submit(context.Background(), "Apple")
		require.NoError(t, err)
	}

	require.Len(t, *charts, 3)
	assert.Equal(t, 1, (*charts)[0].destroyed)
	assert.Equal(t, 1, (*charts)[1].destroyed)
	assert.Equal(t, 0, (*charts)[2].destroyed)
	assert.Same(t, (*charts)[2], c.Chart())

	// A failed search keeps the last chart.
	f.resp = &models.StockResponse{Success: false}
	_, _ = c.Submit(context.Background(), "Apple")
	assert.Same(t, (*charts)[2], c.Chart())

	c.Close()
	assert.Equal(t, 1, (*charts)[2].destroyed)
	assert.Nil(t, c.Chart())
}

func TestRenderChartDestroysPrevious(t *testing.T) {
	c, _, charts := newTestController(&fakeFetcher{})

	spec := c.RenderChart([]string{"2024-01-01", "2024-01-02", "2024-01-03"}, []float64{100, 105, 98}, "USD")
	assert.Equal(t, TrendNegative, spec.Trend)

	c.RenderChart([]string{"2024-01-01", "2024-01-02", "2024-01-03"}, []float64{100, 95, 110}, "USD")

	require.Len(t, *charts, 2)
	assert.Equal(t, 1, (*charts)[0].destroyed)
	assert.Equal(t, TrendPositive, (*charts)[1].spec.Trend)
}

func TestSecondSubmitRejectedWhileLoading(t *testing.T) {
	f := &fakeFetcher{
		resp:  sampleResponse(),
		block: make(chan struct{}),
		start: make(chan struct{}),
	}
	c, rec, _ := newTestController(f)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "Apple")
		done <- err
	}()

	<-f.start
	assert.False(t, c.CanSubmit())
	assert.True(t, c.View().Visibility.Spinner)

	vm, err := c.Submit(context.Background(), "Microsoft")
	assert.ErrorIs(t, err, apperrors.ErrSearchInProgress)
	assert.Equal(t, StateLoading, vm.State)

	_, err = c.Submit(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrSearchInProgress, "disabled control ignores empty input too")

	close(f.block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first search did not settle")
	}

	assert.Equal(t, 1, f.callCount())
	assert.True(t, c.CanSubmit())
	assert.Equal(t, []State{StateLoading, StateDashboard}, rec.states())
}

func TestSubmitSubnormalPreviousCloseSettles(t *testing.T) {
	resp := sampleResponse()
	resp.StockInfo.CurrentPrice = 1
	resp.StockInfo.PreviousClose = 1e-310
	c, rec, _ := newTestController(&fakeFetcher{resp: resp})

	var vm ViewModel
	var err error
	require.NotPanics(t, func() {
		vm, err = c.Submit(context.Background(), "Tiny Corp")
	})
	require.NoError(t, err)

	assert.Equal(t, StateDashboard, vm.State)
	assert.Equal(t, "+1.00 (n/a)", vm.Panel.PriceChange)
	assert.Equal(t, []State{StateLoading, StateDashboard}, rec.states())
}

type panicFetcher struct{}

func (panicFetcher) FetchStock(context.Context, string) (*models.StockResponse, error) {
	panic("boom")
}

func TestLoadingClearedWhenFetchPanics(t *testing.T) {
	c, rec, _ := newTestController(panicFetcher{})

	assert.Panics(t, func() {
		_, _ = c.Submit(context.Background(), "Apple")
	})

	assert.Equal(t, StateError, c.View().State)
	assert.True(t, c.CanSubmit())
	assert.Equal(t, []State{StateLoading, StateError}, rec.states())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, MsgEmptyQuery, UserMessage(apperrors.ErrEmptyQuery))
	assert.Equal(t, "nope", UserMessage(apperrors.NewBackendError("x", "nope")))
	assert.Equal(t, MsgBackendFallback, UserMessage(apperrors.NewBackendError("x", "")))
	assert.Equal(t, MsgNetworkError, UserMessage(errors.New("dial tcp: refused")))
}

// Property: after any outcome exactly one of error banner and dashboard is
// visible, the spinner is hidden and submit is enabled again.
func TestPropertySettledVisibility(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	outcomes := []func() *fakeFetcher{
		func() *fakeFetcher { return &fakeFetcher{resp: sampleResponse()} },
		func() *fakeFetcher { return &fakeFetcher{resp: &models.StockResponse{Success: false, Error: "x"}} },
		func() *fakeFetcher { return &fakeFetcher{err: errors.New("refused")} },
	}

	properties.Property("settled state shows exactly one region", prop.ForAll(
		func(outcome int, input string) bool {
			c, _, _ := newTestController(outcomes[outcome]())
			vm, _ := c.Submit(context.Background(), input)
			v := vm.Visibility

			if !vm.State.Settled() || v.Spinner || !v.SubmitEnabled {
				return false
			}
			return v.ErrorBanner != v.Dashboard
		},
		gen.IntRange(0, len(outcomes)-1),
		gen.OneConstOf("", " ", "Apple", "  Tesla ", "IBM"),
	))

	properties.TestingRun(t)
}

func TestStateVisibility(t *testing.T) {
	assert.Equal(t, Visibility{SubmitEnabled: true}, StateIdle.Visibility())
	assert.Equal(t, Visibility{Spinner: true}, StateLoading.Visibility())
	assert.Equal(t, Visibility{ErrorBanner: true, SubmitEnabled: true}, StateError.Visibility())
	assert.Equal(t, Visibility{Dashboard: true, SubmitEnabled: true}, StateDashboard.Visibility())
	assert.Equal(t, "loading", StateLoading.String())
	assert.False(t, StateLoading.Settled())
}
