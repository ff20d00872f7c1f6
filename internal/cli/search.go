package cli

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stock-insights/internal/chart"
	"stock-insights/internal/dashboard"
)

func newSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <company name>",
		Short: "Look up a company's stock",
		Long: `Look up a company by name and print its stock dashboard.

The backend resolves the name to a symbol and returns the latest session
figures with a daily closing price series, drawn here as a line chart.`,
		Example: `  insights search apple
  insights search "international business machines"
  insights search tesla --json
  insights search microsoft --no-chart`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			noChart, _ := cmd.Flags().GetBool("no-chart")
			if width <= 0 {
				width = app.Config.Chart.Width
			}
			if height <= 0 {
				height = app.Config.Chart.Height
			}

			r := &terminalRenderer{
				output:  output,
				spinner: NewSpinner(output, "Fetching stock data..."),
				noChart: noChart,
			}
			ctrl := app.NewController(r, width, height)
			r.ctrl = ctrl
			defer ctrl.Close()

			vm, err := ctrl.Submit(ctx, strings.Join(args, " "))
			if output.IsJSON() {
				if jerr := output.JSON(vm); jerr != nil {
					return jerr
				}
			}
			return reported(err)
		},
	}

	cmd.Flags().Int("width", 0, "chart width in columns (default from config)")
	cmd.Flags().Int("height", 0, "chart height in rows (default from config)")
	cmd.Flags().Bool("no-chart", false, "skip the price chart")

	return cmd
}

// terminalRenderer prints settled view-models as plain terminal output.
type terminalRenderer struct {
	output  *Output
	spinner *Spinner
	ctrl    *dashboard.Controller
	noChart bool
}

func (r *terminalRenderer) Render(vm dashboard.ViewModel) {
	if vm.Visibility.Spinner {
		r.spinner.Start()
		return
	}
	r.spinner.Stop()

	if r.output.IsJSON() {
		return
	}

	switch {
	case vm.Visibility.ErrorBanner:
		r.output.Error("✗ %s", vm.Error)
	case vm.Visibility.Dashboard:
		chartView := ""
		if !r.noChart && r.ctrl != nil {
			if t, ok := r.ctrl.Chart().(*chart.Terminal); ok {
				chartView = t.View()
			}
		}
		displayPanel(r.output, vm.Panel, chartView)
	}
}

// displayPanel prints the dashboard sections: company info, price, stats
// and the chart.
func displayPanel(output *Output, p *dashboard.Panel, chartView string) {
	if p == nil {
		return
	}

	output.Box(p.CompanyName, []string{
		"Symbol:   " + p.Symbol,
		"Region:   " + p.Region,
		"Currency: " + p.Currency,
	})
	output.Println()

	change := output.Hex(p.ChangeColor, p.PriceChange)
	output.Printf("  %s  %s\n", output.BoldText(p.CurrentPrice), change)
	output.Println()

	stats := [][2]string{
		{"Open", p.Open},
		{"Previous Close", p.PreviousClose},
		{"Day High", p.DayHigh},
		{"Day Low", p.DayLow},
		{"Volume", p.Volume},
	}
	for _, s := range stats {
		output.Printf("  %s %s\n", output.DimText(PadRight(s[0]+":", 16)), s[1])
	}

	if chartView != "" {
		output.Println()
		output.Bold("  Price History (%d days)", p.Chart.Len())
		output.Println(chartView)
	}
}
