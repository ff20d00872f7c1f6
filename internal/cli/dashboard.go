package cli

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stock-insights/internal/dashboard"
	"stock-insights/internal/tui"
)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard [company name]",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the full-screen dashboard. Type a company name and press Enter to
search; press Tab to inspect the price chart point by point.`,
		Example: `  insights dashboard
  insights dashboard apple`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			if width <= 0 {
				width = app.Config.Chart.Width
			}
			if height <= 0 {
				height = app.Config.Chart.Height
			}

			app.Logger.Info().Msg("Starting dashboard")
			return tui.Run(ctx, func(r dashboard.Renderer) *dashboard.Controller {
				return app.NewController(r, width, height)
			}, strings.Join(args, " "))
		},
	}

	cmd.Flags().Int("width", 0, "chart width in columns (default from config)")
	cmd.Flags().Int("height", 0, "chart height in rows (default from config)")

	return cmd
}
