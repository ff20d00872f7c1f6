// Package cli provides the command-line interface for the stock dashboard.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stock-insights/internal/chart"
	"stock-insights/internal/client"
	"stock-insights/internal/config"
	"stock-insights/internal/dashboard"
	"stock-insights/internal/logging"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Client *client.Client
}

// Palette returns the configured trend colors.
func (a *App) Palette() dashboard.Palette {
	return dashboard.Palette{
		Positive: a.Config.UI.PositiveColor,
		Negative: a.Config.UI.NegativeColor,
	}
}

// NewController wires a controller to the backend client and a terminal
// chart factory of the given size.
func (a *App) NewController(renderer dashboard.Renderer, width, height int) *dashboard.Controller {
	return dashboard.New(a.Client, dashboard.Options{
		Palette:    a.Palette(),
		LabelEvery: a.Config.Chart.LabelEvery,
		Charts:     chart.Factory(width, height),
		Renderer:   renderer,
		Logger:     a.Logger,
	})
}

// reportedError marks an error that has already been shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "insights",
		Short: "Stock Insights - look up a company's stock from the terminal",
		Long: `Stock Insights looks up a company by name through a stock backend and shows
its latest price, day range, volume and a 30 day price chart.

Use 'insights search <company>' for a one-shot lookup or 'insights dashboard'
for the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stock-insights)")
	rootCmd.PersistentFlags().String("backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newSearchCmd(app))
	rootCmd.AddCommand(newDashboardCmd(app))
	addHelpCommands(rootCmd)

	return rootCmd
}

// setup loads configuration and builds the logger and backend client.
func (a *App) setup(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend.URL = backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logCfg := logging.FromConfig(cfg.Logging)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}
	a.Config = cfg
	a.Logger = logging.NewLoggerWithConfig(logCfg).With().Str("component", cmd.Name()).Logger()
	a.Client = client.New(client.Config{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
	}, a.Logger)

	a.Logger.Debug().
		Str("backend", a.Client.Endpoint()).
		Str("config", cfg.Source).
		Msg("Application initialized")
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var re *reportedError
		if !errors.As(err, &re) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/insights.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, true)
			if output.IsJSON() {
				_ = output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Stock Insights v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, false)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				_ = output.JSON(map[string]string{"path": dir})
			} else {
				output.Println(dir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load already validated; reaching here means the file is valid.
			output := NewOutput(cmd, app.Config.UI.ColorEnabled)
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Backend")
	output.Printf("  URL:        %s\n", cfg.Backend.URL)
	output.Printf("  Timeout:    %s\n", cfg.Backend.Timeout)
	output.Printf("  User agent: %s\n", cfg.Backend.UserAgent)
	output.Println()

	output.Bold("Display")
	output.Printf("  Color:      %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Positive:   %s\n", output.Hex(cfg.UI.PositiveColor, cfg.UI.PositiveColor))
	output.Printf("  Negative:   %s\n", output.Hex(cfg.UI.NegativeColor, cfg.UI.NegativeColor))
	output.Printf("  Chart:      %dx%d, label every %d\n", cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.LabelEvery)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:      %s\n", cfg.Logging.Level)
	output.Printf("  File:       %v (%s)\n", cfg.Logging.File, logging.FromConfig(cfg.Logging).FilePath)

	if cfg.Source != "" {
		output.Println()
		output.Dim("Loaded from %s", cfg.Source)
	}
}
