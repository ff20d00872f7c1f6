package cli

import (
	"github.com/spf13/cobra"
)

type helpEntry struct {
	cmd  string
	desc string
}

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newExamplesCmd())
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "commands",
		Short:             "List all commands by category",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, true)

			categories := []struct {
				name     string
				commands []helpEntry
			}{
				{
					name: "Lookup",
					commands: []helpEntry{
						{"search <company>", "Print a company's stock dashboard"},
						{"dashboard [company]", "Interactive search with price chart"},
					},
				},
				{
					name: "Configuration",
					commands: []helpEntry{
						{"config show", "Show current configuration"},
						{"config path", "Show configuration directory"},
						{"config validate", "Validate configuration files"},
					},
				},
				{
					name: "Help",
					commands: []helpEntry{
						{"help <command>", "Detailed help"},
						{"commands", "List all commands"},
						{"examples", "Common usage"},
						{"version", "Version information"},
					},
				},
			}

			if output.IsJSON() {
				out := map[string][]string{}
				for _, cat := range categories {
					for _, c := range cat.commands {
						out[cat.name] = append(out[cat.name], c.cmd)
					}
				}
				_ = output.JSON(out)
				return
			}

			output.Bold("Stock Insights Commands")
			output.Println()
			for _, cat := range categories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %s %s\n", PadRight(c.cmd, 24), c.desc)
				}
				output.Println()
			}
			output.Dim("Use 'insights help <command>' for detailed help on any command")
		},
	}
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "examples",
		Short:             "Show common usage examples",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, true)

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Quick Lookup",
					commands: []string{
						"insights search apple                 # Dashboard with chart",
						"insights search \"general motors\"      # Multi-word names",
						"insights search tesla --no-chart      # Figures only",
						"insights search tesla --json | jq .   # Machine-readable",
					},
				},
				{
					title: "Interactive",
					commands: []string{
						"insights dashboard                    # Empty search box",
						"insights dashboard microsoft          # Pre-filled search",
					},
				},
				{
					title: "Backend",
					commands: []string{
						"insights --backend http://host:5000 search ibm",
						"INSIGHTS_BACKEND_URL=http://host:5000 insights search ibm",
						"INSIGHTS_BACKEND_TIMEOUT=10s insights search ibm",
					},
				},
			}

			output.Bold("Common Usage Examples")
			output.Println()
			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					output.Println("  " + c)
				}
				output.Println()
			}
		},
	}
}
