package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/verdict/cmd/verdict/commands"
	"github.com/teranos/verdict/logger"
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict - critic-based content evaluation",
	Long: `Verdict renders prompt templates, runs critic prompts against an LLM
provider, and aggregates the scores.

Available commands:
  serve    - Start the HTTP API server
  render   - Render a template against JSON context data
  validate - Check a template for unbalanced block tags
  critics  - List critics loaded from the critic directory
  version  - Show version information

Examples:
  verdict serve                                  # Start the API server
  verdict render prompt.tmpl --data ctx.json     # Render a template file
  verdict validate prompt.tmpl                   # Validate a template file
  verdict critics list                           # List loaded critics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.RenderCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.CriticsCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
