// Package commands implements the importsweep cobra commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logJSON    bool
}

// NewRootCommand builds the importsweep command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(toolrun.NewExecRunner())
}

func newRootCommand(runner toolrun.Runner) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "importsweep",
		Short: "Find unused imports in JavaScript and TypeScript projects",
		Long: `importsweep detects import bindings that are never used.

It runs ESLint and ts-prune when they are installed and falls back to a
built-in lexical scan when neither reports anything.

Commands:
  scan      Scan a project and print the report
  lsp       Start a language server publishing unused-import diagnostics
  mcp       Start an MCP server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: .importsweep.yaml in root, cwd or $HOME)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(newScanCommand(opts, runner))
	rootCmd.AddCommand(newLSPCommand(opts))
	rootCmd.AddCommand(newMCPCommand(opts, runner))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
