package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for procgen.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "procgen",
		Short: "Generate aggregator process configuration from crawled subscriptions",
		Long: `procgen builds the process configuration of the subscription aggregator.

It reads the crawler output (default data/crawledsubs.yaml), extracts every
http(s) subscription URL, randomly keeps at most --limit of them and writes a
JSON configuration that pushes the merged result to the gist named by the
GIST_LINK environment variable ("<owner>/<gist-id>").

Running procgen without a subcommand is the same as "procgen generate".`,
		Args:          cobra.NoArgs,
		RunE:          runGenerateCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addGenerateFlags(cmd.Flags())

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
