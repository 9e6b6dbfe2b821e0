package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/procgen/internal/config"
	"github.com/nao1215/procgen/internal/document"
	"github.com/nao1215/procgen/internal/extract"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the subscription URLs found in the crawled document",
		Long: `Extract prints every unique http(s) subscription URL of the crawled
document, one per line, in the order they appear. No sampling is applied and
nothing is written.

Examples:
  procgen extract
  procgen extract -i crawled.yaml | wc -l`,
		Args: cobra.NoArgs,
		RunE: runExtractCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultInputPath,
		"Crawled subscription document (YAML)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	if input == "" {
		return config.ErrEmptyInputPath
	}

	doc, err := document.Load(input)
	if err != nil {
		return err
	}

	urls := extract.URLs(doc)
	if len(urls) == 0 {
		return fmt.Errorf("%w: %s", config.ErrEmptyExtraction, input)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(urls, "\n"))
	return err
}
