package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/procgen/internal/config"
	"github.com/nao1215/procgen/internal/database"
)

// shortIDLength is the run id prefix shown in listings.
const shortIDLength = 8

// historyTimeFormat formats run timestamps in listings.
const historyTimeFormat = "2006-01-02 15:04:05"

// errRunNotFound is returned by --show for an unknown id.
var errRunNotFound = errors.New("run not found")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Long: `History lists the runs recorded with "procgen generate --history",
newest first. Use --show with a run id (or a unique prefix of it) to print the
configuration that run wrote.

Examples:
  procgen history
  procgen history --markdown -n 5
  procgen history --show 3f2a9c1e > generated-process.json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().String("show", "",
		"Print the configuration written by the given run id")
	cmd.Flags().BoolP("markdown", "m", false,
		"List runs as a Markdown table")
	cmd.Flags().String("dir", "",
		"History database directory (default: XDG data dir or settings file)")
	cmd.Flags().StringP("config", "c", "",
		"Settings file path")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dir, err := historyDir(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(dir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	showID, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}
	if showID != "" {
		rec, err := db.GetRun(ctx, showID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: %s", errRunNotFound, showID)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), rec.ConfigJSON)
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	records, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	if asMarkdown {
		return writeHistoryMarkdown(cmd.OutOrStdout(), records)
	}
	return writeHistoryTable(cmd.OutOrStdout(), records)
}

// historyDir resolves the database directory: --dir, then the settings
// file, then the XDG data directory.
func historyDir(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("dir") {
		return cmd.Flags().GetString("dir")
	}

	cfg := config.NewConfig()
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if err := loadSettings(cfg); err != nil {
		return "", err
	}
	return cfg.HistoryDir, nil
}

// historyRows converts records into table rows.
func historyRows(records []database.RunRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		id := rec.ID
		if len(id) > shortIDLength {
			id = id[:shortIDLength]
		}
		rows = append(rows, []string{
			id,
			rec.Timestamp.Local().Format(historyTimeFormat),
			rec.Destination,
			strconv.Itoa(rec.Selected) + "/" + strconv.Itoa(rec.Discovered),
			rec.OutputPath,
		})
	}
	return rows
}

var historyHeader = []string{"ID", "Time", "Destination", "Used", "Output"}

// writeHistoryTable prints records as aligned plain text.
func writeHistoryTable(w io.Writer, records []database.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range append([][]string{historyHeader}, historyRows(records)...) {
		for i, col := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, col)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// writeHistoryMarkdown prints records as a Markdown table.
func writeHistoryMarkdown(w io.Writer, records []database.RunRecord) error {
	md := markdown.NewMarkdown(w)
	md.H1("procgen History")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: historyHeader,
		Rows:   historyRows(records),
	})
	return md.Build()
}
