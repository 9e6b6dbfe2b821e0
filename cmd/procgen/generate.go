package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/procgen/internal/config"
	"github.com/nao1215/procgen/internal/database"
	"github.com/nao1215/procgen/internal/log"
	"github.com/nao1215/procgen/internal/model"
	"github.com/nao1215/procgen/internal/pipeline"
	"github.com/nao1215/procgen/internal/report"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the aggregator process configuration",
		Long: `Generate reads the crawled subscription document, extracts every http(s)
subscription URL, keeps a random sample of at most --limit of them and writes
the aggregator configuration as JSON.

The destination gist is read from the environment variable named by --env-var
(default GIST_LINK) and must have the form "<owner>/<gist-id>". Variables from
--env-file (default .env) are loaded once the input has been read; variables
already set win.

The output file is replaced only after the whole configuration has been
built, so a failed run never leaves a partial or empty file behind.

Examples:
  # Use the defaults
  GIST_LINK=alice/0123abcd procgen generate

  # Custom paths and a reproducible sample of 5 URLs
  procgen generate -i crawled.yaml -o process.json -n 5 --seed 42

  # Print a Markdown summary and record the run
  procgen generate --summary --history`,
		Args: cobra.NoArgs,
		RunE: runGenerateCmd,
	}

	addGenerateFlags(cmd.Flags())

	return cmd
}

// addGenerateFlags registers the generate flags on fs. The root command
// shares them so that a bare "procgen" runs a generation.
func addGenerateFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", config.DefaultInputPath,
		"Crawled subscription document (YAML)")
	fs.StringP("output", "o", config.DefaultOutputPath,
		"Path of the generated configuration")
	fs.IntP("limit", "n", config.DefaultSampleLimit,
		"Maximum number of subscription URLs to use")
	fs.Uint64("seed", 0,
		"Seed for reproducible sampling (0 = random)")
	fs.String("env-var", config.DefaultDestinationEnv,
		"Environment variable holding <owner>/<gist-id>")
	fs.String("env-file", config.DefaultEnvFile,
		"Dotenv file loaded before reading the environment (ignored if missing)")
	fs.StringP("config", "c", "",
		"Settings file path (default: .procgen in current directory, XDG config dir, or home)")
	fs.Bool("summary", false,
		"Print a Markdown summary of the run")
	fs.Bool("history", false,
		"Record the run in the history database")
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := generate(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if _, err := report.NewSimpleWriter(cmd.OutOrStdout()).Write(run); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}

	if cfg.Summary {
		fmt.Fprintln(cmd.OutOrStdout())
		if _, err := report.NewMarkdownWriter(cmd.OutOrStdout()).Write(run); err != nil {
			return fmt.Errorf("failed to print summary: %w", err)
		}
	}

	if cfg.SaveHistory {
		if err := saveRun(ctx, cfg.HistoryDir, run); err != nil {
			// History failures do not fail the run.
			logger.Warn("failed to record run", "run", run.ID, "error", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: run was not recorded: %v\n", err)
		}
	}

	return nil
}

// generate executes the default pipeline for cfg.
func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.Run, error) {
	run := model.NewRun(uuid.NewString(), cfg.InputPath, cfg.OutputPath)

	logger.Info("starting generation",
		"run", run.ID,
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"limit", cfg.SampleLimit,
		"envVar", cfg.DestinationEnv,
	)

	p := pipeline.DefaultPipeline(
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineSampleLimit(cfg.SampleLimit),
		pipeline.WithPipelineSeed(cfg.Seed),
		pipeline.WithPipelineDestinationEnv(cfg.DestinationEnv),
		pipeline.WithPipelineEnvFile(cfg.EnvFile),
	)

	if err := p.Execute(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// saveRun stores run in the history database under dir.
func saveRun(ctx context.Context, dir string, run *model.Run) error {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SaveRun(ctx, run)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadSettings applies the settings file, if any, to cfg.
// An explicitly named file must exist; the search locations are optional.
func loadSettings(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	settings, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ApplySettings(settings)
	return nil
}

// buildConfig creates a Config from defaults, the settings file and flags,
// in increasing priority. Only flags set on the command line override the
// settings file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadSettings(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		if cfg.InputPath, err = flags.GetString("input"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("limit") {
		if cfg.SampleLimit, err = flags.GetInt("limit"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		if cfg.Seed, err = flags.GetUint64("seed"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("env-var") {
		if cfg.DestinationEnv, err = flags.GetString("env-var"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("env-file") {
		if cfg.EnvFile, err = flags.GetString("env-file"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("summary") {
		if cfg.Summary, err = flags.GetBool("summary"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("history") {
		if cfg.SaveHistory, err = flags.GetBool("history"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
