package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/nao1215/procgen/internal/assemble"
	"github.com/nao1215/procgen/internal/config"
	"github.com/nao1215/procgen/internal/document"
	"github.com/nao1215/procgen/internal/extract"
	"github.com/nao1215/procgen/internal/model"
	"github.com/nao1215/procgen/internal/report"
	"github.com/nao1215/procgen/internal/sample"
)

// Step names, in default execution order.
const (
	StepLoad        = "load"
	StepExtract     = "extract"
	StepSample      = "sample"
	StepDestination = "destination"
	StepAssemble    = "assemble"
	StepWrite       = "write"
)

// OutputFileMode is the permission of the written configuration file.
const OutputFileMode os.FileMode = 0o644

// LoadStep decodes the crawled document at run.InputPath.
type LoadStep struct {
	logger *slog.Logger
}

// NewLoadStep creates a LoadStep.
func NewLoadStep(logger *slog.Logger) *LoadStep {
	return &LoadStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do loads and parses the input document.
func (s *LoadStep) Do(_ context.Context, run *model.Run) error {
	doc, err := document.Load(run.InputPath)
	if err != nil {
		return err
	}
	run.Document = doc
	s.logger.Debug("loaded input", "path", run.InputPath, "kind", doc.Kind.String())
	return nil
}

// ExtractStep collects the subscription URLs of the loaded document.
type ExtractStep struct {
	logger *slog.Logger
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(logger *slog.Logger) *ExtractStep {
	return &ExtractStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return StepExtract
}

// Do extracts URLs and fails with config.ErrEmptyExtraction when none exist.
func (s *ExtractStep) Do(_ context.Context, run *model.Run) error {
	urls := extract.URLs(run.Document)
	if len(urls) == 0 {
		return fmt.Errorf("%w: %s", config.ErrEmptyExtraction, run.InputPath)
	}
	run.Discovered = urls
	s.logger.Debug("extracted urls", "count", len(urls))
	return nil
}

// SampleStep bounds the number of URLs placed into the configuration.
type SampleStep struct {
	limit  int
	rng    *rand.Rand
	logger *slog.Logger
}

// SampleStepOption configures a SampleStep.
type SampleStepOption func(*SampleStep)

// WithSampleRand sets the random source used for sampling.
// A nil source uses the package-level generator.
func WithSampleRand(rng *rand.Rand) SampleStepOption {
	return func(s *SampleStep) {
		s.rng = rng
	}
}

// WithSampleLogger sets a custom logger for the sample step.
func WithSampleLogger(logger *slog.Logger) SampleStepOption {
	return func(s *SampleStep) {
		s.logger = logger
	}
}

// NewSampleStep creates a SampleStep that keeps at most limit URLs.
func NewSampleStep(limit int, opts ...SampleStepOption) *SampleStep {
	s := &SampleStep{
		limit:  limit,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SampleStep) Name() string {
	return StepSample
}

// Do selects the URLs for the configuration.
func (s *SampleStep) Do(_ context.Context, run *model.Run) error {
	run.Selected = sample.Pick(run.Discovered, s.limit, s.rng)
	s.logger.Debug("sampled urls",
		"discovered", len(run.Discovered),
		"selected", len(run.Selected),
		"urls", run.Selected,
	)
	return nil
}

// DestinationStep resolves the storage destination from the environment.
// An optional dotenv file is loaded first; variables already set win.
type DestinationStep struct {
	envVar  string
	envFile string
	lookup  func(string) (string, bool)
	logger  *slog.Logger
}

// DestinationStepOption configures a DestinationStep.
type DestinationStepOption func(*DestinationStep)

// WithLookup replaces os.LookupEnv as the environment source.
func WithLookup(lookup func(string) (string, bool)) DestinationStepOption {
	return func(s *DestinationStep) {
		s.lookup = lookup
	}
}

// WithEnvFile loads the dotenv file at path before reading the variable.
// A missing file is ignored.
func WithEnvFile(path string) DestinationStepOption {
	return func(s *DestinationStep) {
		s.envFile = path
	}
}

// WithDestinationLogger sets a custom logger for the destination step.
func WithDestinationLogger(logger *slog.Logger) DestinationStepOption {
	return func(s *DestinationStep) {
		s.logger = logger
	}
}

// NewDestinationStep creates a DestinationStep reading envVar.
func NewDestinationStep(envVar string, opts ...DestinationStepOption) *DestinationStep {
	s := &DestinationStep{
		envVar: envVar,
		lookup: os.LookupEnv,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *DestinationStep) Name() string {
	return StepDestination
}

// Do parses the destination variable.
func (s *DestinationStep) Do(_ context.Context, run *model.Run) error {
	if err := config.LoadEnvFile(s.envFile); err != nil {
		return err
	}

	dest, err := model.DestinationFromEnv(s.envVar, s.lookup)
	if err != nil {
		return err
	}
	run.Destination = dest
	s.logger.Debug("resolved destination", "destination", dest.String())
	return nil
}

// AssembleStep builds the configuration document.
type AssembleStep struct{}

// NewAssembleStep creates an AssembleStep.
func NewAssembleStep() *AssembleStep {
	return &AssembleStep{}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return StepAssemble
}

// Do assembles the configuration from the selected URLs.
func (s *AssembleStep) Do(_ context.Context, run *model.Run) error {
	run.Config = assemble.Build(run.Selected, run.Destination)
	return nil
}

// WriteStep serialises the configuration and replaces run.OutputPath.
type WriteStep struct {
	logger *slog.Logger
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(logger *slog.Logger) *WriteStep {
	return &WriteStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return StepWrite
}

// Do writes the configuration. The whole document is rendered before the
// output file is touched, and the file is replaced by rename.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	if run.Config == nil {
		return report.ErrNoConfig
	}

	data, err := report.MarshalConfig(run.Config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := writeFileAtomic(run.OutputPath, data, OutputFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", run.OutputPath, err)
	}

	run.Output = data
	run.Written = true
	s.logger.Debug("wrote config", "path", run.OutputPath, "bytes", len(data))
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// SampleLimit is the maximum number of URLs in the configuration.
	SampleLimit int

	// Seed makes sampling reproducible. Zero draws a random sample.
	Seed uint64

	// DestinationEnv names the variable holding "<owner>/<resource-id>".
	DestinationEnv string

	// EnvFile is a dotenv file loaded before the destination is read.
	EnvFile string

	// Lookup reads the environment. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineSampleLimit sets the sample limit.
func WithPipelineSampleLimit(limit int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SampleLimit = limit
	}
}

// WithPipelineSeed sets the sampling seed.
func WithPipelineSeed(seed uint64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Seed = seed
	}
}

// WithPipelineDestinationEnv sets the destination variable name.
func WithPipelineDestinationEnv(name string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.DestinationEnv = name
	}
}

// WithPipelineEnvFile sets the dotenv file loaded by the destination step.
func WithPipelineEnvFile(path string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.EnvFile = path
	}
}

// WithPipelineLookup sets the environment lookup function.
func WithPipelineLookup(lookup func(string) (string, bool)) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Lookup = lookup
	}
}

// DefaultPipeline creates a pipeline with every generation step in order.
// The first parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineSampleLimit, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		SampleLimit:    config.DefaultSampleLimit,
		DestinationEnv: config.DefaultDestinationEnv,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	destOpts := []DestinationStepOption{
		WithDestinationLogger(p.logger),
		WithEnvFile(cfg.EnvFile),
	}
	if cfg.Lookup != nil {
		destOpts = append(destOpts, WithLookup(cfg.Lookup))
	}

	p.AddSteps(
		NewLoadStep(p.logger),
		NewExtractStep(p.logger),
		NewSampleStep(cfg.SampleLimit,
			WithSampleRand(sample.NewRand(cfg.Seed)),
			WithSampleLogger(p.logger),
		),
		NewDestinationStep(cfg.DestinationEnv, destOpts...),
		NewAssembleStep(),
		NewWriteStep(p.logger),
	)

	return p
}

// orDefault returns logger, or slog.Default() when it is nil.
func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
