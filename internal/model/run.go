package model

import (
	"time"

	"github.com/nao1215/procgen/internal/document"
)

// Run carries the state of one generation run from step to step.
// Each step fills in the fields it owns; nothing is written to the output
// path until every earlier step has succeeded.
type Run struct {
	// ID identifies the run in the history database.
	ID string

	// InputPath is the crawled subscription document.
	InputPath string

	// OutputPath receives the generated configuration.
	OutputPath string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Document is the decoded input.
	Document document.Node

	// Discovered holds every extracted URL in first-seen order.
	Discovered []string

	// Selected is the sample placed into the configuration.
	Selected []string

	// Destination is the parsed storage destination.
	Destination Destination

	// Config is the assembled configuration.
	Config *GeneratedConfig

	// Output is the serialised configuration as written to OutputPath.
	Output []byte

	// Written reports whether OutputPath was replaced.
	Written bool

	// PerformedSteps lists completed step names in order.
	PerformedSteps []string
}

// NewRun creates a Run for the given input and output paths.
func NewRun(id, inputPath, outputPath string) *Run {
	return &Run{
		ID:         id,
		InputPath:  inputPath,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}
}

// DomainCount returns the number of generated domain entries.
func (r *Run) DomainCount() int {
	if r.Config == nil {
		return 0
	}
	return len(r.Config.Domains)
}
