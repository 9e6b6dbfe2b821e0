package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/procgen/internal/model"
)

// SimpleWriter prints the short run summary:
//
//	Found 42 urls, using 10 of them.
//	Wrote generated-process.json with 10 domains.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary. The second line is only printed once the
// configuration has been written.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d urls, using %d of them.\n", len(run.Discovered), len(run.Selected))
	if run.Written {
		fmt.Fprintf(&sb, "Wrote %s with %d domains.\n", run.OutputPath, run.DomainCount())
	}
	return io.WriteString(w.output, sb.String())
}
