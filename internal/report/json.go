package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/nao1215/procgen/internal/model"
)

// ErrNoConfig is returned when a run has no assembled configuration.
var ErrNoConfig = errors.New("run has no generated configuration")

// DefaultIndent is the indentation of the generated configuration.
const DefaultIndent = "  "

// JSONWriter outputs the generated configuration in JSON.
// Keys appear in construction order and non-ASCII or HTML characters are
// written as-is.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithCompact disables indentation.
func WithCompact() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = false
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is indented by two spaces unless WithCompact is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       true,
		indentPrefix: "",
		indentString: DefaultIndent,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run's configuration.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	if run == nil || run.Config == nil {
		return 0, ErrNoConfig
	}
	return w.WriteConfig(run.Config)
}

// WriteConfig outputs cfg.
func (w *JSONWriter) WriteConfig(cfg *model.GeneratedConfig) (int, error) {
	data, err := w.marshal(cfg)
	if err != nil {
		return 0, err
	}
	return w.output.Write(data)
}

// marshal encodes v with a trailing newline.
func (w *JSONWriter) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalConfig returns the canonical serialisation of cfg: two-space
// indented JSON followed by a newline.
func MarshalConfig(cfg *model.GeneratedConfig) ([]byte, error) {
	return NewJSONWriter(nil).marshal(cfg)
}
