// Package report serialises generated configurations and summarises runs.
//
// This package contains writers for different output formats:
//   - JSONWriter: the configuration document read by the aggregator
//   - SimpleWriter: the plain two-line run summary printed on success
//   - MarkdownWriter: a longer Markdown summary of the run
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
