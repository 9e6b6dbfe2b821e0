// Package pipeline runs a generation as an ordered sequence of steps.
//
// A run loads the crawled document, extracts subscription URLs, samples
// them, resolves the storage destination, assembles the configuration and
// finally writes it. Each step fills in its part of a model.Run. The
// pipeline stops at the first failing step, so the output file is only
// touched once everything before the write step has succeeded.
package pipeline
