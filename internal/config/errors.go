package config

import "errors"

// Precondition errors.
// Each one aborts a generation run before the output file is touched.
// Callers use errors.Is to tell them apart; the messages are shown to the
// user as-is.
var (
	// ErrMissingInput is returned when the crawled subscription document
	// does not exist.
	ErrMissingInput = errors.New("input document not found (did the crawler run?)")

	// ErrEmptyExtraction is returned when the input document parses but
	// contains no usable subscription URL.
	ErrEmptyExtraction = errors.New("no subscription URLs found in input document")

	// ErrMissingDestinationEnv is returned when the destination environment
	// variable is unset or blank.
	ErrMissingDestinationEnv = errors.New("destination environment variable not set (expected 'username/gistid')")

	// ErrMalformedDestination is returned when the destination is not of the
	// form owner/resource-id.
	ErrMalformedDestination = errors.New("destination must be in 'username/gistid' format")
)

// Configuration validation errors returned by Config.Validate().
var (
	// ErrInvalidSampleLimit is returned when the sample limit is not positive.
	ErrInvalidSampleLimit = errors.New("invalid sample limit: must be positive")

	// ErrEmptyInputPath is returned when no input document path is configured.
	ErrEmptyInputPath = errors.New("invalid input path: must not be empty")

	// ErrEmptyOutputPath is returned when no output path is configured.
	ErrEmptyOutputPath = errors.New("invalid output path: must not be empty")

	// ErrEmptyEnvVar is returned when the destination variable name is empty.
	ErrEmptyEnvVar = errors.New("invalid destination variable name: must not be empty")
)
