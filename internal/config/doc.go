// Package config provides configuration structures and utilities for procgen.
// It defines the input and output locations, the sample size, the environment
// variable carrying the storage destination, and the precondition errors
// reported when a generation run cannot proceed.
package config
