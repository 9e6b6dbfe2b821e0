// Package main provides the entry point for the procgen CLI.
//
// procgen turns the subscription list written by the crawler into the
// process configuration consumed by the aggregator. It extracts the
// subscription URLs, samples up to a fixed number of them and binds the
// result to a gist destination read from the environment.
//
// Usage:
//
//	procgen generate
//	procgen generate -i data/crawledsubs.yaml -o generated-process.json -n 10
//
// See --help for all available options.
package main

// main is the entry point for procgen.
func main() {
	Execute()
}
