// Package model defines the data structures shared by procgen's packages.
//
// This package contains the following main types:
//   - Destination: the "owner/resource-id" pair naming the gist that will
//     receive the aggregator's outputs
//   - GeneratedConfig: the configuration document written for the aggregator
//   - Run: the state carried through one generation run
package model
