package model

import (
	"fmt"
	"strings"

	"github.com/nao1215/procgen/internal/config"
)

// destinationSeparator splits owner and resource id.
const destinationSeparator = "/"

// Destination is an immutable value object identifying the remote gist that
// stores the aggregator outputs. procgen only names it; it never contacts it.
type Destination struct {
	owner      string
	resourceID string
}

// ParseDestination parses "owner/resource-id".
// The string must contain exactly one '/' with a non-empty part on each side.
// Parts are taken verbatim, without trimming or case folding.
func ParseDestination(raw string) (Destination, error) {
	parts := strings.Split(raw, destinationSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Destination{}, fmt.Errorf("%w: got %q", config.ErrMalformedDestination, raw)
	}
	return Destination{owner: parts[0], resourceID: parts[1]}, nil
}

// MustParseDestination parses raw or panics.
// Use only for known-valid values in tests.
func MustParseDestination(raw string) Destination {
	d, err := ParseDestination(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// DestinationFromEnv reads the destination from the environment variable
// name using lookup (normally os.LookupEnv). An unset or blank variable is
// config.ErrMissingDestinationEnv; anything else goes through ParseDestination.
func DestinationFromEnv(name string, lookup func(string) (string, bool)) (Destination, error) {
	raw, ok := lookup(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return Destination{}, fmt.Errorf("%w: %s", config.ErrMissingDestinationEnv, name)
	}

	d, err := ParseDestination(raw)
	if err != nil {
		return Destination{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// Owner returns the account owning the gist.
func (d Destination) Owner() string {
	return d.owner
}

// ResourceID returns the gist id.
func (d Destination) ResourceID() string {
	return d.resourceID
}

// IsZero reports whether d was never parsed.
func (d Destination) IsZero() bool {
	return d.owner == "" && d.resourceID == ""
}

// String returns "owner/resource-id".
func (d Destination) String() string {
	return d.owner + destinationSeparator + d.resourceID
}
