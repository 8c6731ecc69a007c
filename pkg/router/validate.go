package router

import (
	"errors"
	"fmt"

	"github.com/oscremap/pkg/address"
)

var (
	// ErrNoDestinations is returned when a mapping lists no destinations
	ErrNoDestinations = errors.New("mapping must have at least one destination")
	// ErrWildcardFanOut is returned when a wildcard source lists several destinations
	ErrWildcardFanOut = errors.New("wildcard source cannot fan out")
	// ErrWildcardDestination is returned when a wildcard source maps to a literal destination
	ErrWildcardDestination = errors.New("wildcard source must map to wildcard destination")
)

// ValidateMapping checks a single source pattern and its destinations.
// Literal sources accept any number of literal or wildcard destinations.
func ValidateMapping(source string, destinations []string) error {
	if len(destinations) == 0 {
		return fmt.Errorf("%q: %w", source, ErrNoDestinations)
	}
	if !address.IsWildcard(source) {
		return nil
	}
	if len(destinations) > 1 {
		return fmt.Errorf("%q has %d destinations %v: %w", source, len(destinations), destinations, ErrWildcardFanOut)
	}
	if !address.IsWildcard(destinations[0]) {
		return fmt.Errorf("%q -> %q: %w", source, destinations[0], ErrWildcardDestination)
	}
	return nil
}
