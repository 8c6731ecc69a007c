package router

import (
	"fmt"
	"strings"
)

// Mapping pairs a source pattern with the ordered destination patterns it is
// rewritten to
type Mapping struct {
	Source       string
	Destinations []string
}

// IsIdentity reports whether the mapping forwards its source unchanged
func (m Mapping) IsIdentity() bool {
	return len(m.Destinations) == 1 && m.Destinations[0] == m.Source
}

// String renders the mapping the way it is written in a config file
func (m Mapping) String() string {
	if len(m.Destinations) == 1 {
		return fmt.Sprintf("%s : %s", m.Source, m.Destinations[0])
	}
	return fmt.Sprintf("%s : [%s]", m.Source, strings.Join(m.Destinations, ", "))
}

// Remote identifies the destination a route table feeds
type Remote struct {
	Name string
	Host string
	Port int
}
