package router

import (
	"net"
	"strconv"
	"strings"

	"github.com/oscremap/pkg/address"
)

// DefaultFilterPrefix is reported by tables that carry no mappings
const DefaultFilterPrefix = "/lx"

// RouteTable rewrites addresses for one remote. It is immutable once built
// and safe for concurrent use.
type RouteTable struct {
	remote   Remote
	mappings []Mapping      // declaration order
	exact    map[string]int // source -> index into mappings
	wildcard []int          // indexes of wildcard sources, declaration order

	passthrough  bool
	filterPrefix string
}

// Rejection records a mapping dropped while building a table
type Rejection struct {
	Mapping Mapping
	Err     error
}

// NewRouteTable builds a table for remote from mappings. Invalid mappings are
// dropped and reported as rejections; the rest are kept. A later mapping with
// the same source replaces an earlier one.
func NewRouteTable(remote Remote, mappings []Mapping) (*RouteTable, []Rejection) {
	t := &RouteTable{
		remote: remote,
		exact:  make(map[string]int),
	}

	var rejected []Rejection
	for _, m := range mappings {
		if err := ValidateMapping(m.Source, m.Destinations); err != nil {
			rejected = append(rejected, Rejection{Mapping: m, Err: err})
			continue
		}
		m.Destinations = append([]string(nil), m.Destinations...)
		if i, ok := t.exact[m.Source]; ok {
			t.mappings[i] = m
			continue
		}
		t.exact[m.Source] = len(t.mappings)
		t.mappings = append(t.mappings, m)
	}

	for i, m := range t.mappings {
		if address.IsWildcard(m.Source) {
			t.wildcard = append(t.wildcard, i)
		}
	}
	t.passthrough = detectPassthrough(t.mappings)
	t.filterPrefix = computeFilterPrefix(t.mappings)
	return t, rejected
}

// Name returns the remote's display name
func (t *RouteTable) Name() string {
	return t.remote.Name
}

// Host returns the remote's host
func (t *RouteTable) Host() string {
	return t.remote.Host
}

// Port returns the remote's port
func (t *RouteTable) Port() int {
	return t.remote.Port
}

// Remote returns the remote the table feeds
func (t *RouteTable) Remote() Remote {
	return t.remote
}

// Addr returns host:port for the remote
func (t *RouteTable) Addr() string {
	return net.JoinHostPort(t.remote.Host, strconv.Itoa(t.remote.Port))
}

// Mappings returns a copy of the table's mappings in declaration order
func (t *RouteTable) Mappings() []Mapping {
	out := make([]Mapping, len(t.mappings))
	for i, m := range t.mappings {
		out[i] = Mapping{Source: m.Source, Destinations: append([]string(nil), m.Destinations...)}
	}
	return out
}

// Len returns the number of mappings
func (t *RouteTable) Len() int {
	return len(t.mappings)
}

// ShouldHandle reports whether any source pattern in the table matches addr
func (t *RouteTable) ShouldHandle(addr string) bool {
	if _, ok := t.exact[addr]; ok {
		return true
	}
	for _, i := range t.wildcard {
		if address.Matches(addr, t.mappings[i].Source) {
			return true
		}
	}
	return false
}

// Remap returns the destination addresses for addr. An exact source match
// wins outright and returns its destinations verbatim. Otherwise every
// matching wildcard source contributes its rewritten destinations. An
// address nothing matches is returned unchanged as the only element.
func (t *RouteTable) Remap(addr string) []string {
	if i, ok := t.exact[addr]; ok {
		return append([]string(nil), t.mappings[i].Destinations...)
	}

	var results []string
	for _, i := range t.wildcard {
		m := t.mappings[i]
		if !address.Matches(addr, m.Source) {
			continue
		}
		for _, dest := range m.Destinations {
			results = append(results, address.Rewrite(addr, m.Source, dest))
		}
	}

	if len(results) == 0 {
		return []string{addr}
	}
	return results
}

// IsPassthrough reports whether every mapping forwards its source unchanged.
// An empty table is never passthrough.
func (t *RouteTable) IsPassthrough() bool {
	return t.passthrough
}

// FilterPrefix returns a coarse address prefix covering what the table emits
func (t *RouteTable) FilterPrefix() string {
	return t.filterPrefix
}

func detectPassthrough(mappings []Mapping) bool {
	if len(mappings) == 0 {
		return false
	}
	for _, m := range mappings {
		if !m.IsIdentity() {
			return false
		}
	}
	return true
}

// computeFilterPrefix takes the longest common prefix of all destination
// patterns, cut back to a segment boundary. When that leaves nothing useful
// the shortest destination is used instead, the lexicographically smallest
// one on a length tie.
func computeFilterPrefix(mappings []Mapping) string {
	if len(mappings) == 0 {
		return DefaultFilterPrefix
	}

	seen := make(map[string]struct{})
	var dests []string
	for _, m := range mappings {
		for _, d := range m.Destinations {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dests = append(dests, d)
		}
	}

	prefix := dests[0]
	for _, d := range dests[1:] {
		prefix = commonPrefix(prefix, d)
		if prefix == "" {
			break
		}
	}

	if !strings.HasSuffix(prefix, address.Separator) {
		if i := strings.LastIndex(prefix, address.Separator); i >= 0 {
			prefix = prefix[:i+1]
		} else {
			prefix = ""
		}
	}

	if prefix == "" || prefix == address.Separator {
		return shortest(dests)
	}
	return prefix
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func shortest(values []string) string {
	best := values[0]
	for _, v := range values[1:] {
		if len(v) < len(best) || (len(v) == len(best) && v < best) {
			best = v
		}
	}
	return best
}
