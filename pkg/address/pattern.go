// Package address matches OSC-style addresses against source patterns and
// rewrites them into destination patterns.
//
// A pattern is either a literal path such as /lx/tempo/beat or a path ending
// in the single-level wildcard suffix /*, which covers every address nested
// below the prefix but not the prefix itself.
package address

import "strings"

// WildcardSuffix marks a pattern that covers everything below its prefix.
const WildcardSuffix = "/*"

// Separator delimits address segments.
const Separator = "/"

// IsWildcard reports whether pattern ends in the wildcard suffix.
func IsWildcard(pattern string) bool {
	return strings.HasSuffix(pattern, WildcardSuffix)
}

// WildcardPrefix returns pattern with the wildcard suffix removed. Literal
// patterns are returned unchanged.
func WildcardPrefix(pattern string) string {
	return strings.TrimSuffix(pattern, WildcardSuffix)
}

// Matches reports whether addr is covered by pattern. A literal pattern
// matches only the identical address; /a/* matches /a/b and /a/b/c but
// neither /a nor /ab.
func Matches(addr, pattern string) bool {
	if pattern == addr {
		return true
	}
	if !IsWildcard(pattern) {
		return false
	}
	return strings.HasPrefix(addr, WildcardPrefix(pattern)+Separator)
}

// Rewrite produces the destination address for addr, which must already
// match source. A literal source yields dest verbatim. A wildcard source
// paired with a wildcard dest carries the remainder of addr past the source
// prefix, leading separator included, onto the dest prefix.
func Rewrite(addr, source, dest string) string {
	if !IsWildcard(source) || !IsWildcard(dest) {
		return dest
	}
	srcPrefix := WildcardPrefix(source)
	return WildcardPrefix(dest) + addr[len(srcPrefix):]
}
