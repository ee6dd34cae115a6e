package entities

import "strings"

const wildcard = "*"

// MatchGlob reports whether candidate matches pattern. The pattern holds at
// most one '*', which matches any (possibly empty) run of characters. A
// pattern without '*' only matches itself.
func MatchGlob(pattern, candidate string) bool {
	prefix, suffix, ok := strings.Cut(pattern, wildcard)
	if !ok {
		return pattern == candidate
	}
	return len(candidate) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(candidate, prefix) &&
		strings.HasSuffix(candidate, suffix)
}

// MatchAnyGlob reports whether candidate matches at least one of the patterns.
func MatchAnyGlob(patterns []string, candidate string) bool {
	for _, pattern := range patterns {
		if MatchGlob(pattern, candidate) {
			return true
		}
	}
	return false
}

// GlobsOverlap reports whether at least one string matches both patterns.
//
// Two single-wildcard globs share a match iff one prefix extends the other and
// one suffix extends the other: concatenating the longer prefix and the longer
// suffix then yields a common match.
func GlobsOverlap(a, b string) bool {
	aPrefix, aSuffix, aWild := strings.Cut(a, wildcard)
	bPrefix, bSuffix, bWild := strings.Cut(b, wildcard)

	switch {
	case !aWild && !bWild:
		return a == b
	case !aWild:
		return MatchGlob(b, a)
	case !bWild:
		return MatchGlob(a, b)
	}

	prefixesAgree := strings.HasPrefix(aPrefix, bPrefix) || strings.HasPrefix(bPrefix, aPrefix)
	suffixesAgree := strings.HasSuffix(aSuffix, bSuffix) || strings.HasSuffix(bSuffix, aSuffix)
	return prefixesAgree && suffixesAgree
}

// CountWildcards returns how many '*' characters pattern holds.
func CountWildcards(pattern string) int {
	return strings.Count(pattern, wildcard)
}
