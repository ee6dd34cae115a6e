//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pattern   string
		candidate string
		expected  bool
	}{
		{name: "should match literal pattern exactly", pattern: "refs/heads/a", candidate: "refs/heads/a", expected: true},
		{name: "should not match different literal", pattern: "refs/heads/a", candidate: "refs/heads/ab", expected: false},
		{name: "should match everything with lone wildcard", pattern: "*", candidate: "anything", expected: true},
		{name: "should match empty run", pattern: "nyc-*", candidate: "nyc-", expected: true},
		{name: "should match prefix wildcard", pattern: "nyc-*", candidate: "nyc-src", expected: true},
		{name: "should match suffix wildcard", pattern: "*-src", candidate: "nyc-src", expected: true},
		{name: "should match infix wildcard", pattern: "a*z", candidate: "abcz", expected: true},
		{name: "should not let prefix and suffix overlap", pattern: "ab*ba", candidate: "aba", expected: false},
		{name: "should not match wrong prefix", pattern: "nyc-*", candidate: "sfo-src", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			pattern, candidate := tt.pattern, tt.candidate

			// when
			result := entities.MatchGlob(pattern, candidate)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMatchAnyGlob(t *testing.T) {
	t.Parallel()

	t.Run("should match when one pattern matches", func(t *testing.T) {
		t.Parallel()

		// given
		patterns := []string{"refs/heads/a", "refs/heads/rel-*"}

		// when
		result := entities.MatchAnyGlob(patterns, "refs/heads/rel-1")

		// then
		assert.True(t, result)
	})

	t.Run("should not match with no patterns", func(t *testing.T) {
		t.Parallel()

		// given
		var patterns []string

		// when
		result := entities.MatchAnyGlob(patterns, "refs/heads/a")

		// then
		assert.False(t, result)
	})
}

func TestGlobsOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{name: "should overlap identical literals", a: "main", b: "main", expected: true},
		{name: "should not overlap different literals", a: "main", b: "dev", expected: false},
		{name: "should overlap literal matched by glob", a: "nyc-*", b: "nyc-src", expected: true},
		{name: "should not overlap literal outside glob", a: "nyc-*", b: "sfo", expected: false},
		{name: "should overlap lone wildcard with anything", a: "*", b: "nyc-*", expected: true},
		{name: "should overlap nested prefixes", a: "nyc-*", b: "nyc-rel-*", expected: true},
		{name: "should not overlap disjoint prefixes", a: "nyc-*", b: "sfo-*", expected: false},
		{name: "should overlap prefix glob with suffix glob", a: "nyc-*", b: "*-src", expected: true},
		{name: "should not overlap disjoint suffixes", a: "*-src", b: "*-dst", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			a, b := tt.a, tt.b

			// when
			forward := entities.GlobsOverlap(a, b)
			backward := entities.GlobsOverlap(b, a)

			// then
			assert.Equal(t, tt.expected, forward)
			assert.Equal(t, forward, backward)
		})
	}
}
