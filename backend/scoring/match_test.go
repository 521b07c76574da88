package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "london", Normalize("  London "))
	assert.Equal(t, "new york", Normalize("NEW YORK"))
	assert.Equal(t, "", Normalize("   "))
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name         string
		user         []string
		reference    []string
		orderMatters bool
		want         bool
	}{
		{"case and whitespace insensitive", []string{"  London "}, []string{"london"}, true, true},
		{"ordered exact match", []string{"Paris", "France"}, []string{"paris", "france"}, true, true},
		{"ordered swapped fails", []string{"France", "Paris"}, []string{"Paris", "France"}, true, false},
		{"ordered length mismatch fails", []string{"Paris"}, []string{"Paris", "France"}, true, false},
		{"unordered swapped passes", []string{"dog", "cat"}, []string{"cat", "dog"}, false, true},
		{"unordered wrong element fails", []string{"dog", "bird"}, []string{"cat", "dog"}, false, false},
		{"unordered duplicates collapse", []string{"cat", "cat", "dog"}, []string{"dog", "cat"}, false, true},
		{"empty reference never correct", []string{"anything"}, nil, true, false},
		{"empty reference never correct unordered", []string{"anything"}, []string{}, false, false},
		{"empty user vs nonempty reference", nil, []string{"cat"}, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsCorrect(tc.user, tc.reference, tc.orderMatters))
		})
	}
}

func TestIsCorrectUnorderedPermutationInvariant(t *testing.T) {
	reference := []string{"alpha", "beta", "gamma"}
	permutations := [][]string{
		{"alpha", "beta", "gamma"},
		{"gamma", "alpha", "beta"},
		{"beta", "gamma", "alpha"},
	}

	for _, user := range permutations {
		assert.True(t, IsCorrect(user, reference, false))
	}
	// The same permutations under order sensitivity: only the exact one passes.
	assert.True(t, IsCorrect(permutations[0], reference, true))
	assert.False(t, IsCorrect(permutations[1], reference, true))
	assert.False(t, IsCorrect(permutations[2], reference, true))
}

func TestExpandVariants(t *testing.T) {
	variants := ExpandVariants([]string{"Colour"})
	assert.Contains(t, variants, "Colour")
	assert.Contains(t, variants, "Color")
	assert.Contains(t, variants, "colour")
	assert.Contains(t, variants, "COLOUR")

	variants = ExpandVariants([]string{"center"})
	assert.Contains(t, variants, "centre")

	// No duplicates even when case variants coincide.
	variants = ExpandVariants([]string{"cat", "cat"})
	seen := make(map[string]int)
	for _, v := range variants {
		seen[v]++
		assert.Equal(t, 1, seen[v], "variant %q appears more than once", v)
	}
}
