package antlr4

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordCanonicalSeed drives Corpus.GenerateSample once for ruleIndex via
// the PRNG and captures the canonical byte recording of the choices it
// made, as a starting point for Mutate/Crossover.
func recordCanonicalSeed(t *testing.T, atn *Atn, ruleIndex, mode int) []byte {
	t.Helper()
	corpus := NewCorpus(atn)
	var recorded []byte
	_, _, err := corpus.GenerateSample(ruleIndex, mode, Seed(atn, nil, &recorded))
	require.NoError(t, err)
	require.NotEmpty(t, recorded)
	return recorded
}

// TestMutateProducesSeedsThatStillDecodeIntoValidRecipes exercises the
// bit-accounting surface that buildFragmentCallFixtureAtn's ID rule
// walks: a decision with two call-count alternatives on top of a shared
// fragment call. However Mutate perturbs the recorded byte stream,
// SeedDecoder's position/length checks and PRNG fallback must keep every
// decoded value in range, so the mutated recipe always replays into a
// string this grammar actually accepts.
func TestMutateProducesSeedsThatStillDecodeIntoValidRecipes(t *testing.T) {
	atn := buildFragmentCallFixtureAtn()
	recorded := recordCanonicalSeed(t, atn, 1, 0)
	corpus := NewCorpus(atn)

	idShape := regexp.MustCompile(`^[a-z]{3,4}$`)

	for _, mutationSeed := range []int64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89} {
		t.Run(fmt.Sprintf("seed=%d", mutationSeed), func(t *testing.T) {
			mutated := Mutate(recorded, mutationSeed)

			text, tokenType, err := corpus.GenerateSample(1, 0, Seed(atn, mutated, nil))
			require.NoError(t, err)
			require.Equal(t, 1, tokenType)
			require.Regexp(t, idShape, text)
		})
	}
}

// TestCrossoverProducesSeedsThatStillDecodeIntoValidRecipes mirrors the
// Mutate case above for Crossover: splicing two independently-recorded
// seeds for the same rule must not desynchronize SeedDecoder's rule
// header scan, since it locates headers by parity byte anywhere in the
// buffer rather than assuming one starts at position 0.
func TestCrossoverProducesSeedsThatStillDecodeIntoValidRecipes(t *testing.T) {
	atn := buildFragmentCallFixtureAtn()
	first := recordCanonicalSeed(t, atn, 1, 0)
	second := recordCanonicalSeed(t, atn, 1, 0)
	corpus := NewCorpus(atn)

	idShape := regexp.MustCompile(`^[a-z]{3,4}$`)

	for _, crossoverSeed := range []int64{1, 2, 3, 5, 8, 13} {
		t.Run(fmt.Sprintf("seed=%d", crossoverSeed), func(t *testing.T) {
			crossed := Crossover(first, second, crossoverSeed)

			text, tokenType, err := corpus.GenerateSample(1, 0, Seed(atn, crossed, nil))
			require.NoError(t, err)
			require.Equal(t, 1, tokenType)
			require.Regexp(t, idShape, text)
		})
	}
}

// TestMutateHandlesEmptyData documents Mutate's degenerate-input
// contract (an empty seed mutates to an empty seed, not a panic), which
// SeedDecoder's own nil-data PRNG fallback relies on upstream callers
// never needing to special-case.
func TestMutateHandlesEmptyData(t *testing.T) {
	require.Equal(t, []byte{}, Mutate(nil, 7))
	require.Equal(t, []byte{}, Mutate([]byte{}, 7))
}
