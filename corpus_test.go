package antlr4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorpus_GenerateSampleSingleAltRules(t *testing.T) {
	atn := buildFixtureAtn()
	corpus := NewCorpus(atn)

	text, tokenType, err := corpus.GenerateSample(0, 0, Seed(atn, nil, nil))
	require.NoError(t, err)
	require.Equal(t, "ab", text)
	require.Equal(t, 1, tokenType)

	text, tokenType, err = corpus.GenerateSample(1, 0, Seed(atn, nil, nil))
	require.NoError(t, err)
	require.Equal(t, "c", text)
	require.Equal(t, 2, tokenType)
}

func TestCorpus_GenerateSampleBranchingRulePicksAViableAlt(t *testing.T) {
	atn := buildFixtureAtn()
	corpus := NewCorpus(atn)

	for i := 0; i < 20; i++ {
		text, tokenType, err := corpus.GenerateSample(2, 0, Seed(atn, nil, nil))
		require.NoError(t, err)
		require.Contains(t, []string{"d", "e"}, text)
		require.Equal(t, 3, tokenType)
	}
}

func TestCorpus_GenerateSampleReplaysAnEncodedSeed(t *testing.T) {
	atn := buildFixtureAtn()
	corpus := NewCorpus(atn)

	encoder := NewSeedEncoder(nil)
	encoder.WriteRuleHeader(2, len(atn.RuleToStartState))
	encoder.Encode(1, 2) // choose the second alt ('e') deterministically
	recorded := encoder.Bytes()

	text, tokenType, err := corpus.GenerateSample(2, 0, Seed(atn, recorded, nil))
	require.NoError(t, err)
	require.Equal(t, "e", text)
	require.Equal(t, 3, tokenType)
}
