package antlr4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseLexer_NextToken(t *testing.T) {
	atn := buildFixtureAtn()
	shared := NewSharedLexerAtn(atn)
	lexer := NewBaseLexer(shared, NewRuneStream("abc"))

	tok := lexer.NextToken()
	require.Equal(t, 1, tok.Type)
	require.Equal(t, "ab", tok.Text)
	require.Equal(t, 0, tok.Start)
	require.Equal(t, 1, tok.Stop)

	tok = lexer.NextToken()
	require.Equal(t, 2, tok.Type)
	require.Equal(t, "c", tok.Text)
	require.Equal(t, 2, tok.Start)
	require.Equal(t, 2, tok.Stop)

	tok = lexer.NextToken()
	require.True(t, tok.IsEOF())

	// Once EOF is reached, every further call returns EOF again rather
	// than erroring or re-scanning.
	tok = lexer.NextToken()
	require.True(t, tok.IsEOF())
}

func TestBaseLexer_RecoversPastUnmatchedInput(t *testing.T) {
	atn := buildFixtureAtn()
	shared := NewSharedLexerAtn(atn)
	lexer := NewBaseLexer(shared, NewRuneStream("zab"))

	tok := lexer.NextToken()
	require.Equal(t, 1, tok.Type)
	require.Equal(t, "ab", tok.Text)
}

func TestBaseLexer_Reset(t *testing.T) {
	atn := buildFixtureAtn()
	shared := NewSharedLexerAtn(atn)
	lexer := NewBaseLexer(shared, NewRuneStream("ab"))

	first := lexer.NextToken()
	require.Equal(t, 1, first.Type)

	lexer.Reset()
	second := lexer.NextToken()
	require.Equal(t, first.Type, second.Type)
	require.Equal(t, first.Start, second.Start)
}

type recordingActions struct {
	sempredCalls []int
}

func (r *recordingActions) Action(*BaseLexer, int, int) {}

func (r *recordingActions) Sempred(_ *BaseLexer, ruleIndex, predIndex int, _ bool) bool {
	r.sempredCalls = append(r.sempredCalls, ruleIndex)
	return true
}

func TestBaseLexer_SempredDefaultsTrueWithoutActions(t *testing.T) {
	lexer := NewBaseLexer(NewSharedLexerAtn(buildFixtureAtn()), NewRuneStream(""))
	require.True(t, lexer.Sempred(0, 0, false))
}
