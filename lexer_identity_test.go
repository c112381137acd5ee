package antlr4

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// collectTokens drains lexer via NextToken until EOF (inclusive) and
// returns the token values collected, so two lexer runs can be diffed by
// value rather than by pointer identity.
func collectTokens(lexer *BaseLexer) []Token {
	var out []Token
	for {
		tok := lexer.NextToken()
		out = append(out, *tok)
		if tok.IsEOF() {
			return out
		}
	}
}

// TestLexerAtnSimulator_SameRunTwiceProducesIdenticalStreams checks the
// round-trip property that running the same lexer twice over the same
// text yields byte-for-byte identical token streams, including line and
// column, whether or not the shared DFA was already warm from the first
// run.
func TestLexerAtnSimulator_SameRunTwiceProducesIdenticalStreams(t *testing.T) {
	const text = "12.34 if iffy /* a\nb */ /* c */"
	shared := NewSharedLexerAtn(buildMultiRuleIdentityFixtureAtn())

	first := collectTokens(NewBaseLexer(shared, NewRuneStream(text)))
	second := collectTokens(NewBaseLexer(shared, NewRuneStream(text)))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run over the same text diverged from the first (-first +second):\n%s", diff)
	}
}

// TestLexerAtnSimulator_SharedAtnProducesIdenticalStreamsAcrossInstances
// runs several lexer instances concurrently against the same
// SharedLexerAtn (exercising Dfa's locked AddState/AddEdge paths under
// real contention) and checks every one of them against a lexer run in
// isolation over a brand-new, unshared SharedLexerAtn: sharing the Dfa
// and SharedContextCache must never change what a lexer emits.
func TestLexerAtnSimulator_SharedAtnProducesIdenticalStreamsAcrossInstances(t *testing.T) {
	const text = "12.34 if iffy /* a\nb */ /* c */"
	atn := buildMultiRuleIdentityFixtureAtn()

	isolated := collectTokens(NewBaseLexer(NewSharedLexerAtn(atn), NewRuneStream(text)))

	shared := NewSharedLexerAtn(atn)
	const instances = 8

	results := make([][]Token, instances)
	var wg sync.WaitGroup
	for i := 0; i < instances; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = collectTokens(NewBaseLexer(shared, NewRuneStream(text)))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(isolated, got); diff != "" {
			t.Fatalf("shared instance %d diverged from the isolated run (-isolated +shared):\n%s", i, diff)
		}
	}
}

// buildMultiRuleIdentityFixtureAtn wires INT/FLOAT, A/ID, COMMENT and WS
// into one Atn so the identity properties above exercise longest match,
// non-greedy loops, and skip together rather than in isolation.
func buildMultiRuleIdentityFixtureAtn() *Atn {
	atn := &Atn{GrammarType: GrammarLexer, MaxTokenType: 6}

	ruleStartINT := newState(atn, StateRuleStart, 0)
	loopMidINT := newState(atn, StateBasic, 0)
	ruleStopINT := newState(atn, StateRuleStop, 0)
	ruleStartINT.AddTransition(NewRangeTransition(loopMidINT, '0', '9'))
	loopMidINT.AddTransition(NewEpsilonTransition(ruleStartINT))
	loopMidINT.AddTransition(NewEpsilonTransition(ruleStopINT))

	ruleStartFLOAT := newState(atn, StateRuleStart, 1)
	loopMid1 := newState(atn, StateBasic, 1)
	dotState := newState(atn, StateBasic, 1)
	afterDot := newState(atn, StateBasic, 1)
	loopMid2 := newState(atn, StateBasic, 1)
	ruleStopFLOAT := newState(atn, StateRuleStop, 1)
	ruleStartFLOAT.AddTransition(NewRangeTransition(loopMid1, '0', '9'))
	loopMid1.AddTransition(NewEpsilonTransition(ruleStartFLOAT))
	loopMid1.AddTransition(NewEpsilonTransition(dotState))
	dotState.AddTransition(NewAtomTransition(afterDot, '.'))
	afterDot.AddTransition(NewRangeTransition(loopMid2, '0', '9'))
	loopMid2.AddTransition(NewEpsilonTransition(afterDot))
	loopMid2.AddTransition(NewEpsilonTransition(ruleStopFLOAT))

	ruleStartA := newState(atn, StateRuleStart, 2)
	midA := newState(atn, StateBasic, 2)
	ruleStopA := newState(atn, StateRuleStop, 2)
	ruleStartA.AddTransition(NewAtomTransition(midA, 'i'))
	midA.AddTransition(NewAtomTransition(ruleStopA, 'f'))

	ruleStartID := newState(atn, StateRuleStart, 3)
	loopMidID := newState(atn, StateBasic, 3)
	ruleStopID := newState(atn, StateRuleStop, 3)
	ruleStartID.AddTransition(NewRangeTransition(loopMidID, 'a', 'z'))
	loopMidID.AddTransition(NewEpsilonTransition(ruleStartID))
	loopMidID.AddTransition(NewEpsilonTransition(ruleStopID))

	ruleStartC := newState(atn, StateRuleStart, 4)
	afterSlash := newState(atn, StateBasic, 4)
	loopEntry := newState(atn, StateStarLoopEntry, 4)
	loopEntry.NonGreedy = true
	closeCheck := newState(atn, StateBasic, 4)
	consumeState := newState(atn, StateBasic, 4)
	afterStar := newState(atn, StateBasic, 4)
	actionState := newState(atn, StateBasic, 4)
	ruleStopC := newState(atn, StateRuleStop, 4)
	ruleStartC.AddTransition(NewAtomTransition(afterSlash, '/'))
	afterSlash.AddTransition(NewAtomTransition(loopEntry, '*'))
	loopEntry.AddTransition(NewEpsilonTransition(closeCheck))
	loopEntry.AddTransition(NewEpsilonTransition(consumeState))
	closeCheck.AddTransition(NewAtomTransition(afterStar, '*'))
	consumeState.AddTransition(NewWildcardTransition(loopEntry))
	afterStar.AddTransition(NewAtomTransition(actionState, '/'))
	actionState.AddTransition(NewActionTransition(ruleStopC, 4, 0, false))

	wsSet := NewIntervalSet()
	wsSet.AddOne(' ')
	ruleStartWS := newState(atn, StateRuleStart, 5)
	midWS := newState(atn, StateBasic, 5)
	ruleStopWS := newState(atn, StateRuleStop, 5)
	ruleStartWS.AddTransition(NewSetTransition(midWS, wsSet))
	midWS.AddTransition(NewActionTransition(ruleStopWS, 5, 1, false))

	modeStart := newState(atn, StateTokenStart, -1)
	modeStart.AddTransition(NewEpsilonTransition(ruleStartINT))
	modeStart.AddTransition(NewEpsilonTransition(ruleStartFLOAT))
	modeStart.AddTransition(NewEpsilonTransition(ruleStartA))
	modeStart.AddTransition(NewEpsilonTransition(ruleStartID))
	modeStart.AddTransition(NewEpsilonTransition(ruleStartC))
	modeStart.AddTransition(NewEpsilonTransition(ruleStartWS))

	atn.RuleToStartState = []*AtnState{ruleStartINT, ruleStartFLOAT, ruleStartA, ruleStartID, ruleStartC, ruleStartWS}
	atn.RuleToStopState = []*AtnState{ruleStopINT, ruleStopFLOAT, ruleStopA, ruleStopID, ruleStopC, ruleStopWS}
	atn.RuleToTokenType = []int{1, 2, 3, 4, 5, 6}
	atn.ModeToStartState = []*AtnState{modeStart}
	atn.LexerActions = []LexerAction{
		{Kind: ActionChannel, Channel: TokenHiddenChannel},
		{Kind: ActionSkip},
	}

	return atn
}

// TestLexerAtnSimulator_IdentityFixtureSanityCheck pins down, without
// concurrency, what the shared fixture above is expected to produce, so
// a failure in the identity tests points at a real divergence rather
// than a miscounted fixture.
func TestLexerAtnSimulator_IdentityFixtureSanityCheck(t *testing.T) {
	lexer := NewBaseLexer(NewSharedLexerAtn(buildMultiRuleIdentityFixtureAtn()), NewRuneStream("12.34 if iffy"))

	tok := lexer.NextToken()
	require.Equal(t, 2, tok.Type) // FLOAT
	require.Equal(t, "12.34", tok.Text)

	tok = lexer.NextToken()
	require.Equal(t, 3, tok.Type) // A ("if"), skipped whitespace before it
	require.Equal(t, "if", tok.Text)

	tok = lexer.NextToken()
	require.Equal(t, 4, tok.Type) // ID ("iffy"), not the two-char keyword prefix
	require.Equal(t, "iffy", tok.Text)

	require.True(t, lexer.NextToken().IsEOF())
}
