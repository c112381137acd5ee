package antlr4

// newState is a small test-only constructor: atn_deserializer.go builds
// AtnStates in readStates, but hand-wiring a tiny Atn
// directly is simpler than faking a binary payload for these fixtures.
func newState(atn *Atn, typ AtnStateType, ruleIndex int) *AtnState {
	s := &AtnState{StateNumber: len(atn.States), StateType: typ, RuleIndex: ruleIndex, Decision: -1}
	atn.States = append(atn.States, s)
	return s
}

// buildFixtureAtn returns a three-rule, one-mode lexer Atn: rule 0 ("A",
// token type 1) matches the literal "ab", rule 1 ("C", token type 2)
// matches the literal "c", and rule 2 ("DE", token type 3) matches either
// "d" or "e" via a two-way decision at its start state, for exercising
// Router/corpus choice-making. Rule 0 is listed first, so on a genuine
// tie (never the case for these three rules' literals) it would win.
func buildFixtureAtn() *Atn {
	atn := &Atn{GrammarType: GrammarLexer, MaxTokenType: 3}

	ruleStart0 := newState(atn, StateRuleStart, 0)
	mid0 := newState(atn, StateBasic, 0)
	ruleStop0 := newState(atn, StateRuleStop, 0)
	ruleStart0.AddTransition(NewAtomTransition(mid0, 'a'))
	mid0.AddTransition(NewAtomTransition(ruleStop0, 'b'))

	ruleStart1 := newState(atn, StateRuleStart, 1)
	ruleStop1 := newState(atn, StateRuleStop, 1)
	ruleStart1.AddTransition(NewAtomTransition(ruleStop1, 'c'))

	ruleStart2 := newState(atn, StateRuleStart, 2)
	ruleStop2 := newState(atn, StateRuleStop, 2)
	ruleStart2.AddTransition(NewAtomTransition(ruleStop2, 'd'))
	ruleStart2.AddTransition(NewAtomTransition(ruleStop2, 'e'))

	modeStart := newState(atn, StateTokenStart, -1)
	modeStart.AddTransition(NewEpsilonTransition(ruleStart0))
	modeStart.AddTransition(NewEpsilonTransition(ruleStart1))
	modeStart.AddTransition(NewEpsilonTransition(ruleStart2))

	atn.RuleToStartState = []*AtnState{ruleStart0, ruleStart1, ruleStart2}
	atn.RuleToStopState = []*AtnState{ruleStop0, ruleStop1, ruleStop2}
	atn.RuleToTokenType = []int{1, 2, 3}
	atn.ModeToStartState = []*AtnState{modeStart}

	return atn
}

// buildFragmentCallFixtureAtn returns a one-mode lexer Atn for
// "fragment L: [a-z]; ID: L (L L | L L L);" — a token rule whose two
// alternatives share a one-fragment-call prefix and then diverge in how
// many more times they call that same fragment. It exists to exercise the
// RuleTransition/GSS-pop path through a fragment return, which
// buildFixtureAtn never touches.
func buildFragmentCallFixtureAtn() *Atn {
	atn := &Atn{GrammarType: GrammarLexer, MaxTokenType: 1}

	ruleStartL := newState(atn, StateRuleStart, 0)
	ruleStopL := newState(atn, StateRuleStop, 0)
	ruleStartL.AddTransition(NewRangeTransition(ruleStopL, 'a', 'z'))

	ruleStartID := newState(atn, StateRuleStart, 1)
	decision := newState(atn, StateBlockStart, 1)
	alt1Mid := newState(atn, StateBasic, 1)
	alt2Mid1 := newState(atn, StateBasic, 1)
	alt2Mid2 := newState(atn, StateBasic, 1)
	ruleStopID := newState(atn, StateRuleStop, 1)

	// ID: L (shared prefix call) then branch into the two alts.
	ruleStartID.AddTransition(NewRuleTransition(ruleStartL, 0, -1, decision))

	// Alt 1: L L (one more call after the shared prefix, 3 chars total).
	decision.AddTransition(NewRuleTransition(ruleStartL, 0, -1, alt1Mid))
	alt1Mid.AddTransition(NewRuleTransition(ruleStartL, 0, -1, ruleStopID))

	// Alt 2: L L L (two more calls after the shared prefix, 4 chars total).
	decision.AddTransition(NewRuleTransition(ruleStartL, 0, -1, alt2Mid1))
	alt2Mid1.AddTransition(NewRuleTransition(ruleStartL, 0, -1, alt2Mid2))
	alt2Mid2.AddTransition(NewRuleTransition(ruleStartL, 0, -1, ruleStopID))

	modeStart := newState(atn, StateTokenStart, -1)
	modeStart.AddTransition(NewEpsilonTransition(ruleStartID))

	atn.RuleToStartState = []*AtnState{ruleStartL, ruleStartID}
	atn.RuleToStopState = []*AtnState{ruleStopL, ruleStopID}
	atn.RuleToTokenType = []int{-1, 1}
	atn.ModeToStartState = []*AtnState{modeStart}

	return atn
}
