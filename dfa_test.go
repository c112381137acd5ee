package antlr4

import "testing"

func TestDfa_AddStateInternsByConfigSetNotByPointer(t *testing.T) {
	atn := buildFixtureAtn()
	ruleStart0 := atn.RuleToStartState[0]

	d := NewDfa(0)

	configsA := NewAtnConfigSet(false)
	configsA.Add(&AtnConfig{State: ruleStart0, Alt: 1, Context: NewSingletonContext(nil, 1)})
	stateA := d.AddState(atn, configsA)

	configsB := NewAtnConfigSet(false)
	configsB.Add(&AtnConfig{State: ruleStart0, Alt: 1, Context: NewSingletonContext(nil, 2)})
	stateB := d.AddState(atn, configsB)

	if stateA != stateB {
		t.Fatalf("AddState should intern by DFA-state equality (context-blind), not by pointer identity")
	}
	if d.size() != 1 {
		t.Fatalf("size() = %d, want 1", d.size())
	}
}

func TestDfa_AddStateAssignsDistinctStateNumbersForDistinctStates(t *testing.T) {
	atn := buildFixtureAtn()
	ruleStart0 := atn.RuleToStartState[0]
	ruleStart1 := atn.RuleToStartState[1]

	d := NewDfa(0)
	configsA := NewAtnConfigSet(false)
	configsA.Add(&AtnConfig{State: ruleStart0, Alt: 1, Context: Empty})
	stateA := d.AddState(atn, configsA)

	configsB := NewAtnConfigSet(false)
	configsB.Add(&AtnConfig{State: ruleStart1, Alt: 1, Context: Empty})
	stateB := d.AddState(atn, configsB)

	if stateA.StateNumber == stateB.StateNumber {
		t.Fatalf("distinct DFA states should get distinct StateNumbers")
	}
	if d.size() != 2 {
		t.Fatalf("size() = %d, want 2", d.size())
	}
}

func TestDfa_AddStateMarksAcceptOnRuleStop(t *testing.T) {
	atn := buildFixtureAtn()
	ruleStop0 := atn.RuleToStopState[0]

	d := NewDfa(0)
	configs := NewAtnConfigSet(false)
	configs.Add(&AtnConfig{State: ruleStop0, Alt: 1, Context: Empty})
	state := d.AddState(atn, configs)

	if !state.IsAcceptState {
		t.Fatalf("a config set whose config sits on a RuleStop should be an accept state")
	}
	if state.Prediction != atn.RuleToTokenType[0] {
		t.Fatalf("Prediction = %d, want %d", state.Prediction, atn.RuleToTokenType[0])
	}
}

func TestDfa_SetS0AndAddEdge(t *testing.T) {
	atn := buildFixtureAtn()
	ruleStart0 := atn.RuleToStartState[0]
	ruleStop0 := atn.RuleToStopState[0]

	d := NewDfa(0)
	if d.S0() != nil {
		t.Fatalf("a fresh Dfa should have no S0")
	}

	startConfigs := NewAtnConfigSet(false)
	startConfigs.Add(&AtnConfig{State: ruleStart0, Alt: 1, Context: Empty})
	s0 := d.AddState(atn, startConfigs)
	d.SetS0(s0)
	if d.S0() != s0 {
		t.Fatalf("S0() did not return the installed start state")
	}

	stopConfigs := NewAtnConfigSet(false)
	stopConfigs.Add(&AtnConfig{State: ruleStop0, Alt: 1, Context: Empty})
	target := d.AddState(atn, stopConfigs)

	d.AddEdge(s0, 'a', target)
	if s0.getEdge('a') != target {
		t.Fatalf("AddEdge did not install the edge")
	}

	d.AddEdge(s0, 'a', s0)
	if s0.getEdge('a') != target {
		t.Fatalf("an existing edge must not be overwritten")
	}

	d.AddEdge(s0, MaxDfaEdge+1, target)
	if s0.getEdge(MaxDfaEdge+1) != nil {
		t.Fatalf("an edge outside the DFA edge window must be a no-op")
	}
}
