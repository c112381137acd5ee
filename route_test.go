package antlr4

import (
	"math/rand"
	"testing"
)

func TestRouter_LearnRoutesThenRouteReplaysLearnedChoice(t *testing.T) {
	atn := buildFixtureAtn()
	ruleStart2 := atn.RuleToStartState[2]
	ruleStop2 := atn.RuleToStopState[2]

	decoder := NewSeedDecoder(nil, len(atn.RuleToStartState), nil)
	router := NewRouter(2, ruleStart2.StateNumber, ruleStop2.StateNumber, atn, decoder)

	edges := make(chan *RouteEdge, 4)
	learned := make(chan bool)
	go router.LearnRoutes(edges, learned)

	edges <- &RouteEdge{src: ruleStart2.StateNumber, dest: ruleStop2.StateNumber, choice: 1, rules: nil}
	edges <- nil
	<-learned

	got := router.route(ruleStart2.StateNumber, map[int]struct{}{2: {}})
	if got != 1 {
		t.Errorf("route() = %d, want 1 (the only learned choice)", got)
	}

	close(edges)
}

func TestRouter_RouteFallsBackToPRNGForAnUnlearnedState(t *testing.T) {
	atn := buildFixtureAtn()
	ruleStart2 := atn.RuleToStartState[2]
	ruleStop2 := atn.RuleToStopState[2]

	decoder := NewSeedDecoder(nil, len(atn.RuleToStartState), nil)
	decoder.prngSource = rand.NewSource(42)
	router := NewRouter(2, ruleStart2.StateNumber, ruleStop2.StateNumber, atn, decoder)

	choice := router.route(ruleStart2.StateNumber, map[int]struct{}{2: {}})
	if choice != 0 && choice != 1 {
		t.Fatalf("route() = %d, want 0 or 1", choice)
	}
}
