package antlr4

import "time"

// Corpus generates text samples that match a chosen lexer rule of an Atn,
// using Router to pick transition choices that are cheap to reach (prefer
// paths with no rule recursion, then paths not yet explored, then
// recursive ones) and SeedEncoder/SeedDecoder to record which choices
// were taken so a sample can be replayed byte-for-byte later. One Corpus
// owns the Routers learned for every rule it has generated from, so
// repeated calls benefit from routes learned on earlier ones.
type Corpus struct {
	atn       *Atn
	routers   map[int]*Router
	sim       *SharedLexerAtn
	deadline  time.Time
	haveDline bool
}

// NewCorpus returns a generator for atn (a lexer Atn; parser Atns have no
// code-point-producing transitions to walk).
func NewCorpus(atn *Atn) *Corpus {
	return &Corpus{atn: atn, routers: make(map[int]*Router), sim: NewSharedLexerAtn(atn)}
}

// SetDeadline bounds how long GenerateSample keeps trying to complete a
// rule walk before giving up and returning whatever text was produced.
func (c *Corpus) SetDeadline(t time.Time) {
	c.deadline = t
	c.haveDline = true
}

func (c *Corpus) exceededDeadline() bool {
	return c.haveDline && time.Now().After(c.deadline)
}

// Seed wraps data (nil for a brand-new, all-PRNG sample) into a
// SeedDecoder sized to atn's rule count. If writeBack is non-nil it
// accumulates a canonical replay encoding of every choice actually made,
// so a PRNG-completed or mutated sample can be turned back into a
// deterministically replayable seed.
func Seed(atn *Atn, data []byte, writeBack *[]byte) *SeedDecoder {
	return NewSeedDecoder(data, len(atn.RuleToStartState), writeBack)
}

// GenerateSample walks ruleIndex's Atn subgraph from its start state to
// its stop state, replaying decoder's recorded choices where available
// and falling back to Router-guided or PRNG choices otherwise, to build a
// token text. It then round-trips that text through a fresh
// LexerAtnSimulator.Match in mode as a self-check: a sample this module's
// own simulator cannot lex at all indicates a bug in the walk below, not
// a property of the grammar (ambiguity between rules is expected and not
// itself a failure). tokenType is the type Match actually returned.
func (c *Corpus) GenerateSample(ruleIndex, mode int, decoder *SeedDecoder) (text string, tokenType int, err error) {
	text = c.decodeRule(ruleIndex, decoder)

	noop := noopHost{}
	sim := c.sim.NewSimulator(noop)
	stream := NewRuneStream(text)
	tokenType, matchErr := sim.Match(stream, mode)
	if matchErr != nil {
		return text, 0, matchErr
	}
	return text, tokenType, nil
}

// decodeRule walks ruleIndex's start-to-stop path once, appending matched
// code points (and, for any RuleTransition into a fragment rule, the
// recursively decoded text of that call) to the result. Grounded on the
// per-transition-kind switch that drove a decoder through an externally
// borrowed ATN; here it drives the same way through this module's own
// AtnState/Transition.
func (c *Corpus) decodeRule(ruleIndex int, decoder *SeedDecoder) string {
	decoder.Init(ruleIndex)

	startState := c.atn.RuleToStartState[ruleIndex]
	stopState := c.atn.RuleToStopState[ruleIndex]

	router, ok := c.routers[ruleIndex]
	if !ok {
		router = NewRouter(ruleIndex, startState.StateNumber, stopState.StateNumber, c.atn, decoder)
		c.routers[ruleIndex] = router
	}

	edges := make(chan *RouteEdge, 128)
	learned := make(chan bool)
	router.mutex.Lock()
	go router.LearnRoutes(edges, learned)
	defer func() {
		go func() {
			edges <- nil
			<-learned
			close(edges)
			router.mutex.Unlock()
		}()
	}()

	var text []rune
	var rules []int
	var rootPathRules map[int]struct{}
	prevState, prevChoice := -1, -1

	state := startState
	for state.StateType != StateRuleStop {
		if c.exceededDeadline() {
			return string(text)
		}

		numTransitions := len(state.Transitions)
		var choice int
		if numTransitions > 1 {
			if prevState >= 0 {
				edges <- &RouteEdge{src: prevState, dest: state.StateNumber, choice: prevChoice, rules: rules}
			}
			if !decoder.usePRNG {
				choice = decoder.Decode(numTransitions)
			} else {
				if rootPathRules == nil {
					rootPathRules = map[int]struct{}{ruleIndex: {}}
				}
				edges <- nil
				<-learned
				choice = router.route(state.StateNumber, rootPathRules)
			}
			prevState = state.StateNumber
			prevChoice = choice
			rules = nil
		}

		tr := state.Transitions[choice]
		switch tr.Kind {
		case TransRule:
			rules = append(rules, tr.RuleIndex)
			text = append(text, []rune(c.decodeRule(tr.RuleIndex, decoder))...)
			state = tr.FollowState
			continue
		case TransAtom:
			text = append(text, rune(tr.Symbol))
		case TransNotSet:
			possible := tr.Set.Complement(minCharValue, maxCharValue)
			text = append(text, rune(possible.Get(decoder.Decode(possible.Length()))))
		case TransSet:
			text = append(text, rune(tr.Set.Get(decoder.Decode(tr.Set.Length()))))
		case TransRange:
			text = append(text, rune(tr.Lo+decoder.Decode(tr.Hi-tr.Lo+1)))
		case TransWildcard:
			text = append(text, rune(minCharValue+decoder.Decode(maxCharValue-minCharValue+1)))
		}
		state = tr.Target
	}
	if prevState >= 0 {
		edges <- &RouteEdge{src: prevState, dest: state.StateNumber, choice: prevChoice, rules: rules}
	}
	return string(text)
}

// noopHost is a Host that answers every predicate true and performs no
// side effects, sufficient for the self-check Match call in
// GenerateSample (which only needs a verdict, not emitted tokens).
type noopHost struct{}

func (noopHost) SetType(int)           {}
func (noopHost) SetChannel(int)        {}
func (noopHost) SetMode(int)           {}
func (noopHost) PushMode(int)          {}
func (noopHost) PopMode()              {}
func (noopHost) Skip()                 {}
func (noopHost) More()                 {}
func (noopHost) Action(int, int)       {}
func (noopHost) Sempred(int, int, bool) bool { return true }
