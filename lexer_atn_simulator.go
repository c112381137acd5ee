package antlr4

import "fmt"

// SimulatorDebugEnabled and SimulatorDFADebugEnabled gate the package's
// trace output; both default off and compile down to a single branch on a
// bool in the hot path, matching the reference implementation's own
// package-level debug switches.
var (
	SimulatorDebugEnabled    = false
	SimulatorDFADebugEnabled = false
)

// invalidAlt marks "no alt chosen yet" / "no alt to skip".
const invalidAlt = 0

// SharedLexerAtn bundles the Atn, one Dfa per mode, and the
// SharedContextCache that a single generated lexer class creates once and
// shares across every instance of itself. Call NewSimulator per lexer
// instance to get a LexerAtnSimulator bound to this shared state.
type SharedLexerAtn struct {
	atn   *Atn
	dfas  []*Dfa
	cache *SharedContextCache
}

// NewSharedLexerAtn builds the shared, grammar-wide state for atn: one
// empty Dfa per mode plus a fresh SharedContextCache.
func NewSharedLexerAtn(atn *Atn) *SharedLexerAtn {
	dfas := make([]*Dfa, len(atn.ModeToStartState))
	for i := range dfas {
		dfas[i] = NewDfa(i)
	}
	return &SharedLexerAtn{atn: atn, dfas: dfas, cache: NewSharedContextCache()}
}

// NewSharedLexerAtnWithDfas builds the shared state for atn from a
// previously warm-started set of per-mode Dfas (see LoadDfaCache) instead
// of starting every mode cold.
func NewSharedLexerAtnWithDfas(atn *Atn, dfas []*Dfa) *SharedLexerAtn {
	return &SharedLexerAtn{atn: atn, dfas: dfas, cache: NewSharedContextCache()}
}

// Dfas returns the per-mode Dfas this shared state runs every simulator
// against, so a caller can persist them with SaveDfaCache.
func (sh *SharedLexerAtn) Dfas() []*Dfa {
	return sh.dfas
}

// NewSimulator returns a fresh per-instance simulator bound to host,
// sharing this SharedLexerAtn's Atn/Dfas/SharedContextCache.
func (sh *SharedLexerAtn) NewSimulator(host Host) *LexerAtnSimulator {
	return &LexerAtnSimulator{
		baseAtnSimulator: newBaseAtnSimulator(sh.atn, sh.cache),
		dfas:             sh.dfas,
		Host:             host,
		Line:             1,
		Column:           0,
	}
}

// simState is the scratch record capturing the most recent accept point
// seen during one Match call.
type simState struct {
	index    int
	line     int
	column   int
	dfaState *DfaState
}

func (s *simState) reset() {
	s.index = -1
	s.dfaState = nil
}

// LexerAtnSimulator is the inner loop: DFA walk with ATN fallback,
// closure/reach, accept-state capture, and action execution. One instance
// belongs to exactly one lexer instance; its Atn/Dfas/SharedContextCache
// are shared (see SharedLexerAtn). Mode-stack bookkeeping lives on the
// Host (BaseLexer), not here: Match takes the mode to run as a parameter.
type LexerAtnSimulator struct {
	baseAtnSimulator

	dfas []*Dfa
	Host Host

	Line   int
	Column int
	Mode   int

	prevAccept simState
	startIndex int
}

// Match is the entry point: mark the input, run the DFA (falling back to
// the ATN when needed), and release the mark on the way out regardless of
// outcome.
func (sim *LexerAtnSimulator) Match(input CharStream, mode int) (int, error) {
	sim.Mode = mode
	mark := input.Mark()
	defer input.Release(mark)

	sim.startIndex = input.Index()
	sim.prevAccept.reset()

	dfa := sim.dfas[mode]
	s0 := dfa.S0()
	if s0 == nil {
		return sim.matchATN(input)
	}
	return sim.execATN(input, s0)
}

// matchATN computes the start closure over the mode's ATN start state and
// hands off to execATN. When the start closure carries semantic context,
// the resulting DFA state is still interned but deliberately not wired up
// as dfa.s0, so the predicate is re-evaluated on every visit rather than
// cached away.
func (sim *LexerAtnSimulator) matchATN(input CharStream) (int, error) {
	startState := sim.atn.ModeToStartState[sim.Mode]
	dfa := sim.dfas[sim.Mode]

	configs := NewAtnConfigSet(false)
	for i, t := range startState.Transitions {
		cfg := &AtnConfig{State: t.Target, Alt: i + 1, Context: Empty}
		sim.closure(input, cfg, configs, false, false, false)
	}

	next := dfa.AddState(sim.atn, configs)
	if !configs.HasSemanticContext {
		dfa.SetS0(next)
	}
	return sim.execATN(input, next)
}

// execATN runs the DFA-walk-with-ATN-fallback main loop described in
// spec.md §4.3.
func (sim *LexerAtnSimulator) execATN(input CharStream, ds0 *DfaState) (int, error) {
	if ds0.IsAcceptState {
		sim.captureSimState(&sim.prevAccept, input, ds0)
	}
	t := input.La(1)
	s := ds0
	for {
		target := s.getEdge(t)
		if target == nil {
			target = sim.computeTargetState(input, s, t)
		}
		if target == errorState {
			break
		}
		if t != Eof {
			sim.consume(input)
		}
		if target.IsAcceptState {
			sim.captureSimState(&sim.prevAccept, input, target)
			if t == Eof {
				break
			}
		}
		t = input.La(1)
		s = target
	}
	return sim.failOrAccept(input, s.Configs, t)
}

func (sim *LexerAtnSimulator) captureSimState(state *simState, input CharStream, ds *DfaState) {
	state.index = input.Index()
	state.line = sim.Line
	state.column = sim.Column
	state.dfaState = ds
}

// computeTargetState produces the reach set under symbol t from s's
// config set, closes it, and interns/caches the resulting DFA edge. A dead
// edge is cached only when the source closure carried no semantic context
// (predicate results are input-position-specific and must not be cached).
func (sim *LexerAtnSimulator) computeTargetState(input CharStream, s *DfaState, t int) *DfaState {
	reach := NewAtnConfigSet(false)
	sim.getReachableConfigSet(input, s.Configs, reach, t)

	if reach.Len() == 0 {
		if !reach.HasSemanticContext {
			sim.dfas[sim.Mode].AddEdge(s, t, errorState)
		}
		return errorState
	}

	dfa := sim.dfas[sim.Mode]
	target := dfa.AddState(sim.atn, reach)
	if !reach.HasSemanticContext {
		dfa.AddEdge(s, t, target)
	}
	return target
}

// getReachableConfigSet implements "reach": for every config in the
// closure, follow every outgoing transition matching t, fixing the
// lexer-action offsets before closing each resulting config over epsilon
// transitions. skipAlt tracks the first alt (if any) whose closure this
// call has already driven to an accept state; once set, a later config for
// that same alt is only dropped outright if it passed through a
// non-greedy decision — a purely greedy sibling continuation of the same
// alt is still explored, so a longer match within one rule is not lost to
// an earlier, shorter return through the same alt's fragment calls.
func (sim *LexerAtnSimulator) getReachableConfigSet(input CharStream, closureConfigs *AtnConfigSet, reach *AtnConfigSet, t int) {
	skipAlt := invalidAlt
	for _, c := range closureConfigs.Configs {
		currentAltReachedAcceptState := c.Alt == skipAlt && skipAlt != invalidAlt
		if currentAltReachedAcceptState && c.PassedThroughNonGreedyDecision {
			continue
		}
		for _, tr := range c.State.Transitions {
			if tr.IsEpsilon {
				continue
			}
			if !tr.Matches(t, minCharValue, maxCharValue) {
				continue
			}
			newExec := c.LexerActionExecutor
			if newExec != nil {
				newExec = newExec.FixOffsetBeforeMatch(input.Index() - sim.startIndex)
			}
			cfg := c.withState(tr.Target, c.Context)
			cfg.LexerActionExecutor = newExec
			cfg.PassedThroughNonGreedyDecision = c.PassedThroughNonGreedyDecision || isNonGreedyDecisionState(tr.Target)
			if sim.closure(input, cfg, reach, currentAltReachedAcceptState, false, false) {
				skipAlt = c.Alt
			}
		}
	}
}

func isNonGreedyDecisionState(s *AtnState) bool {
	return s.isDecisionState() && s.NonGreedy
}

// closure epsilon-expands config into configs, performing explicit GSS
// manipulation on RuleStop. Returns whether any config reached (or had
// already reached) an accept state on this alt during the current reach.
func (sim *LexerAtnSimulator) closure(input CharStream, config *AtnConfig, configs *AtnConfigSet, currentAltReachedAcceptState bool, speculative, treatEofAsEpsilon bool) bool {
	if config.State.StateType == StateRuleStop {
		if config.Context.IsEmpty() {
			configs.Add(config)
			return true
		}
		if config.Context.HasEmptyPath() {
			configs.Add(config.withState(config.State, Empty))
			currentAltReachedAcceptState = true
		}
		for i := 0; i < config.Context.length(); i++ {
			returnState := config.Context.getReturnState(i)
			if returnState == EmptyReturnState {
				continue
			}
			newContext := sim.sharedContextCache.GetCachedContext(config.Context.getParent(i), make(map[*PredictionContext]*PredictionContext))
			next := &AtnConfig{
				State:                          sim.atn.States[returnState],
				Alt:                            config.Alt,
				Context:                        newContext,
				HasSemanticContext:             config.HasSemanticContext,
				LexerActionExecutor:            config.LexerActionExecutor,
				PassedThroughNonGreedyDecision: config.PassedThroughNonGreedyDecision,
			}
			currentAltReachedAcceptState = sim.closure(input, next, configs, currentAltReachedAcceptState, speculative, treatEofAsEpsilon)
		}
		return currentAltReachedAcceptState
	}

	if !config.State.OnlyHasEpsilonTransitions() {
		if !(currentAltReachedAcceptState && config.PassedThroughNonGreedyDecision) {
			configs.Add(config)
		}
	}

	for _, tr := range config.State.Transitions {
		next := sim.getEpsilonTarget(input, config, tr, configs, speculative, treatEofAsEpsilon)
		if next != nil {
			currentAltReachedAcceptState = sim.closure(input, next, configs, currentAltReachedAcceptState, speculative, treatEofAsEpsilon)
		}
	}
	return currentAltReachedAcceptState
}

// getEpsilonTarget dispatches on the transition tag, as described in
// spec.md §4.3.
func (sim *LexerAtnSimulator) getEpsilonTarget(input CharStream, config *AtnConfig, tr *Transition, configs *AtnConfigSet, speculative, treatEofAsEpsilon bool) *AtnConfig {
	switch tr.Kind {
	case TransRule:
		newContext := NewSingletonContext(config.Context, tr.FollowState.StateNumber)
		return config.withState(tr.Target, newContext)
	case TransPrecedencePredicate:
		panic(&IllegalPredicateInLexerError{RuleIndex: config.State.RuleIndex})
	case TransPredicate:
		ok := sim.evaluatePredicate(input, tr.PredRuleIndex, tr.PredIndex, speculative)
		configs.HasSemanticContext = true
		if ok {
			cfg := config.withState(tr.Target, config.Context)
			cfg.HasSemanticContext = true
			return cfg
		}
		return nil
	case TransAction:
		if config.Context.HasEmptyPath() {
			// Execute actions anywhere in the start rule for a token; actions
			// reached only through a referenced (non-empty-path) rule call are
			// ignored, matching the ANTLR lexer action executor's scoping.
			appended := Append(config.LexerActionExecutor, sim.atn.LexerActions[tr.ActionIndex])
			cfg := config.withState(tr.Target, config.Context)
			cfg.LexerActionExecutor = appended
			return cfg
		}
		return config.withState(tr.Target, config.Context)
	case TransEpsilon:
		return config.withState(tr.Target, config.Context)
	case TransAtom, TransRange, TransSet, TransNotSet, TransWildcard:
		if treatEofAsEpsilon && tr.Matches(Eof, minCharValue, maxCharValue) {
			return config.withState(tr.Target, config.Context)
		}
		return nil
	default:
		return nil
	}
}

// evaluatePredicate calls the host's semantic predicate. When speculative,
// it advances the input one character first (so the predicate observes
// the post-match position the way it would for real), then restores
// position/line/column before returning.
func (sim *LexerAtnSimulator) evaluatePredicate(input CharStream, ruleIndex, predIndex int, speculative bool) bool {
	if !speculative {
		return sim.Host.Sempred(ruleIndex, predIndex, false)
	}
	savedLine, savedColumn, savedIndex := sim.Line, sim.Column, input.Index()
	mark := input.Mark()
	defer input.Release(mark)
	sim.consume(input)
	result := sim.Host.Sempred(ruleIndex, predIndex, true)
	sim.Line, sim.Column = savedLine, savedColumn
	input.Seek(savedIndex)
	return result
}

// failOrAccept decides the outcome of one execATN run: replay the last
// captured accept, recognize a clean EOF at the start position, or report
// LexerNoViableAlt.
func (sim *LexerAtnSimulator) failOrAccept(input CharStream, deadEndConfigs *AtnConfigSet, t int) (int, error) {
	if sim.prevAccept.dfaState != nil {
		return sim.accept(input, sim.prevAccept.dfaState.LexerActionExecutor, sim.startIndex, sim.prevAccept.index, sim.prevAccept.line, sim.prevAccept.column), nil
	}
	if t == Eof && input.Index() == sim.startIndex {
		return Eof, nil
	}
	return 0, &LexerNoViableAltError{StartIndex: sim.startIndex, DeadEndConfigs: deadEndConfigs}
}

// accept seeks the input back to the accept point, restores line/column,
// executes the queued actions, and returns the predicted token type.
func (sim *LexerAtnSimulator) accept(input CharStream, exec *LexerActionExecutor, startIndex, index, line, column int) int {
	input.Seek(index)
	sim.Line = line
	sim.Column = column
	if exec != nil {
		exec.Execute(sim.Host, input, startIndex, index)
	}
	return sim.prevAccept.dfaState.Prediction
}

// consume advances the input by one code point, tracking line/column:
// a newline resets column and advances line, anything else just advances
// column.
func (sim *LexerAtnSimulator) consume(input CharStream) {
	cp := input.La(1)
	if cp == '\n' {
		sim.Line++
		sim.Column = 0
	} else {
		sim.Column++
	}
	input.Consume()
}

func (sim *LexerAtnSimulator) String() string {
	return fmt.Sprintf("LexerAtnSimulator{mode=%d, line=%d, column=%d}", sim.Mode, sim.Line, sim.Column)
}
