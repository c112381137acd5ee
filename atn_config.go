package antlr4

// AtnConfig is one element of the simulator's working set: a state reached
// by some alternative, carrying the call-stack context that got it there
// plus lexer-specific bookkeeping for deferred actions and non-greedy
// longest-match arbitration.
//
// Configs have two equality notions depending on where they're compared:
// AtnConfigSet membership is keyed on (state, alt), and a config arriving
// with a different context is merged into the stored one's context;
// DFA-state equality (state and alt only, context ignored) is
// used when interning a DfaState so that configs differing only in call
// stack collapse into the same DFA state. Rather than a mutable
// "insideSet" flag on the config (as the reference source does), this is
// expressed as two standalone key types below — configByContextKey and
// configByDfaStateKey — so a config's identity never changes underfoot.
type AtnConfig struct {
	State   *AtnState
	Alt     int
	Context *PredictionContext

	HasSemanticContext   bool
	ReachesOuterContext  int // depth of outer-context dip, 0 if none
	PrecFilterSuppressed bool

	LexerActionExecutor           *LexerActionExecutor
	PassedThroughNonGreedyDecision bool
}

// clone returns a shallow copy, the starting point for every transform
// closure/reach apply while walking to a new state.
func (c *AtnConfig) clone() *AtnConfig {
	cp := *c
	return &cp
}

// withState returns a copy of c stepped to a new state/context, used by
// getEpsilonTarget and reach.
func (c *AtnConfig) withState(state *AtnState, context *PredictionContext) *AtnConfig {
	cp := c.clone()
	cp.State = state
	cp.Context = context
	return cp
}

type configByContextKey struct {
	state, alt int
	ctxHash    uint64
}

func contextKey(c *AtnConfig) configByContextKey {
	var h uint64
	if c.Context != nil {
		h = c.Context.cachedHash
	}
	return configByContextKey{state: c.State.StateNumber, alt: c.Alt, ctxHash: h}
}

func configsEqualByContext(a, b *AtnConfig) bool {
	if a.State.StateNumber != b.State.StateNumber || a.Alt != b.Alt {
		return false
	}
	if a.Context == b.Context {
		return true
	}
	if a.Context == nil || b.Context == nil {
		return false
	}
	return a.Context.equals(b.Context)
}

type configByDfaStateKey struct {
	state, alt int
}

func dfaStateKey(c *AtnConfig) configByDfaStateKey {
	return configByDfaStateKey{state: c.State.StateNumber, alt: c.Alt}
}
