package antlr4

// TransitionKind tags the variant of a Transition.
type TransitionKind int

const (
	TransEpsilon TransitionKind = iota
	TransRange
	TransRule
	TransPredicate
	TransAtom
	TransAction
	TransSet
	TransNotSet
	TransWildcard
	TransPrecedencePredicate
)

const (
	minCharValue = 0
	maxCharValue = 0x10FFFF
)

// Transition is a tagged union over every edge kind the ATN can carry.
// Fields not relevant to Kind are left zero. IsEpsilon is computed once at
// construction time, not per query, since AtnState.EpsilonOnlyTransitions
// is itself a cached flag derived from it.
type Transition struct {
	Kind      TransitionKind
	Target    *AtnState
	IsEpsilon bool

	// Range
	Lo int
	Hi int

	// Rule
	RuleStart   *AtnState
	FollowState *AtnState
	RuleIndex   int
	Precedence  int

	// Predicate / PrecedencePredicate
	PredRuleIndex int
	PredIndex     int
	CtxDependent  bool

	// Atom
	Symbol int

	// Action
	ActionRuleIndex int
	ActionIndex     int

	// Set / NotSet
	Set *IntervalSet

	// Synthesized rule-stop -> followState epsilon edge (AtnDeserializer
	// step 8); -1 unless this transition is one of those.
	OutermostPrecedenceReturn int
}

// NewEpsilonTransition builds a bare epsilon edge to target.
func NewEpsilonTransition(target *AtnState) *Transition {
	return &Transition{Kind: TransEpsilon, Target: target, IsEpsilon: true, OutermostPrecedenceReturn: -1}
}

// NewRangeTransition builds an inclusive [lo,hi] code-point range edge.
func NewRangeTransition(target *AtnState, lo, hi int) *Transition {
	return &Transition{Kind: TransRange, Target: target, Lo: lo, Hi: hi, OutermostPrecedenceReturn: -1}
}

// NewAtomTransition builds a single-code-point edge.
func NewAtomTransition(target *AtnState, symbol int) *Transition {
	return &Transition{Kind: TransAtom, Target: target, Symbol: symbol, OutermostPrecedenceReturn: -1}
}

// NewSetTransition builds an edge matching any point in set.
func NewSetTransition(target *AtnState, set *IntervalSet) *Transition {
	if set == nil {
		set = NewIntervalSet()
	}
	return &Transition{Kind: TransSet, Target: target, Set: set, OutermostPrecedenceReturn: -1}
}

// NewNotSetTransition builds an edge matching any point not in set.
func NewNotSetTransition(target *AtnState, set *IntervalSet) *Transition {
	if set == nil {
		set = NewIntervalSet()
	}
	return &Transition{Kind: TransNotSet, Target: target, Set: set, OutermostPrecedenceReturn: -1}
}

// NewWildcardTransition builds an edge matching any code point.
func NewWildcardTransition(target *AtnState) *Transition {
	return &Transition{Kind: TransWildcard, Target: target, OutermostPrecedenceReturn: -1}
}

// NewRuleTransition builds a call edge into ruleStart, resuming at
// followState once the callee's RuleStop is reached.
func NewRuleTransition(ruleStart *AtnState, ruleIndex, precedence int, followState *AtnState) *Transition {
	return &Transition{
		Kind:                      TransRule,
		Target:                    ruleStart,
		IsEpsilon:                 true,
		RuleStart:                 ruleStart,
		FollowState:               followState,
		RuleIndex:                 ruleIndex,
		Precedence:                precedence,
		OutermostPrecedenceReturn: -1,
	}
}

// NewPredicateTransition builds a semantic-predicate edge.
func NewPredicateTransition(target *AtnState, ruleIndex, predIndex int, ctxDependent bool) *Transition {
	return &Transition{
		Kind:                      TransPredicate,
		Target:                    target,
		IsEpsilon:                 true,
		PredRuleIndex:             ruleIndex,
		PredIndex:                 predIndex,
		CtxDependent:              ctxDependent,
		OutermostPrecedenceReturn: -1,
	}
}

// NewPrecedencePredicateTransition builds a left-recursion precedence
// predicate edge. Lexers never legally contain these; closure raises
// IllegalPredicateInLexerError if it is encountered.
func NewPrecedencePredicateTransition(target *AtnState, precedence int) *Transition {
	return &Transition{
		Kind:                      TransPrecedencePredicate,
		Target:                    target,
		IsEpsilon:                 true,
		Precedence:                precedence,
		OutermostPrecedenceReturn: -1,
	}
}

// NewActionTransition builds a lexer-action edge.
func NewActionTransition(target *AtnState, ruleIndex, actionIndex int, ctxDependent bool) *Transition {
	return &Transition{
		Kind:                      TransAction,
		Target:                    target,
		IsEpsilon:                 true,
		ActionRuleIndex:           ruleIndex,
		ActionIndex:               actionIndex,
		CtxDependent:              ctxDependent,
		OutermostPrecedenceReturn: -1,
	}
}

// Matches reports whether code point sym falls within this transition's
// label, given the host's configured vocabulary bounds. minVocab/maxVocab
// bound Wildcard/NotSet complement computation.
func (t *Transition) Matches(sym, minVocab, maxVocab int) bool {
	switch t.Kind {
	case TransRange:
		return sym >= t.Lo && sym <= t.Hi
	case TransAtom:
		return sym == t.Symbol
	case TransSet:
		return t.Set.Contains(sym)
	case TransNotSet:
		return sym >= minVocab && sym <= maxVocab && !t.Set.Contains(sym)
	case TransWildcard:
		return sym >= minVocab && sym <= maxVocab
	default:
		return false
	}
}
