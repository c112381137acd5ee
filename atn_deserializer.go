package antlr4

import "fmt"

// supportedAtnVersion is the only binary format version this deserializer
// accepts.
const supportedAtnVersion = 3

// baseSerializedUUID and addedUnicodeSmpUUID identify the feature set a
// serialized payload was produced with. A payload tagged with
// addedUnicodeSmpUUID carries a second, 32-bit-endpoint interval block for
// every IntervalSet so supplementary-plane code points can be represented.
var (
	baseSerializedUUID    = mustUUID(0x33, 0x21, 0x57, 0x33, 0x3f, 0x27, 0x4a, 0xca, 0xa3, 0x23, 0xac, 0xcf, 0x8b, 0x74, 0x21, 0x7d)
	addedUnicodeSmpUUID    = mustUUID(0x59, 0x62, 0x7b, 0xc3, 0x4b, 0x4d, 0x4e, 0x67, 0x90, 0x15, 0x39, 0x99, 0x67, 0x28, 0x2d, 0x5e)
)

func mustUUID(b ...byte) [16]byte {
	var u [16]byte
	copy(u[:], b)
	return u
}

// Serialized state-type and transition-type tags, in the order spec.md §3
// enumerates them. These number the wire format, independent of the
// AtnStateType/TransitionKind constants used in memory.
const (
	wireStateBasic AtnStateType = iota
	wireStateRuleStart
	wireStateBlockStart
	wireStatePlusBlockStart
	wireStateStarBlockStart
	wireStateTokenStart
	wireStateRuleStop
	wireStateBlockEnd
	wireStateStarLoopBack
	wireStateStarLoopEntry
	wireStatePlusLoopBack
	wireStateLoopEnd
)

const (
	wireTransEpsilon TransitionKind = iota
	wireTransRange
	wireTransRule
	wireTransPredicate
	wireTransAtom
	wireTransAction
	wireTransSet
	wireTransNotSet
	wireTransWildcard
	wireTransPrecedencePredicate
)

const (
	wireActionChannel = iota
	wireActionCustom
	wireActionMode
	wireActionMore
	wireActionPopMode
	wireActionPushMode
	wireActionSkip
	wireActionType
)

// AtnDeserializer decodes the portable binary ATN format into an *Atn.
type AtnDeserializer struct {
	data []int // already version-checked; element 0 consumed separately
	pos  int
}

// DeserializeAtn decodes data (a sequence of 16-bit code units as
// described in spec.md §6) into a fully built, verified *Atn.
func DeserializeAtn(data []uint16) (*Atn, error) {
	if len(data) == 0 {
		return nil, &UnsupportedAtnError{Reason: "empty payload"}
	}
	version := int(data[0])
	if version != supportedAtnVersion {
		return nil, &UnsupportedAtnError{Reason: fmt.Sprintf("version %d unsupported", version)}
	}
	decoded := make([]int, len(data)-1)
	for i, v := range data[1:] {
		decoded[i] = decodeElement(v)
	}
	d := &AtnDeserializer{data: decoded}

	uuid, err := d.readUUID()
	if err != nil {
		return nil, err
	}
	addedUnicodeSMP := uuid == addedUnicodeSmpUUID
	if uuid != baseSerializedUUID && !addedUnicodeSMP {
		return nil, &UnsupportedAtnError{Reason: "unrecognized serialized ATN uuid"}
	}

	atn := &Atn{}
	atn.GrammarType = GrammarType(d.readInt())
	atn.MaxTokenType = d.readInt()

	if err := d.readStates(atn); err != nil {
		return nil, err
	}
	if err := d.readNonGreedyAndPrecedenceStates(atn); err != nil {
		return nil, err
	}
	if err := d.readRules(atn); err != nil {
		return nil, err
	}
	if err := d.readModes(atn); err != nil {
		return nil, err
	}
	sets, err := d.readSets(false)
	if err != nil {
		return nil, err
	}
	if addedUnicodeSMP {
		smpSets, err := d.readSets(true)
		if err != nil {
			return nil, err
		}
		sets = append(sets, smpSets...)
	}
	if err := d.readEdges(atn, sets); err != nil {
		return nil, err
	}
	if err := d.readDecisions(atn); err != nil {
		return nil, err
	}
	if atn.GrammarType == GrammarLexer {
		if err := d.readLexerActions(atn); err != nil {
			return nil, err
		}
	}
	markPrecedenceDecisions(atn)
	if err := verifyAtn(atn); err != nil {
		return nil, err
	}
	return atn, nil
}

// decodeElement reverses the serializer's +2 offset, with the two
// low-valued wraparound cases spec.md §6 calls out explicitly.
func decodeElement(x uint16) int {
	switch x {
	case 0:
		return 65534
	case 1:
		return 65535
	default:
		return int(x) - 2
	}
}

func (d *AtnDeserializer) readInt() int {
	v := d.data[d.pos]
	d.pos++
	return v
}

func (d *AtnDeserializer) readUUID() ([16]byte, error) {
	var u [16]byte
	if d.pos+8 > len(d.data) {
		return u, &UnsupportedAtnError{Reason: "truncated uuid"}
	}
	for i := 0; i < 8; i++ {
		v := d.readInt()
		u[2*i] = byte(v & 0xFF)
		u[2*i+1] = byte((v >> 8) & 0xFF)
	}
	return u, nil
}

func ruleIndexOrMinusOne(v int) int {
	if v == 0xFFFF {
		return -1
	}
	return v
}

func (d *AtnDeserializer) readStates(atn *Atn) error {
	n := d.readInt()
	atn.States = make([]*AtnState, n)

	type pendingLoopEnd struct {
		stateIdx     int
		loopBackNum  int
	}
	type pendingBlockStart struct {
		stateIdx  int
		endStateNum int
	}
	var pendingLoopEnds []pendingLoopEnd
	var pendingBlockStarts []pendingBlockStart

	for i := 0; i < n; i++ {
		stype := AtnStateType(d.readInt())
		if stype < wireStateBasic || stype > wireStateLoopEnd {
			return &UnsupportedAtnError{Reason: fmt.Sprintf("unknown state type %d", stype)}
		}
		ruleIndex := ruleIndexOrMinusOne(d.readInt())

		s := &AtnState{StateNumber: i, StateType: stype, RuleIndex: ruleIndex, Decision: -1}

		switch stype {
		case wireStateLoopEnd:
			pendingLoopEnds = append(pendingLoopEnds, pendingLoopEnd{stateIdx: i, loopBackNum: d.readInt()})
		case wireStateBlockStart, wireStatePlusBlockStart, wireStateStarBlockStart:
			pendingBlockStarts = append(pendingBlockStarts, pendingBlockStart{stateIdx: i, endStateNum: d.readInt()})
		}

		s.StateType = mapWireState(stype)
		atn.States[i] = s
	}

	for _, p := range pendingLoopEnds {
		atn.States[p.stateIdx].LoopBackState = atn.States[p.loopBackNum]
	}
	for _, p := range pendingBlockStarts {
		end := atn.States[p.endStateNum]
		atn.States[p.stateIdx].EndState = end
		end.StartState = atn.States[p.stateIdx]
	}
	return nil
}

// mapWireState is currently the identity since wireState* and the
// in-memory AtnStateType constants are declared in the same order; kept as
// a separate function so the two numberings may diverge without breaking
// callers.
func mapWireState(w AtnStateType) AtnStateType { return w }

func (d *AtnDeserializer) readNonGreedyAndPrecedenceStates(atn *Atn) error {
	nonGreedy := d.readInt()
	for i := 0; i < nonGreedy; i++ {
		atn.States[d.readInt()].NonGreedy = true
	}
	precedence := d.readInt()
	for i := 0; i < precedence; i++ {
		// The precedence-rule list is read past and discarded: nothing
		// records which rules it names, and markPrecedenceDecisions does
		// not consult it.
		d.readInt()
	}
	return nil
}

func (d *AtnDeserializer) readRules(atn *Atn) error {
	n := d.readInt()
	atn.RuleToStartState = make([]*AtnState, n)
	if atn.GrammarType == GrammarLexer {
		atn.RuleToTokenType = make([]int, n)
	}
	for i := 0; i < n; i++ {
		startState := d.readInt()
		atn.RuleToStartState[i] = atn.States[startState]
		if atn.GrammarType == GrammarLexer {
			tokenType := d.readInt()
			if tokenType == 0xFFFF {
				tokenType = Eof
			}
			atn.RuleToTokenType[i] = tokenType
		}
	}
	atn.RuleToStopState = make([]*AtnState, n)
	for _, s := range atn.States {
		if s.StateType == StateRuleStop {
			atn.RuleToStopState[s.RuleIndex] = s
			atn.RuleToStartState[s.RuleIndex].StopState = s
		}
	}
	return nil
}

func (d *AtnDeserializer) readModes(atn *Atn) error {
	n := d.readInt()
	atn.ModeToStartState = make([]*AtnState, n)
	for i := 0; i < n; i++ {
		atn.ModeToStartState[i] = atn.States[d.readInt()]
	}
	return nil
}

func (d *AtnDeserializer) readSets(smp bool) ([]*IntervalSet, error) {
	n := d.readInt()
	sets := make([]*IntervalSet, n)
	for i := 0; i < n; i++ {
		set := NewIntervalSet()
		nIntervals := d.readInt()
		containsEof := d.readInt() != 0
		if containsEof {
			set.AddOne(Eof)
		}
		for j := 0; j < nIntervals; j++ {
			var lo, hi int
			if smp {
				loLow, loHigh := d.readInt(), d.readInt()
				hiLow, hiHigh := d.readInt(), d.readInt()
				lo = loLow | (loHigh << 16)
				hi = hiLow | (hiHigh << 16)
			} else {
				lo, hi = d.readInt(), d.readInt()
			}
			set.AddRange(lo, hi)
		}
		sets[i] = set
	}
	return sets, nil
}

func (d *AtnDeserializer) readEdges(atn *Atn, sets []*IntervalSet) error {
	n := d.readInt()
	type ruleCall struct {
		src *AtnState
		t   *Transition
	}
	var ruleCalls []ruleCall
	for i := 0; i < n; i++ {
		src := d.readInt()
		trg := d.readInt()
		ttype := TransitionKind(d.readInt())
		arg1 := d.readInt()
		arg2 := d.readInt()
		arg3 := d.readInt()
		t, err := d.edgeFactory(atn, ttype, trg, arg1, arg2, arg3, sets)
		if err != nil {
			return err
		}
		atn.States[src].AddTransition(t)
		if ttype == TransRule {
			ruleCalls = append(ruleCalls, ruleCall{src: atn.States[src], t: t})
		}
	}
	for _, rc := range ruleCalls {
		stop := atn.RuleToStopState[rc.t.RuleStart.RuleIndex]
		outermost := -1
		if rc.t.Precedence == 0 {
			if isPrecedenceRule(atn, rc.t.RuleStart.RuleIndex) {
				outermost = rc.t.RuleStart.RuleIndex
			}
		}
		eps := NewEpsilonTransition(rc.t.FollowState)
		eps.OutermostPrecedenceReturn = outermost
		stop.AddTransition(eps)
	}
	for _, s := range atn.States {
		for _, t := range s.Transitions {
			if (s.StateType == StatePlusLoopBack && t.Target.StateType == StatePlusBlockStart) ||
				(s.StateType == StateStarLoopBack && t.Target.StateType == StateStarLoopEntry) {
				t.Target.LoopBackState = s
			}
		}
	}
	return nil
}

// isPrecedenceRule reports whether ruleIndex's start state has a
// transition straight to a StarLoopEntry. It runs before
// markPrecedenceDecisions and does not repeat that function's
// LoopEnd/RuleStop test, nor consult the serialized precedence-rule list.
func isPrecedenceRule(atn *Atn, ruleIndex int) bool {
	start := atn.RuleToStartState[ruleIndex]
	for _, t := range start.Transitions {
		if t.Target != nil && t.Target.StateType == StateStarLoopEntry {
			return true
		}
	}
	return false
}

func (d *AtnDeserializer) edgeFactory(atn *Atn, ttype TransitionKind, trg, arg1, arg2, arg3 int, sets []*IntervalSet) (*Transition, error) {
	target := atn.States[trg]
	switch ttype {
	case TransEpsilon:
		return NewEpsilonTransition(target), nil
	case TransRange:
		lo, hi := arg1, arg2
		if arg3 != 0 {
			lo, hi = Eof, Eof
		}
		return NewRangeTransition(target, lo, hi), nil
	case TransRule:
		ruleStart := atn.States[arg1]
		return NewRuleTransition(ruleStart, arg2, arg3, target), nil
	case TransPredicate:
		return NewPredicateTransition(target, arg1, arg2, arg3 != 0), nil
	case TransAtom:
		sym := arg1
		if arg3 != 0 {
			sym = Eof
		}
		return NewAtomTransition(target, sym), nil
	case TransAction:
		return NewActionTransition(target, arg1, arg2, arg3 != 0), nil
	case TransSet:
		return NewSetTransition(target, sets[arg1]), nil
	case TransNotSet:
		return NewNotSetTransition(target, sets[arg1]), nil
	case TransWildcard:
		return NewWildcardTransition(target), nil
	case TransPrecedencePredicate:
		return NewPrecedencePredicateTransition(target, arg1), nil
	default:
		return nil, &UnsupportedAtnError{Reason: fmt.Sprintf("unknown transition type %d", ttype)}
	}
}

func (d *AtnDeserializer) readDecisions(atn *Atn) error {
	n := d.readInt()
	atn.DecisionToState = make([]*AtnState, n)
	for i := 0; i < n; i++ {
		s := atn.States[d.readInt()]
		s.Decision = i
		atn.DecisionToState[i] = s
	}
	return nil
}

func (d *AtnDeserializer) readLexerActions(atn *Atn) error {
	n := d.readInt()
	atn.LexerActions = make([]LexerAction, n)
	for i := 0; i < n; i++ {
		kind := d.readInt()
		data1 := d.readInt()
		if data1 == 0xFFFF {
			data1 = -1
		}
		data2 := d.readInt()
		if data2 == 0xFFFF {
			data2 = -1
		}
		if kind < wireActionChannel || kind > wireActionType {
			return &UnsupportedAtnError{Reason: fmt.Sprintf("unknown lexer action type %d", kind)}
		}
		atn.LexerActions[i] = decodeLexerAction(kind, data1, data2)
	}
	return nil
}

func decodeLexerAction(kind, data1, data2 int) LexerAction {
	switch kind {
	case wireActionChannel:
		return LexerAction{Kind: ActionChannel, Channel: data1}
	case wireActionCustom:
		return LexerAction{Kind: ActionCustom, RuleIndex: data1, ActionIndex: data2}
	case wireActionMode:
		return LexerAction{Kind: ActionMode, Mode: data1}
	case wireActionMore:
		return LexerAction{Kind: ActionMore}
	case wireActionPopMode:
		return LexerAction{Kind: ActionPopMode}
	case wireActionPushMode:
		return LexerAction{Kind: ActionPushMode, Mode: data1}
	case wireActionSkip:
		return LexerAction{Kind: ActionSkip}
	case wireActionType:
		return LexerAction{Kind: ActionType, Type: data1}
	default:
		return LexerAction{Kind: ActionSkip}
	}
}

// markPrecedenceDecisions flags every StarLoopEntry whose last transition
// leads to a LoopEnd whose sole outgoing target is a RuleStop. It does not
// check whether the entry's rule is a precedence (left-recursive) rule.
func markPrecedenceDecisions(atn *Atn) {
	for _, s := range atn.States {
		if s.StateType != StateStarLoopEntry {
			continue
		}
		if len(s.Transitions) == 0 {
			continue
		}
		last := s.Transitions[len(s.Transitions)-1]
		if last.Target == nil || last.Target.StateType != StateLoopEnd {
			continue
		}
		loopEnd := last.Target
		if len(loopEnd.Transitions) != 1 {
			continue
		}
		if loopEnd.Transitions[0].Target == nil || loopEnd.Transitions[0].Target.StateType != StateRuleStop {
			continue
		}
		s.IsPrecedenceDecision = true
	}
}

// verifyAtn runs the structural checks spec.md §4.1 calls out, failing
// with InconsistentAtnError on the first violation found.
func verifyAtn(atn *Atn) error {
	for _, s := range atn.States {
		if s == nil {
			continue
		}
		switch s.StateType {
		case StatePlusBlockStart, StateStarLoopEntry:
			if s.LoopBackState == nil {
				return &InconsistentAtnError{Reason: fmt.Sprintf("state %d missing loopBackState", s.StateNumber)}
			}
		case StateBlockEnd:
			if s.StartState == nil {
				return &InconsistentAtnError{Reason: fmt.Sprintf("BlockEnd %d missing startState", s.StateNumber)}
			}
		case StateLoopEnd:
			if s.LoopBackState == nil {
				return &InconsistentAtnError{Reason: fmt.Sprintf("LoopEnd %d missing loopBackState", s.StateNumber)}
			}
		}
		if s.StateType == StateStarLoopEntry {
			if err := verifyStarLoopEntry(s); err != nil {
				return err
			}
		}
		if !(len(s.Transitions) <= 1 || s.OnlyHasEpsilonTransitions() || s.isDecisionState() || s.StateType == StateRuleStop) {
			return &InconsistentAtnError{Reason: fmt.Sprintf("state %d has multiple non-epsilon transitions but is not a decision state", s.StateNumber)}
		}
	}
	for ruleIndex, stop := range atn.RuleToStopState {
		if stop == nil {
			return &InconsistentAtnError{Reason: fmt.Sprintf("rule %d missing stop state", ruleIndex)}
		}
		if atn.RuleToStartState[ruleIndex].StopState == nil {
			return &InconsistentAtnError{Reason: fmt.Sprintf("rule %d start state missing stopState back-link", ruleIndex)}
		}
	}
	return nil
}

func verifyStarLoopEntry(s *AtnState) error {
	if len(s.Transitions) != 2 {
		return &InconsistentAtnError{Reason: fmt.Sprintf("StarLoopEntry %d must have exactly two transitions", s.StateNumber)}
	}
	first, second := s.Transitions[0].Target, s.Transitions[1].Target
	if s.NonGreedy {
		if first == nil || second == nil || first.StateType != StateLoopEnd || second.StateType != StateStarBlockStart {
			return &InconsistentAtnError{Reason: fmt.Sprintf("non-greedy StarLoopEntry %d must be {LoopEnd, StarBlockStart}", s.StateNumber)}
		}
	} else {
		if first == nil || second == nil || first.StateType != StateStarBlockStart || second.StateType != StateLoopEnd {
			return &InconsistentAtnError{Reason: fmt.Sprintf("greedy StarLoopEntry %d must be {StarBlockStart, LoopEnd}", s.StateNumber)}
		}
	}
	return nil
}
