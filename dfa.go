package antlr4

import "sync"

// Dfa is the lazily-materialized per-mode deterministic automaton. All of
// its mutating operations must be safe under concurrent readers, since one
// Atn/Dfa/SharedContextCache triple is shared by every lexer instance
// generated from the same grammar; a coarse mutex is the portable baseline
// the reference implementations use and is what this type carries.
type Dfa struct {
	mu sync.Mutex

	states map[uint64][]*DfaState // bucketed by dfaStateHash, compared by dfaStateEquals
	s0     *DfaState

	Mode int
}

// NewDfa returns an empty DFA for the given lexer mode.
func NewDfa(mode int) *Dfa {
	return &Dfa{states: make(map[uint64][]*DfaState), Mode: mode}
}

// S0 returns the DFA's start state, or nil if none has been installed yet.
func (d *Dfa) S0() *DfaState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s0
}

// SetS0 installs the start state. Called once per mode on first use,
// except when the start closure carries semantic context, in which case
// the caller deliberately leaves s0 unset so predicates are re-evaluated
// on every visit (see Simulator.matchATN's suppressEdge handling).
func (d *Dfa) SetS0(s *DfaState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.s0 = s
}

// AddState interns configs as a DfaState: builds a proposal, marks it
// accepting if any config's state is a RuleStop (recording that config's
// action executor and predicted token type), then looks the proposal up
// by DFA-state equality (context-blind). Returns the canonical,
// previously-interned state if one already matches; otherwise assigns a
// fresh StateNumber, freezes the config set, and inserts.
func (d *Dfa) AddState(atn *Atn, configs *AtnConfigSet) *DfaState {
	proposal := &DfaState{Configs: configs}
	if stop := configs.firstRuleStop(); stop != nil {
		proposal.IsAcceptState = true
		proposal.LexerActionExecutor = stop.LexerActionExecutor
		proposal.Prediction = atn.NextTokenType(stop.State.RuleIndex)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	h := configs.dfaStateHash()
	for _, cand := range d.states[h] {
		if cand.Configs.dfaStateEquals(configs) {
			return cand
		}
	}
	proposal.StateNumber = d.size()
	configs.SetReadOnly(true)
	d.states[h] = append(d.states[h], proposal)
	return proposal
}

func (d *Dfa) size() int {
	n := 0
	for _, bucket := range d.states {
		n += len(bucket)
	}
	return n
}

// AddEdge installs the edge from--t-->to if t is within the DFA edge
// window; otherwise it is a no-op (the caller still uses to directly).
// It takes no config set, since DfaState already carries its own.
func (d *Dfa) AddEdge(from *DfaState, t int, to *DfaState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	from.setEdge(t, to)
}
