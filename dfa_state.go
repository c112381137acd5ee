package antlr4

// MinDfaEdge and MaxDfaEdge bound the sparse, array-backed edge table kept
// on every DfaState. Code units outside this window always fall back to
// an ATN computation; widening the window (or switching to a small hash
// table per state) is a permissible implementation choice that would
// trade memory for fewer ATN fallbacks, but [0,127] matches the reference
// implementations and is what this module ships.
const (
	MinDfaEdge = 0
	MaxDfaEdge = 127
)

// DfaState is an interned node of a per-mode Dfa. Once inserted its
// identity and Configs are frozen; edges may only be appended (a nil slot
// filled in), never rewritten, so concurrent readers never observe a
// half-built state.
type DfaState struct {
	StateNumber int
	Configs     *AtnConfigSet

	IsAcceptState       bool
	Prediction          int
	LexerActionExecutor *LexerActionExecutor

	edges []*DfaState // sparse, length grows to at least the highest t+1 seen
}

// getEdge returns the cached target for code unit t, or nil if untaken.
func (d *DfaState) getEdge(t int) *DfaState {
	if t < 0 || t >= len(d.edges) {
		return nil
	}
	return d.edges[t]
}

// setEdge installs target for code unit t if t is within the DFA edge
// window. An edge is never replaced once set (it may only transition
// nil -> non-nil).
func (d *DfaState) setEdge(t int, target *DfaState) {
	if t < MinDfaEdge || t > MaxDfaEdge {
		return
	}
	if t >= len(d.edges) {
		grown := make([]*DfaState, t+1)
		copy(grown, d.edges)
		d.edges = grown
	}
	if d.edges[t] == nil {
		d.edges[t] = target
	}
}

// errorState is the shared sentinel meaning "known dead end"; caching
// edges to it avoids repeated ATN work for the same input character.
var errorState = &DfaState{StateNumber: -1}
