package antlr4

// Host is the small capability interface a generated lexer implements so
// the simulator can read/write the lexer's mutable fields and call back
// into generated predicate/action code, without a virtual-dispatch base
// class.
type Host interface {
	// SetType/SetChannel/SetMode mutate the token currently being built.
	SetType(t int)
	SetChannel(c int)
	SetMode(m int)

	// PushMode/PopMode manipulate the host's mode stack.
	PushMode(m int)
	PopMode()

	// Skip discards the current match (no token emitted); More restarts
	// matching without resetting the accumulated text.
	Skip()
	More()

	// Action invokes generated custom-action code.
	Action(ruleIndex, actionIndex int)

	// Sempred invokes a generated semantic predicate.
	Sempred(ruleIndex, predIndex int, speculative bool) bool
}
