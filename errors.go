package antlr4

import "fmt"

// UnsupportedAtnError is returned when the ATN deserializer encounters a
// version mismatch, an unknown UUID, or an unknown transition/state/action
// tag while reading the binary format.
type UnsupportedAtnError struct {
	Reason string
}

func (e *UnsupportedAtnError) Error() string {
	return fmt.Sprintf("unsupported atn: %s", e.Reason)
}

// InconsistentAtnError is returned when the post-deserialization structural
// verification pass finds a violated invariant.
type InconsistentAtnError struct {
	Reason string
}

func (e *InconsistentAtnError) Error() string {
	return fmt.Sprintf("inconsistent atn: %s", e.Reason)
}

// LexerNoViableAltError is returned by Match when no accept state was
// captured before the DFA/ATN walk reached a dead end.
type LexerNoViableAltError struct {
	StartIndex     int
	DeadEndConfigs *AtnConfigSet
}

func (e *LexerNoViableAltError) Error() string {
	return fmt.Sprintf("no viable alternative at input index %d", e.StartIndex)
}

// IllegalPredicateInLexerError is raised when closure encounters a
// PrecedencePredicate transition, which lexers never legally emit.
type IllegalPredicateInLexerError struct {
	RuleIndex int
}

func (e *IllegalPredicateInLexerError) Error() string {
	return fmt.Sprintf("precedence predicate in lexer rule %d", e.RuleIndex)
}

// ReadOnlyMutationError is raised by AtnConfigSet methods that mutate state
// once the set has been frozen via SetReadOnly(true).
type ReadOnlyMutationError struct {
	Op string
}

func (e *ReadOnlyMutationError) Error() string {
	return fmt.Sprintf("attempted %s on a read-only config set", e.Op)
}
