// Package antlr4 implements the lexer runtime core of an ANTLR-style
// parser generator: ATN deserialization, the prediction-context graph,
// and the adaptive LL(*) lexer simulator that turns a Unicode code point
// stream into a token stream.
//
// Generated lexers supply a serialized ATN, a Host implementation for
// semantic predicates and custom actions, and a CharStream; everything
// else — DFA construction, closure/reach, predicate scheduling, action
// deferral, longest-match arbitration — lives here.
package antlr4
