package antlr4

import (
	"encoding/binary"
	"fmt"
	"os"
)

// LoadAtnFile reads path as a little-endian stream of 16-bit code units
// and deserializes it with DeserializeAtn. This is the on-disk form
// cmd/lexdump and cmd/fuzzd expect an ATN dump to be in.
func LoadAtnFile(path string) (*Atn, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read atn file: %w", err)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("atn file %s has an odd byte count", path)
	}
	data := make([]uint16, len(raw)/2)
	for i := range data {
		data[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return DeserializeAtn(data)
}

// GrammarType distinguishes a lexer ATN from a parser ATN. This module
// only executes lexer ATNs. The deserializer also accepts a parser ATN
// (it then reads no token types and no lexer actions), and
// LexerAtnSimulator.Match does not check GrammarType before running.
type GrammarType int

const (
	GrammarLexer GrammarType = iota
	GrammarParser
)

// Eof is the public EOF code point, exposed for Host/CharStream callers.
const Eof = eof

// Atn is the immutable, fully-deserialized in-memory NFA. Build one via
// DeserializeAtn; the zero value is not usable.
type Atn struct {
	GrammarType  GrammarType
	MaxTokenType int

	States []*AtnState // indexed by StateNumber

	RuleToStartState []*AtnState
	RuleToStopState  []*AtnState
	RuleToTokenType  []int // lexer grammars only; -1 for EOF-mapped rules

	ModeToStartState []*AtnState

	DecisionToState []*AtnState

	LexerActions []LexerAction

	modeNames []string
}

// NextTokenType returns the token type a RuleStop's owning rule predicts.
func (a *Atn) NextTokenType(ruleIndex int) int {
	if ruleIndex < 0 || ruleIndex >= len(a.RuleToTokenType) {
		return -1
	}
	return a.RuleToTokenType[ruleIndex]
}
