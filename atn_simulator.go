package antlr4

// baseAtnSimulator carries the state every ATN-driven simulator needs:
// the shared, immutable Atn and the SharedContextCache used to intern
// PredictionContext graphs it builds during closure. LexerAtnSimulator
// embeds it.
type baseAtnSimulator struct {
	atn                *Atn
	sharedContextCache *SharedContextCache
}

func newBaseAtnSimulator(atn *Atn, cache *SharedContextCache) baseAtnSimulator {
	if cache == nil {
		cache = NewSharedContextCache()
	}
	return baseAtnSimulator{atn: atn, sharedContextCache: cache}
}

// Atn exposes the simulator's immutable grammar graph.
func (b *baseAtnSimulator) Atn() *Atn { return b.atn }
