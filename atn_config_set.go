package antlr4

// AtnConfigSet is an ordered collection of AtnConfigs, deduplicated by
// (state, alt): adding a config whose (state, alt) already exists merges
// its context into the existing entry's context via
// PredictionContext.Merge rather than appending a duplicate. It becomes
// read-only once interned into a DfaState.
type AtnConfigSet struct {
	Configs []*AtnConfig

	byContext map[configByContextKey]int // key -> index into Configs

	HasSemanticContext  bool
	DipsIntoOuterContext bool
	UniqueAlt            int // 0 means "not yet known / ambiguous"
	FullCtx               bool

	readOnly bool
	cache    *MergeCache
}

// NewAtnConfigSet returns an empty set. fullCtx distinguishes SLL (false)
// from LL (true) prediction; lexer simulation always uses SLL-style
// (fullCtx=false) contexts since rootIsWildcard applies.
func NewAtnConfigSet(fullCtx bool) *AtnConfigSet {
	return &AtnConfigSet{
		byContext: make(map[configByContextKey]int),
		FullCtx:   fullCtx,
		cache:     NewMergeCache(),
	}
}

// Add inserts cfg, merging contexts with any existing config sharing its
// (state, alt), whatever its context. Returns the config actually stored
// (possibly the pre-existing one with a merged context).
func (s *AtnConfigSet) Add(cfg *AtnConfig) *AtnConfig {
	if s.readOnly {
		panic(&ReadOnlyMutationError{Op: "Add"})
	}
	key := configByContextKey{state: cfg.State.StateNumber, alt: cfg.Alt}
	if idx, ok := s.byContext[key]; ok {
		existing := s.Configs[idx]
		merged := Merge(existing.Context, cfg.Context, !s.FullCtx, s.cache)
		existing.Context = merged
		return existing
	}
	s.byContext[key] = len(s.Configs)
	s.Configs = append(s.Configs, cfg)
	if cfg.HasSemanticContext {
		s.HasSemanticContext = true
	}
	if cfg.ReachesOuterContext > 0 {
		s.DipsIntoOuterContext = true
	}
	return cfg
}

// Len reports the number of distinct configs.
func (s *AtnConfigSet) Len() int { return len(s.Configs) }

// SetReadOnly freezes the set, matching the "frozen once interned into a
// DfaState" lifecycle from the data model.
func (s *AtnConfigSet) SetReadOnly(v bool) {
	s.readOnly = v
}

// IsReadOnly reports the frozen flag.
func (s *AtnConfigSet) IsReadOnly() bool { return s.readOnly }

// dfaStateHash and dfaStateEquals implement DFA-state equality (context
// ignored) over whole config sets, used by Dfa.addState to decide whether
// a freshly computed reach set is the same DFA state as one already
// interned.
func (s *AtnConfigSet) dfaStateHash() uint64 {
	var h uint64 = 14695981039346656037
	seen := make(map[configByDfaStateKey]bool, len(s.Configs))
	for _, c := range s.Configs {
		k := dfaStateKey(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		h ^= uint64(k.state)*1099511628211 + uint64(k.alt)
		h *= 1099511628211
	}
	return h
}

func (s *AtnConfigSet) dfaStateEquals(o *AtnConfigSet) bool {
	ak := configSetDfaKeys(s)
	bk := configSetDfaKeys(o)
	if len(ak) != len(bk) {
		return false
	}
	for k := range ak {
		if !bk[k] {
			return false
		}
	}
	return true
}

func configSetDfaKeys(s *AtnConfigSet) map[configByDfaStateKey]bool {
	m := make(map[configByDfaStateKey]bool, len(s.Configs))
	for _, c := range s.Configs {
		m[dfaStateKey(c)] = true
	}
	return m
}

// firstRuleStop returns the first config whose state is a RuleStop, used
// by Dfa.AddState to decide accept-state status and prediction.
func (s *AtnConfigSet) firstRuleStop() *AtnConfig {
	for _, c := range s.Configs {
		if c.State.StateType == StateRuleStop {
			return c
		}
	}
	return nil
}
