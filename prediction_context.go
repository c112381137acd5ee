package antlr4

import "sort"

// EmptyReturnState is the sentinel return-state value marking the root of
// the call stack. Array contexts keep it sorted last.
const EmptyReturnState = 0x7FFFFFFF

// PredictionContext is an immutable, structurally-interned node of the
// graph-structured stack used during closure to represent rule-call
// history. It is either the Empty root, a Singleton{parent,returnState},
// or an Array{parents[],returnStates[]}.
type PredictionContext struct {
	isEmpty      bool
	parents      []*PredictionContext // len 0 for Empty, 1 for Singleton, N for Array
	returnStates []int
	cachedHash   uint64
}

// Empty is the shared sentinel root context.
var Empty = &PredictionContext{isEmpty: true, returnStates: []int{EmptyReturnState}}

func init() {
	Empty.cachedHash = Empty.computeHash()
}

// NewSingletonContext builds a one-frame call stack on top of parent.
// parent may be nil, meaning "on top of Empty".
func NewSingletonContext(parent *PredictionContext, returnState int) *PredictionContext {
	if parent == nil {
		parent = Empty
	}
	c := &PredictionContext{parents: []*PredictionContext{parent}, returnStates: []int{returnState}}
	c.cachedHash = c.computeHash()
	return c
}

func newArrayContext(parents []*PredictionContext, returnStates []int) *PredictionContext {
	c := &PredictionContext{parents: parents, returnStates: returnStates}
	c.cachedHash = c.computeHash()
	return c
}

// IsEmpty reports whether c is the Empty root.
func (c *PredictionContext) IsEmpty() bool { return c.isEmpty }

// HasEmptyPath reports whether c's final frame is the Empty sentinel,
// i.e. its last return state is EmptyReturnState.
func (c *PredictionContext) HasEmptyPath() bool {
	return c.getReturnState(c.length()-1) == EmptyReturnState
}

func (c *PredictionContext) length() int { return len(c.returnStates) }

func (c *PredictionContext) getParent(i int) *PredictionContext {
	if c.isEmpty {
		return nil
	}
	return c.parents[i]
}

func (c *PredictionContext) getReturnState(i int) int { return c.returnStates[i] }

func (c *PredictionContext) computeHash() uint64 {
	var h uint64 = 14695981039346656037
	mix := func(v uint64) { h ^= v; h *= 1099511628211 }
	for i, rs := range c.returnStates {
		mix(uint64(rs))
		if !c.isEmpty {
			mix(c.parents[i].cachedHash)
		}
	}
	return h
}

func (c *PredictionContext) equals(o *PredictionContext) bool {
	if c == o {
		return true
	}
	if c.isEmpty != o.isEmpty || c.cachedHash != o.cachedHash || len(c.returnStates) != len(o.returnStates) {
		return false
	}
	for i := range c.returnStates {
		if c.returnStates[i] != o.returnStates[i] {
			return false
		}
	}
	if c.isEmpty {
		return true
	}
	for i := range c.parents {
		if !c.parents[i].equals(o.parents[i]) {
			return false
		}
	}
	return true
}

// mergeCacheKey identifies an (a,b) pair for one Merge call's cache.
type mergeCacheKey struct {
	a, b *PredictionContext
}

// MergeCache memoizes merge results within the lifetime of one closure
// walk. It is intentionally cheap to discard between matches.
type MergeCache struct {
	m map[mergeCacheKey]*PredictionContext
}

// NewMergeCache returns an empty per-call merge cache.
func NewMergeCache() *MergeCache {
	return &MergeCache{m: make(map[mergeCacheKey]*PredictionContext)}
}

func (mc *MergeCache) get(a, b *PredictionContext) (*PredictionContext, bool) {
	v, ok := mc.m[mergeCacheKey{a, b}]
	return v, ok
}

func (mc *MergeCache) put(a, b *PredictionContext, v *PredictionContext) {
	mc.m[mergeCacheKey{a, b}] = v
	mc.m[mergeCacheKey{b, a}] = v
}

// Merge combines a and b, representing two ways the simulator reached the
// same ATN state, per the GSS merge rules: physical/structural equality
// short-circuits; an Empty side under a wildcard root (SLL) short-circuits
// to Empty; singleton/singleton either recurses on equal return states or
// produces a two-way array; array/array does an n-way ordered merge by
// return state, recursively merging parents of coalesced entries. Results
// are always interned in cache.
func Merge(a, b *PredictionContext, rootIsWildcard bool, cache *MergeCache) *PredictionContext {
	if a == b || a.equals(b) {
		return a
	}
	if cache != nil {
		if v, ok := cache.get(a, b); ok {
			return v
		}
	}
	var result *PredictionContext
	switch {
	case a.isEmpty && b.isEmpty:
		result = Empty
	case a.isEmpty:
		result = mergeRoot(a, b, rootIsWildcard)
	case b.isEmpty:
		result = mergeRoot(b, a, rootIsWildcard)
	case len(a.returnStates) == 1 && len(b.returnStates) == 1:
		result = mergeSingletons(a, b, rootIsWildcard, cache)
	default:
		result = mergeArrays(asArray(a), asArray(b), rootIsWildcard, cache)
	}
	if cache != nil {
		cache.put(a, b, result)
	}
	return result
}

func mergeRoot(empty, other *PredictionContext, rootIsWildcard bool) *PredictionContext {
	if rootIsWildcard {
		return Empty
	}
	// Preserve EMPTY as a distinguished EmptyReturnState branch in an array.
	otherArr := asArray(other)
	returnStates := append(append([]int{}, otherArr.returnStates...), EmptyReturnState)
	parents := append(append([]*PredictionContext{}, otherArr.parents...), Empty)
	return sortedArray(parents, returnStates)
}

func mergeSingletons(a, b *PredictionContext, rootIsWildcard bool, cache *MergeCache) *PredictionContext {
	if a.returnStates[0] == b.returnStates[0] {
		parentMerged := Merge(a.parents[0], b.parents[0], rootIsWildcard, cache)
		if parentMerged == a.parents[0] {
			return a
		}
		if parentMerged == b.parents[0] {
			return b
		}
		return NewSingletonContext(parentMerged, a.returnStates[0])
	}
	// Unequal return states: two-way array, EmptyReturnState (if present)
	// sorted last.
	parents := []*PredictionContext{a.parents[0], b.parents[0]}
	returnStates := []int{a.returnStates[0], b.returnStates[0]}
	if a.returnStates[0] > b.returnStates[0] {
		parents[0], parents[1] = parents[1], parents[0]
		returnStates[0], returnStates[1] = returnStates[1], returnStates[0]
	}
	return sortedArray(parents, returnStates)
}

func mergeArrays(a, b *PredictionContext, rootIsWildcard bool, cache *MergeCache) *PredictionContext {
	i, j := 0, 0
	var parents []*PredictionContext
	var returnStates []int
	for i < len(a.returnStates) && j < len(b.returnStates) {
		pa, ra := a.parents[i], a.returnStates[i]
		pb, rb := b.parents[j], b.returnStates[j]
		switch {
		case ra == rb:
			parents = append(parents, Merge(pa, pb, rootIsWildcard, cache))
			returnStates = append(returnStates, ra)
			i++
			j++
		case ra < rb:
			parents = append(parents, pa)
			returnStates = append(returnStates, ra)
			i++
		default:
			parents = append(parents, pb)
			returnStates = append(returnStates, rb)
			j++
		}
	}
	for ; i < len(a.returnStates); i++ {
		parents = append(parents, a.parents[i])
		returnStates = append(returnStates, a.returnStates[i])
	}
	for ; j < len(b.returnStates); j++ {
		parents = append(parents, b.parents[j])
		returnStates = append(returnStates, b.returnStates[j])
	}
	if len(returnStates) == 1 {
		return NewSingletonContext(parents[0], returnStates[0])
	}
	return newArrayContext(parents, returnStates)
}

func asArray(c *PredictionContext) *PredictionContext {
	if len(c.returnStates) > 1 || c.isEmpty {
		return c
	}
	return newArrayContext([]*PredictionContext{c.parents[0]}, []int{c.returnStates[0]})
}

// sortedArray sorts parents/returnStates ascending by returnState with
// EmptyReturnState always last, and collapses back to a singleton when
// only one frame survives.
func sortedArray(parents []*PredictionContext, returnStates []int) *PredictionContext {
	idx := make([]int, len(returnStates))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(x, y int) bool {
		rx, ry := returnStates[idx[x]], returnStates[idx[y]]
		if rx == EmptyReturnState {
			return false
		}
		if ry == EmptyReturnState {
			return true
		}
		return rx < ry
	})
	sp := make([]*PredictionContext, len(parents))
	sr := make([]int, len(returnStates))
	for i, k := range idx {
		sp[i] = parents[k]
		sr[i] = returnStates[k]
	}
	if len(sr) == 1 {
		return NewSingletonContext(sp[0], sr[0])
	}
	return newArrayContext(sp, sr)
}

// SharedContextCache interns structurally-equal PredictionContext graphs
// so that equal contexts are the same object across the lifetime of an
// Atn's lexer instances.
type SharedContextCache struct {
	cache map[uint64][]*PredictionContext
}

// NewSharedContextCache returns an empty cache.
func NewSharedContextCache() *SharedContextCache {
	return &SharedContextCache{cache: make(map[uint64][]*PredictionContext)}
}

// GetCachedContext rebuilds ctx using only nodes owned by cache, replacing
// structurally equal subgraphs with their cached representative. visited
// memoizes per-call to avoid reprocessing shared subgraphs within one walk.
func (cache *SharedContextCache) GetCachedContext(ctx *PredictionContext, visited map[*PredictionContext]*PredictionContext) *PredictionContext {
	if ctx.isEmpty {
		return ctx
	}
	if existing, ok := visited[ctx]; ok {
		return existing
	}
	if existing := cache.find(ctx); existing != nil {
		visited[ctx] = existing
		return existing
	}
	changed := false
	parents := make([]*PredictionContext, len(ctx.parents))
	for i, p := range ctx.parents {
		np := cache.GetCachedContext(p, visited)
		if np != p {
			changed = true
		}
		parents[i] = np
	}
	var fresh *PredictionContext
	if !changed {
		fresh = ctx
	} else if len(parents) == 1 {
		fresh = NewSingletonContext(parents[0], ctx.returnStates[0])
	} else {
		fresh = newArrayContext(parents, append([]int{}, ctx.returnStates...))
	}
	cache.insert(fresh)
	visited[ctx] = fresh
	return fresh
}

func (cache *SharedContextCache) find(ctx *PredictionContext) *PredictionContext {
	for _, cand := range cache.cache[ctx.cachedHash] {
		if cand.equals(ctx) {
			return cand
		}
	}
	return nil
}

func (cache *SharedContextCache) insert(ctx *PredictionContext) {
	cache.cache[ctx.cachedHash] = append(cache.cache[ctx.cachedHash], ctx)
}
