package antlr4

import (
	"sort"
	"strings"
)

// Interval is a half-open range [Start, Stop).
type Interval struct {
	Start int
	Stop  int
}

// IntervalSet holds an ordered sequence of disjoint, non-empty, half-open
// intervals sorted ascending by Start. Adjacent or overlapping intervals
// are coalesced on insertion.
type IntervalSet struct {
	intervals []Interval
	readOnly  bool
}

// NewIntervalSet returns an empty set.
func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// NewIntervalSetFromRange returns a set containing the single inclusive
// interval lo..hi (following the grammar convention that callers pass
// inclusive endpoints; it is stored half-open internally as [lo,hi+1)).
func NewIntervalSetFromRange(lo, hi int) *IntervalSet {
	s := NewIntervalSet()
	s.AddRange(lo, hi)
	return s
}

// AddOne inserts the single code point v.
func (s *IntervalSet) AddOne(v int) {
	s.AddRange(v, v)
}

// AddRange inserts the inclusive range [lo, hi], merging with any
// overlapping or adjacent existing interval.
func (s *IntervalSet) AddRange(lo, hi int) {
	if s.readOnly {
		panic(&ReadOnlyMutationError{Op: "AddRange"})
	}
	if hi < lo {
		return
	}
	ivl := Interval{Start: lo, Stop: hi + 1}
	n := len(s.intervals)
	// Binary search for insertion point by Start.
	i := sort.Search(n, func(i int) bool { return s.intervals[i].Start > ivl.Start })
	// Merge leftwards: if the previous interval touches/overlaps, absorb it.
	if i > 0 && s.intervals[i-1].Stop >= ivl.Start {
		i--
		if s.intervals[i].Stop > ivl.Stop {
			ivl.Stop = s.intervals[i].Stop
		}
		ivl.Start = s.intervals[i].Start
		s.intervals = append(s.intervals[:i], s.intervals[i+1:]...)
	}
	// Merge rightwards: absorb any following intervals overlapping/adjacent.
	j := i
	for j < len(s.intervals) && s.intervals[j].Start <= ivl.Stop {
		if s.intervals[j].Stop > ivl.Stop {
			ivl.Stop = s.intervals[j].Stop
		}
		j++
	}
	merged := make([]Interval, 0, len(s.intervals)-j+i+1)
	merged = append(merged, s.intervals[:i]...)
	merged = append(merged, ivl)
	merged = append(merged, s.intervals[j:]...)
	s.intervals = merged
}

// AddSet inserts every interval of other.
func (s *IntervalSet) AddSet(other *IntervalSet) {
	for _, ivl := range other.intervals {
		s.AddRange(ivl.Start, ivl.Stop-1)
	}
}

// Contains reports whether v falls within some interval.
func (s *IntervalSet) Contains(v int) bool {
	n := len(s.intervals)
	i := sort.Search(n, func(i int) bool { return s.intervals[i].Stop > v })
	return i < n && s.intervals[i].Start <= v
}

// Length returns the number of code points covered.
func (s *IntervalSet) Length() int {
	total := 0
	for _, ivl := range s.intervals {
		total += ivl.Stop - ivl.Start
	}
	return total
}

// Intervals exposes the underlying ordered, disjoint interval slice.
// Callers must not mutate the returned slice's elements.
func (s *IntervalSet) Intervals() []Interval {
	return s.intervals
}

// Get returns the index-th code point covered by s, in ascending order.
// Panics if index is out of range; callers size their random choice with
// Length first.
func (s *IntervalSet) Get(index int) int {
	for _, ivl := range s.intervals {
		n := ivl.Stop - ivl.Start
		if index < n {
			return ivl.Start + index
		}
		index -= n
	}
	panic("antlr4: interval set index out of range")
}

// GetIndex returns the ascending position of v within s's covered code
// points, or -1 if v is not contained.
func (s *IntervalSet) GetIndex(v int) int {
	index := 0
	for _, ivl := range s.intervals {
		if v < ivl.Start {
			return -1
		}
		if v < ivl.Stop {
			return index + (v - ivl.Start)
		}
		index += ivl.Stop - ivl.Start
	}
	return -1
}

// Complement returns the set of values in [lo, hi] not covered by s.
func (s *IntervalSet) Complement(lo, hi int) *IntervalSet {
	result := NewIntervalSet()
	cur := lo
	for _, ivl := range s.intervals {
		if ivl.Start > hi {
			break
		}
		if ivl.Start > cur {
			result.AddRange(cur, ivl.Start-1)
		}
		if ivl.Stop-1 >= cur {
			cur = ivl.Stop
		}
		if cur > hi {
			break
		}
	}
	if cur <= hi {
		result.AddRange(cur, hi)
	}
	return result
}

// SetReadOnly freezes the set against further mutation once interned,
// mirroring AtnConfigSet's freeze-on-intern discipline.
func (s *IntervalSet) SetReadOnly(v bool) {
	s.readOnly = v
}

func (s *IntervalSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, ivl := range s.intervals {
		if i > 0 {
			b.WriteByte(',')
		}
		if ivl.Stop-ivl.Start == 1 {
			b.WriteString(runeLabel(ivl.Start))
		} else {
			b.WriteString(runeLabel(ivl.Start))
			b.WriteString("..")
			b.WriteString(runeLabel(ivl.Stop - 1))
		}
	}
	b.WriteByte('}')
	return b.String()
}

func runeLabel(v int) string {
	if v == eof {
		return "<EOF>"
	}
	return string(rune(v))
}
