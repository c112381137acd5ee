package antlr4

import "golang.org/x/exp/slices"

// LexerActionKind tags the variant of a LexerAction.
type LexerActionKind int

const (
	ActionChannel LexerActionKind = iota
	ActionCustom
	ActionMode
	ActionMore
	ActionPopMode
	ActionPushMode
	ActionSkip
	ActionType
	ActionIndexedCustom // wraps another action with a frozen input offset
)

// LexerAction is a single deferred side effect queued by closure while
// walking an Action transition, executed once the simulator settles on an
// accept state.
type LexerAction struct {
	Kind LexerActionKind

	Channel int // ActionChannel
	Mode    int // ActionMode, ActionPushMode
	Type    int // ActionType

	RuleIndex   int // ActionCustom
	ActionIndex int // ActionCustom

	Offset int          // ActionIndexedCustom
	Inner  *LexerAction // ActionIndexedCustom
}

// IsPositionDependent reports whether the action's effect depends on
// where in the matched text it executes: true for Custom actions and for
// any action already wrapped in IndexedCustom.
func (a LexerAction) IsPositionDependent() bool {
	return a.Kind == ActionCustom || a.Kind == ActionIndexedCustom
}

func (a LexerAction) equals(b LexerAction) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ActionChannel:
		return a.Channel == b.Channel
	case ActionCustom:
		return a.RuleIndex == b.RuleIndex && a.ActionIndex == b.ActionIndex
	case ActionMode, ActionPushMode:
		return a.Mode == b.Mode
	case ActionType:
		return a.Type == b.Type
	case ActionIndexedCustom:
		return a.Offset == b.Offset && a.Inner.equals(*b.Inner)
	default: // More, PopMode, Skip are unit variants
		return true
	}
}

// LexerActionExecutor is an immutable ordered list of LexerActions with a
// precomputed hash; two executors are equal iff their action lists are
// element-wise equal.
type LexerActionExecutor struct {
	Actions []LexerAction
	hash    uint64
}

// NewLexerActionExecutor interns actions into a fresh executor. A nil
// receiver is treated as the empty executor, matching Append(nil, x).
func NewLexerActionExecutor(actions []LexerAction) *LexerActionExecutor {
	e := &LexerActionExecutor{Actions: actions}
	e.hash = e.computeHash()
	return e
}

// Append returns a new executor with x appended; Append(nil, x) is
// equivalent to NewLexerActionExecutor([]LexerAction{x}).
func Append(e *LexerActionExecutor, x LexerAction) *LexerActionExecutor {
	var base []LexerAction
	if e != nil {
		base = e.Actions
	}
	next := make([]LexerAction, len(base)+1)
	copy(next, base)
	next[len(base)] = x
	return NewLexerActionExecutor(next)
}

// Equals compares two executors element-wise, exactly as the vendored
// runtime's LexerActionExecutor.Equals does via slices.EqualFunc.
func (e *LexerActionExecutor) Equals(o *LexerActionExecutor) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.hash != o.hash {
		return false
	}
	return slices.EqualFunc(e.Actions, o.Actions, func(a, b LexerAction) bool { return a.equals(b) })
}

func (e *LexerActionExecutor) computeHash() uint64 {
	var h uint64 = 14695981039346656037 // FNV-1a offset basis
	mix := func(v uint64) {
		h ^= v
		h *= 1099511628211
	}
	for _, a := range e.Actions {
		mix(uint64(a.Kind))
		mix(uint64(a.Channel))
		mix(uint64(a.Mode))
		mix(uint64(a.Type))
		mix(uint64(a.RuleIndex))
		mix(uint64(a.ActionIndex))
		mix(uint64(a.Offset))
	}
	return h
}

// FixOffsetBeforeMatch wraps every position-dependent, not-yet-wrapped
// action with its frozen offset relative to the token start. Returns the
// same executor (identity) if nothing needed wrapping, so that executors
// with identical fixed action lists keep comparing equal across different
// input positions of the same match length.
func (e *LexerActionExecutor) FixOffsetBeforeMatch(offset int) *LexerActionExecutor {
	if e == nil {
		return nil
	}
	var updated []LexerAction
	for i, a := range e.Actions {
		if a.IsPositionDependent() && a.Kind != ActionIndexedCustom {
			if updated == nil {
				updated = make([]LexerAction, len(e.Actions))
				copy(updated, e.Actions)
			}
			inner := a
			updated[i] = LexerAction{Kind: ActionIndexedCustom, Offset: offset, Inner: &inner}
		}
	}
	if updated == nil {
		return e
	}
	return NewLexerActionExecutor(updated)
}

// Execute runs every queued action in list order. IndexedCustom actions
// seek the input to startIndex+Offset before firing; any other
// position-dependent action seeks to the caller-supplied stopIndex. After
// the final action, the input is seeked back to stopIndex if any seek
// occurred.
func (e *LexerActionExecutor) Execute(host Host, input CharStream, startIndex, stopIndex int) {
	if e == nil {
		return
	}
	requiresSeek := false
	for _, a := range e.Actions {
		act := a
		if act.Kind == ActionIndexedCustom {
			input.Seek(startIndex + act.Offset)
			requiresSeek = true
			act = *act.Inner
		} else if act.IsPositionDependent() {
			input.Seek(stopIndex)
			requiresSeek = true
		}
		executeOne(host, act)
	}
	if requiresSeek {
		input.Seek(stopIndex)
	}
}

func executeOne(host Host, a LexerAction) {
	switch a.Kind {
	case ActionChannel:
		host.SetChannel(a.Channel)
	case ActionCustom:
		host.Action(a.RuleIndex, a.ActionIndex)
	case ActionMode:
		host.SetMode(a.Mode)
	case ActionMore:
		host.More()
	case ActionPopMode:
		host.PopMode()
	case ActionPushMode:
		host.PushMode(a.Mode)
	case ActionSkip:
		host.Skip()
	case ActionType:
		host.SetType(a.Type)
	}
}
