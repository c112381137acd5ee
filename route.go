package antlr4

import (
	"math/rand"
	"sync"
)

// Bucket classifies a transition choice by how it relates to the rule
// currently being generated, driving Router's traversal priority.
const (
	Zero = iota
	NonRecursive
	Recursive
)

// Router learns, then replays, a shortest/cheapest path of transition
// choices through an Atn from a rule's start state to its stop state, for
// corpus generation (see corpus.go). It is driven by LearnRoutes
// (exploring edges as a generated sample is matched) and queried by
// route.
type Router struct {
	mutex          sync.Mutex
	stateToOptions map[int]*RouteOptions
	decoder        *SeedDecoder
	atn            *Atn
	startState     int
	stopState      int
	ruleIndex      int
	nextChoices    *Stack[int]
}

// NewRouter returns a router learning routes for ruleIndex, between
// startState and stopState of atn, replaying choices from decoder.
func NewRouter(ruleIndex, startState, stopState int, atn *Atn, decoder *SeedDecoder) *Router {
	return &Router{
		stateToOptions: map[int]*RouteOptions{},
		decoder:        decoder,
		atn:            atn,
		startState:     startState,
		stopState:      stopState,
		ruleIndex:      ruleIndex,
		nextChoices:    &Stack[int]{}}
}

// RouteOptions tracks, for one Atn state, which outgoing transition
// ("choice") leads where, which have not yet been explored, and which
// bucket each explored choice falls into.
type RouteOptions struct {
	choiceToNextState               []int
	notVisitedChoices                []int
	bucketToChoices                 [3][]int
	nonRecursiveChoiceToRuleIndices map[int]map[int]struct{}
}

// NewRouteOptions allocates an options record sized to state's outgoing
// transition count.
func (r *Router) NewRouteOptions(state int) *RouteOptions {
	numChoices := len(r.atn.States[state].Transitions)
	choiceToNextState := make([]int, numChoices)
	notVisitedChoices := make([]int, numChoices)
	for i := 0; i < numChoices; i++ {
		choiceToNextState[i] = -128
		notVisitedChoices[i] = i
	}
	return &RouteOptions{
		choiceToNextState:               choiceToNextState,
		notVisitedChoices:                notVisitedChoices,
		bucketToChoices:                 [3][]int{},
		nonRecursiveChoiceToRuleIndices: make(map[int]map[int]struct{}, numChoices)}
}

// RouteEdge is one explored step: taking choice from src arrived at dest,
// passing through the given rule-call stack (for recursion bucketing).
type RouteEdge struct {
	src    int
	dest   int
	choice int
	rules  []int
}

// LearnRoutes consumes RouteEdges discovered while matching generated
// samples, recording each state's first-seen choices. A nil RouteEdge is
// a barrier: once received, true is sent on ok to signal "caught up".
func (r *Router) LearnRoutes(queue <-chan *RouteEdge, ok chan<- bool) {
	for item := range queue {
		if item == nil {
			ok <- true
			continue
		}

		routeOptions, exists := r.stateToOptions[item.src]
		if !exists {
			routeOptions = r.NewRouteOptions(item.src)
			r.stateToOptions[item.src] = routeOptions
		}

		foundAt := -1
		for i := 0; i < len(routeOptions.notVisitedChoices); i++ {
			if routeOptions.notVisitedChoices[i] == item.choice {
				foundAt = i
				break
			}
		}
		if foundAt < 0 {
			continue
		}

		routeOptions.notVisitedChoices[foundAt] = routeOptions.notVisitedChoices[len(routeOptions.notVisitedChoices)-1]
		routeOptions.notVisitedChoices = routeOptions.notVisitedChoices[:len(routeOptions.notVisitedChoices)-1]

		bucket := Zero
		if len(item.rules) > 0 {
			bucket = NonRecursive
			for i := 0; i < len(item.rules); i++ {
				if item.rules[i] == r.ruleIndex {
					bucket = Recursive
					break
				}
			}
		}

		routeOptions.bucketToChoices[bucket] = append(routeOptions.bucketToChoices[bucket], item.choice)
		routeOptions.choiceToNextState[item.choice] = item.dest

		if bucket == NonRecursive {
			choiceToRules := make(map[int]struct{}, len(item.rules))
			for _, ruleIndex := range item.rules {
				choiceToRules[ruleIndex] = struct{}{}
			}
			routeOptions.nonRecursiveChoiceToRuleIndices[item.choice] = choiceToRules
		}
	}
}

// RouteNode is one step of a path under construction by PriorityQueue.
type RouteNode struct {
	depth        int
	state        int
	prevChoice   int
	prevNode     *RouteNode
	routeOptions *RouteOptions
}

// NewRouteNode builds a path node at state, reached via prevChoice from prevNode.
func (r *Router) NewRouteNode(state, prevChoice, depth int, prevNode *RouteNode) *RouteNode {
	routeOptions := r.stateToOptions[state]
	return &RouteNode{
		depth:        depth,
		state:        state,
		prevChoice:   prevChoice,
		prevNode:     prevNode,
		routeOptions: routeOptions}
}

// PriorityQueue orders path exploration: zero-cost paths depth-first,
// then the shallowest node with unexplored choices, then transitively
// recursive paths, then self-recursive paths — a bucketed stand-in for
// Dijkstra over an otherwise unweighted graph.
type PriorityQueue struct {
	Router                   *Router
	ZeroNodes                Stack[*RouteNode]
	TransitiveRecursiveNodes Queue[*RouteNode]
	SelfRecursiveNodes       Queue[*RouteNode]
	VisitedStates            map[int]struct{}
	BestNotVisitedNode       *RouteNode
	PRNGSource               rand.Source
}

// Evaluate expands node's unvisited outgoing choices into the queue's
// buckets and returns the next node to expand.
func (p *PriorityQueue) Evaluate(node *RouteNode, rootPathRules map[int]struct{}) *RouteNode {
	if len(node.routeOptions.notVisitedChoices) > 0 {
		if p.BestNotVisitedNode == nil || node.depth < p.BestNotVisitedNode.depth {
			p.BestNotVisitedNode = node
		}
	}

	seed := int(p.PRNGSource.Int63())
	for bucket := Zero; bucket <= Recursive; bucket++ {
		n := len(node.routeOptions.bucketToChoices[bucket])
		for i := seed; i < seed+n; i++ {
			nextChoice := node.routeOptions.bucketToChoices[bucket][i%n]
			nextState := node.routeOptions.choiceToNextState[nextChoice]
			if _, ok := p.VisitedStates[nextState]; !ok {
				nextNode := p.Router.NewRouteNode(nextState, nextChoice, node.depth+1, node)
				p.VisitedStates[nextState] = struct{}{}
				switch bucket {
				case Zero:
					p.ZeroNodes.Push(nextNode)
				case NonRecursive:
					isTransitiveRecursive := false
					for ruleIndex := range rootPathRules {
						if _, ok := node.routeOptions.nonRecursiveChoiceToRuleIndices[nextChoice][ruleIndex]; ok {
							isTransitiveRecursive = true
							break
						}
					}
					if isTransitiveRecursive {
						p.TransitiveRecursiveNodes.Enqueue(nextNode)
					} else {
						p.ZeroNodes.Push(nextNode)
					}
				case Recursive:
					p.SelfRecursiveNodes.Enqueue(nextNode)
				}
			}
		}
	}

	switch {
	case !p.ZeroNodes.IsEmpty():
		return p.ZeroNodes.Pop()
	case p.BestNotVisitedNode != nil:
		return p.BestNotVisitedNode
	case !p.TransitiveRecursiveNodes.IsEmpty():
		return p.TransitiveRecursiveNodes.Dequeue()
	case !p.SelfRecursiveNodes.IsEmpty():
		return p.SelfRecursiveNodes.Dequeue()
	}
	return nil
}

// NotVisitedNodeIfViable returns the best node with unvisited transitions
// if no zero-cost paths were found so far, otherwise nil.
func (p *PriorityQueue) NotVisitedNodeIfViable() *RouteNode {
	if p.ZeroNodes.IsEmpty() {
		return p.BestNotVisitedNode
	}
	return nil
}

// NewPriorityQueue starts a fresh search rooted at initialState.
func NewPriorityQueue(router *Router, initialState int, prngSource rand.Source) *PriorityQueue {
	return &PriorityQueue{
		Router:                   router,
		ZeroNodes:                Stack[*RouteNode]{},
		TransitiveRecursiveNodes: Queue[*RouteNode]{},
		SelfRecursiveNodes:       Queue[*RouteNode]{},
		VisitedStates:            map[int]struct{}{initialState: {}},
		BestNotVisitedNode:       nil,
		PRNGSource:               prngSource}
}

// route picks the next transition choice to take from state, replaying
// any already-queued choices from a previous search before running a new
// one.
func (r *Router) route(state int, rootPathRules map[int]struct{}) int {
	if !r.nextChoices.IsEmpty() {
		return r.nextChoices.Pop()
	}

	if _, ok := r.stateToOptions[state]; !ok {
		return int(r.decoder.prngSource.Int63()) % len(r.atn.States[state].Transitions)
	}

	priorityQueue := NewPriorityQueue(r, state, r.decoder.prngSource)
	node := r.NewRouteNode(state, -127, 0, nil)
	for node == nil || node.state != r.stopState {
		if notVisitedNode := priorityQueue.NotVisitedNodeIfViable(); notVisitedNode != nil {
			node = notVisitedNode
			break
		}
		node = priorityQueue.Evaluate(node, rootPathRules)
	}

	if node.state != r.stopState {
		r.nextChoices.Push(node.routeOptions.notVisitedChoices[int(r.decoder.prngSource.Int63())%len(node.routeOptions.notVisitedChoices)])
	}

	for node.prevNode != nil {
		r.nextChoices.Push(node.prevChoice)
		node = node.prevNode
	}

	return r.nextChoices.Pop()
}
