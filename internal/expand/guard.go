package expand

import (
	"slices"
)

//go:generate go tool stringer -type=state -trimprefix=state -output=state_string.go

// state is the resolution state of an ancestor within one top-level document.
type state int

const (
	stateUnvisited state = iota
	stateInProgress
	stateResolved
	stateAborted
)

// DefaultCycleTolerance is how often one ancestor may be re-entered while
// resolving a single top-level document before the chain is treated as a
// cycle. Diamond inheritance can reach an ancestor more than once.
const DefaultCycleTolerance = 3

type entry struct {
	state state
	// count is the number of times resolution re-entered this ancestor
	// because it still had "$extend". Never decremented.
	count int
	// active is how many times the ancestor is on the current recursion
	// path, either being resolved or merged into a document whose
	// properties are still being expanded.
	active int
}

type enterResult int

const (
	entered enterResult = iota
	// cycleDetected: this entry exceeded the tolerance.
	cycleDetected
	// alreadyAborted: an earlier entry exceeded the tolerance.
	alreadyAborted
)

// guard bounds ancestor re-entry for one top-level document.
type guard struct {
	tolerance int
	index     map[string]*entry
	stack     []string
}

func newGuard(tolerance int) *guard {
	if tolerance <= 0 {
		tolerance = DefaultCycleTolerance
	}

	return &guard{
		tolerance: tolerance,
		index:     make(map[string]*entry),
	}
}

// reset clears all state. Called for every top-level document.
func (g *guard) reset() {
	clear(g.index)
	g.stack = g.stack[:0]
}

// enter records that the ancestor under key is on the recursion path. When
// resolving is true the ancestor still has "$extend" and the re-entry counts
// towards the tolerance. On success path is pushed on the stack and the
// caller must call leave.
func (g *guard) enter(key, path string, resolving bool) enterResult {
	e, ok := g.index[key]
	if !ok {
		e = &entry{}
		g.index[key] = e
	}

	if e.state == stateAborted {
		return alreadyAborted
	}

	if resolving {
		e.count++
		if e.count > g.tolerance {
			e.state = stateAborted
			return cycleDetected
		}

		e.state = stateInProgress
	}

	if e.active >= g.tolerance {
		return cycleDetected
	}

	e.active++
	g.stack = append(g.stack, path)

	return entered
}

// leave undoes a successful enter. resolved marks an ancestor whose
// "$extend" chain finished without a cycle.
func (g *guard) leave(key string, resolved bool) {
	if len(g.stack) > 0 {
		g.stack = g.stack[:len(g.stack)-1]
	}

	e, ok := g.index[key]
	if !ok {
		return
	}

	if e.active > 0 {
		e.active--
	}

	if resolved && e.state != stateAborted {
		e.state = stateResolved
	}
}

func (g *guard) stateOf(key string) state {
	if e, ok := g.index[key]; ok {
		return e.state
	}

	return stateUnvisited
}

// trace returns a copy of the inheritance stack.
func (g *guard) trace() []string {
	return slices.Clone(g.stack)
}
