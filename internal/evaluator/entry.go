package evaluator

import (
	"sort"
	"sync"
)

// entryState tags the lifecycle phase of a cached position.
type entryState uint8

const (
	// stateStub means the position has been referenced but no moves have
	// been materialized yet.
	stateStub entryState = iota

	// stateProcessing means moves are materialized and the mex search is
	// under way.
	stateProcessing

	// stateDone means the nimber is final.
	stateDone
)

// entry holds the evaluation state of a single cached position. The worker
// and the progress monitor share entries through the cache, so every access
// goes through the mutex; the worker holds it only for the duration of one
// accessor and never across a recursive evaluation.
type entry[G comparable] struct {
	mu    sync.Mutex
	state entryState

	// Upper bound on the nimber, reported by the game at creation time
	maxNimber int
	hasMax    bool

	// Processing state
	pending    [][]G // LIFO stack of move alternatives not yet probed
	impossible []int // sorted distinct nimbers ruled out so far

	// Done state
	nimber int
}

// newEntry creates a stub entry carrying the game's max-nimber hint.
func newEntry[G comparable](maxNimber int, hasMax bool) *entry[G] {
	return &entry[G]{
		state:     stateStub,
		maxNimber: maxNimber,
		hasMax:    hasMax,
	}
}

// stateTag returns the current lifecycle phase.
func (e *entry[G]) stateTag() entryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// isStub reports whether no moves have been materialized yet.
func (e *entry[G]) isStub() bool {
	return e.stateTag() == stateStub
}

// maxBound returns the max-nimber hint, if the game provided one.
func (e *entry[G]) maxBound() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxNimber, e.hasMax
}

// doneNimber returns the final nimber, if the entry is done.
func (e *entry[G]) doneNimber() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateDone {
		return 0, false
	}
	return e.nimber, true
}

// setProcessing installs the materialized move list and moves the entry from
// stub to processing. Reinitializing a live entry is a programming error.
func (e *entry[G]) setProcessing(moves [][]G) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateStub {
		panic("evaluator: setProcessing on a non-stub entry")
	}
	e.state = stateProcessing
	e.pending = moves
	e.impossible = nil
}

// setDone records the final nimber. A done entry is immutable; resolving it
// twice is a programming error.
func (e *entry[G]) setDone(nimber int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateDone {
		panic("evaluator: setDone on an already resolved entry")
	}
	e.state = stateDone
	e.nimber = nimber
	e.pending = nil
	e.impossible = nil
}

// smallestPossibleNimber returns the mex of the ruled-out set: the first
// index whose value differs from it, or the set size when the prefix is
// gapless. Only meaningful while processing.
func (e *entry[G]) smallestPossibleNimber() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateProcessing {
		panic("evaluator: smallestPossibleNimber on a non-processing entry")
	}
	for i, v := range e.impossible {
		if v != i {
			return i
		}
	}
	return len(e.impossible)
}

// markImpossible records a nimber value this position cannot have. Idempotent;
// ignored outside the processing phase.
func (e *entry[G]) markImpossible(nimber int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateProcessing {
		return
	}
	i := sort.SearchInts(e.impossible, nimber)
	if i < len(e.impossible) && e.impossible[i] == nimber {
		return
	}
	e.impossible = append(e.impossible, 0)
	copy(e.impossible[i+1:], e.impossible[i:])
	e.impossible[i] = nimber
}

// popPendingMove removes and returns the most recently pushed unprobed move
// alternative. ok=false when none remain or the entry is not processing.
func (e *entry[G]) popPendingMove() ([]G, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateProcessing || len(e.pending) == 0 {
		return nil, false
	}
	last := len(e.pending) - 1
	parts := e.pending[last]
	e.pending[last] = nil
	e.pending = e.pending[:last]
	return parts, true
}

// appendPendingMoves pushes probed-but-inconclusive alternatives back onto
// the stack so a later round can retry them under a larger target.
func (e *entry[G]) appendPendingMoves(moves [][]G) {
	if len(moves) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateProcessing {
		return
	}
	e.pending = append(e.pending, moves...)
}
