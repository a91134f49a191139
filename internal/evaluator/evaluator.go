package evaluator

import (
	"math"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/thyrook/grundy/internal/game"
)

// Unbounded asks for the exact nimber with no pruning bound.
const Unbounded = math.MaxInt

// Evaluator computes Sprague-Grundy nimbers via a memoized bounded mex
// search. A single worker drives the recursion; the cache and the cancel
// flag may be observed concurrently by a monitor, and the flag may be set
// from any goroutine to interrupt the computation.
type Evaluator[G game.Impartial[G]] struct {
	cache  *xsync.MapOf[G, *entry[G]]
	cancel atomic.Bool
	logger *zap.Logger
}

// New creates an empty evaluator that does not log.
func New[G game.Impartial[G]]() *Evaluator[G] {
	return NewWithLogger[G](zap.NewNop())
}

// NewWithLogger creates an empty evaluator logging through the given logger.
func NewWithLogger[G game.Impartial[G]](logger *zap.Logger) *Evaluator[G] {
	return &Evaluator[G]{
		cache:  xsync.NewMapOf[G, *entry[G]](),
		logger: logger,
	}
}

// Nimber computes the nimber of a game. ok=false means the computation was
// cancelled before a conclusion; Resume and call again to continue from the
// cached state.
func (e *Evaluator[G]) Nimber(g G) (int, bool) {
	return e.BoundedNimber(g, Unbounded)
}

// BoundedNimber computes the nimber of a game unless it can prove the nimber
// exceeds bound. ok=false means either "proven greater than bound" or
// "cancelled"; a caller that needs to distinguish checks the cancel flag.
func (e *Evaluator[G]) BoundedNimber(g G, bound int) (int, bool) {
	parts, ok := g.Parts()
	if !ok {
		parts = []G{g}
	}
	return e.BoundedNimberByParts(parts, bound)
}

// NimberByParts computes the nimber of the disjunctive sum of parts.
func (e *Evaluator[G]) NimberByParts(parts []G) (int, bool) {
	return e.BoundedNimberByParts(parts, Unbounded)
}

// BoundedNimberByParts computes the nimber of the disjunctive sum of parts,
// giving up once the result is proven to exceed bound.
//
// All parts but the last are resolved exactly; their XOR becomes a modifier
// folded into the last part's bound. XOR can only flip bits the modifier
// has set, so any last-part nimber within bound|modifier keeps the total
// within the caller's reach; a tighter bound would prune valid sums.
func (e *Evaluator[G]) BoundedNimberByParts(parts []G, bound int) (int, bool) {
	if len(parts) == 0 {
		return 0, true
	}

	modifier := 0
	for _, part := range parts[:len(parts)-1] {
		n, ok := e.boundedNimberOfPart(part, Unbounded)
		if !ok {
			return 0, false
		}
		modifier ^= n
	}

	last, ok := e.boundedNimberOfPart(parts[len(parts)-1], bound|modifier)
	if !ok {
		return 0, false
	}
	return modifier ^ last, true
}

// Stop raises the cancel flag. Every in-flight evaluation unwinds with
// ok=false at its next checkpoint, leaving all cached progress intact.
func (e *Evaluator[G]) Stop() {
	e.cancel.Store(true)
	e.logger.Debug("evaluation stop requested")
}

// Resume clears the cancel flag so subsequent calls continue from the
// cached state.
func (e *Evaluator[G]) Resume() {
	e.cancel.Store(false)
	e.logger.Debug("evaluation resumed")
}

// CancelFlag exposes the flag itself so callers can wire timers or signal
// handlers directly to it.
func (e *Evaluator[G]) CancelFlag() *atomic.Bool {
	return &e.cancel
}

// boundedNimberOfPart resolves a single atomic position under a bound.
func (e *Evaluator[G]) boundedNimberOfPart(part G, bound int) (int, bool) {
	ent, _ := e.cache.LoadOrCompute(part, func() *entry[G] {
		return newEntry[G](part.MaxNimber())
	})

	if n, done := ent.doneNimber(); done {
		return n, true
	}

	e.destub(part, ent)

	for {
		if e.cancel.Load() {
			return 0, false
		}

		candidate := ent.smallestPossibleNimber()
		if candidate > bound {
			return 0, false
		}

		ruledOut, ok := e.tryRuleOut(ent, candidate)
		if !ok {
			return 0, false
		}
		if !ruledOut {
			// No move reaches the candidate, so it is the mex of the
			// reachable nimbers.
			ent.setDone(candidate)
			return candidate, true
		}
	}
}

// tryRuleOut attempts to exhibit a move of the entry's position whose
// subgame-sum nimber equals target. Returns (true, true) when a witnessing
// move was found, (false, true) when no move can reach target, and
// (_, false) on cancellation.
func (e *Evaluator[G]) tryRuleOut(ent *entry[G], target int) (bool, bool) {
	if m, ok := ent.maxBound(); ok && m < target {
		// The game promised its nimber never exceeds m, so no move sum
		// lands on target and the search can conclude immediately.
		return false, true
	}

	var deferred [][]G
	ruledOut := false

	for {
		parts, ok := ent.popPendingMove()
		if !ok {
			break
		}

		if e.cancel.Load() {
			deferred = append(deferred, parts)
			ent.appendPendingMoves(deferred)
			return false, false
		}

		moveNimber, ok := e.BoundedNimberByParts(parts, target)
		if !ok {
			// Inconclusive under this target: the move's nimber exceeds
			// target, or the child was cancelled. A later round with a
			// larger target may still resolve it, so it must stay pending.
			deferred = append(deferred, parts)
			continue
		}

		ent.markImpossible(moveNimber)
		if moveNimber == target {
			ruledOut = true
			break
		}
	}

	ent.appendPendingMoves(deferred)

	// A deferral caused by cancellation is indistinguishable from one
	// caused by the bound, so a cancelled round never concludes.
	if e.cancel.Load() {
		return false, false
	}
	return ruledOut, true
}

// destub materializes and canonicalizes the move list of a freshly
// referenced position, moving its entry from stub to processing.
func (e *Evaluator[G]) destub(g G, ent *entry[G]) {
	if !ent.isStub() {
		return
	}
	ent.setProcessing(canonicalizeMoves[G](g.SplitMoves()))
}
