package evaluator

// Stats is a point-in-time census of the cache by entry lifecycle phase.
type Stats struct {
	Stubs      int
	Processing int
	Done       int
}

// Total returns the number of cached positions.
func (s Stats) Total() int {
	return s.Stubs + s.Processing + s.Done
}

// ResolvedPosition pairs a position with its final nimber.
type ResolvedPosition[G comparable] struct {
	Position G
	Nimber   int
}

// CacheSize returns the number of positions the evaluator has seen.
func (e *Evaluator[G]) CacheSize() int {
	return e.cache.Size()
}

// Stats counts the cached entries in each lifecycle phase. Safe to call
// from a monitor goroutine while the worker computes; it only reads each
// entry's tag.
func (e *Evaluator[G]) Stats() Stats {
	var s Stats
	e.cache.Range(func(_ G, ent *entry[G]) bool {
		switch ent.stateTag() {
		case stateStub:
			s.Stubs++
		case stateProcessing:
			s.Processing++
		case stateDone:
			s.Done++
		}
		return true
	})
	return s
}

// DoneNimbers lists every position whose nimber is final.
func (e *Evaluator[G]) DoneNimbers() []ResolvedPosition[G] {
	var resolved []ResolvedPosition[G]
	e.cache.Range(func(g G, ent *entry[G]) bool {
		if n, done := ent.doneNimber(); done {
			resolved = append(resolved, ResolvedPosition[G]{Position: g, Nimber: n})
		}
		return true
	})
	return resolved
}
