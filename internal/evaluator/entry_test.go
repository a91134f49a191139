package evaluator

import "testing"

func TestEntryLifecycle(t *testing.T) {
	ent := newEntry[int](5, true)

	if !ent.isStub() {
		t.Error("Expected a fresh entry to be a stub")
	}
	if _, done := ent.doneNimber(); done {
		t.Error("Stub entry should not report a nimber")
	}
	if m, ok := ent.maxBound(); !ok || m != 5 {
		t.Errorf("Expected max bound 5, got %d (ok=%v)", m, ok)
	}

	ent.setProcessing([][]int{{1}, {2}})
	if ent.isStub() {
		t.Error("Entry should no longer be a stub after setProcessing")
	}
	if ent.stateTag() != stateProcessing {
		t.Error("Expected processing state")
	}

	ent.setDone(3)
	n, done := ent.doneNimber()
	if !done {
		t.Fatal("Expected done entry to report a nimber")
	}
	if n != 3 {
		t.Errorf("Expected nimber 3, got %d", n)
	}
}

func TestEntryPopOrderIsLIFO(t *testing.T) {
	ent := newEntry[int](0, false)
	ent.setProcessing([][]int{{1}, {2}, {3}})

	want := [][]int{{3}, {2}, {1}}
	for _, w := range want {
		parts, ok := ent.popPendingMove()
		if !ok {
			t.Fatal("Expected a pending move")
		}
		if len(parts) != 1 || parts[0] != w[0] {
			t.Errorf("Expected move %v, got %v", w, parts)
		}
	}

	if _, ok := ent.popPendingMove(); ok {
		t.Error("Expected no pending moves after draining the stack")
	}

	// Reinserted deferrals come back out before anything else would.
	ent.appendPendingMoves([][]int{{9}})
	parts, ok := ent.popPendingMove()
	if !ok || parts[0] != 9 {
		t.Errorf("Expected reinserted move 9, got %v (ok=%v)", parts, ok)
	}
}

func TestSmallestPossibleNimber(t *testing.T) {
	cases := []struct {
		impossible []int
		want       int
	}{
		{nil, 0},
		{[]int{0}, 1},
		{[]int{1}, 0},
		{[]int{0, 1, 2}, 3},
		{[]int{0, 2}, 1},
		{[]int{0, 1, 3, 4}, 2},
	}

	for _, tc := range cases {
		ent := newEntry[int](0, false)
		ent.setProcessing(nil)
		for _, n := range tc.impossible {
			ent.markImpossible(n)
		}
		if got := ent.smallestPossibleNimber(); got != tc.want {
			t.Errorf("Expected mex %d for %v, got %d", tc.want, tc.impossible, got)
		}
	}
}

func TestMarkImpossibleIsIdempotent(t *testing.T) {
	ent := newEntry[int](0, false)
	ent.setProcessing(nil)

	// Out-of-order and duplicated inserts must leave a sorted distinct set.
	for _, n := range []int{2, 0, 2, 1, 0} {
		ent.markImpossible(n)
	}
	if got := ent.smallestPossibleNimber(); got != 3 {
		t.Errorf("Expected mex 3, got %d", got)
	}
	if len(ent.impossible) != 3 {
		t.Errorf("Expected 3 distinct impossible nimbers, got %v", ent.impossible)
	}
}

func TestMutationOutsideProcessingIsIgnored(t *testing.T) {
	ent := newEntry[int](0, false)

	// A stub has no processing data to mutate.
	ent.markImpossible(1)
	if _, ok := ent.popPendingMove(); ok {
		t.Error("Stub entry should have no pending moves")
	}

	ent.setProcessing(nil)
	ent.setDone(0)

	ent.markImpossible(1)
	ent.appendPendingMoves([][]int{{1}})
	if _, ok := ent.popPendingMove(); ok {
		t.Error("Done entry should have no pending moves")
	}
}

func TestResolvingTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected setDone on a done entry to panic")
		}
	}()

	ent := newEntry[int](0, false)
	ent.setProcessing(nil)
	ent.setDone(1)
	ent.setDone(2)
}

func TestReinitializingDoneEntryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected setProcessing on a done entry to panic")
		}
	}()

	ent := newEntry[int](0, false)
	ent.setProcessing(nil)
	ent.setDone(1)
	ent.setProcessing(nil)
}
