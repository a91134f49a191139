package evaluator

import (
	"testing"

	"github.com/thyrook/grundy/internal/game"
)

// ladder is a three-rung chain: rung 0 moves to rung 1, rung 1 to rung 2,
// rung 2 is terminal. Rung 0 additionally publishes a max nimber of zero,
// which is consistent: its only successor has nimber 1, so its mex is 0.
type ladder struct {
	Rung int
}

func (l ladder) SplitMoves() [][]ladder {
	if l.Rung >= 2 {
		return nil
	}
	return [][]ladder{{{Rung: l.Rung + 1}}}
}

func (l ladder) MaxNimber() (int, bool) {
	if l.Rung == 0 {
		return 0, true
	}
	return 0, false
}

func (l ladder) Parts() ([]ladder, bool) {
	return nil, false
}

func TestMaxNimberZeroWithMoves(t *testing.T) {
	eval := New[ladder]()

	// Rung 2 terminal -> 0, rung 1 -> mex({0}) = 1, rung 0 -> mex({1}) = 0.
	wants := map[int]int{0: 0, 1: 1, 2: 0}
	for rung, want := range wants {
		n, ok := eval.Nimber(ladder{Rung: rung})
		if !ok {
			t.Fatalf("Nimber(rung %d) was cancelled unexpectedly", rung)
		}
		if n != want {
			t.Errorf("Expected nimber %d for rung %d, got %d", want, rung, n)
		}
	}
}

// twinHeap is a nim heap that, in its combined form, decomposes into two
// identical single heaps. The decomposed sum XORs to zero.
type twinHeap struct {
	Stones   int
	Combined bool
}

func (h twinHeap) SplitMoves() [][]twinHeap {
	moves := make([][]twinHeap, 0, h.Stones)
	for k := 1; k <= h.Stones; k++ {
		moves = append(moves, []twinHeap{{Stones: h.Stones - k}})
	}
	return moves
}

func (h twinHeap) MaxNimber() (int, bool) {
	return h.Stones, true
}

func (h twinHeap) Parts() ([]twinHeap, bool) {
	if !h.Combined {
		return nil, false
	}
	single := twinHeap{Stones: h.Stones}
	return []twinHeap{single, single}, true
}

func TestPartsDecomposition(t *testing.T) {
	eval := New[twinHeap]()

	single, ok := eval.Nimber(twinHeap{Stones: 7})
	if !ok {
		t.Fatal("Nimber(single heap) was cancelled unexpectedly")
	}
	if single != 7 {
		t.Errorf("Expected nimber 7 for a single heap, got %d", single)
	}

	combined, ok := eval.Nimber(twinHeap{Stones: 7, Combined: true})
	if !ok {
		t.Fatal("Nimber(combined) was cancelled unexpectedly")
	}
	if combined != 0 {
		t.Errorf("Expected two equal heaps to XOR to 0, got %d", combined)
	}
}

func TestBoundedNimberGivesUpAboveBound(t *testing.T) {
	eval := New[game.Kayles]()

	// kayles(2) has nimber 2, so a bound of 1 cannot be met.
	if _, ok := eval.BoundedNimber(game.NewKayles(2), 1); ok {
		t.Error("Expected BoundedNimber to give up when the nimber exceeds the bound")
	}
	if eval.CancelFlag().Load() {
		t.Error("Giving up on a bound must not involve the cancel flag")
	}

	// The same evaluator still resolves the position exactly.
	n, ok := eval.Nimber(game.NewKayles(2))
	if !ok {
		t.Fatal("Nimber(2) was cancelled unexpectedly")
	}
	if n != 2 {
		t.Errorf("Expected nimber 2, got %d", n)
	}
}
